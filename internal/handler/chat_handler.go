package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"etshoes/internal/service"
)

const (
	chatEmptyReply = "Please send a message."
	chatErrorReply = "Server error. Please try again later."
)

// ChatHandler handles the shopping assistant.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// ChatRequest is one shopper message.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant reply. Errors use the same shape.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// Chat godoc
// @Summary Ask the shopping assistant
// @Description Stateless: every message is answered on its own.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ChatResponse
// @Failure 500 {object} ChatResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, ChatResponse{Reply: chatEmptyReply})
	}

	reply, err := h.chatService.Reply(c.Request().Context(), req.Message)
	if err != nil {
		zap.L().Error("chat reply failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ChatResponse{Reply: chatErrorReply})
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
