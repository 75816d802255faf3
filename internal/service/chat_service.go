package service

import (
	"context"
	"fmt"
	"strings"

	"etshoes/internal/assistant"
	"etshoes/internal/model"
	"etshoes/internal/repository"
)

const (
	chatProductLimit = 10
	noProductsText   = "No products available."
	// NoResultsReply is returned when the model answers with empty text.
	NoResultsReply = "Sorry, no results found."
)

// ChatService answers shopper questions with product recommendations.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

type chatService struct {
	productRepo repository.ProductRepository
	completer   assistant.Completer
}

// NewChatService creates a new chat service.
func NewChatService(productRepo repository.ProductRepository, completer assistant.Completer) ChatService {
	return &chatService{productRepo: productRepo, completer: completer}
}

// BuildChatPrompt renders the single-turn prompt sent to the model.
func BuildChatPrompt(message string, products []model.Product) string {
	list := noProductsText
	if len(products) > 0 {
		lines := make([]string, len(products))
		for i, p := range products {
			lines[i] = fmt.Sprintf("• %s — /product/%s", p.Name, p.ID)
		}
		list = strings.Join(lines, "\n")
	}

	return fmt.Sprintf("\nUser query: \"%s\"\n\nAvailable products:\n%s\n\n"+
		"Please respond with relevant shoe product recommendations and include product page links (format links like /product/{id}).\n",
		message, list)
}

// Reply asks the model once. Each call is independent of earlier ones.
func (s *chatService) Reply(ctx context.Context, message string) (string, error) {
	products, err := s.productRepo.ListLimit(ctx, chatProductLimit)
	if err != nil {
		return "", fmt.Errorf("list chat products: %w", err)
	}

	text, err := s.completer.Complete(ctx, BuildChatPrompt(message, products))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return NoResultsReply, nil
	}
	return text, nil
}
