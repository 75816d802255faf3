package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"etshoes/internal/errors"
	"etshoes/internal/service"
)

// SeedHandler handles catalog import endpoints.
type SeedHandler struct {
	seedService service.SeedService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seedService service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// ImportProducts godoc
// @Summary Import products from CSV
// @Description Columns: name, brand, description, color, images ("|" separated URLs). Invalid rows are skipped; existing products are left untouched.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Product CSV"
// @Success 200 {object} service.SeedResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed/products [post]
func (h *SeedHandler) ImportProducts(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "a CSV file is required",
			Code:  "INVALID_REQUEST",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "failed to read upload",
			Code:  "INVALID_REQUEST",
		})
	}
	defer f.Close()

	result, err := h.seedService.ImportProducts(c.Request().Context(), f)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, result)
}
