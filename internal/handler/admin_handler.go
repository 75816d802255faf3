package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"etshoes/internal/errors"
	"etshoes/internal/model"
	"etshoes/internal/service"
)

// AdminHandler handles the admin panel: sellers, products, variants and image uploads.
type AdminHandler struct {
	sellerService  service.SellerService
	catalogService service.CatalogService
	mediaService   service.MediaService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	sellerService service.SellerService,
	catalogService service.CatalogService,
	mediaService service.MediaService,
) *AdminHandler {
	return &AdminHandler{
		sellerService:  sellerService,
		catalogService: catalogService,
		mediaService:   mediaService,
	}
}

// SellerListResponse is the admin seller table with its counters.
type SellerListResponse struct {
	Sellers []model.Seller      `json:"sellers"`
	Stats   service.SellerStats `json:"stats"`
}

// SetStatusRequest sets a seller status explicitly.
type SetStatusRequest struct {
	Status model.SellerStatus `json:"status" validate:"required,oneof=pending active blocked"`
}

// CreateProductRequest represents a product creation request.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Brand       string `json:"brand" validate:"required"`
	Description string `json:"description"`
}

// CreateVariantRequest represents a variant creation request.
type CreateVariantRequest struct {
	ProductID string   `json:"product_id" validate:"required,uuid"`
	Color     string   `json:"color" validate:"required"`
	Images    []string `json:"images" validate:"required,min=1,dive,required,url"`
}

// ListSellers godoc
// @Summary List sellers
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "all, active, pending or blocked"
// @Param q query string false "Search shop name, city or phone"
// @Success 200 {object} SellerListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/sellers [get]
func (h *AdminHandler) ListSellers(c echo.Context) error {
	sellers, stats, err := h.sellerService.List(c.Request().Context(), c.QueryParam("status"), c.QueryParam("q"))
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, SellerListResponse{Sellers: sellers, Stats: stats})
}

// ToggleSellerStatus godoc
// @Summary Block an active seller or activate any other
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Seller ID"
// @Success 200 {object} model.Seller
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/sellers/{id}/toggle-status [post]
func (h *AdminHandler) ToggleSellerStatus(c echo.Context) error {
	id, err := parseUUIDParam(c, "id", "seller")
	if err != nil {
		return err
	}

	seller, err := h.sellerService.ToggleStatus(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, seller)
}

// SetSellerStatus godoc
// @Summary Set a seller status
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Seller ID"
// @Param request body SetStatusRequest true "New status"
// @Success 200 {object} model.Seller
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/sellers/{id}/status [put]
func (h *AdminHandler) SetSellerStatus(c echo.Context) error {
	id, err := parseUUIDParam(c, "id", "seller")
	if err != nil {
		return err
	}

	var req SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	seller, err := h.sellerService.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, seller)
}

// ToggleSellerVerified godoc
// @Summary Flip a seller's verification
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Seller ID"
// @Success 200 {object} model.Seller
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/sellers/{id}/toggle-verified [post]
func (h *AdminHandler) ToggleSellerVerified(c echo.Context) error {
	id, err := parseUUIDParam(c, "id", "seller")
	if err != nil {
		return err
	}

	seller, err := h.sellerService.ToggleVerified(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, seller)
}

// ExportSellers godoc
// @Summary Export sellers as CSV
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param status query string false "all, active, pending or blocked"
// @Param q query string false "Search shop name, city or phone"
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Router /admin/sellers/export.csv [get]
func (h *AdminHandler) ExportSellers(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.sellerService.ExportCSV(c.Request().Context(), &buf, c.QueryParam("status"), c.QueryParam("q")); err != nil {
		return handleServiceError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="sellers.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ListProducts godoc
// @Summary List products
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search name, brand or description"
// @Success 200 {array} model.Product
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/products [get]
func (h *AdminHandler) ListProducts(c echo.Context) error {
	products, err := h.catalogService.ListProducts(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, products)
}

// CreateProduct godoc
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product data"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/products [post]
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	product, err := h.catalogService.CreateProduct(c.Request().Context(), service.CreateProductInput{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
	})
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

// DeleteProduct godoc
// @Summary Delete a product with its variants and offers
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := parseUUIDParam(c, "id", "product")
	if err != nil {
		return err
	}

	if err := h.catalogService.DeleteProduct(c.Request().Context(), id); err != nil {
		return handleServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListVariants godoc
// @Summary List variants
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Variant
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/variants [get]
func (h *AdminHandler) ListVariants(c echo.Context) error {
	variants, err := h.catalogService.ListVariants(c.Request().Context())
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, variants)
}

// CreateVariant godoc
// @Summary Create a variant
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateVariantRequest true "Variant data"
// @Success 201 {object} model.Variant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/variants [post]
func (h *AdminHandler) CreateVariant(c echo.Context) error {
	var req CreateVariantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	variant, err := h.catalogService.CreateVariant(c.Request().Context(), service.CreateVariantInput{
		ProductID: uuid.MustParse(req.ProductID),
		Color:     strings.TrimSpace(req.Color),
		Images:    req.Images,
	})
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusCreated, variant)
}

// UploadImages godoc
// @Summary Upload variant images
// @Description Uploads up to 10 images. Files over 5MB are skipped and reported.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Images"
// @Success 200 {object} service.UploadResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/uploads [post]
func (h *AdminHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid multipart form",
			Code:  "INVALID_REQUEST",
		})
	}

	headers := form.File["files"]
	files := make([]service.UploadFile, len(headers))
	for i, fh := range headers {
		files[i] = service.UploadFile{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		}
	}

	result, err := h.mediaService.UploadImages(c.Request().Context(), files)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, result)
}
