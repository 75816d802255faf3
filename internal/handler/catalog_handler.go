package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"etshoes/internal/market"
	"etshoes/internal/model"
	"etshoes/internal/service"
)

// CatalogHandler serves the public shop.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// OfferView is an admitted offer as a buyer sees it. The phone is always in
// the payload; PhoneMasked and PhoneRevealSeconds only drive the reveal button.
type OfferView struct {
	model.Offer
	Phone              string `json:"phone"`
	PhoneMasked        string `json:"phone_masked"`
	WhatsApp           string `json:"whatsapp"`
	WhatsAppURL        string `json:"whatsapp_url,omitempty"`
	PhoneRevealSeconds int    `json:"phone_reveal_seconds"`
}

// VariantView is a variant with its offers in display order.
type VariantView struct {
	model.Variant
	Offers []OfferView `json:"offers"`
}

// ProductDetailResponse is the product page.
type ProductDetailResponse struct {
	Product  *model.Product      `json:"product"`
	Variants []VariantView       `json:"variants"`
	Stats    market.ProductStats `json:"stats"`
	Sort     market.SortKey      `json:"sort"`
}

func newOfferView(o model.Offer) OfferView {
	contact := market.ParseContact(o.ContactInfo)
	return OfferView{
		Offer:              o,
		Phone:              contact.Phone,
		PhoneMasked:        market.MaskPhone(contact.Phone),
		WhatsApp:           contact.WhatsApp,
		WhatsAppURL:        market.WhatsAppLink(contact.WhatsApp),
		PhoneRevealSeconds: int(market.RevealWindow.Seconds()),
	}
}

func newProductDetailResponse(d *service.ProductDetail) ProductDetailResponse {
	resp := ProductDetailResponse{
		Product:  d.Product,
		Variants: make([]VariantView, len(d.Variants)),
		Stats:    d.Stats,
		Sort:     d.SortKey,
	}
	for i, v := range d.Variants {
		views := make([]OfferView, len(v.Offers))
		for j, o := range v.Offers {
			views[j] = newOfferView(o)
		}
		resp.Variants[i] = VariantView{Variant: v.Variant, Offers: views}
	}
	return resp
}

// Shop godoc
// @Summary List shop products
// @Description Stats only count offers of active, verified sellers.
// @Tags shop
// @Produce json
// @Param q query string false "Search name or brand"
// @Param sort query string false "newest, price or popular"
// @Success 200 {array} service.ShopProduct
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *CatalogHandler) Shop(c echo.Context) error {
	products, err := h.catalogService.Shop(c.Request().Context(), c.QueryParam("q"), service.ParseShopSort(c.QueryParam("sort")))
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, products)
}

// ProductDetail godoc
// @Summary Product page
// @Description Variants with offers from active, verified sellers only.
// @Tags shop
// @Produce json
// @Param id path string true "Product ID"
// @Param sort query string false "price, size or stock"
// @Success 200 {object} ProductDetailResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) ProductDetail(c echo.Context) error {
	id, err := parseUUIDParam(c, "id", "product")
	if err != nil {
		return err
	}

	detail, err := h.catalogService.ProductDetail(c.Request().Context(), id, market.ParseSortKey(c.QueryParam("sort")))
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, newProductDetailResponse(detail))
}

// ProductVariants godoc
// @Summary Variants of a product
// @Tags shop
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {array} model.Variant
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products/{id}/variants [get]
func (h *CatalogHandler) ProductVariants(c echo.Context) error {
	id, err := parseUUIDParam(c, "id", "product")
	if err != nil {
		return err
	}

	variants, err := h.catalogService.VariantsByProduct(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, variants)
}
