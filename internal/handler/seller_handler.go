package handler

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"etshoes/internal/errors"
	"etshoes/internal/market"
	"etshoes/internal/service"
	"etshoes/internal/session"
)

// SellerHandler handles the seller workspace.
type SellerHandler struct {
	sellerService service.SellerService
	offerService  service.OfferService
}

// NewSellerHandler creates a new seller handler.
func NewSellerHandler(sellerService service.SellerService, offerService service.OfferService) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
		offerService:  offerService,
	}
}

// SubmitOffersRequest publishes one product variant at one price across
// several sizes. Price, sizes and stocks accept numbers or numeric strings.
type SubmitOffersRequest struct {
	ProductID string                 `json:"product_id"`
	VariantID string                 `json:"variant_id"`
	Price     interface{}            `json:"price" swaggertype:"string"`
	Sizes     []interface{}          `json:"sizes" swaggertype:"array,integer"`
	Stocks    map[string]interface{} `json:"stocks" swaggertype:"object"`
}

// UpdateOfferRequest changes the price and stock of one offer.
type UpdateOfferRequest struct {
	Price decimal.Decimal `json:"price" swaggertype:"string"`
	Stock int             `json:"stock" validate:"min=0"`
}

// SubmitOffersResponse reports saved and failed sizes.
type SubmitOffersResponse struct {
	service.SubmitResult
	Error string `json:"error,omitempty"`
}

func parseOptionalUUID(raw, label string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + label + " ID",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// toSubmission coerces the loosely typed form values.
func (r SubmitOffersRequest) toSubmission() (market.Submission, error) {
	productID, err := parseOptionalUUID(r.ProductID, "product")
	if err != nil {
		return market.Submission{}, err
	}
	variantID, err := parseOptionalUUID(r.VariantID, "variant")
	if err != nil {
		return market.Submission{}, err
	}

	sub := market.Submission{
		ProductID: productID,
		VariantID: variantID,
		Price:     decimal.Zero,
		Stocks:    make(map[int]string, len(r.Stocks)),
	}
	if raw := strings.TrimSpace(cast.ToString(r.Price)); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return market.Submission{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "price must be a number",
				Code:  "VALIDATION_ERROR",
			})
		}
		sub.Price = price
	}
	sizes, err := cast.ToIntSliceE(r.Sizes)
	if err != nil {
		return market.Submission{}, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "sizes must be numbers",
			Code:  "VALIDATION_ERROR",
		})
	}
	sub.Sizes = sizes
	for key, value := range r.Stocks {
		size, err := cast.ToIntE(key)
		if err != nil {
			continue
		}
		sub.Stocks[size] = cast.ToString(value)
	}
	return sub, nil
}

// Eligibility godoc
// @Summary Offer publishing eligibility
// @Description Re-reads the seller's status and verification from storage.
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Eligibility
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /seller/eligibility [get]
func (h *SellerHandler) Eligibility(c echo.Context) error {
	sess, ok := session.Current(c.Request().Context())
	if !ok {
		return session.Unauthenticated()
	}

	eligibility, err := h.sellerService.Eligibility(c.Request().Context(), sess.UserID)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, eligibility)
}

// ListOffers godoc
// @Summary List own offers
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SellerDashboard
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seller/offers [get]
func (h *SellerHandler) ListOffers(c echo.Context) error {
	sess, ok := session.Current(c.Request().Context())
	if !ok {
		return session.Unauthenticated()
	}

	dashboard, err := h.offerService.ListMine(c.Request().Context(), sess.UserID)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, dashboard)
}

// SubmitOffers godoc
// @Summary Publish offers for several sizes
// @Description Saves one offer per selected size. Sizes that fail are reported with 207 while the others stay saved.
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SubmitOffersRequest true "Offer form"
// @Success 201 {object} SubmitOffersResponse
// @Success 207 {object} SubmitOffersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /seller/offers [post]
func (h *SellerHandler) SubmitOffers(c echo.Context) error {
	sess, ok := session.Current(c.Request().Context())
	if !ok {
		return session.Unauthenticated()
	}

	var req SubmitOffersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	sub, err := req.toSubmission()
	if err != nil {
		return err
	}

	result, err := h.offerService.Submit(c.Request().Context(), sess.UserID, sub)
	if err != nil {
		var batchErr *errors.BatchError
		if stderrors.As(err, &batchErr) && result != nil {
			return c.JSON(http.StatusMultiStatus, SubmitOffersResponse{
				SubmitResult: *result,
				Error:        batchErr.Error(),
			})
		}
		return handleServiceError(err)
	}

	return c.JSON(http.StatusCreated, SubmitOffersResponse{SubmitResult: *result})
}

// UpdateOffer godoc
// @Summary Update own offer
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body UpdateOfferRequest true "New price and stock"
// @Success 200 {object} model.Offer
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /seller/offers/{id} [put]
func (h *SellerHandler) UpdateOffer(c echo.Context) error {
	sess, ok := session.Current(c.Request().Context())
	if !ok {
		return session.Unauthenticated()
	}

	offerID, err := parseUUIDParam(c, "id", "offer")
	if err != nil {
		return err
	}

	var req UpdateOfferRequest
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

	offer, err := h.offerService.Update(c.Request().Context(), sess.UserID, offerID, req.Price, req.Stock)
	if err != nil {
		return handleServiceError(err)
	}

	return c.JSON(http.StatusOK, offer)
}

// DeleteOffer godoc
// @Summary Delete own offer
// @Tags seller
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} session.UnauthenticatedResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /seller/offers/{id} [delete]
func (h *SellerHandler) DeleteOffer(c echo.Context) error {
	sess, ok := session.Current(c.Request().Context())
	if !ok {
		return session.Unauthenticated()
	}

	offerID, err := parseUUIDParam(c, "id", "offer")
	if err != nil {
		return err
	}

	if err := h.offerService.Delete(c.Request().Context(), sess.UserID, offerID); err != nil {
		return handleServiceError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
