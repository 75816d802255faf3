package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/market"
	"etshoes/internal/model"
	"etshoes/internal/service"
)

func TestNewOfferView(t *testing.T) {
	view := newOfferView(model.Offer{
		Size:        41,
		Price:       decimal.NewFromInt(400),
		ContactInfo: "Phone: 0911223344, WhatsApp: 0922334455",
	})

	assert.Equal(t, "0911223344", view.Phone)
	assert.Equal(t, "09******44", view.PhoneMasked)
	assert.Equal(t, "0922334455", view.WhatsApp)
	assert.Equal(t, "https://wa.me/0922334455", view.WhatsAppURL)
	assert.Equal(t, 30, view.PhoneRevealSeconds)
}

func TestNewOfferView_NoContact(t *testing.T) {
	view := newOfferView(model.Offer{})

	assert.Empty(t, view.Phone)
	assert.Empty(t, view.WhatsAppURL)
	assert.Contains(t, mustJSON(t, view), `"phone_reveal_seconds":30`)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestCatalogHandler_ProductDetail(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()

	tests := []struct {
		name       string
		param      string
		query      string
		setupMock  func(*MockCatalogService)
		wantStatus int
	}{
		{
			name:       "invalid id",
			param:      "x",
			setupMock:  func(m *MockCatalogService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "unknown product",
			param: productID.String(),
			setupMock: func(m *MockCatalogService) {
				m.On("ProductDetail", mock.Anything, productID, market.SortByPrice).Return(nil, apperrors.ErrProductNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:  "sorted by stock",
			param: productID.String(),
			query: "?sort=stock",
			setupMock: func(m *MockCatalogService) {
				m.On("ProductDetail", mock.Anything, productID, market.SortByStock).Return(&service.ProductDetail{
					Product: &model.Product{ID: productID, Name: "Air Runner"},
					Variants: []service.VariantOffers{{
						Variant: model.Variant{ID: variantID, ProductID: productID, Color: "Black"},
						Offers: []model.Offer{{
							VariantID:   variantID,
							Size:        41,
							Price:       decimal.NewFromInt(400),
							Stock:       2,
							ContactInfo: "Phone: 0911223344, WhatsApp: 0911223344",
						}},
					}},
					SortKey: market.SortByStock,
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogService := new(MockCatalogService)
			tt.setupMock(catalogService)
			h := NewCatalogHandler(catalogService)

			c, rec := newContext(newEcho(), http.MethodGet, "/"+tt.query, "", nil)
			c.SetParamNames("id")
			c.SetParamValues(tt.param)
			err := h.ProductDetail(c)

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, tt.wantStatus, statusOf(err))
				return
			}
			require.NoError(t, err)

			var resp ProductDetailResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Len(t, resp.Variants, 1)
			require.Len(t, resp.Variants[0].Offers, 1)
			assert.Equal(t, "https://wa.me/0911223344", resp.Variants[0].Offers[0].WhatsAppURL)
			assert.Equal(t, market.SortByStock, resp.Sort)
			catalogService.AssertExpectations(t)
		})
	}
}

func TestCatalogHandler_Shop(t *testing.T) {
	catalogService := new(MockCatalogService)
	catalogService.On("Shop", mock.Anything, "nike", service.ShopSortPopular).Return([]service.ShopProduct{
		{Product: model.Product{Name: "Air Runner", Brand: "Nike"}},
	}, nil)
	h := NewCatalogHandler(catalogService)

	c, rec := newContext(newEcho(), http.MethodGet, "/api/products?q=nike&sort=popular", "", nil)
	require.NoError(t, h.Shop(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Air Runner")
	catalogService.AssertExpectations(t)
}

func TestCatalogHandler_ProductVariants(t *testing.T) {
	productID := uuid.New()
	catalogService := new(MockCatalogService)
	catalogService.On("VariantsByProduct", mock.Anything, productID).Return([]model.Variant{}, nil)
	h := NewCatalogHandler(catalogService)

	c, rec := newContext(newEcho(), http.MethodGet, "/", "", nil)
	c.SetParamNames("id")
	c.SetParamValues(productID.String())

	require.NoError(t, h.ProductVariants(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
