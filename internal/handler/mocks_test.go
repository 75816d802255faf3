package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"etshoes/internal/market"
	"etshoes/internal/model"
	"etshoes/internal/service"
	"etshoes/internal/session"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// newContext builds a request context, optionally carrying a session.
func newContext(e *echo.Echo, method, target, body string, sess *session.Session) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if sess != nil {
		req = req.WithContext(session.WithSession(req.Context(), *sess))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// statusOf returns the status code carried by an echo error, or 0.
func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) RegisterSeller(ctx context.Context, in service.RegisterSellerInput) (*model.Profile, *model.Seller, error) {
	args := m.Called(ctx, in)
	var p *model.Profile
	var s *model.Seller
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Profile)
	}
	if args.Get(1) != nil {
		s = args.Get(1).(*model.Seller)
	}
	return p, s, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LoginResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken, accessTokenID string) error {
	return m.Called(ctx, refreshToken, accessTokenID).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, password, confirm string) error {
	return m.Called(ctx, token, password, confirm).Error(0)
}

func (m *MockAuthService) Profile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockSellerService struct {
	mock.Mock
}

func (m *MockSellerService) List(ctx context.Context, filter, query string) ([]model.Seller, service.SellerStats, error) {
	args := m.Called(ctx, filter, query)
	var sellers []model.Seller
	if args.Get(0) != nil {
		sellers = args.Get(0).([]model.Seller)
	}
	return sellers, args.Get(1).(service.SellerStats), args.Error(2)
}

func (m *MockSellerService) ToggleStatus(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seller), args.Error(1)
}

func (m *MockSellerService) ToggleVerified(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seller), args.Error(1)
}

func (m *MockSellerService) SetStatus(ctx context.Context, id uuid.UUID, status model.SellerStatus) (*model.Seller, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seller), args.Error(1)
}

func (m *MockSellerService) ExportCSV(ctx context.Context, w io.Writer, filter, query string) error {
	args := m.Called(ctx, w, filter, query)
	if s, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, s)
	}
	return args.Error(1)
}

func (m *MockSellerService) Eligibility(ctx context.Context, sellerID uuid.UUID) (*service.Eligibility, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Eligibility), args.Error(1)
}

type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) ProductOffers(ctx context.Context, productID uuid.UUID) (market.Grouped, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(market.Grouped), args.Error(1)
}

func (m *MockOfferService) Submit(ctx context.Context, sellerID uuid.UUID, sub market.Submission) (*service.SubmitResult, error) {
	args := m.Called(ctx, sellerID, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockOfferService) ListMine(ctx context.Context, sellerID uuid.UUID) (*service.SellerDashboard, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SellerDashboard), args.Error(1)
}

func (m *MockOfferService) Update(ctx context.Context, sellerID, offerID uuid.UUID, price decimal.Decimal, stock int) (*model.Offer, error) {
	args := m.Called(ctx, sellerID, offerID, price, stock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferService) Delete(ctx context.Context, sellerID, offerID uuid.UUID) error {
	return m.Called(ctx, sellerID, offerID).Error(0)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, query string) ([]model.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, in service.CreateProductInput) (*model.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) ListVariants(ctx context.Context) ([]model.Variant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Variant), args.Error(1)
}

func (m *MockCatalogService) VariantsByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Variant), args.Error(1)
}

func (m *MockCatalogService) CreateVariant(ctx context.Context, in service.CreateVariantInput) (*model.Variant, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Variant), args.Error(1)
}

func (m *MockCatalogService) Shop(ctx context.Context, query string, order service.ShopSort) ([]service.ShopProduct, error) {
	args := m.Called(ctx, query, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.ShopProduct), args.Error(1)
}

func (m *MockCatalogService) ProductDetail(ctx context.Context, id uuid.UUID, key market.SortKey) (*service.ProductDetail, error) {
	args := m.Called(ctx, id, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductDetail), args.Error(1)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) UploadImages(ctx context.Context, files []service.UploadFile) (*service.UploadResult, error) {
	args := m.Called(ctx, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Reply(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

type MockSeedService struct {
	mock.Mock
}

func (m *MockSeedService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockSeedService) ImportProducts(ctx context.Context, r io.Reader) (*service.SeedResult, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SeedResult), args.Error(1)
}
