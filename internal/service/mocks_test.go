package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"etshoes/internal/model"
	"etshoes/internal/repository"
)

// MockProfileRepository is a mock implementation of ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
	Sellers *MockSellerRepository
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockProfileRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, profiles repository.ProfileRepository, sellers repository.SellerRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m, m.Sellers)
}

// MockSellerRepository is a mock implementation of SellerRepository.
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) Create(ctx context.Context, seller *model.Seller) error {
	args := m.Called(ctx, seller)
	return args.Error(0)
}

func (m *MockSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Seller, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seller), args.Error(1)
}

func (m *MockSellerRepository) List(ctx context.Context, filter repository.SellerFilter) ([]model.Seller, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seller), args.Error(1)
}

func (m *MockSellerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SellerStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSellerRepository) UpdateVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, query string) ([]model.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListLimit(ctx context.Context, limit int) ([]model.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVariantRepository is a mock implementation of VariantRepository.
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) Create(ctx context.Context, variant *model.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Variant), args.Error(1)
}

func (m *MockVariantRepository) List(ctx context.Context) ([]model.Variant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Variant), args.Error(1)
}

func (m *MockVariantRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Variant), args.Error(1)
}

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Offer, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListAll(ctx context.Context) ([]model.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.OfferListing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OfferListing), args.Error(1)
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) Upsert(ctx context.Context, offer *model.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) UpdatePriceStock(ctx context.Context, id uuid.UUID, price decimal.Decimal, stock int) error {
	args := m.Called(ctx, id, price, stock)
	return args.Error(0)
}

func (m *MockOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, role model.Role, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, model.Role, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.Get(1).(model.Role), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) StoreResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// MockMailer is a mock implementation of mailer.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

// MockCompleter is a mock implementation of assistant.Completer.
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockUploader is a mock implementation of storage.Uploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}
