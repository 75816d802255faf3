package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/market"
	"etshoes/internal/model"
)

func eligibleSeller() *model.Seller {
	return &model.Seller{
		ID:         uuid.New(),
		Phone:      "0911223344",
		WhatsApp:   "0911223344",
		Status:     model.SellerStatusActive,
		IsVerified: true,
	}
}

var (
	submitProductID = uuid.New()
	submitVariantID = uuid.New()
)

func submittedVariant() *model.Variant {
	return &model.Variant{ID: submitVariantID, ProductID: submitProductID, Color: "Black"}
}

func submission(stocks map[int]string) market.Submission {
	sizes := make([]int, 0, len(stocks))
	for size := range stocks {
		sizes = append(sizes, size)
	}
	return market.Submission{
		ProductID: submitProductID,
		VariantID: submitVariantID,
		Price:     decimal.NewFromInt(500),
		Sizes:     sizes,
		Stocks:    stocks,
	}
}

func TestOfferService_Submit(t *testing.T) {
	seller := eligibleSeller()

	tests := []struct {
		name      string
		sub       market.Submission
		setupMock func(*MockOfferRepository, *MockSellerRepository, *MockVariantRepository)
		wantSaved []int
		wantErr   error
	}{
		{
			name: "zero stock rejects the whole submission before storage",
			sub:  submission(map[int]string{40: "3", 42: "0"}),
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository, v *MockVariantRepository) {
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "two sizes produce two upserts in size order",
			sub:  submission(map[int]string{42: "5", 40: "3"}),
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository, v *MockVariantRepository) {
				s.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
				v.On("FindByID", mock.Anything, submitVariantID).Return(submittedVariant(), nil)
				o.On("Upsert", mock.Anything, mock.MatchedBy(func(of *model.Offer) bool {
					return of.Size == 40 && of.Stock == 3 && of.ContactInfo == "Phone: 0911223344, WhatsApp: 0911223344"
				})).Return(nil).Once()
				o.On("Upsert", mock.Anything, mock.MatchedBy(func(of *model.Offer) bool {
					return of.Size == 42 && of.Stock == 5
				})).Return(nil).Once()
			},
			wantSaved: []int{40, 42},
		},
		{
			name: "ineligible seller writes nothing",
			sub:  submission(map[int]string{40: "3"}),
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository, v *MockVariantRepository) {
				s.On("FindByID", mock.Anything, seller.ID).Return(&model.Seller{ID: seller.ID, Status: model.SellerStatusActive}, nil)
			},
			wantErr: apperrors.ErrSellerNotEligible,
		},
		{
			name: "variant of another product writes nothing",
			sub:  submission(map[int]string{42: "1"}),
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository, v *MockVariantRepository) {
				s.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
				v.On("FindByID", mock.Anything, submitVariantID).
					Return(&model.Variant{ID: submitVariantID, ProductID: uuid.New()}, nil)
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "unknown variant writes nothing",
			sub:  submission(map[int]string{42: "1"}),
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository, v *MockVariantRepository) {
				s.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
				v.On("FindByID", mock.Anything, submitVariantID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrVariantNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := new(MockOfferRepository)
			sellers := new(MockSellerRepository)
			variants := new(MockVariantRepository)
			tt.setupMock(offers, sellers, variants)

			res, err := NewOfferService(offers, sellers, variants).Submit(context.Background(), seller.ID, tt.sub)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				offers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSaved, res.Saved)
				assert.Empty(t, res.Failed)
			}
			offers.AssertExpectations(t)
			sellers.AssertExpectations(t)
			variants.AssertExpectations(t)
		})
	}
}

func TestOfferService_SubmitPartialFailure(t *testing.T) {
	seller := eligibleSeller()
	offers := new(MockOfferRepository)
	sellers := new(MockSellerRepository)
	variants := new(MockVariantRepository)
	sellers.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
	variants.On("FindByID", mock.Anything, submitVariantID).Return(submittedVariant(), nil)
	offers.On("Upsert", mock.Anything, mock.MatchedBy(func(o *model.Offer) bool { return o.Size == 40 })).Return(nil)
	offers.On("Upsert", mock.Anything, mock.MatchedBy(func(o *model.Offer) bool { return o.Size == 41 })).Return(errors.New("deadlock detected"))
	offers.On("Upsert", mock.Anything, mock.MatchedBy(func(o *model.Offer) bool { return o.Size == 42 })).Return(nil)

	res, err := NewOfferService(offers, sellers, variants).Submit(context.Background(), seller.ID,
		submission(map[int]string{40: "1", 41: "2", 42: "3"}))

	require.Error(t, err)
	var batch *apperrors.BatchError
	require.True(t, errors.As(err, &batch))
	assert.Equal(t, []int{41}, batch.Sizes())
	assert.Equal(t, []int{40, 42}, res.Saved)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, FailedSize{Size: 41, Error: "deadlock detected"}, res.Failed[0])
	offers.AssertNumberOfCalls(t, "Upsert", 3)
}

func TestOfferService_ProductOffers(t *testing.T) {
	productID := uuid.New()
	black := uuid.New()
	s1 := model.Seller{ID: uuid.New(), Status: model.SellerStatusActive, IsVerified: true}
	s2 := model.Seller{ID: uuid.New(), Status: model.SellerStatusPending}
	o1 := model.Offer{ID: uuid.New(), SellerID: s1.ID, ProductID: productID, VariantID: black, Size: 42, Price: decimal.NewFromInt(400), Stock: 2}
	o2 := model.Offer{ID: uuid.New(), SellerID: s2.ID, ProductID: productID, VariantID: black, Size: 42, Price: decimal.NewFromInt(380), Stock: 9}

	offers := new(MockOfferRepository)
	sellers := new(MockSellerRepository)
	offers.On("ListByProduct", mock.Anything, productID).Return([]model.Offer{o1, o2}, nil)
	sellers.On("FindByIDs", mock.Anything, []uuid.UUID{s1.ID, s2.ID}).Return([]model.Seller{s1, s2}, nil)

	grouped, err := NewOfferService(offers, sellers, new(MockVariantRepository)).ProductOffers(context.Background(), productID)

	require.NoError(t, err)
	got := grouped.For(black, market.SortByPrice)
	require.Len(t, got, 1)
	assert.Equal(t, o1.ID, got[0].ID)
	assert.True(t, decimal.NewFromInt(400).Equal(got[0].Price))
}

func TestOfferService_ProductOffersEmpty(t *testing.T) {
	productID := uuid.New()
	offers := new(MockOfferRepository)
	sellers := new(MockSellerRepository)
	offers.On("ListByProduct", mock.Anything, productID).Return([]model.Offer{}, nil)

	grouped, err := NewOfferService(offers, sellers, new(MockVariantRepository)).ProductOffers(context.Background(), productID)

	require.NoError(t, err)
	assert.NotNil(t, grouped)
	assert.Equal(t, 0, grouped.Len())
	sellers.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestOfferService_UpdateAndDelete(t *testing.T) {
	seller := eligibleSeller()
	mine := &model.Offer{ID: uuid.New(), SellerID: seller.ID, Price: decimal.NewFromInt(300), Stock: 1}
	theirs := &model.Offer{ID: uuid.New(), SellerID: uuid.New()}

	tests := []struct {
		name      string
		run       func(OfferService) error
		setupMock func(*MockOfferRepository, *MockSellerRepository)
		wantErr   error
	}{
		{
			name: "update own offer",
			run: func(s OfferService) error {
				_, err := s.Update(context.Background(), seller.ID, mine.ID, decimal.NewFromInt(350), 0)
				return err
			},
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository) {
				o.On("FindByID", mock.Anything, mine.ID).Return(mine, nil)
				s.On("FindByID", mock.Anything, seller.ID).Return(seller, nil)
				o.On("UpdatePriceStock", mock.Anything, mine.ID, decimal.NewFromInt(350), 0).Return(nil)
			},
		},
		{
			name: "update someone else's offer",
			run: func(s OfferService) error {
				_, err := s.Update(context.Background(), seller.ID, theirs.ID, decimal.NewFromInt(350), 1)
				return err
			},
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository) {
				o.On("FindByID", mock.Anything, theirs.ID).Return(theirs, nil)
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name: "update with zero price",
			run: func(s OfferService) error {
				_, err := s.Update(context.Background(), seller.ID, mine.ID, decimal.Zero, 1)
				return err
			},
			setupMock: func(*MockOfferRepository, *MockSellerRepository) {},
			wantErr:   apperrors.ErrValidation,
		},
		{
			name: "delete own offer",
			run: func(s OfferService) error {
				return s.Delete(context.Background(), seller.ID, mine.ID)
			},
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository) {
				o.On("FindByID", mock.Anything, mine.ID).Return(mine, nil)
				o.On("Delete", mock.Anything, mine.ID).Return(nil)
			},
		},
		{
			name: "delete missing offer",
			run: func(s OfferService) error {
				return s.Delete(context.Background(), seller.ID, mine.ID)
			},
			setupMock: func(o *MockOfferRepository, s *MockSellerRepository) {
				o.On("FindByID", mock.Anything, mine.ID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrOfferNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := new(MockOfferRepository)
			sellers := new(MockSellerRepository)
			tt.setupMock(offers, sellers)

			err := tt.run(NewOfferService(offers, sellers, new(MockVariantRepository)))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			offers.AssertExpectations(t)
			sellers.AssertExpectations(t)
		})
	}
}

func TestOfferService_ListMine(t *testing.T) {
	sellerID := uuid.New()
	offers := new(MockOfferRepository)
	offers.On("ListBySeller", mock.Anything, sellerID).Return([]model.OfferListing{
		{ID: uuid.New(), ProductName: "Air Max", VariantColor: "Black", Size: 42, Price: decimal.NewFromInt(400), Stock: 2},
	}, nil)

	dash, err := NewOfferService(offers, new(MockSellerRepository), new(MockVariantRepository)).ListMine(context.Background(), sellerID)

	require.NoError(t, err)
	assert.Equal(t, 1, dash.Stats.TotalOffers)
	assert.True(t, decimal.NewFromInt(800).Equal(dash.Stats.TotalValue))
}
