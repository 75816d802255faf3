package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/market"
	"etshoes/internal/model"
	"etshoes/internal/repository"
)

// FailedSize is one size of a submission that could not be saved.
type FailedSize struct {
	Size  int    `json:"size"`
	Error string `json:"error"`
}

// SubmitResult reports the outcome of a multi-size submission.
type SubmitResult struct {
	Saved  []int        `json:"saved"`
	Failed []FailedSize `json:"failed"`
}

// SellerDashboard is a seller's own offers with their totals.
type SellerDashboard struct {
	Offers []model.OfferListing  `json:"offers"`
	Stats  market.DashboardStats `json:"stats"`
}

// OfferService handles offer visibility and seller offer management.
type OfferService interface {
	// ProductOffers returns the admitted offers of a product grouped by variant.
	ProductOffers(ctx context.Context, productID uuid.UUID) (market.Grouped, error)
	Submit(ctx context.Context, sellerID uuid.UUID, sub market.Submission) (*SubmitResult, error)
	ListMine(ctx context.Context, sellerID uuid.UUID) (*SellerDashboard, error)
	Update(ctx context.Context, sellerID, offerID uuid.UUID, price decimal.Decimal, stock int) (*model.Offer, error)
	Delete(ctx context.Context, sellerID, offerID uuid.UUID) error
}

type offerService struct {
	offerRepo   repository.OfferRepository
	sellerRepo  repository.SellerRepository
	variantRepo repository.VariantRepository
}

// NewOfferService creates a new offer service.
func NewOfferService(offerRepo repository.OfferRepository, sellerRepo repository.SellerRepository, variantRepo repository.VariantRepository) OfferService {
	return &offerService{
		offerRepo:   offerRepo,
		sellerRepo:  sellerRepo,
		variantRepo: variantRepo,
	}
}

func (s *offerService) ProductOffers(ctx context.Context, productID uuid.UUID) (market.Grouped, error) {
	offers, err := s.offerRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	if len(offers) == 0 {
		return market.Grouped{}, nil
	}

	sellers, err := s.sellerRepo.FindByIDs(ctx, market.DistinctSellerIDs(offers))
	if err != nil {
		return nil, fmt.Errorf("list offer sellers: %w", err)
	}
	return market.Admit(offers, sellers), nil
}

// writableSeller re-reads the seller and fails unless they may write offers.
func (s *offerService) writableSeller(ctx context.Context, sellerID uuid.UUID) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSellerNotFound
		}
		return nil, fmt.Errorf("find seller: %w", err)
	}
	if !seller.CanWriteOffers() {
		return nil, apperrors.ErrSellerNotEligible
	}
	return seller, nil
}

// checkVariant fails unless variantID exists and belongs to productID.
func (s *offerService) checkVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	variant, err := s.variantRepo.FindByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrVariantNotFound
		}
		return fmt.Errorf("find variant: %w", err)
	}
	if variant.ProductID != productID {
		return fmt.Errorf("%w: variant does not belong to the selected product", apperrors.ErrValidation)
	}
	return nil
}

// Submit validates the whole submission, then upserts one offer per size in
// ascending size order. Saved sizes stay saved when a later size fails; the
// returned error is then an *errors.BatchError naming the failed sizes.
func (s *offerService) Submit(ctx context.Context, sellerID uuid.UUID, sub market.Submission) (*SubmitResult, error) {
	lines, err := sub.Lines()
	if err != nil {
		return nil, err
	}

	seller, err := s.writableSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVariant(ctx, sub.ProductID, sub.VariantID); err != nil {
		return nil, err
	}
	contact := seller.ContactInfo()

	result := &SubmitResult{Saved: []int{}, Failed: []FailedSize{}}
	var batch apperrors.BatchError
	for _, line := range lines {
		offer := &model.Offer{
			SellerID:    seller.ID,
			ProductID:   sub.ProductID,
			VariantID:   sub.VariantID,
			Size:        line.Size,
			Price:       sub.Price,
			Stock:       line.Stock,
			ContactInfo: contact,
		}
		if err := s.offerRepo.Upsert(ctx, offer); err != nil {
			zap.L().Warn("offer upsert failed",
				zap.String("seller_id", seller.ID.String()),
				zap.String("variant_id", sub.VariantID.String()),
				zap.Int("size", line.Size),
				zap.Error(err))
			batch.Add(line.Size, err)
			result.Failed = append(result.Failed, FailedSize{Size: line.Size, Error: err.Error()})
			continue
		}
		result.Saved = append(result.Saved, line.Size)
	}

	return result, batch.Err()
}

func (s *offerService) ListMine(ctx context.Context, sellerID uuid.UUID) (*SellerDashboard, error) {
	listings, err := s.offerRepo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller offers: %w", err)
	}
	if listings == nil {
		listings = []model.OfferListing{}
	}
	return &SellerDashboard{Offers: listings, Stats: market.Summarize(listings)}, nil
}

// owned loads an offer and checks it belongs to sellerID.
func (s *offerService) owned(ctx context.Context, sellerID, offerID uuid.UUID) (*model.Offer, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	if offer.SellerID != sellerID {
		return nil, apperrors.ErrForbidden
	}
	return offer, nil
}

func (s *offerService) Update(ctx context.Context, sellerID, offerID uuid.UUID, price decimal.Decimal, stock int) (*model.Offer, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be greater than 0", apperrors.ErrValidation)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", apperrors.ErrValidation)
	}

	offer, err := s.owned(ctx, sellerID, offerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.writableSeller(ctx, sellerID); err != nil {
		return nil, err
	}

	if err := s.offerRepo.UpdatePriceStock(ctx, offer.ID, price, stock); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOfferNotFound
		}
		return nil, fmt.Errorf("update offer: %w", err)
	}
	offer.Price = price
	offer.Stock = stock
	return offer, nil
}

func (s *offerService) Delete(ctx context.Context, sellerID, offerID uuid.UUID) error {
	offer, err := s.owned(ctx, sellerID, offerID)
	if err != nil {
		return err
	}
	if err := s.offerRepo.Delete(ctx, offer.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOfferNotFound
		}
		return fmt.Errorf("delete offer: %w", err)
	}
	return nil
}
