package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/market"
	"etshoes/internal/model"
	"etshoes/internal/repository"
)

// SellerStats are the counters on top of the admin seller list. They always
// cover every seller, whatever filter the list uses.
type SellerStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Pending  int `json:"pending"`
	Blocked  int `json:"blocked"`
	Verified int `json:"verified"`
}

// Eligibility tells a seller whether they may publish offers right now.
type Eligibility struct {
	Status         model.SellerStatus `json:"status"`
	IsVerified     bool               `json:"is_verified"`
	CanWriteOffers bool               `json:"can_write_offers"`
	Message        string             `json:"message,omitempty"`
}

// SellerService handles seller administration and onboarding state.
type SellerService interface {
	List(ctx context.Context, filter, query string) ([]model.Seller, SellerStats, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*model.Seller, error)
	ToggleVerified(ctx context.Context, id uuid.UUID) (*model.Seller, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.SellerStatus) (*model.Seller, error)
	ExportCSV(ctx context.Context, w io.Writer, filter, query string) error
	Eligibility(ctx context.Context, sellerID uuid.UUID) (*Eligibility, error)
}

type sellerService struct {
	sellerRepo repository.SellerRepository
}

// NewSellerService creates a new seller service.
func NewSellerService(sellerRepo repository.SellerRepository) SellerService {
	return &sellerService{sellerRepo: sellerRepo}
}

// parseSellerFilter maps the admin list filter to a status. "all" and "" match every seller.
func parseSellerFilter(filter string) (model.SellerStatus, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "all" {
		return "", nil
	}
	status := model.SellerStatus(filter)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, filter)
	}
	return status, nil
}

func countSellers(sellers []model.Seller) SellerStats {
	stats := SellerStats{Total: len(sellers)}
	for _, s := range sellers {
		switch s.Status {
		case model.SellerStatusActive:
			stats.Active++
		case model.SellerStatusPending:
			stats.Pending++
		case model.SellerStatusBlocked:
			stats.Blocked++
		}
		if s.IsVerified {
			stats.Verified++
		}
	}
	return stats
}

func (s *sellerService) List(ctx context.Context, filter, query string) ([]model.Seller, SellerStats, error) {
	status, err := parseSellerFilter(filter)
	if err != nil {
		return nil, SellerStats{}, err
	}

	all, err := s.sellerRepo.List(ctx, repository.SellerFilter{})
	if err != nil {
		return nil, SellerStats{}, fmt.Errorf("list sellers: %w", err)
	}
	stats := countSellers(all)

	if status == "" && strings.TrimSpace(query) == "" {
		return all, stats, nil
	}
	sellers, err := s.sellerRepo.List(ctx, repository.SellerFilter{Status: status, Query: query})
	if err != nil {
		return nil, SellerStats{}, fmt.Errorf("list sellers: %w", err)
	}
	return sellers, stats, nil
}

func (s *sellerService) find(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	seller, err := s.sellerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSellerNotFound
		}
		return nil, fmt.Errorf("find seller: %w", err)
	}
	return seller, nil
}

// ToggleStatus flips an active seller to blocked and any other seller to active.
func (s *sellerService) ToggleStatus(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	seller, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetStatus(ctx, seller.ID, market.ToggledStatus(seller.Status))
}

// SetStatus writes status without touching verification.
func (s *sellerService) SetStatus(ctx context.Context, id uuid.UUID, status model.SellerStatus) (*model.Seller, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}
	if err := s.sellerRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSellerNotFound
		}
		return nil, fmt.Errorf("update seller status: %w", err)
	}
	zap.L().Info("seller status changed", zap.String("seller_id", id.String()), zap.String("status", string(status)))
	return s.find(ctx, id)
}

// ToggleVerified flips verification without touching status.
func (s *sellerService) ToggleVerified(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	seller, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	verified := !seller.IsVerified
	if err := s.sellerRepo.UpdateVerified(ctx, id, verified); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSellerNotFound
		}
		return nil, fmt.Errorf("update seller verification: %w", err)
	}
	zap.L().Info("seller verification changed", zap.String("seller_id", id.String()), zap.Bool("verified", verified))
	seller.IsVerified = verified
	return seller, nil
}

type sellerCSVRow struct {
	ID         string `csv:"id"`
	ShopName   string `csv:"shop_name"`
	Phone      string `csv:"phone"`
	WhatsApp   string `csv:"whatsapp"`
	City       string `csv:"city"`
	Address    string `csv:"address"`
	Status     string `csv:"status"`
	IsVerified bool   `csv:"is_verified"`
	CreatedAt  string `csv:"created_at"`
}

// ExportCSV writes the filtered seller list as CSV.
func (s *sellerService) ExportCSV(ctx context.Context, w io.Writer, filter, query string) error {
	sellers, _, err := s.List(ctx, filter, query)
	if err != nil {
		return err
	}
	rows := make([]*sellerCSVRow, 0, len(sellers))
	for _, seller := range sellers {
		rows = append(rows, &sellerCSVRow{
			ID:         seller.ID.String(),
			ShopName:   seller.ShopName,
			Phone:      seller.Phone,
			WhatsApp:   seller.WhatsApp,
			City:       seller.City,
			Address:    seller.Address,
			Status:     string(seller.Status),
			IsVerified: seller.IsVerified,
			CreatedAt:  seller.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write sellers csv: %w", err)
	}
	return nil
}

// Eligibility reads the seller's current state from storage.
func (s *sellerService) Eligibility(ctx context.Context, sellerID uuid.UUID) (*Eligibility, error) {
	seller, err := s.find(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return eligibilityOf(seller), nil
}

func eligibilityOf(seller *model.Seller) *Eligibility {
	e := &Eligibility{
		Status:         seller.Status,
		IsVerified:     seller.IsVerified,
		CanWriteOffers: seller.CanWriteOffers(),
	}
	if !e.CanWriteOffers {
		e.Message = "Account verification required: an admin must activate and verify your shop before you can publish offers."
	}
	return e
}
