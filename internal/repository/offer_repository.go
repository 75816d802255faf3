package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"etshoes/internal/model"
)

// OfferRepository defines offer persistence operations.
type OfferRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Offer, error)
	ListAll(ctx context.Context) ([]model.Offer, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.OfferListing, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	// Upsert inserts the offer or, when the seller already holds one for the
	// same product, variant and size, overwrites its price, stock and contact.
	Upsert(ctx context.Context, offer *model.Offer) error
	UpdatePriceStock(ctx context.Context, id uuid.UUID, price decimal.Decimal, stock int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new offer repository.
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

// ListByProduct returns all offers of a product regardless of seller state.
func (r *offerRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Offer, error) {
	var offers []model.Offer
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at ASC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) ListAll(ctx context.Context) ([]model.Offer, error) {
	var offers []model.Offer
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// ListBySeller returns a seller's offers with product name and variant color, newest first.
func (r *offerRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.OfferListing, error) {
	var listings []model.OfferListing
	err := r.db.WithContext(ctx).Table("offers").
		Select("offers.id, offers.product_id, offers.variant_id, " +
			"COALESCE(products.name, '') AS product_name, COALESCE(variants.color, '') AS variant_color, " +
			"offers.size, offers.price, offers.stock").
		Joins("LEFT JOIN products ON products.id = offers.product_id").
		Joins("LEFT JOIN variants ON variants.id = offers.variant_id").
		Where("offers.seller_id = ?", sellerID).
		Order("offers.created_at DESC").
		Scan(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var offer model.Offer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) Upsert(ctx context.Context, offer *model.Offer) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "seller_id"},
			{Name: "product_id"},
			{Name: "variant_id"},
			{Name: "size"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"price", "stock", "contact_info", "updated_at"}),
	}).Create(offer).Error
}

func (r *offerRepository) UpdatePriceStock(ctx context.Context, id uuid.UUID, price decimal.Decimal, stock int) error {
	res := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price":      price,
			"stock":      stock,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Offer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
