package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Offer is a seller's priced, sized and stocked listing for one product variant.
// A seller holds at most one offer per (product, variant, size).
type Offer struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	SellerID    uuid.UUID       `json:"seller_id" gorm:"type:char(36);not null;uniqueIndex:idx_offer_identity,priority:1"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:char(36);not null;index;uniqueIndex:idx_offer_identity,priority:2"`
	VariantID   uuid.UUID       `json:"variant_id" gorm:"type:char(36);not null;index;uniqueIndex:idx_offer_identity,priority:3"`
	Size        int             `json:"size" gorm:"not null;uniqueIndex:idx_offer_identity,priority:4"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	ContactInfo string          `json:"contact_info" gorm:"size:255"` // snapshot taken at write time
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OfferListing is an offer joined with the names a seller dashboard shows.
type OfferListing struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	ProductName  string          `json:"product_name"`
	VariantColor string          `json:"variant_color"`
	Size         int             `json:"size"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
}
