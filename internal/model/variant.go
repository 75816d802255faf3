package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxVariantImages caps the images attached in a single upload call.
const MaxVariantImages = 10

// Variant is a colorway of a product. Images are kept in display order;
// the first one is the default image.
type Variant struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:char(36);not null;index"`
	Color     string    `json:"color" gorm:"size:80;not null"`
	Images    []string  `json:"images" gorm:"type:text;serializer:json"`
	CreatedAt time.Time `json:"created_at"`
}

// CoverImage returns the default display image, or "" when the variant has none.
func (v *Variant) CoverImage() string {
	if v == nil || len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}

// BeforeCreate sets UUID before creating the record.
func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
