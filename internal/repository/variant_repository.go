package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"etshoes/internal/model"
)

// VariantRepository defines variant persistence operations.
type VariantRepository interface {
	Create(ctx context.Context, variant *model.Variant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error)
	List(ctx context.Context) ([]model.Variant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error)
}

type variantRepository struct {
	db *gorm.DB
}

// NewVariantRepository creates a new variant repository.
func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

func (r *variantRepository) Create(ctx context.Context, variant *model.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *variantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	var variant model.Variant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// List returns every variant, oldest first so each product's first variant
// leads its group.
func (r *variantRepository) List(ctx context.Context) ([]model.Variant, error) {
	var variants []model.Variant
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *variantRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	var variants []model.Variant
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).
		Order("created_at ASC").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
