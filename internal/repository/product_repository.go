package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"etshoes/internal/model"
)

// ProductRepository defines catalog product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, query string) ([]model.Product, error)
	ListLimit(ctx context.Context, limit int) ([]model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products newest first, optionally matching query against
// name, brand and description.
func (r *productRepository) List(ctx context.Context, query string) ([]model.Product, error) {
	db := likeAny(r.db.WithContext(ctx).Model(&model.Product{}), query, "name", "brand", "description")

	var products []model.Product
	if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListLimit returns at most limit products in storage order.
func (r *productRepository) ListLimit(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Select("id", "name").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes a product together with its variants and the offers that
// reference either of them.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.Offer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Variant{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
