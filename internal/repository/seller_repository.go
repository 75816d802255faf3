package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"etshoes/internal/model"
)

// SellerFilter narrows an admin seller listing. Zero values match everything.
type SellerFilter struct {
	Status model.SellerStatus
	Query  string
}

// SellerRepository defines seller persistence operations.
type SellerRepository interface {
	Create(ctx context.Context, seller *model.Seller) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Seller, error)
	List(ctx context.Context, filter SellerFilter) ([]model.Seller, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SellerStatus) error
	UpdateVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

type sellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository creates a new seller repository.
func NewSellerRepository(db *gorm.DB) SellerRepository {
	return &sellerRepository{db: db}
}

// Create creates a new seller.
func (r *sellerRepository) Create(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

// FindByID finds a seller by ID.
func (r *sellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Seller, error) {
	var seller model.Seller
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&seller).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// FindByIDs loads exactly the sellers in ids. Unknown ids are simply absent.
func (r *sellerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Seller, error) {
	sellers := make([]model.Seller, 0, len(ids))
	if len(ids) == 0 {
		return sellers, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// List returns sellers newest first, filtered by status and a search over
// shop name, city and phone.
func (r *sellerRepository) List(ctx context.Context, filter SellerFilter) ([]model.Seller, error) {
	db := r.db.WithContext(ctx).Model(&model.Seller{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	db = likeAny(db, filter.Query, "shop_name", "city", "phone")

	var sellers []model.Seller
	if err := db.Order("created_at DESC").Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// UpdateStatus writes the status column only.
func (r *sellerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SellerStatus) error {
	return r.updateColumn(ctx, id, "status", status)
}

// UpdateVerified writes the is_verified column only.
func (r *sellerRepository) UpdateVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.updateColumn(ctx, id, "is_verified", verified)
}

func (r *sellerRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Seller{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
