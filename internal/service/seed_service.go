package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/model"
	"etshoes/internal/repository"
)

// SeedProductRow is one line of a product import file. Images are separated
// by "|" and belong to the row's color variant.
type SeedProductRow struct {
	Name        string `csv:"name"`
	Brand       string `csv:"brand"`
	Description string `csv:"description"`
	Color       string `csv:"color"`
	Images      string `csv:"images"`
}

// SeedResult counts what an import did.
type SeedResult struct {
	Products int `json:"products"`
	Variants int `json:"variants"`
	Existing int `json:"existing"`
	Skipped  int `json:"skipped"`
}

// SeedService bootstraps an installation with an admin and a product catalog.
type SeedService interface {
	EnsureAdmin(ctx context.Context, email, password string) (created bool, err error)
	ImportProducts(ctx context.Context, r io.Reader) (*SeedResult, error)
}

type seedService struct {
	profileRepo repository.ProfileRepository
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
}

// NewSeedService creates a new seed service.
func NewSeedService(profileRepo repository.ProfileRepository, productRepo repository.ProductRepository, variantRepo repository.VariantRepository) SeedService {
	return &seedService{
		profileRepo: profileRepo,
		productRepo: productRepo,
		variantRepo: variantRepo,
	}
}

// EnsureAdmin creates the admin profile unless the email is already taken.
func (s *seedService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return false, fmt.Errorf("%w: admin email and a password of at least %d characters are required", apperrors.ErrValidation, minPasswordLength)
	}

	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			zap.L().Warn("admin email belongs to a non-admin profile", zap.String("email", email))
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin profile: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	if err := s.profileRepo.Create(ctx, &model.Profile{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("create admin profile: %w", err)
	}
	return true, nil
}

func splitImages(raw string) ([]string, bool) {
	var images []string
	for _, part := range strings.Split(raw, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if u, err := url.Parse(part); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, false
		}
		images = append(images, part)
	}
	return images, true
}

// ImportProducts creates one product per new name and brand pair, plus the
// row's variant when it names a color and at least one image. Invalid rows
// are skipped and counted. Products already in storage are left untouched, so
// importing the same file twice adds nothing.
func (s *seedService) ImportProducts(ctx context.Context, r io.Reader) (*SeedResult, error) {
	var rows []SeedProductRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: read product csv: %v", apperrors.ErrValidation, err)
	}

	result := &SeedResult{}
	created := make(map[string]*model.Product)
	for i, row := range rows {
		name, brand := strings.TrimSpace(row.Name), strings.TrimSpace(row.Brand)
		images, ok := splitImages(row.Images)
		if name == "" || brand == "" || !ok {
			zap.L().Warn("skipping invalid product row", zap.Int("row", i+2), zap.String("name", name))
			result.Skipped++
			continue
		}

		key := strings.ToLower(name + "\x00" + brand)
		product, seen := created[key]
		if !seen {
			existing, err := s.findProduct(ctx, name, brand)
			if err != nil {
				return result, err
			}
			if existing != nil {
				result.Existing++
			} else {
				product = &model.Product{Name: name, Brand: brand, Description: strings.TrimSpace(row.Description)}
				if err := s.productRepo.Create(ctx, product); err != nil {
					return result, fmt.Errorf("create product %q: %w", name, err)
				}
				result.Products++
			}
			created[key] = product
		}

		color := strings.TrimSpace(row.Color)
		if product == nil || color == "" || len(images) == 0 {
			continue
		}
		if err := s.variantRepo.Create(ctx, &model.Variant{ProductID: product.ID, Color: color, Images: images}); err != nil {
			return result, fmt.Errorf("create variant %q of %q: %w", color, name, err)
		}
		result.Variants++
	}
	return result, nil
}

func (s *seedService) findProduct(ctx context.Context, name, brand string) (*model.Product, error) {
	candidates, err := s.productRepo.List(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("look up product %q: %w", name, err)
	}
	for i := range candidates {
		if strings.EqualFold(candidates[i].Name, name) && strings.EqualFold(candidates[i].Brand, brand) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}
