package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/market"
	"etshoes/internal/model"
	"etshoes/internal/repository"
)

// ShopSort orders the public product list.
type ShopSort string

const (
	ShopSortNewest  ShopSort = "newest"
	ShopSortPrice   ShopSort = "price"
	ShopSortPopular ShopSort = "popular"
)

// ParseShopSort defaults to newest.
func ParseShopSort(s string) ShopSort {
	switch ShopSort(strings.ToLower(strings.TrimSpace(s))) {
	case ShopSortPrice:
		return ShopSortPrice
	case ShopSortPopular:
		return ShopSortPopular
	default:
		return ShopSortNewest
	}
}

// CreateProductInput is an admin product form.
type CreateProductInput struct {
	Name        string
	Brand       string
	Description string
}

// CreateVariantInput is an admin variant form. Images are already uploaded URLs.
type CreateVariantInput struct {
	ProductID uuid.UUID
	Color     string
	Images    []string
}

// ShopProduct is a product card of the public shop.
type ShopProduct struct {
	model.Product
	CoverImage string              `json:"cover_image"`
	Colors     []string            `json:"colors"`
	Stats      market.ProductStats `json:"stats"`
}

// VariantOffers is a variant with its admitted offers in display order.
type VariantOffers struct {
	model.Variant
	Offers []model.Offer `json:"offers"`
}

// ProductDetail is everything the product page shows.
type ProductDetail struct {
	Product  *model.Product      `json:"product"`
	Variants []VariantOffers     `json:"variants"`
	Stats    market.ProductStats `json:"stats"`
	SortKey  market.SortKey      `json:"sort"`
}

// CatalogService handles products, variants and the public shop.
type CatalogService interface {
	ListProducts(ctx context.Context, query string) ([]model.Product, error)
	CreateProduct(ctx context.Context, in CreateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListVariants(ctx context.Context) ([]model.Variant, error)
	VariantsByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error)
	CreateVariant(ctx context.Context, in CreateVariantInput) (*model.Variant, error)
	Shop(ctx context.Context, query string, order ShopSort) ([]ShopProduct, error)
	ProductDetail(ctx context.Context, id uuid.UUID, key market.SortKey) (*ProductDetail, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	offerRepo   repository.OfferRepository
	sellerRepo  repository.SellerRepository
	offers      OfferService
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	offerRepo repository.OfferRepository,
	sellerRepo repository.SellerRepository,
	offers OfferService,
) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		variantRepo: variantRepo,
		offerRepo:   offerRepo,
		sellerRepo:  sellerRepo,
		offers:      offers,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, query string) ([]model.Product, error) {
	products, err := s.productRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	product := &model.Product{
		Name:        strings.TrimSpace(in.Name),
		Brand:       strings.TrimSpace(in.Brand),
		Description: strings.TrimSpace(in.Description),
	}
	if product.Name == "" || product.Brand == "" {
		return nil, fmt.Errorf("%w: name and brand are required", apperrors.ErrValidation)
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	zap.L().Info("product created", zap.String("product_id", product.ID.String()))
	return product, nil
}

// DeleteProduct removes the product with its variants and offers.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	zap.L().Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *catalogService) ListVariants(ctx context.Context) ([]model.Variant, error) {
	variants, err := s.variantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return variants, nil
}

func (s *catalogService) VariantsByProduct(ctx context.Context, productID uuid.UUID) ([]model.Variant, error) {
	variants, err := s.variantRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	return variants, nil
}

func (s *catalogService) CreateVariant(ctx context.Context, in CreateVariantInput) (*model.Variant, error) {
	color := strings.TrimSpace(in.Color)
	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	switch {
	case in.ProductID == uuid.Nil:
		return nil, fmt.Errorf("%w: product is required", apperrors.ErrValidation)
	case color == "":
		return nil, fmt.Errorf("%w: color is required", apperrors.ErrValidation)
	case len(images) == 0:
		return nil, fmt.Errorf("%w: at least one image is required", apperrors.ErrValidation)
	}

	if _, err := s.productRepo.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	variant := &model.Variant{ProductID: in.ProductID, Color: color, Images: images}
	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	return variant, nil
}

// matches reports whether name or brand contains the folded query. A Caser
// keeps state, so each call site brings its own.
func matches(fold cases.Caser, p model.Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(fold.String(p.Name), query) || strings.Contains(fold.String(p.Brand), query)
}

// Shop lists products with stats computed from admitted offers only.
func (s *catalogService) Shop(ctx context.Context, query string, order ShopSort) ([]ShopProduct, error) {
	var (
		products []model.Product
		variants []model.Variant
		offers   []model.Offer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.productRepo.List(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		variants, err = s.variantRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		offers, err = s.offerRepo.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load shop: %w", err)
	}

	sellers, err := s.sellerRepo.FindByIDs(ctx, market.DistinctSellerIDs(offers))
	if err != nil {
		return nil, fmt.Errorf("load shop sellers: %w", err)
	}

	admittedByProduct := make(map[uuid.UUID][]model.Offer)
	for _, list := range market.Admit(offers, sellers) {
		for _, o := range list {
			admittedByProduct[o.ProductID] = append(admittedByProduct[o.ProductID], o)
		}
	}
	variantsByProduct := make(map[uuid.UUID][]model.Variant)
	for _, v := range variants {
		variantsByProduct[v.ProductID] = append(variantsByProduct[v.ProductID], v)
	}

	fold := cases.Fold()
	query = fold.String(strings.TrimSpace(query))
	out := make([]ShopProduct, 0, len(products))
	for _, p := range products {
		if !matches(fold, p, query) {
			continue
		}
		pv := variantsByProduct[p.ID]
		card := ShopProduct{
			Product: p,
			Colors:  make([]string, 0, len(pv)),
			Stats:   market.SummarizeProduct(admittedByProduct[p.ID], len(pv)),
		}
		for i := range pv {
			card.Colors = append(card.Colors, pv[i].Color)
		}
		if len(pv) > 0 {
			card.CoverImage = pv[0].CoverImage()
		}
		out = append(out, card)
	}

	sortShop(out, order)
	return out, nil
}

// sortShop keeps the newest-first storage order unless another order is asked
// for. Products without offers go last when sorting by price.
func sortShop(products []ShopProduct, order ShopSort) {
	switch order {
	case ShopSortPrice:
		sort.SliceStable(products, func(i, j int) bool {
			a, b := products[i].Stats, products[j].Stats
			if a.SellerCount == 0 || b.SellerCount == 0 {
				return a.SellerCount > 0 && b.SellerCount == 0
			}
			return a.MinPrice.LessThan(b.MinPrice)
		})
	case ShopSortPopular:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Stats.SellerCount > products[j].Stats.SellerCount
		})
	}
}

// ProductDetail loads the product, its variants and its admitted offers
// concurrently and orders each variant's offers by key.
func (s *catalogService) ProductDetail(ctx context.Context, id uuid.UUID, key market.SortKey) (*ProductDetail, error) {
	var (
		product  *model.Product
		variants []model.Variant
		grouped  market.Grouped
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.productRepo.FindByID(gctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			return fmt.Errorf("find product: %w", err)
		}
		product = p
		return nil
	})
	g.Go(func() (err error) {
		variants, err = s.VariantsByProduct(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		grouped, err = s.offers.ProductOffers(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &ProductDetail{
		Product:  product,
		Variants: make([]VariantOffers, 0, len(variants)),
		SortKey:  key,
	}
	admitted := make([]model.Offer, 0, grouped.Len())
	for _, v := range variants {
		offers := grouped.For(v.ID, key)
		admitted = append(admitted, offers...)
		detail.Variants = append(detail.Variants, VariantOffers{Variant: v, Offers: offers})
	}
	detail.Stats = market.SummarizeProduct(admitted, len(variants))
	return detail, nil
}
