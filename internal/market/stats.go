package market

import (
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"etshoes/internal/model"
)

// DashboardStats summarises a seller's offers.
type DashboardStats struct {
	TotalOffers  int             `json:"total_offers"`
	TotalStock   int             `json:"total_stock"`
	TotalValue   decimal.Decimal `json:"total_value"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// Summarize computes dashboard totals. Average price is rounded to a whole unit.
func Summarize(listings []model.OfferListing) DashboardStats {
	out := DashboardStats{
		TotalOffers:  len(listings),
		TotalValue:   decimal.Zero,
		AveragePrice: decimal.Zero,
	}
	if len(listings) == 0 {
		return out
	}

	prices := make(stats.Float64Data, 0, len(listings))
	for _, l := range listings {
		out.TotalStock += l.Stock
		out.TotalValue = out.TotalValue.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Stock))))
		prices = append(prices, l.Price.InexactFloat64())
	}

	if mean, err := prices.Mean(); err == nil {
		if rounded, err := stats.Round(mean, 0); err == nil {
			out.AveragePrice = decimal.NewFromFloat(rounded)
		}
	}
	return out
}

// ProductStats is the shop card summary of one product.
type ProductStats struct {
	MinPrice     decimal.Decimal `json:"min_price"`
	SellerCount  int             `json:"seller_count"`
	VariantCount int             `json:"variant_count"`
}

// SummarizeProduct computes shop stats from a product's admitted offers.
func SummarizeProduct(admitted []model.Offer, variantCount int) ProductStats {
	out := ProductStats{MinPrice: decimal.Zero, VariantCount: variantCount}
	sellers := make(map[uuid.UUID]struct{})
	for i, o := range admitted {
		if i == 0 || o.Price.LessThan(out.MinPrice) {
			out.MinPrice = o.Price
		}
		sellers[o.SellerID] = struct{}{}
	}
	out.SellerCount = len(sellers)
	return out
}
