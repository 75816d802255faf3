package market

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"etshoes/internal/model"
)

// SortKey selects the ordering of a variant's offers.
type SortKey string

const (
	SortByPrice SortKey = "price" // ascending
	SortBySize  SortKey = "size"  // ascending
	SortByStock SortKey = "stock" // descending
)

// ParseSortKey maps a query value to a SortKey, defaulting to price.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortBySize:
		return SortBySize
	case SortByStock:
		return SortByStock
	default:
		return SortByPrice
	}
}

// Grouped maps a variant id to its admitted offers in fetch order.
type Grouped map[uuid.UUID][]model.Offer

// DistinctSellerIDs returns the seller ids referenced by offers, in first-seen order.
func DistinctSellerIDs(offers []model.Offer) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(offers))
	ids := make([]uuid.UUID, 0, len(offers))
	for _, o := range offers {
		if _, ok := seen[o.SellerID]; ok {
			continue
		}
		seen[o.SellerID] = struct{}{}
		ids = append(ids, o.SellerID)
	}
	return ids
}

// Admit keeps only offers whose seller is active and verified and groups them
// by variant. Offers whose seller is missing from sellers are dropped.
func Admit(offers []model.Offer, sellers []model.Seller) Grouped {
	trusted := make(map[uuid.UUID]bool, len(sellers))
	for i := range sellers {
		trusted[sellers[i].ID] = sellers[i].CanWriteOffers()
	}

	grouped := make(Grouped)
	for _, o := range offers {
		if !trusted[o.SellerID] {
			continue
		}
		grouped[o.VariantID] = append(grouped[o.VariantID], o)
	}
	return grouped
}

// For returns a sorted copy of the offers admitted for variantID. The result
// is never nil, so "no offers" is an empty list.
func (g Grouped) For(variantID uuid.UUID, key SortKey) []model.Offer {
	return Sort(g[variantID], key)
}

// Len returns the number of admitted offers across all variants.
func (g Grouped) Len() int {
	n := 0
	for _, offers := range g {
		n += len(offers)
	}
	return n
}

// Sort returns a stably sorted copy of offers. Equal keys keep input order.
func Sort(offers []model.Offer, key SortKey) []model.Offer {
	out := make([]model.Offer, len(offers))
	copy(out, offers)

	var less func(a, b model.Offer) bool
	switch key {
	case SortBySize:
		less = func(a, b model.Offer) bool { return a.Size < b.Size }
	case SortByStock:
		less = func(a, b model.Offer) bool { return a.Stock > b.Stock }
	default:
		less = func(a, b model.Offer) bool { return a.Price.LessThan(b.Price) }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
