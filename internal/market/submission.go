package market

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "etshoes/internal/errors"
)

// ShoeSizes is the enumerated list of sizes a seller can pick from.
var ShoeSizes = []int{35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46}

// IsShoeSize reports whether size is in ShoeSizes.
func IsShoeSize(size int) bool {
	for _, s := range ShoeSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Submission is one seller action publishing the same product, variant and
// price across several sizes. Stocks holds the raw stock input per size.
type Submission struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Price     decimal.Decimal
	Sizes     []int
	Stocks    map[int]string
}

// SizeStock is one validated size line of a submission.
type SizeStock struct {
	Size  int
	Stock int
}

// Lines validates the submission and returns one line per selected size in
// ascending size order. A zero stock counts as empty, matching the form.
func (s Submission) Lines() ([]SizeStock, error) {
	if s.ProductID == uuid.Nil {
		return nil, fmt.Errorf("%w: product is required", apperrors.ErrValidation)
	}
	if s.VariantID == uuid.Nil {
		return nil, fmt.Errorf("%w: variant is required", apperrors.ErrValidation)
	}
	if !s.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price is required", apperrors.ErrValidation)
	}
	if len(s.Sizes) == 0 {
		return nil, fmt.Errorf("%w: select at least one size", apperrors.ErrValidation)
	}

	sizes := make([]int, len(s.Sizes))
	copy(sizes, s.Sizes)
	sort.Ints(sizes)

	lines := make([]SizeStock, 0, len(sizes))
	var missing []string
	for i, size := range sizes {
		if i > 0 && sizes[i-1] == size {
			continue
		}
		if !IsShoeSize(size) {
			return nil, fmt.Errorf("%w: size %d is not offered", apperrors.ErrValidation, size)
		}
		raw := strings.TrimSpace(s.Stocks[size])
		stock, err := strconv.Atoi(raw)
		if raw == "" || err != nil || stock <= 0 {
			missing = append(missing, strconv.Itoa(size))
			continue
		}
		lines = append(lines, SizeStock{Size: size, Stock: stock})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: enter stock for size %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}
	return lines, nil
}
