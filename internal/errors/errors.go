package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrValidation is returned when a request is rejected before touching storage.
	ErrValidation = errors.New("validation failed")
	// ErrSellerNotFound is returned when a seller is not found.
	ErrSellerNotFound = errors.New("seller not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound is returned when a variant is not found.
	ErrVariantNotFound = errors.New("variant not found")
	// ErrOfferNotFound is returned when an offer is not found.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrSellerNotEligible is returned when a seller is not active and verified.
	ErrSellerNotEligible = errors.New("seller must be active and verified to publish offers")
	// ErrForbidden is returned when a caller touches a record it does not own.
	ErrForbidden = errors.New("not allowed to modify this record")
	// ErrInvalidStatus is returned for an unknown seller status.
	ErrInvalidStatus = errors.New("invalid seller status")
	// ErrTooManyFiles is returned when an upload call exceeds the file cap.
	ErrTooManyFiles = errors.New("maximum 10 images allowed per upload")
)

// BatchError reports the sizes of a multi-size submission that failed to
// save. Sizes that are not listed were saved.
type BatchError struct {
	Failed map[int]error
}

// Add records the failure of one size.
func (e *BatchError) Add(size int, err error) {
	if e.Failed == nil {
		e.Failed = make(map[int]error)
	}
	e.Failed[size] = err
}

// Sizes returns the failed sizes in ascending order.
func (e *BatchError) Sizes() []int {
	sizes := make([]int, 0, len(e.Failed))
	for size := range e.Failed {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	return sizes
}

// Err returns nil when nothing failed, otherwise e.
func (e *BatchError) Err() error {
	if e == nil || len(e.Failed) == 0 {
		return nil
	}
	return e
}

func (e *BatchError) Error() string {
	sizes := e.Sizes()
	labels := make([]string, len(sizes))
	var combined error
	for i, size := range sizes {
		labels[i] = strconv.Itoa(size)
		combined = multierr.Append(combined, fmt.Errorf("size %d: %w", size, e.Failed[size]))
	}
	return fmt.Sprintf("failed to save size %s: %v", strings.Join(labels, ", "), combined)
}

// Unwrap exposes the per-size errors to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, size := range e.Sizes() {
		errs = append(errs, e.Failed[size])
	}
	return errs
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors keep their
// message so validation details reach the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrTooManyFiles):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TOO_MANY_FILES")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrSellerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SELLER_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrVariantNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "VARIANT_NOT_FOUND")
	case errors.Is(err, ErrOfferNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "OFFER_NOT_FOUND")
	case errors.Is(err, ErrSellerNotEligible):
		return NewHTTPError(http.StatusForbidden, err.Error(), "SELLER_NOT_ELIGIBLE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case err != nil:
		// Storage errors are surfaced verbatim.
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "BACKEND_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
