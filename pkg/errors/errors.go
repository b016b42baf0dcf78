package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors shared across the engine. Services wrap these so callers
// can branch with errors.Is regardless of how many layers added context.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCombination = errors.New("invalid product combination")
	ErrCouponInvalid      = errors.New("coupon invalid")
	ErrOutOfStock         = errors.New("out of stock")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal error")
)

// AppError is a structured application error carrying a stable machine code
// and an HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthenticated creates a 401 error for requests without a caller identity.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHENTICATED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthenticated,
	}
}

// InvalidCombination creates a 422 error for a cart line whose
// product/variant/size chain does not resolve. Any line failing this way
// aborts the whole cart save or order placement.
func InvalidCombination(productID, variantID, sizeID string) *AppError {
	return &AppError{
		Code:    "INVALID_COMBINATION",
		Message: fmt.Sprintf("product %s, variant %s, size %s is not a valid combination", productID, variantID, sizeID),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidCombination,
	}
}

// CouponInvalid creates a 422 error for a missing, expired, or
// store-mismatched coupon.
func CouponInvalid(message string) *AppError {
	return &AppError{
		Code:    "COUPON_INVALID",
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrCouponInvalid,
	}
}

// OutOfStock creates a 409 error raised when the conditional stock decrement
// at order placement finds less stock than the validated quantity.
func OutOfStock(sizeID string, requested int) *AppError {
	return &AppError{
		Code:    "OUT_OF_STOCK",
		Message: fmt.Sprintf("size %s no longer has %d units available", sizeID, requested),
		Status:  http.StatusConflict,
		Err:     ErrOutOfStock,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Internal creates a 500 error wrapping the underlying cause.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidCombination), errors.Is(err, ErrCouponInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
