package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned in the "error.code" field of API responses
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeDuplicate          = "DUPLICATE"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidProductType = "INVALID_PRODUCT_TYPE"
	CodeInternal           = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be presented to API clients
type AppError struct {
	Code     string
	Message  string
	HTTPCode int
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError
func New(code, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

// Wrap creates an AppError that keeps err in its chain
func Wrap(err error, code, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode, Err: err}
}

// Validation reports a domain validation failure (422)
func Validation(message string) *AppError {
	return New(CodeValidation, "Validation error: "+message, http.StatusUnprocessableEntity)
}

// BadRequest reports a malformed request (400)
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message, http.StatusBadRequest)
}

// Duplicate reports a unique constraint violation (409)
func Duplicate(message string) *AppError {
	return New(CodeDuplicate, message, http.StatusConflict)
}

// NotFound reports a missing resource (404)
func NotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found", http.StatusNotFound)
}

// Unauthorized reports a missing or invalid identity (401)
func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden reports an identity without the required role (403)
func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

// InvalidProductType reports a cart line item with an unknown product tag (400)
func InvalidProductType(productType string) *AppError {
	return New(CodeInvalidProductType, fmt.Sprintf("Invalid product type: %q", productType), http.StatusBadRequest)
}

// Storage hides a persistence failure behind a generic message (500).
// The original error stays available through Unwrap for server-side logs.
func Storage(err error) *AppError {
	return Wrap(err, CodeInternal, "internal server error", http.StatusInternalServerError)
}

// validationFailure is satisfied by models.ValidationError without importing models
type validationFailure interface {
	error
	ValidationField() string
}

// FromValidation re-classifies an entity constructor failure as a 422.
// Errors that are not validation failures are returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}
	var vf validationFailure
	if errors.As(err, &vf) {
		return Wrap(err, CodeValidation, "Validation error: "+vf.Error(), http.StatusUnprocessableEntity)
	}
	return err
}

// As extracts the AppError from err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries an AppError with the given code
func HasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
