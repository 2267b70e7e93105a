// Package errors defines the structured error taxonomy for the UnderwritePro
// API. Service-layer code returns *AppError values so that handlers can map
// them to stable error codes and HTTP statuses without leaking internals.
package errors

import "net/http"

// AppError is a structured application error carrying a machine-readable
// code, a client-safe message, the HTTP status to respond with, and an
// optional wrapped internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as its wrapped cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom client-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Borrower errors.
var (
	ErrBorrowerNotFound = &AppError{Code: "BORROWER_NOT_FOUND", Message: "Borrower not found", StatusCode: http.StatusNotFound}
)

// Deal errors.
var (
	ErrDealNotFound        = &AppError{Code: "DEAL_NOT_FOUND", Message: "Deal not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatusChange = &AppError{Code: "INVALID_STATUS_CHANGE", Message: "Deal status transition not allowed", StatusCode: http.StatusBadRequest}
	ErrMissingLoanTerms    = &AppError{Code: "MISSING_LOAN_TERMS", Message: "Deal is missing loan terms required for underwriting", StatusCode: http.StatusBadRequest}
)

// Underwriting errors.
var (
	ErrNoUnderwritingResult = &AppError{Code: "NO_UNDERWRITING_RESULT", Message: "Deal has not been underwritten yet", StatusCode: http.StatusNotFound}
)

// Document errors.
var (
	ErrDocumentNotFound = &AppError{Code: "DOCUMENT_NOT_FOUND", Message: "Document not found", StatusCode: http.StatusNotFound}
	ErrDocumentTooLarge = &AppError{Code: "DOCUMENT_TOO_LARGE", Message: "Document exceeds the maximum allowed size", StatusCode: http.StatusRequestEntityTooLarge}
)
