package dto

import (
	"net/http"
	"strings"
)

// Error codes returned in ErrorInfo.Code. Domain errors keep their own code;
// these constants cover the ones the HTTP layer emits or maps explicitly.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeStoreNotFound   = "STORE_NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeInFlight        = "REQUEST_IN_FLIGHT"
	ErrCodeInvalidState    = "INVALID_STATE"
	ErrCodeConfirmRequired = "CONFIRMATION_REQUIRED"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Auth error codes
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ACCOUNT_LOCKED"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeTokenMaxRefresh    = "TOKEN_MAX_REFRESH"
	ErrCodeTokenRevoked       = "TOKEN_REVOKED"
)

// Image error codes
const (
	ErrCodeInvalidImage  = "INVALID_IMAGE"
	ErrCodeImageTooLarge = "IMAGE_TOO_LARGE"
	ErrCodeImageRequired = "IMAGE_REQUIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeImageRequired: http.StatusBadRequest,
	ErrCodeInvalidImage:  http.StatusBadRequest,
	"CATEGORY_REQUIRED":  http.StatusBadRequest,

	ErrCodeConfirmRequired: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	ErrCodeForbidden:     http.StatusForbidden,
	ErrCodeAccountLocked: http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeStoreNotFound: http.StatusNotFound,

	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeInFlight:      http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeImageTooLarge:   http.StatusRequestEntityTooLarge,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are field errors (400); anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
