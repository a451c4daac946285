package utils

import "errors"

// Common application errors used across services.
var (
	ErrStudentNotFound    = errors.New("STUDENT_NOT_FOUND")
	ErrStudentExists      = errors.New("STUDENT_EXISTS")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrProductExists      = errors.New("PRODUCT_EXISTS")
	ErrInsufficientPoints = errors.New("INSUFFICIENT_POINTS")
	ErrInvalidPoints      = errors.New("INVALID_POINTS")
	ErrInvalidPin         = errors.New("INVALID_PIN")
	ErrPinNotConfigured   = errors.New("PIN_NOT_CONFIGURED")
	ErrSuggestionNotFound = errors.New("SUGGESTION_NOT_FOUND")
	ErrSessionNotFound    = errors.New("SESSION_NOT_FOUND")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
)
