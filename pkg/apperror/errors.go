package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Participation / eligibility refusals
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrEventNotOpen         = errors.New("event is not open for entries")
	ErrWindowClosed         = errors.New("entry window for this event has closed")
	ErrAlreadyEntered       = errors.New("already entered this event")
	ErrAlreadyCanceled      = errors.New("participation already canceled")
	ErrAlreadyMatched       = errors.New("participation already matched")
	ErrGroupFull            = errors.New("invite group is full")
	ErrInvalidEventState    = errors.New("event is not in a valid state for this transition")

	// Review refusals
	ErrNotYetAccessible = errors.New("reviews are not open for this event yet")
	ErrAlreadyReviewed  = errors.New("you already reviewed this member for this match")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrSubscriptionRequired):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrAlreadyEntered),
		errors.Is(err, ErrAlreadyCanceled),
		errors.Is(err, ErrAlreadyMatched),
		errors.Is(err, ErrGroupFull),
		errors.Is(err, ErrInvalidEventState),
		errors.Is(err, ErrAlreadyReviewed):
		return http.StatusConflict
	case errors.Is(err, ErrEventNotOpen),
		errors.Is(err, ErrWindowClosed),
		errors.Is(err, ErrNotYetAccessible):
		return http.StatusUnprocessableEntity
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
