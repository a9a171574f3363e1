package services

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/profanity"
)

var (
	// ErrProfanityRejected carries the fixed, non-specific warning.
	ErrProfanityRejected = errors.New(profanity.Warning())

	// ErrAlreadyReacted is a benign outcome, reported to callers as success.
	ErrAlreadyReacted = errors.New("already reacted")

	ErrPostingWindowClosed = errors.New("the wall is closed for new confessions")
	ErrConfessionNotFound  = errors.New("confession not found")
	ErrReportNotFound      = errors.New("one or more reports not found")
	ErrStoreUnavailable    = errors.New("something went wrong, please try again")

	ErrInvalidAdminToken = errors.New("invalid admin token")
	ErrAdminDisabled     = errors.New("moderation is not configured")
)

// ValidationError reports bad input, checked before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// RateLimitedError is returned while the client's submit interval is running.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before posting again", e.RetryAfterSeconds)
}
