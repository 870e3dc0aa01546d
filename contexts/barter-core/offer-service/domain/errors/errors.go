package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrOfferNotFound          = errors.New("offer not found")
	ErrDraftNotFound          = errors.New("draft not found")
	ErrInvalidOfferInput      = errors.New("invalid offer input")
	ErrOfferNotEditable       = errors.New("offer cannot be edited in current state")
	ErrInvalidStateTransition = errors.New("invalid offer state transition")
	ErrConflict               = errors.New("offer state changed concurrently")
	ErrOfferFull              = errors.New("offer has no remaining claim capacity")
	ErrOfferNotActive         = errors.New("offer is not published")
	ErrDraftVersionConflict   = errors.New("draft was updated by a newer save")
	ErrPaywall                = errors.New("active subscription required to publish")
	ErrUnauthorizedActor      = errors.New("actor does not own this offer")
	ErrValidation             = errors.New("offer metadata validation failed")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)

// Issue is one field-level validation finding. Validation never stops at the
// first issue; callers always receive the full list.
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return ErrValidation.Error()
	}
	fields := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		fields = append(fields, issue.Field)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

// IssuesFrom extracts the issue list when err is (or wraps) a ValidationError.
func IssuesFrom(err error) []Issue {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Issues
	}
	return nil
}
