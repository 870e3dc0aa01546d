package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrOfferNotFound          = errors.New("offer not found")
	ErrCreatorNotFound        = errors.New("creator profile not found")
	ErrInvalidMatchInput      = errors.New("invalid match input")
	ErrInvalidStateTransition = errors.New("invalid match state transition")
	ErrConflict               = errors.New("match state changed concurrently")
	ErrReasonRequired         = errors.New("a rejection reason is required")
	ErrUnauthorizedActor      = errors.New("actor may not act on this match")
	ErrEligibilityDenied      = errors.New("creator is not eligible to claim this offer")
)

// DenialReason is the typed eligibility outcome; callers branch on it to
// route the creator (profile completion, reconnect social, capture location).
type DenialReason string

const (
	DenialOfferNotActive    DenialReason = "offer_not_active"
	DenialOfferFull         DenialReason = "offer_full"
	DenialAlreadyClaimed    DenialReason = "already_claimed"
	DenialPreviouslyRevoked DenialReason = "previously_revoked"
	DenialProfileIncomplete DenialReason = "profile_incomplete"
	DenialSocialMissing     DenialReason = "social_disconnected"
	DenialSocialExpired     DenialReason = "social_expired"
	DenialLocationMissing   DenialReason = "location_missing"
	DenialOutOfRadius       DenialReason = "out_of_radius"
)

type EligibilityError struct {
	Reason DenialReason
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("%s: %s", ErrEligibilityDenied.Error(), e.Reason)
}

func (e *EligibilityError) Unwrap() error {
	return ErrEligibilityDenied
}

func NewEligibilityError(reason DenialReason) error {
	return &EligibilityError{Reason: reason}
}

// ReasonFrom extracts the denial reason when err wraps an EligibilityError.
func ReasonFrom(err error) (DenialReason, bool) {
	var e *EligibilityError
	if errors.As(err, &e) {
		return e.Reason, true
	}
	return "", false
}
