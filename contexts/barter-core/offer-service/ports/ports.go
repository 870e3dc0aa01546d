package ports

import (
	"context"
	"time"

	"gifted/contexts/barter-core/offer-service/domain/entities"
)

type OfferFilter struct {
	BrandID string
	Status  entities.OfferStatus
}

type OfferRepository interface {
	CreateOffer(ctx context.Context, offer entities.Offer) error
	UpdateOffer(ctx context.Context, offer entities.Offer) error
	GetOffer(ctx context.Context, offerID string) (entities.Offer, error)
	ListOffers(ctx context.Context, filter OfferFilter) ([]entities.Offer, error)
	// ChangeOfferStatus applies the transition only when the stored status
	// still equals from; otherwise it reports ErrConflict. This is the
	// commit-time precondition check every transition relies on.
	ChangeOfferStatus(ctx context.Context, offerID string, from, to entities.OfferStatus, at time.Time) error
	// DeleteOffer removes the offer only while it is still a draft.
	DeleteOffer(ctx context.Context, offerID string) error
	// ReserveClaimSlot conditionally increments the active-claim counter,
	// failing when the offer is at capacity or not published. It is the
	// compare-and-set backing the maxClaims cap.
	ReserveClaimSlot(ctx context.Context, offerID string) error
	ReleaseClaimSlot(ctx context.Context, offerID string) error
}

type DraftRepository interface {
	GetDraft(ctx context.Context, offerID string) (entities.Draft, error)
	// SaveDraft persists the draft only when the stored version equals
	// expectedVersion (0 for a first save); a stale save reports
	// ErrDraftVersionConflict.
	SaveDraft(ctx context.Context, draft entities.Draft, expectedVersion int) (entities.Draft, error)
	DeleteDraft(ctx context.Context, offerID string) error
}

type HistoryRepository interface {
	AppendState(ctx context.Context, item entities.StateHistory) error
}

type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OfferID     string
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// BillingGate answers the subscribed/not-subscribed question that gates
// publishing when billing is enabled.
type BillingGate interface {
	SubscriptionActive(ctx context.Context, brandID string) (bool, error)
}

type Notification struct {
	Kind        string
	Text        string
	RecipientID string
}

// Notifier delivery is fire-and-forget; use cases never fail on it.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
