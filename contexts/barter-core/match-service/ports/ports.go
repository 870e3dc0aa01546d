package ports

import (
	"context"
	"time"

	"gifted/contexts/barter-core/match-service/domain/entities"
)

type MatchFilter struct {
	OfferID   string
	CreatorID string
}

type MatchRepository interface {
	CreateMatch(ctx context.Context, match entities.Match) error
	GetMatch(ctx context.Context, matchID string) (entities.Match, error)
	ListMatches(ctx context.Context, filter MatchFilter) ([]entities.Match, error)
	// ChangeMatchStatus applies the transition only when the stored status
	// still equals from; a lost race reports ErrConflict.
	ChangeMatchStatus(ctx context.Context, matchID string, from, to entities.MatchStatus, reason string, at time.Time) error
}

// OfferView is the slice of offer state the match service needs. It is read
// through the offer service, never from its tables directly.
type OfferView struct {
	OfferID                      string
	BrandID                      string
	Status                       string
	Template                     string
	Published                    bool
	MaxClaims                    int
	ActiveMatchCount             int
	AcceptanceFollowersThreshold int
	AboveThresholdAutoAccept     bool
	DeadlineDaysAfterDelivery    int
	FulfillmentType              string
	RequiresShipment             bool
	UsageRightsRequired          bool
	Platforms                    []string
	LocationRadiusKm             float64
	BrandLat                     *float64
	BrandLng                     *float64
}

type OfferDirectory interface {
	GetOffer(ctx context.Context, offerID string) (OfferView, error)
	ListPublishedOffers(ctx context.Context) ([]OfferView, error)
	// ReserveClaimSlot is the atomic capacity check; it fails when the offer
	// is full or no longer published.
	ReserveClaimSlot(ctx context.Context, offerID string) error
	ReleaseClaimSlot(ctx context.Context, offerID string) error
}

type CreatorDirectory interface {
	GetProfile(ctx context.Context, creatorID string) (entities.CreatorProfile, error)
}

// ProvisionRequest carries everything fulfillment needs to set up the
// shipment and deliverable for a newly accepted match.
type ProvisionRequest struct {
	MatchID                   string
	OfferID                   string
	CreatorID                 string
	BrandID                   string
	FulfillmentType           string
	RequiresShipment          bool
	UsageRightsRequired       bool
	DeadlineDaysAfterDelivery int
	AcceptedAt                time.Time
}

type FulfillmentProvisioner interface {
	Provision(ctx context.Context, req ProvisionRequest) error
	// ShipmentDispatched reports whether the match's shipment already left;
	// creator cancellation is blocked after that point.
	ShipmentDispatched(ctx context.Context, matchID string) (bool, error)
}

type StrikeRepository interface {
	AddStrike(ctx context.Context, creatorID string, reason string, at time.Time) error
	StrikeCount(ctx context.Context, creatorID string) (int, error)
}

type Notification struct {
	Kind        string
	Text        string
	RecipientID string
}

type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// CodeGenerator mints the per-match campaign tracking token.
type CodeGenerator interface {
	NewCampaignCode(ctx context.Context) (string, error)
}
