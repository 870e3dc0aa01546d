package ports

import (
	"context"

	"gifted/contexts/barter-core/pipeline-service/domain/entities"
)

// MatchReader serves the board's match cards. Terminal matches (revoked,
// canceled) are not part of the projection.
type MatchReader interface {
	ListOpenMatches(ctx context.Context, offerID string) ([]entities.CardMatch, error)
	GetMatch(ctx context.Context, matchID string) (entities.CardMatch, error)
}

// FulfillmentReader serves the shipment/deliverable card slices; either
// pointer may be nil when the record does not exist.
type FulfillmentReader interface {
	GetFulfillment(ctx context.Context, matchID string) (*entities.CardShipment, *entities.CardDeliverable, error)
}

// MatchApprover executes the one drop gesture that maps to a match
// operation.
type MatchApprover interface {
	Approve(ctx context.Context, actorID string, matchID string) error
}

// ShipmentDispatcher executes the drop gesture onto the shipped column for
// manual-fulfillment matches.
type ShipmentDispatcher interface {
	MarkShipped(ctx context.Context, actorID string, matchID string) error
}
