package ports

import (
	"context"
	"time"

	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
)

type ShipmentRepository interface {
	CreateShipment(ctx context.Context, shipment entities.Shipment) error
	GetShipment(ctx context.Context, shipmentID string) (entities.Shipment, error)
	GetShipmentByMatch(ctx context.Context, matchID string) (entities.Shipment, error)
	UpdateShipment(ctx context.Context, shipment entities.Shipment) error
}

type DeliverableRepository interface {
	CreateDeliverable(ctx context.Context, deliverable entities.Deliverable) error
	GetDeliverable(ctx context.Context, deliverableID string) (entities.Deliverable, error)
	GetDeliverableByMatch(ctx context.Context, matchID string) (entities.Deliverable, error)
	// UpdateDeliverable persists the record only when the stored status still
	// equals expectedStatus; a lost race reports ErrConflict.
	UpdateDeliverable(ctx context.Context, deliverable entities.Deliverable, expectedStatus entities.DeliverableStatus) error
}

// StrikeSink receives creator strike events for failed deliverables. The
// match service keeps the counter; fulfillment only reports.
type StrikeSink interface {
	AddStrike(ctx context.Context, creatorID string, reason string, at time.Time) error
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
