package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "gifted/contexts/barter-core/fulfillment-service/application"
	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"
	"gifted/contexts/barter-core/fulfillment-service/ports"
)

type MarkShippedCommand struct {
	ShipmentID     string
	ActorID        string
	Carrier        string
	TrackingNumber string
	TrackingURL    string
}

type MarkShippedUseCase struct {
	Shipments    ports.ShipmentRepository
	Deliverables ports.DeliverableRepository
	Notifier     ports.Notifier
	Clock        ports.Clock
	Logger       *slog.Logger
}

// Execute records the brand's manual dispatch. Marking an already shipped
// record with identical tracking fields is a no-op; different fields on a
// shipped record report an invalid transition. Shipping starts the
// deliverable deadline clock.
func (uc MarkShippedUseCase) Execute(ctx context.Context, cmd MarkShippedCommand) (entities.Shipment, error) {
	logger := application.ResolveLogger(uc.Logger)
	shipmentID := strings.TrimSpace(cmd.ShipmentID)
	if shipmentID == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidInput
	}

	shipment, err := uc.Shipments.GetShipment(ctx, shipmentID)
	if err != nil {
		return entities.Shipment{}, err
	}
	if shipment.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Shipment{}, domainerrors.ErrUnauthorizedActor
	}
	if shipment.FulfillmentType != entities.FulfillmentManual {
		return entities.Shipment{}, domainerrors.ErrInvalidStateTransition
	}

	carrier := strings.TrimSpace(cmd.Carrier)
	trackingNumber := strings.TrimSpace(cmd.TrackingNumber)
	trackingURL := strings.TrimSpace(cmd.TrackingURL)

	if shipment.Status == entities.ShipmentStatusShipped {
		if shipment.SameTracking(carrier, trackingNumber, trackingURL) {
			return shipment, nil
		}
		return entities.Shipment{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	shipment.Status = entities.ShipmentStatusShipped
	shipment.Carrier = carrier
	shipment.TrackingNumber = trackingNumber
	shipment.TrackingURL = trackingURL
	shipment.ShippedAt = &now
	shipment.UpdatedAt = now

	if err := uc.Shipments.UpdateShipment(ctx, shipment); err != nil {
		return entities.Shipment{}, err
	}

	if err := uc.startDeadline(ctx, shipment.MatchID, now); err != nil {
		return entities.Shipment{}, err
	}

	logger.Info("shipment dispatched",
		"event", "shipment_marked_shipped",
		"module", "barter-core/fulfillment-service",
		"layer", "application",
		"shipment_id", shipmentID,
		"match_id", shipment.MatchID,
	)
	if uc.Notifier != nil {
		uc.Notifier.Notify(ctx, ports.Notification{
			Kind:        "info",
			Text:        "Your product is on the way.",
			RecipientID: shipment.CreatorID,
		})
	}
	return shipment, nil
}

func (uc MarkShippedUseCase) startDeadline(ctx context.Context, matchID string, shippedAt time.Time) error {
	deliverable, err := uc.Deliverables.GetDeliverableByMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrDeliverableNotFound) {
			return nil
		}
		return err
	}
	if deliverable.DueAt != nil || deliverable.Terminal() {
		return nil
	}
	due := shippedAt.Add(time.Duration(deliverable.DeadlineDays) * 24 * time.Hour)
	deliverable.DueAt = &due
	deliverable.UpdatedAt = shippedAt
	return uc.Deliverables.UpdateDeliverable(ctx, deliverable, deliverable.Status)
}
