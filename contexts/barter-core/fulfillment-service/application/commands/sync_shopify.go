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

type SyncShopifyStatusCommand struct {
	ShipmentID string
	Status     string
}

type SyncShopifyStatusUseCase struct {
	Shipments    ports.ShipmentRepository
	Deliverables ports.DeliverableRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

// Execute mirrors a storefront order status onto the shipment. The feed is
// the single authority for shopify shipments, so any valid status is
// accepted as-is; the first status in the shipped set stamps ShippedAt and
// starts the deliverable deadline clock.
func (uc SyncShopifyStatusUseCase) Execute(ctx context.Context, cmd SyncShopifyStatusCommand) (entities.Shipment, error) {
	logger := application.ResolveLogger(uc.Logger)
	shipmentID := strings.TrimSpace(cmd.ShipmentID)
	status := entities.ShipmentStatus(strings.TrimSpace(cmd.Status))
	if shipmentID == "" {
		return entities.Shipment{}, domainerrors.ErrInvalidInput
	}
	if !entities.ValidShopifyStatus(status) {
		return entities.Shipment{}, domainerrors.ErrInvalidInput
	}

	shipment, err := uc.Shipments.GetShipment(ctx, shipmentID)
	if err != nil {
		return entities.Shipment{}, err
	}
	if shipment.FulfillmentType != entities.FulfillmentShopify {
		return entities.Shipment{}, domainerrors.ErrInvalidStateTransition
	}
	if shipment.Status == status {
		return shipment, nil
	}

	now := uc.Clock.Now().UTC()
	wasDispatched := shipment.Dispatched()
	shipment.Status = status
	shipment.UpdatedAt = now
	if !wasDispatched && shipment.Dispatched() && shipment.ShippedAt == nil {
		shipment.ShippedAt = &now
	}

	if err := uc.Shipments.UpdateShipment(ctx, shipment); err != nil {
		return entities.Shipment{}, err
	}

	if !wasDispatched && shipment.Dispatched() {
		if err := uc.startDeadline(ctx, shipment.MatchID, now); err != nil {
			return entities.Shipment{}, err
		}
	}

	logger.Info("shopify status mirrored",
		"event", "shipment_shopify_synced",
		"module", "barter-core/fulfillment-service",
		"layer", "application",
		"shipment_id", shipmentID,
		"status", string(status),
	)
	return shipment, nil
}

func (uc SyncShopifyStatusUseCase) startDeadline(ctx context.Context, matchID string, shippedAt time.Time) error {
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
