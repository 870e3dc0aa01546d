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

type ProvisionCommand struct {
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

type ProvisionUseCase struct {
	Shipments    ports.ShipmentRepository
	Deliverables ports.DeliverableRepository
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

// Execute sets up the fulfillment records for a newly accepted match: a
// pending shipment when the offer ships product, and the deliverable that
// tracks the content submission. Re-provisioning an already provisioned
// match is a no-op so acceptance retries stay safe.
func (uc ProvisionUseCase) Execute(ctx context.Context, cmd ProvisionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	matchID := strings.TrimSpace(cmd.MatchID)
	if matchID == "" {
		return domainerrors.ErrInvalidInput
	}

	if _, err := uc.Deliverables.GetDeliverableByMatch(ctx, matchID); err == nil {
		return nil
	} else if !errors.Is(err, domainerrors.ErrDeliverableNotFound) {
		return err
	}

	now := uc.Clock.Now().UTC()

	if cmd.RequiresShipment {
		shipmentID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		shipment := entities.Shipment{
			ShipmentID:      shipmentID,
			MatchID:         matchID,
			OfferID:         strings.TrimSpace(cmd.OfferID),
			BrandID:         strings.TrimSpace(cmd.BrandID),
			CreatorID:       strings.TrimSpace(cmd.CreatorID),
			FulfillmentType: entities.FulfillmentType(cmd.FulfillmentType),
			Status:          entities.ShipmentStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := uc.Shipments.CreateShipment(ctx, shipment); err != nil {
			return err
		}
	}

	deliverableID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	deliverable := entities.Deliverable{
		DeliverableID:       deliverableID,
		MatchID:             matchID,
		OfferID:             strings.TrimSpace(cmd.OfferID),
		BrandID:             strings.TrimSpace(cmd.BrandID),
		CreatorID:           strings.TrimSpace(cmd.CreatorID),
		Status:              entities.DeliverableStatusDue,
		DeadlineDays:        cmd.DeadlineDaysAfterDelivery,
		UsageRightsRequired: cmd.UsageRightsRequired,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if !cmd.RequiresShipment {
		// No shipment to wait for: the deadline clock starts at acceptance.
		due := cmd.AcceptedAt.UTC().Add(time.Duration(cmd.DeadlineDaysAfterDelivery) * 24 * time.Hour)
		deliverable.DueAt = &due
	}
	if err := uc.Deliverables.CreateDeliverable(ctx, deliverable); err != nil {
		return err
	}

	logger.Info("match provisioned",
		"event", "fulfillment_provisioned",
		"module", "barter-core/fulfillment-service",
		"layer", "application",
		"match_id", matchID,
		"requires_shipment", cmd.RequiresShipment,
	)
	return nil
}
