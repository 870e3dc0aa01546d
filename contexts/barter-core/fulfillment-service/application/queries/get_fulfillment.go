package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"
	"gifted/contexts/barter-core/fulfillment-service/ports"
)

// MatchFulfillment is the combined fulfillment view of one match. Either
// pointer may be nil: digital offers have no shipment, and an unprovisioned
// match has neither.
type MatchFulfillment struct {
	Shipment    *entities.Shipment
	Deliverable *entities.Deliverable
}

type GetMatchFulfillmentUseCase struct {
	Shipments    ports.ShipmentRepository
	Deliverables ports.DeliverableRepository
	Logger       *slog.Logger
}

func (uc GetMatchFulfillmentUseCase) Execute(ctx context.Context, matchID string) (MatchFulfillment, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchFulfillment{}, domainerrors.ErrInvalidInput
	}

	var view MatchFulfillment
	shipment, err := uc.Shipments.GetShipmentByMatch(ctx, matchID)
	switch {
	case err == nil:
		view.Shipment = &shipment
	case !errors.Is(err, domainerrors.ErrShipmentNotFound):
		return MatchFulfillment{}, err
	}

	deliverable, err := uc.Deliverables.GetDeliverableByMatch(ctx, matchID)
	switch {
	case err == nil:
		view.Deliverable = &deliverable
	case !errors.Is(err, domainerrors.ErrDeliverableNotFound):
		return MatchFulfillment{}, err
	}
	return view, nil
}
