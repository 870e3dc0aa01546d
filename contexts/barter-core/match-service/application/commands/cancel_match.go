package commands

import (
	"context"
	"log/slog"
	"strings"

	application "gifted/contexts/barter-core/match-service/application"
	"gifted/contexts/barter-core/match-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/ports"
)

type CancelMatchCommand struct {
	MatchID   string
	CreatorID string
}

type CancelMatchUseCase struct {
	Matches     ports.MatchRepository
	Offers      ports.OfferDirectory
	Fulfillment ports.FulfillmentProvisioner
	Notifier    ports.Notifier
	Clock       ports.Clock
	Logger      *slog.Logger
}

// Execute is the creator-initiated withdrawal, legal only before the product
// leaves the warehouse.
func (uc CancelMatchUseCase) Execute(ctx context.Context, cmd CancelMatchCommand) (entities.Match, error) {
	logger := application.ResolveLogger(uc.Logger)
	match, err := uc.Matches.GetMatch(ctx, strings.TrimSpace(cmd.MatchID))
	if err != nil {
		return entities.Match{}, err
	}
	if strings.TrimSpace(cmd.CreatorID) == "" || match.CreatorID != strings.TrimSpace(cmd.CreatorID) {
		return entities.Match{}, domainerrors.ErrUnauthorizedActor
	}
	if !match.OccupiesSlot() {
		return entities.Match{}, domainerrors.ErrInvalidStateTransition
	}
	if match.Status == entities.MatchStatusAccepted {
		dispatched, err := uc.Fulfillment.ShipmentDispatched(ctx, match.MatchID)
		if err != nil {
			return entities.Match{}, err
		}
		if dispatched {
			return entities.Match{}, domainerrors.ErrInvalidStateTransition
		}
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Matches.ChangeMatchStatus(
		ctx, match.MatchID,
		match.Status, entities.MatchStatusCanceled,
		"", now,
	); err != nil {
		return entities.Match{}, err
	}
	if err := uc.Offers.ReleaseClaimSlot(ctx, match.OfferID); err != nil {
		return entities.Match{}, err
	}

	match.Status = entities.MatchStatusCanceled
	match.UpdatedAt = now

	logger.Info("match canceled",
		"event", "match_canceled",
		"module", "barter-core/match-service",
		"layer", "application",
		"match_id", match.MatchID,
		"offer_id", match.OfferID,
	)
	return match, nil
}
