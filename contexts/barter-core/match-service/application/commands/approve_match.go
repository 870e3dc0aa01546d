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

type ApproveMatchCommand struct {
	MatchID string
	ActorID string
}

type ApproveMatchUseCase struct {
	Matches     ports.MatchRepository
	Offers      ports.OfferDirectory
	Fulfillment ports.FulfillmentProvisioner
	Notifier    ports.Notifier
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc ApproveMatchUseCase) Execute(ctx context.Context, cmd ApproveMatchCommand) (entities.Match, error) {
	logger := application.ResolveLogger(uc.Logger)
	match, err := uc.Matches.GetMatch(ctx, strings.TrimSpace(cmd.MatchID))
	if err != nil {
		return entities.Match{}, err
	}
	offer, err := uc.Offers.GetOffer(ctx, match.OfferID)
	if err != nil {
		return entities.Match{}, err
	}
	if strings.TrimSpace(cmd.ActorID) == "" || offer.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Match{}, domainerrors.ErrUnauthorizedActor
	}
	if match.Status != entities.MatchStatusPendingApproval {
		return entities.Match{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	// Re-checked at commit time; a racing cancel surfaces as ErrConflict.
	if err := uc.Matches.ChangeMatchStatus(
		ctx, match.MatchID,
		entities.MatchStatusPendingApproval, entities.MatchStatusAccepted,
		"", now,
	); err != nil {
		return entities.Match{}, err
	}
	match.Status = entities.MatchStatusAccepted
	match.AcceptedAt = &now
	match.UpdatedAt = now

	if err := uc.Fulfillment.Provision(ctx, provisionRequest(offer, match, now)); err != nil {
		// Revert the acceptance so a retried approve re-runs provisioning
		// instead of dead-ending on an already-accepted match.
		if revertErr := uc.Matches.ChangeMatchStatus(
			ctx, match.MatchID,
			entities.MatchStatusAccepted, entities.MatchStatusPendingApproval,
			"", uc.Clock.Now().UTC(),
		); revertErr != nil {
			logger.Error("approve rollback failed",
				"event", "match_approve_rollback_failed",
				"module", "barter-core/match-service",
				"layer", "application",
				"match_id", match.MatchID,
				"error", revertErr.Error(),
			)
		}
		return entities.Match{}, err
	}
	if uc.Notifier != nil {
		uc.Notifier.Notify(ctx, ports.Notification{
			Kind:        "success",
			Text:        "Your claim was approved.",
			RecipientID: match.CreatorID,
		})
	}

	logger.Info("match approved",
		"event", "match_approved",
		"module", "barter-core/match-service",
		"layer", "application",
		"match_id", match.MatchID,
		"offer_id", match.OfferID,
	)
	return match, nil
}
