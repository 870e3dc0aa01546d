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

type RejectMatchCommand struct {
	MatchID string
	ActorID string
	Reason  string
}

type RejectMatchUseCase struct {
	Matches  ports.MatchRepository
	Offers   ports.OfferDirectory
	Strikes  ports.StrikeRepository
	Notifier ports.Notifier
	Clock    ports.Clock
	Logger   *slog.Logger
}

// Execute revokes a match. Revocation is terminal: the creator cannot
// re-claim the offer afterwards.
func (uc RejectMatchUseCase) Execute(ctx context.Context, cmd RejectMatchCommand) (entities.Match, error) {
	logger := application.ResolveLogger(uc.Logger)
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return entities.Match{}, domainerrors.ErrReasonRequired
	}

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
	if !match.OccupiesSlot() {
		return entities.Match{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Matches.ChangeMatchStatus(
		ctx, match.MatchID,
		match.Status, entities.MatchStatusRevoked,
		reason, now,
	); err != nil {
		return entities.Match{}, err
	}
	if err := uc.Offers.ReleaseClaimSlot(ctx, match.OfferID); err != nil {
		return entities.Match{}, err
	}
	if uc.Strikes != nil {
		if err := uc.Strikes.AddStrike(ctx, match.CreatorID, reason, now); err != nil {
			logger.Error("strike accrual failed",
				"event", "match_strike_failed",
				"module", "barter-core/match-service",
				"layer", "application",
				"creator_id", match.CreatorID,
				"error", err.Error(),
			)
		}
	}
	if uc.Notifier != nil {
		uc.Notifier.Notify(ctx, ports.Notification{
			Kind:        "error",
			Text:        "Your claim was declined: " + reason,
			RecipientID: match.CreatorID,
		})
	}

	match.Status = entities.MatchStatusRevoked
	match.RejectionReason = reason
	match.UpdatedAt = now

	logger.Info("match revoked",
		"event", "match_revoked",
		"module", "barter-core/match-service",
		"layer", "application",
		"match_id", match.MatchID,
		"offer_id", match.OfferID,
		"reason", reason,
	)
	return match, nil
}
