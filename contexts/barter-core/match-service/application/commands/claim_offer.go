package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "gifted/contexts/barter-core/match-service/application"
	"gifted/contexts/barter-core/match-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/domain/services"
	"gifted/contexts/barter-core/match-service/ports"
)

type ClaimOfferCommand struct {
	OfferID   string
	CreatorID string
}

type ClaimOfferResult struct {
	Match entities.Match
}

type ClaimOfferUseCase struct {
	Matches     ports.MatchRepository
	Offers      ports.OfferDirectory
	Creators    ports.CreatorDirectory
	Fulfillment ports.FulfillmentProvisioner
	Notifier    ports.Notifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Codes       ports.CodeGenerator
	Logger      *slog.Logger
}

// Execute runs the claim workflow: eligibility, acceptance policy, atomic
// slot reservation, match creation, and fulfillment provisioning for
// auto-accepted claims.
func (uc ClaimOfferUseCase) Execute(ctx context.Context, cmd ClaimOfferCommand) (ClaimOfferResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	offerID := strings.TrimSpace(cmd.OfferID)
	creatorID := strings.TrimSpace(cmd.CreatorID)
	if offerID == "" || creatorID == "" {
		return ClaimOfferResult{}, domainerrors.ErrInvalidMatchInput
	}

	offer, err := uc.Offers.GetOffer(ctx, offerID)
	if err != nil {
		return ClaimOfferResult{}, err
	}
	creator, err := uc.Creators.GetProfile(ctx, creatorID)
	if err != nil {
		return ClaimOfferResult{}, err
	}
	existing, err := uc.Matches.ListMatches(ctx, ports.MatchFilter{OfferID: offerID, CreatorID: creatorID})
	if err != nil {
		return ClaimOfferResult{}, err
	}

	if reason := services.EvaluateClaimEligibility(offer, creator, existing); reason != nil {
		logger.Info("claim denied",
			"event", "match_claim_denied",
			"module", "barter-core/match-service",
			"layer", "application",
			"offer_id", offerID,
			"creator_id", creatorID,
			"reason", string(*reason),
		)
		return ClaimOfferResult{}, domainerrors.NewEligibilityError(*reason)
	}

	status := services.DecideAcceptance(
		creator.FollowersCount,
		offer.AcceptanceFollowersThreshold,
		offer.AboveThresholdAutoAccept,
	)

	matchID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return ClaimOfferResult{}, err
	}
	code, err := uc.Codes.NewCampaignCode(ctx)
	if err != nil {
		return ClaimOfferResult{}, err
	}

	// The slot reservation is the compare-and-set against maxClaims; the
	// eligibility capacity check above only orders the user-facing message.
	if err := uc.Offers.ReserveClaimSlot(ctx, offerID); err != nil {
		return ClaimOfferResult{}, err
	}

	now := uc.Clock.Now().UTC()
	match := entities.Match{
		MatchID:      matchID,
		OfferID:      offerID,
		CreatorID:    creatorID,
		Status:       status,
		CampaignCode: code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == entities.MatchStatusAccepted {
		match.AcceptedAt = &now
	}

	if err := uc.Matches.CreateMatch(ctx, match); err != nil {
		if releaseErr := uc.Offers.ReleaseClaimSlot(ctx, offerID); releaseErr != nil {
			logger.Error("claim slot release failed",
				"event", "match_claim_slot_release_failed",
				"module", "barter-core/match-service",
				"layer", "application",
				"offer_id", offerID,
				"error", releaseErr.Error(),
			)
		}
		return ClaimOfferResult{}, err
	}

	if status == entities.MatchStatusAccepted {
		if err := uc.Fulfillment.Provision(ctx, provisionRequest(offer, match, now)); err != nil {
			// Roll the claim back so the creator can retry: cancel the match
			// and free the slot, mirroring the CreateMatch compensation.
			if cancelErr := uc.Matches.ChangeMatchStatus(
				ctx, match.MatchID,
				status, entities.MatchStatusCanceled,
				"", uc.Clock.Now().UTC(),
			); cancelErr != nil {
				logger.Error("claim rollback failed",
					"event", "match_claim_rollback_failed",
					"module", "barter-core/match-service",
					"layer", "application",
					"match_id", match.MatchID,
					"offer_id", offerID,
					"error", cancelErr.Error(),
				)
			}
			if releaseErr := uc.Offers.ReleaseClaimSlot(ctx, offerID); releaseErr != nil {
				logger.Error("claim slot release failed",
					"event", "match_claim_slot_release_failed",
					"module", "barter-core/match-service",
					"layer", "application",
					"offer_id", offerID,
					"error", releaseErr.Error(),
				)
			}
			return ClaimOfferResult{}, err
		}
		if uc.Notifier != nil {
			uc.Notifier.Notify(ctx, ports.Notification{
				Kind:        "success",
				Text:        "You're in! The brand will ship your product soon.",
				RecipientID: creatorID,
			})
		}
	}

	logger.Info("offer claimed",
		"event", "match_claimed",
		"module", "barter-core/match-service",
		"layer", "application",
		"match_id", match.MatchID,
		"offer_id", offerID,
		"creator_id", creatorID,
		"status", string(status),
	)
	return ClaimOfferResult{Match: match}, nil
}

func provisionRequest(offer ports.OfferView, match entities.Match, acceptedAt time.Time) ports.ProvisionRequest {
	return ports.ProvisionRequest{
		MatchID:                   match.MatchID,
		OfferID:                   offer.OfferID,
		CreatorID:                 match.CreatorID,
		BrandID:                   offer.BrandID,
		FulfillmentType:           offer.FulfillmentType,
		RequiresShipment:          offer.RequiresShipment,
		UsageRightsRequired:       offer.UsageRightsRequired,
		DeadlineDaysAfterDelivery: offer.DeadlineDaysAfterDelivery,
		AcceptedAt:                acceptedAt,
	}
}
