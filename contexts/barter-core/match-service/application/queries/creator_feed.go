package queries

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/domain/services"
	"gifted/contexts/barter-core/match-service/ports"
)

type FeedItem struct {
	Offer        ports.OfferView
	Eligible     bool
	DenialReason domainerrors.DenialReason
}

type CreatorFeedUseCase struct {
	Matches  ports.MatchRepository
	Offers   ports.OfferDirectory
	Creators ports.CreatorDirectory
	Logger   *slog.Logger
}

// Execute assembles the creator feed: every published offer, annotated with
// whether this creator could claim it right now and why not otherwise.
func (uc CreatorFeedUseCase) Execute(ctx context.Context, creatorID string) ([]FeedItem, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, domainerrors.ErrInvalidMatchInput
	}

	creator, err := uc.Creators.GetProfile(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	offers, err := uc.Offers.ListPublishedOffers(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(offers))
	for _, offer := range offers {
		existing, err := uc.Matches.ListMatches(ctx, ports.MatchFilter{
			OfferID:   offer.OfferID,
			CreatorID: creatorID,
		})
		if err != nil {
			return nil, err
		}
		item := FeedItem{Offer: offer, Eligible: true}
		if reason := services.EvaluateClaimEligibility(offer, creator, existing); reason != nil {
			item.Eligible = false
			item.DenialReason = *reason
		}
		items = append(items, item)
	}
	return items, nil
}
