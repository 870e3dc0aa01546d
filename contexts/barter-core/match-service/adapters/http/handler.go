package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"gifted/contexts/barter-core/match-service/application/commands"
	"gifted/contexts/barter-core/match-service/application/queries"
	"gifted/contexts/barter-core/match-service/domain/entities"
	httptransport "gifted/contexts/barter-core/match-service/transport/http"
)

// Handler exposes the match use cases to the HTTP layer. Request decoding
// and error-to-status mapping live in the platform server.
type Handler struct {
	ClaimOffer   commands.ClaimOfferUseCase
	ApproveMatch commands.ApproveMatchUseCase
	RejectMatch  commands.RejectMatchUseCase
	CancelMatch  commands.CancelMatchUseCase
	ListMatches  queries.ListMatchesUseCase
	GetMatch     queries.GetMatchUseCase
	CreatorFeed  queries.CreatorFeedUseCase
	Logger       *slog.Logger
}

func (h Handler) ClaimOfferHandler(ctx context.Context, creatorID string, offerID string) (httptransport.ClaimOfferResponse, error) {
	result, err := h.ClaimOffer.Execute(ctx, commands.ClaimOfferCommand{
		OfferID:   offerID,
		CreatorID: creatorID,
	})
	if err != nil {
		return httptransport.ClaimOfferResponse{}, err
	}
	return httptransport.ClaimOfferResponse{Match: mapMatch(result.Match)}, nil
}

func (h Handler) ApproveMatchHandler(ctx context.Context, actorID string, matchID string) (httptransport.GetMatchResponse, error) {
	match, err := h.ApproveMatch.Execute(ctx, commands.ApproveMatchCommand{
		MatchID: matchID,
		ActorID: actorID,
	})
	if err != nil {
		return httptransport.GetMatchResponse{}, err
	}
	return httptransport.GetMatchResponse{Match: mapMatch(match)}, nil
}

func (h Handler) RejectMatchHandler(
	ctx context.Context,
	actorID string,
	matchID string,
	req httptransport.RejectMatchRequest,
) (httptransport.GetMatchResponse, error) {
	match, err := h.RejectMatch.Execute(ctx, commands.RejectMatchCommand{
		MatchID: matchID,
		ActorID: actorID,
		Reason:  req.Reason,
	})
	if err != nil {
		return httptransport.GetMatchResponse{}, err
	}
	return httptransport.GetMatchResponse{Match: mapMatch(match)}, nil
}

func (h Handler) CancelMatchHandler(ctx context.Context, creatorID string, matchID string) (httptransport.GetMatchResponse, error) {
	match, err := h.CancelMatch.Execute(ctx, commands.CancelMatchCommand{
		MatchID:   matchID,
		CreatorID: creatorID,
	})
	if err != nil {
		return httptransport.GetMatchResponse{}, err
	}
	return httptransport.GetMatchResponse{Match: mapMatch(match)}, nil
}

func (h Handler) GetMatchHandler(ctx context.Context, matchID string) (httptransport.GetMatchResponse, error) {
	match, err := h.GetMatch.Execute(ctx, matchID)
	if err != nil {
		return httptransport.GetMatchResponse{}, err
	}
	return httptransport.GetMatchResponse{Match: mapMatch(match)}, nil
}

func (h Handler) ListMatchesHandler(ctx context.Context, offerID string, creatorID string) (httptransport.ListMatchesResponse, error) {
	matches, err := h.ListMatches.Execute(ctx, queries.ListMatchesQuery{
		OfferID:   offerID,
		CreatorID: creatorID,
	})
	if err != nil {
		return httptransport.ListMatchesResponse{}, err
	}
	items := make([]httptransport.MatchDTO, 0, len(matches))
	for _, match := range matches {
		items = append(items, mapMatch(match))
	}
	return httptransport.ListMatchesResponse{Matches: items}, nil
}

func (h Handler) CreatorFeedHandler(ctx context.Context, creatorID string) (httptransport.FeedResponse, error) {
	items, err := h.CreatorFeed.Execute(ctx, creatorID)
	if err != nil {
		return httptransport.FeedResponse{}, err
	}
	out := make([]httptransport.FeedItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, httptransport.FeedItemDTO{
			Offer: httptransport.FeedOfferDTO{
				OfferID:                   item.Offer.OfferID,
				BrandID:                   item.Offer.BrandID,
				Template:                  item.Offer.Template,
				MaxClaims:                 item.Offer.MaxClaims,
				ActiveMatchCount:          item.Offer.ActiveMatchCount,
				DeadlineDaysAfterDelivery: item.Offer.DeadlineDaysAfterDelivery,
				FulfillmentType:           item.Offer.FulfillmentType,
				UsageRightsRequired:       item.Offer.UsageRightsRequired,
				Platforms:                 item.Offer.Platforms,
			},
			Eligible:     item.Eligible,
			DenialReason: string(item.DenialReason),
		})
	}
	return httptransport.FeedResponse{Items: out}, nil
}

func mapMatch(match entities.Match) httptransport.MatchDTO {
	dto := httptransport.MatchDTO{
		MatchID:         match.MatchID,
		OfferID:         match.OfferID,
		CreatorID:       match.CreatorID,
		Status:          string(match.Status),
		CampaignCode:    match.CampaignCode,
		RejectionReason: match.RejectionReason,
		CreatedAt:       match.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       match.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if match.AcceptedAt != nil {
		dto.AcceptedAt = match.AcceptedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
