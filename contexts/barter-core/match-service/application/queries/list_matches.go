package queries

import (
	"context"
	"log/slog"
	"strings"

	"gifted/contexts/barter-core/match-service/domain/entities"
	"gifted/contexts/barter-core/match-service/ports"
)

type ListMatchesQuery struct {
	OfferID   string
	CreatorID string
}

type ListMatchesUseCase struct {
	Matches ports.MatchRepository
	Logger  *slog.Logger
}

func (uc ListMatchesUseCase) Execute(ctx context.Context, query ListMatchesQuery) ([]entities.Match, error) {
	return uc.Matches.ListMatches(ctx, ports.MatchFilter{
		OfferID:   strings.TrimSpace(query.OfferID),
		CreatorID: strings.TrimSpace(query.CreatorID),
	})
}

type GetMatchUseCase struct {
	Matches ports.MatchRepository
	Logger  *slog.Logger
}

func (uc GetMatchUseCase) Execute(ctx context.Context, matchID string) (entities.Match, error) {
	return uc.Matches.GetMatch(ctx, strings.TrimSpace(matchID))
}
