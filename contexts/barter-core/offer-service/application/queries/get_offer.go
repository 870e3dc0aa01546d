package queries

import (
	"context"
	"log/slog"
	"strings"

	"gifted/contexts/barter-core/offer-service/domain/entities"
	"gifted/contexts/barter-core/offer-service/ports"
)

type GetOfferUseCase struct {
	Offers ports.OfferRepository
	Logger *slog.Logger
}

func (uc GetOfferUseCase) Execute(ctx context.Context, offerID string) (entities.Offer, error) {
	return uc.Offers.GetOffer(ctx, strings.TrimSpace(offerID))
}
