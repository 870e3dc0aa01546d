package queries

import (
	"context"
	"log/slog"
	"strings"

	"gifted/contexts/barter-core/offer-service/domain/entities"
	"gifted/contexts/barter-core/offer-service/ports"
)

type ListOffersQuery struct {
	BrandID string
	Status  string
}

type ListOffersUseCase struct {
	Offers ports.OfferRepository
	Logger *slog.Logger
}

func (uc ListOffersUseCase) Execute(ctx context.Context, query ListOffersQuery) ([]entities.Offer, error) {
	return uc.Offers.ListOffers(ctx, ports.OfferFilter{
		BrandID: strings.TrimSpace(query.BrandID),
		Status:  entities.OfferStatus(strings.TrimSpace(query.Status)),
	})
}
