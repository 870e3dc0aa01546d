package commands

import (
	"context"
	"log/slog"
	"strings"

	application "gifted/contexts/barter-core/offer-service/application"
	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/ports"
)

type DuplicateOfferCommand struct {
	OfferID string
	ActorID string
}

type DuplicateOfferUseCase struct {
	Offers ports.OfferRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Execute clones an offer into a fresh draft: new id, draft status, zeroed
// counters. The source keeps its status untouched.
func (uc DuplicateOfferUseCase) Execute(ctx context.Context, cmd DuplicateOfferCommand) (entities.Offer, error) {
	logger := application.ResolveLogger(uc.Logger)
	source, err := uc.Offers.GetOffer(ctx, strings.TrimSpace(cmd.OfferID))
	if err != nil {
		return entities.Offer{}, err
	}
	if strings.TrimSpace(cmd.ActorID) == "" || source.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Offer{}, domainerrors.ErrUnauthorizedActor
	}

	offerID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Offer{}, err
	}
	now := uc.Clock.Now().UTC()

	clone := source
	clone.OfferID = offerID
	clone.Title = strings.TrimSpace(source.Title) + " (copy)"
	clone.Status = entities.OfferStatusDraft
	clone.ActiveMatchCount = 0
	clone.CountriesAllowed = append([]string(nil), source.CountriesAllowed...)
	clone.CreatedAt = now
	clone.UpdatedAt = now
	clone.PublishedAt = nil
	clone.ArchivedAt = nil

	if err := uc.Offers.CreateOffer(ctx, clone); err != nil {
		return entities.Offer{}, err
	}

	logger.Info("offer duplicated",
		"event", "offer_duplicated",
		"module", "barter-core/offer-service",
		"layer", "application",
		"source_offer_id", source.OfferID,
		"offer_id", clone.OfferID,
	)
	return clone, nil
}
