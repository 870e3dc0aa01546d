package commands

import (
	"context"
	"log/slog"
	"strings"

	application "gifted/contexts/barter-core/offer-service/application"
	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/domain/services"
	"gifted/contexts/barter-core/offer-service/ports"
)

// UpdateOfferCommand mutates draft offers. Nil pointers leave fields untouched.
type UpdateOfferCommand struct {
	OfferID                      string
	ActorID                      string
	Title                        *string
	Template                     *string
	CountriesAllowed             *[]string
	MaxClaims                    *int
	DeadlineDaysAfterDelivery    *int
	AcceptanceFollowersThreshold *int
	AboveThresholdAutoAccept     *bool
	UsageRightsRequired          *bool
	UsageRightsScope             *string
	Metadata                     *services.MetadataInput
}

type UpdateOfferUseCase struct {
	Offers ports.OfferRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc UpdateOfferUseCase) Execute(ctx context.Context, cmd UpdateOfferCommand) (entities.Offer, error) {
	logger := application.ResolveLogger(uc.Logger)
	offer, err := uc.Offers.GetOffer(ctx, strings.TrimSpace(cmd.OfferID))
	if err != nil {
		return entities.Offer{}, err
	}
	if strings.TrimSpace(cmd.ActorID) == "" || offer.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Offer{}, domainerrors.ErrUnauthorizedActor
	}
	if !offer.CanEdit() {
		return entities.Offer{}, domainerrors.ErrOfferNotEditable
	}

	if cmd.Title != nil {
		offer.Title = strings.TrimSpace(*cmd.Title)
	}
	if cmd.Template != nil {
		offer.Template = entities.OfferTemplate(strings.ToLower(strings.TrimSpace(*cmd.Template)))
	}
	if cmd.CountriesAllowed != nil {
		offer.CountriesAllowed = normalizeCountries(*cmd.CountriesAllowed)
	}
	if cmd.MaxClaims != nil {
		offer.MaxClaims = *cmd.MaxClaims
	}
	if cmd.DeadlineDaysAfterDelivery != nil {
		offer.DeadlineDaysAfterDelivery = *cmd.DeadlineDaysAfterDelivery
	}
	if cmd.AcceptanceFollowersThreshold != nil {
		offer.AcceptanceFollowersThreshold = *cmd.AcceptanceFollowersThreshold
	}
	if cmd.AboveThresholdAutoAccept != nil {
		offer.AboveThresholdAutoAccept = *cmd.AboveThresholdAutoAccept
	}
	if cmd.UsageRightsRequired != nil {
		offer.UsageRightsRequired = *cmd.UsageRightsRequired
	}
	if cmd.UsageRightsScope != nil {
		offer.UsageRightsScope = strings.TrimSpace(*cmd.UsageRightsScope)
	}
	if cmd.Metadata != nil {
		meta, issues := services.ValidateMetadata(*cmd.Metadata, offer.CountriesAllowed, services.ModeDraft)
		if len(issues) > 0 {
			return entities.Offer{}, domainerrors.NewValidationError(issues)
		}
		offer.Metadata = meta
	}

	offer.UpdatedAt = uc.Clock.Now().UTC()
	if err := uc.Offers.UpdateOffer(ctx, offer); err != nil {
		return entities.Offer{}, err
	}

	logger.Info("offer updated",
		"event", "offer_updated",
		"module", "barter-core/offer-service",
		"layer", "application",
		"offer_id", offer.OfferID,
	)
	return offer, nil
}
