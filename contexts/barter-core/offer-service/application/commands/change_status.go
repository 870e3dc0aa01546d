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

type ChangeStatusAction string

const (
	StatusActionPublish ChangeStatusAction = "publish"
	StatusActionArchive ChangeStatusAction = "archive"
	StatusActionResume  ChangeStatusAction = "resume"
	StatusActionDelete  ChangeStatusAction = "delete"
)

type ChangeStatusCommand struct {
	OfferID string
	ActorID string
	Action  ChangeStatusAction
	Reason  string
}

type ChangeStatusUseCase struct {
	Offers   ports.OfferRepository
	Drafts   ports.DraftRepository
	History  ports.HistoryRepository
	Billing  ports.BillingGate
	Notifier ports.Notifier
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	offer, err := uc.Offers.GetOffer(ctx, strings.TrimSpace(cmd.OfferID))
	if err != nil {
		return err
	}
	if strings.TrimSpace(cmd.ActorID) == "" || offer.BrandID != strings.TrimSpace(cmd.ActorID) {
		return domainerrors.ErrUnauthorizedActor
	}

	now := uc.Clock.Now().UTC()
	from := offer.Status
	var to entities.OfferStatus

	switch cmd.Action {
	case StatusActionPublish:
		// Publishing twice is a no-op replay, not an error: the draft→published
		// upgrade stays idempotent for retried upgrade requests.
		if offer.Status == entities.OfferStatusPublished {
			return nil
		}
		if offer.Status != entities.OfferStatusDraft {
			return domainerrors.ErrInvalidStateTransition
		}
		reMeta, issues := services.ValidateMetadata(metadataAsInput(offer.Metadata), offer.CountriesAllowed, services.ModePublish)
		if len(issues) == 0 {
			offer.Metadata = reMeta
			issues = services.ValidatePublish(offer)
		}
		if len(issues) > 0 {
			return domainerrors.NewValidationError(issues)
		}
		if err := checkBillingGate(ctx, uc.Billing, offer.BrandID); err != nil {
			return err
		}
		to = entities.OfferStatusPublished
	case StatusActionArchive:
		if offer.Status != entities.OfferStatusPublished {
			return domainerrors.ErrInvalidStateTransition
		}
		to = entities.OfferStatusArchived
	case StatusActionResume:
		if offer.Status != entities.OfferStatusArchived {
			return domainerrors.ErrInvalidStateTransition
		}
		// Resume lands back on published, so it passes the same billing gate
		// as publish; an archived offer outlives a lapsed subscription.
		if err := checkBillingGate(ctx, uc.Billing, offer.BrandID); err != nil {
			return err
		}
		to = entities.OfferStatusPublished
	case StatusActionDelete:
		if !offer.CanDelete() {
			return domainerrors.ErrInvalidStateTransition
		}
		if err := uc.Offers.DeleteOffer(ctx, offer.OfferID); err != nil {
			return err
		}
		if uc.Drafts != nil {
			_ = uc.Drafts.DeleteDraft(ctx, offer.OfferID)
		}
		logger.Info("offer deleted",
			"event", "offer_deleted",
			"module", "barter-core/offer-service",
			"layer", "application",
			"offer_id", offer.OfferID,
		)
		return nil
	default:
		return domainerrors.ErrInvalidStateTransition
	}

	// Status is re-checked at commit time; a racing transition surfaces as
	// ErrConflict instead of silently clobbering it.
	if err := uc.Offers.ChangeOfferStatus(ctx, offer.OfferID, from, to, now); err != nil {
		return err
	}
	if cmd.Action == StatusActionPublish && uc.Drafts != nil {
		_ = uc.Drafts.DeleteDraft(ctx, offer.OfferID)
	}

	historyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	if err := uc.History.AppendState(ctx, entities.StateHistory{
		HistoryID:    historyID,
		OfferID:      offer.OfferID,
		FromStatus:   from,
		ToStatus:     to,
		ChangedBy:    strings.TrimSpace(cmd.ActorID),
		ChangeReason: strings.TrimSpace(cmd.Reason),
		CreatedAt:    now,
	}); err != nil {
		return err
	}

	if uc.Notifier != nil && to == entities.OfferStatusPublished {
		uc.Notifier.Notify(ctx, ports.Notification{
			Kind:        "success",
			Text:        "Your offer is live",
			RecipientID: offer.BrandID,
		})
	}

	logger.Info("offer state changed",
		"event", "offer_state_changed",
		"module", "barter-core/offer-service",
		"layer", "application",
		"offer_id", offer.OfferID,
		"from_status", string(from),
		"to_status", string(to),
	)
	return nil
}

// metadataAsInput feeds stored canonical metadata back through the validator,
// which is how published offers are guaranteed to still pass publish-mode
// rules at transition time.
func metadataAsInput(meta entities.Metadata) services.MetadataInput {
	input := services.MetadataInput{
		Category:          meta.Category,
		CategoryOther:     meta.CategoryOther,
		Platforms:         append([]string(nil), meta.Platforms...),
		PlatformOther:     meta.PlatformOther,
		ContentTypes:      append([]string(nil), meta.ContentTypes...),
		ContentTypeOther:  meta.ContentTypeOther,
		Niches:            append([]string(nil), meta.Niches...),
		NicheOther:        meta.NicheOther,
		Hashtags:          append([]string(nil), meta.Hashtags...),
		Guidelines:        meta.Guidelines,
		FulfillmentType:   string(meta.FulfillmentType),
		FulfillmentMethod: string(meta.FulfillmentMethod),
		CTAUrl:            meta.CTAUrl,
		PresetID:          meta.PresetID,
		Region:            meta.Region,
		BrandLat:          meta.BrandLat,
		BrandLng:          meta.BrandLng,
	}
	if meta.LocationRadiusKm != 0 {
		radius := meta.LocationRadiusKm
		input.LocationRadiusKm = &radius
	}
	if meta.ProductValue != 0 {
		value := meta.ProductValue
		input.ProductValue = &value
	}
	return input
}
