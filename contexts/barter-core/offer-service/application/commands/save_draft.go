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

type SaveDraftCommand struct {
	OfferID         string
	ActorID         string
	Step            int
	Payload         []byte
	ExpectedVersion int
}

type SaveDraftUseCase struct {
	Offers ports.OfferRepository
	Drafts ports.DraftRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute persists an autosave snapshot. The version condition keeps a stale
// client copy from overwriting a newer server-side draft.
func (uc SaveDraftUseCase) Execute(ctx context.Context, cmd SaveDraftCommand) (entities.Draft, error) {
	logger := application.ResolveLogger(uc.Logger)
	offer, err := uc.Offers.GetOffer(ctx, strings.TrimSpace(cmd.OfferID))
	if err != nil {
		return entities.Draft{}, err
	}
	if strings.TrimSpace(cmd.ActorID) == "" || offer.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Draft{}, domainerrors.ErrUnauthorizedActor
	}
	if !offer.CanEdit() {
		return entities.Draft{}, domainerrors.ErrOfferNotEditable
	}

	draft := entities.Draft{
		OfferID:   offer.OfferID,
		BrandID:   offer.BrandID,
		Step:      cmd.Step,
		Payload:   append([]byte(nil), cmd.Payload...),
		UpdatedAt: uc.Clock.Now().UTC(),
	}
	saved, err := uc.Drafts.SaveDraft(ctx, draft, cmd.ExpectedVersion)
	if err != nil {
		return entities.Draft{}, err
	}

	logger.Info("draft saved",
		"event", "offer_draft_saved",
		"module", "barter-core/offer-service",
		"layer", "application",
		"offer_id", offer.OfferID,
		"version", saved.Version,
	)
	return saved, nil
}
