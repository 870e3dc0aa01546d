package queries

import (
	"context"
	"log/slog"
	"strings"

	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/ports"
)

type GetDraftUseCase struct {
	Drafts ports.DraftRepository
	Logger *slog.Logger
}

func (uc GetDraftUseCase) Execute(ctx context.Context, offerID string, actorID string) (entities.Draft, error) {
	draft, err := uc.Drafts.GetDraft(ctx, strings.TrimSpace(offerID))
	if err != nil {
		return entities.Draft{}, err
	}
	if strings.TrimSpace(actorID) == "" || draft.BrandID != strings.TrimSpace(actorID) {
		return entities.Draft{}, domainerrors.ErrUnauthorizedActor
	}
	return draft, nil
}
