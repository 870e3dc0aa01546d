package commands

import (
	"context"
	"log/slog"
	"strings"

	application "gifted/contexts/barter-core/fulfillment-service/application"
	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"
	"gifted/contexts/barter-core/fulfillment-service/ports"
)

type SubmitDeliverableCommand struct {
	MatchID          string
	CreatorID        string
	Permalink        string
	Notes            string
	GrantUsageRights bool
}

type SubmitDeliverableUseCase struct {
	Deliverables ports.DeliverableRepository
	Notifier     ports.Notifier
	Clock        ports.Clock
	Logger       *slog.Logger
}

// Execute records the creator's content submission. Submitting never moves
// the status forward on its own; only a brand review does. A submission on a
// repost-required deliverable reopens it as due.
func (uc SubmitDeliverableUseCase) Execute(ctx context.Context, cmd SubmitDeliverableCommand) (entities.Deliverable, error) {
	logger := application.ResolveLogger(uc.Logger)
	matchID := strings.TrimSpace(cmd.MatchID)
	permalink := strings.TrimSpace(cmd.Permalink)
	if matchID == "" {
		return entities.Deliverable{}, domainerrors.ErrInvalidInput
	}
	if permalink == "" {
		return entities.Deliverable{}, domainerrors.ErrPermalinkRequired
	}

	deliverable, err := uc.Deliverables.GetDeliverableByMatch(ctx, matchID)
	if err != nil {
		return entities.Deliverable{}, err
	}
	if deliverable.CreatorID != strings.TrimSpace(cmd.CreatorID) {
		return entities.Deliverable{}, domainerrors.ErrUnauthorizedActor
	}
	if !deliverable.Submittable() {
		return entities.Deliverable{}, domainerrors.ErrInvalidStateTransition
	}

	now := uc.Clock.Now().UTC()
	expected := deliverable.Status

	deliverable.SubmittedPermalink = permalink
	deliverable.SubmittedNotes = strings.TrimSpace(cmd.Notes)
	deliverable.SubmittedAt = &now
	deliverable.UpdatedAt = now
	if deliverable.Status == entities.DeliverableStatusRepostRequired {
		deliverable.Status = entities.DeliverableStatusDue
	}
	if cmd.GrantUsageRights && deliverable.UsageRightsRequired && deliverable.UsageRightsGranted == nil {
		deliverable.UsageRightsGranted = &now
	}

	if err := uc.Deliverables.UpdateDeliverable(ctx, deliverable, expected); err != nil {
		return entities.Deliverable{}, err
	}

	logger.Info("deliverable submitted",
		"event", "deliverable_submitted",
		"module", "barter-core/fulfillment-service",
		"layer", "application",
		"match_id", matchID,
		"deliverable_id", deliverable.DeliverableID,
		"resubmission", deliverable.ReviewCount > 0,
	)
	if uc.Notifier != nil {
		uc.Notifier.Notify(ctx, ports.Notification{
			Kind:        "info",
			Text:        "A creator submitted content for review.",
			RecipientID: deliverable.BrandID,
		})
	}
	return deliverable, nil
}
