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

type ReviewDeliverableCommand struct {
	DeliverableID string
	ActorID       string
	Action        entities.ReviewAction
	// Reason is required for request_changes and failed.
	Reason string
	// Permalink overrides the submitted link on verification; empty keeps it.
	Permalink string
}

type ReviewDeliverableUseCase struct {
	Deliverables ports.DeliverableRepository
	Strikes      ports.StrikeSink
	Notifier     ports.Notifier
	Clock        ports.Clock
	Logger       *slog.Logger
}

// Execute applies a brand review action. Verified and failed are terminal;
// request-changes reopens the deliverable for resubmission and clears the
// previous submission. Every action lands in the append-only review log.
func (uc ReviewDeliverableUseCase) Execute(ctx context.Context, cmd ReviewDeliverableCommand) (entities.Deliverable, error) {
	logger := application.ResolveLogger(uc.Logger)
	deliverableID := strings.TrimSpace(cmd.DeliverableID)
	if deliverableID == "" {
		return entities.Deliverable{}, domainerrors.ErrInvalidInput
	}

	deliverable, err := uc.Deliverables.GetDeliverable(ctx, deliverableID)
	if err != nil {
		return entities.Deliverable{}, err
	}
	if deliverable.BrandID != strings.TrimSpace(cmd.ActorID) {
		return entities.Deliverable{}, domainerrors.ErrUnauthorizedActor
	}
	if deliverable.Terminal() {
		return entities.Deliverable{}, domainerrors.ErrInvalidStateTransition
	}

	reason := strings.TrimSpace(cmd.Reason)
	now := uc.Clock.Now().UTC()
	expected := deliverable.Status

	switch cmd.Action {
	case entities.ReviewActionVerified:
		permalink := strings.TrimSpace(cmd.Permalink)
		if permalink == "" {
			permalink = deliverable.SubmittedPermalink
		}
		if permalink == "" {
			return entities.Deliverable{}, domainerrors.ErrPermalinkRequired
		}
		deliverable.Status = entities.DeliverableStatusVerified
		deliverable.VerifiedPermalink = permalink
		deliverable.VerifiedAt = &now
	case entities.ReviewActionRequestChanges:
		if reason == "" {
			return entities.Deliverable{}, domainerrors.ErrReasonRequired
		}
		if deliverable.SubmittedAt == nil {
			return entities.Deliverable{}, domainerrors.ErrNotSubmitted
		}
		deliverable.Status = entities.DeliverableStatusRepostRequired
		deliverable.SubmittedPermalink = ""
		deliverable.SubmittedNotes = ""
		deliverable.SubmittedAt = nil
		deliverable.ReviewCount++
	case entities.ReviewActionFailed:
		if reason == "" {
			return entities.Deliverable{}, domainerrors.ErrReasonRequired
		}
		deliverable.Status = entities.DeliverableStatusFailed
	default:
		return entities.Deliverable{}, domainerrors.ErrInvalidInput
	}

	deliverable.Reviews = append(deliverable.Reviews, entities.Review{
		Action:     cmd.Action,
		Reason:     reason,
		ReviewerID: strings.TrimSpace(cmd.ActorID),
		At:         now,
	})
	deliverable.UpdatedAt = now

	if err := uc.Deliverables.UpdateDeliverable(ctx, deliverable, expected); err != nil {
		return entities.Deliverable{}, err
	}

	logger.Info("deliverable reviewed",
		"event", "deliverable_reviewed",
		"module", "barter-core/fulfillment-service",
		"layer", "application",
		"deliverable_id", deliverableID,
		"action", string(cmd.Action),
	)

	if cmd.Action == entities.ReviewActionFailed && uc.Strikes != nil {
		if err := uc.Strikes.AddStrike(ctx, deliverable.CreatorID, "deliverable failed", now); err != nil {
			logger.Error("strike recording failed",
				"event", "deliverable_strike_failed",
				"module", "barter-core/fulfillment-service",
				"layer", "application",
				"creator_id", deliverable.CreatorID,
				"error", err.Error(),
			)
		}
	}
	if uc.Notifier != nil {
		uc.Notifier.Notify(ctx, reviewNotification(cmd.Action, reason, deliverable.CreatorID))
	}
	return deliverable, nil
}

func reviewNotification(action entities.ReviewAction, reason string, creatorID string) ports.Notification {
	switch action {
	case entities.ReviewActionVerified:
		return ports.Notification{Kind: "success", Text: "Your content was verified.", RecipientID: creatorID}
	case entities.ReviewActionRequestChanges:
		return ports.Notification{Kind: "info", Text: "Changes requested: " + reason, RecipientID: creatorID}
	default:
		return ports.Notification{Kind: "error", Text: "Your deliverable was marked failed: " + reason, RecipientID: creatorID}
	}
}
