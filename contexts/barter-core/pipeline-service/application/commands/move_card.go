package commands

import (
	"context"
	"log/slog"
	"strings"

	application "gifted/contexts/barter-core/pipeline-service/application"
	"gifted/contexts/barter-core/pipeline-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/pipeline-service/domain/errors"
	"gifted/contexts/barter-core/pipeline-service/domain/services"
	"gifted/contexts/barter-core/pipeline-service/ports"
)

type MoveCardCommand struct {
	MatchID     string
	ActorID     string
	TargetStage entities.Stage
}

type MoveCardResult struct {
	Stage entities.Stage
}

type MoveCardUseCase struct {
	Matches     ports.MatchReader
	Fulfillment ports.FulfillmentReader
	Approver    ports.MatchApprover
	Dispatcher  ports.ShipmentDispatcher
	Logger      *slog.Logger
}

// Execute maps a board drop onto the backing operation. Only two columns
// have one: approved triggers a match approval and shipped triggers a manual
// dispatch. Every other target is rejected with an explanation since those
// stages move through submissions and reviews, not gestures.
func (uc MoveCardUseCase) Execute(ctx context.Context, cmd MoveCardCommand) (MoveCardResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	matchID := strings.TrimSpace(cmd.MatchID)
	if matchID == "" {
		return MoveCardResult{}, domainerrors.ErrInvalidBoardInput
	}
	if !entities.ValidStage(cmd.TargetStage) {
		return MoveCardResult{}, domainerrors.ErrUnknownStage
	}

	switch cmd.TargetStage {
	case entities.StageApproved:
		if err := uc.Approver.Approve(ctx, cmd.ActorID, matchID); err != nil {
			return MoveCardResult{}, err
		}
	case entities.StageShipped:
		if err := uc.Dispatcher.MarkShipped(ctx, cmd.ActorID, matchID); err != nil {
			return MoveCardResult{}, err
		}
	case entities.StageApplied:
		return MoveCardResult{}, domainerrors.NewGestureError(string(cmd.TargetStage),
			"a match cannot be moved back to applied; reject it instead")
	case entities.StagePosted:
		return MoveCardResult{}, domainerrors.NewGestureError(string(cmd.TargetStage),
			"posted is reached when the creator submits content")
	case entities.StageRepostRequired:
		return MoveCardResult{}, domainerrors.NewGestureError(string(cmd.TargetStage),
			"use the request-changes review action instead")
	case entities.StageComplete:
		return MoveCardResult{}, domainerrors.NewGestureError(string(cmd.TargetStage),
			"use the verify review action instead")
	}

	match, err := uc.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return MoveCardResult{}, err
	}
	shipment, deliverable, err := uc.Fulfillment.GetFulfillment(ctx, matchID)
	if err != nil {
		return MoveCardResult{}, err
	}
	stage := services.DeriveStage(match, shipment, deliverable)

	logger.Info("board card moved",
		"event", "board_card_moved",
		"module", "barter-core/pipeline-service",
		"layer", "application",
		"match_id", matchID,
		"target", string(cmd.TargetStage),
		"stage", string(stage),
	)
	return MoveCardResult{Stage: stage}, nil
}
