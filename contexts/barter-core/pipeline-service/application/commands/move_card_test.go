package commands

import (
	"context"
	"errors"
	"testing"

	"gifted/contexts/barter-core/pipeline-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/pipeline-service/domain/errors"
)

type fakeBoardBackend struct {
	match       entities.CardMatch
	shipment    *entities.CardShipment
	deliverable *entities.CardDeliverable

	approved   bool
	dispatched bool
}

func (f *fakeBoardBackend) ListOpenMatches(_ context.Context, _ string) ([]entities.CardMatch, error) {
	return []entities.CardMatch{f.match}, nil
}

func (f *fakeBoardBackend) GetMatch(_ context.Context, matchID string) (entities.CardMatch, error) {
	if f.match.MatchID != matchID {
		return entities.CardMatch{}, domainerrors.ErrInvalidBoardInput
	}
	return f.match, nil
}

func (f *fakeBoardBackend) GetFulfillment(_ context.Context, _ string) (*entities.CardShipment, *entities.CardDeliverable, error) {
	return f.shipment, f.deliverable, nil
}

func (f *fakeBoardBackend) Approve(_ context.Context, _ string, _ string) error {
	f.approved = true
	f.match.Status = "accepted"
	return nil
}

func (f *fakeBoardBackend) MarkShipped(_ context.Context, _ string, _ string) error {
	f.dispatched = true
	if f.shipment != nil {
		f.shipment.Status = "shipped"
		f.shipment.Dispatched = true
	}
	return nil
}

func newMoveFixture(backend *fakeBoardBackend) MoveCardUseCase {
	return MoveCardUseCase{
		Matches:     backend,
		Fulfillment: backend,
		Approver:    backend,
		Dispatcher:  backend,
	}
}

func TestMoveCardToApprovedTriggersApproval(t *testing.T) {
	backend := &fakeBoardBackend{
		match: entities.CardMatch{MatchID: "m1", Status: "pending_approval"},
	}
	move := newMoveFixture(backend)

	result, err := move.Execute(context.Background(), MoveCardCommand{
		MatchID:     "m1",
		ActorID:     "brand_1",
		TargetStage: entities.StageApproved,
	})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !backend.approved {
		t.Fatal("expected approval to be triggered")
	}
	if result.Stage != entities.StageApproved {
		t.Fatalf("expected approved stage, got %s", result.Stage)
	}
}

func TestMoveCardToShippedTriggersDispatch(t *testing.T) {
	backend := &fakeBoardBackend{
		match:    entities.CardMatch{MatchID: "m1", Status: "accepted"},
		shipment: &entities.CardShipment{ShipmentID: "s1", Status: "pending"},
	}
	move := newMoveFixture(backend)

	result, err := move.Execute(context.Background(), MoveCardCommand{
		MatchID:     "m1",
		ActorID:     "brand_1",
		TargetStage: entities.StageShipped,
	})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !backend.dispatched {
		t.Fatal("expected dispatch to be triggered")
	}
	if result.Stage != entities.StageShipped {
		t.Fatalf("expected shipped stage, got %s", result.Stage)
	}
}

func TestMoveCardRejectedTargets(t *testing.T) {
	targets := []entities.Stage{
		entities.StageApplied,
		entities.StagePosted,
		entities.StageRepostRequired,
		entities.StageComplete,
	}
	for _, target := range targets {
		t.Run(string(target), func(t *testing.T) {
			backend := &fakeBoardBackend{
				match: entities.CardMatch{MatchID: "m1", Status: "accepted"},
			}
			move := newMoveFixture(backend)
			_, err := move.Execute(context.Background(), MoveCardCommand{
				MatchID:     "m1",
				ActorID:     "brand_1",
				TargetStage: target,
			})
			if !errors.Is(err, domainerrors.ErrGestureRejected) {
				t.Fatalf("expected gesture rejected for %s, got %v", target, err)
			}
			explanation, ok := domainerrors.ExplanationFrom(err)
			if !ok || explanation == "" {
				t.Fatal("expected an explanation on the gesture error")
			}
			if backend.approved || backend.dispatched {
				t.Fatal("rejected gestures must not trigger operations")
			}
		})
	}
}

func TestMoveCardUnknownStage(t *testing.T) {
	move := newMoveFixture(&fakeBoardBackend{
		match: entities.CardMatch{MatchID: "m1", Status: "accepted"},
	})
	_, err := move.Execute(context.Background(), MoveCardCommand{
		MatchID:     "m1",
		ActorID:     "brand_1",
		TargetStage: "warehouse",
	})
	if !errors.Is(err, domainerrors.ErrUnknownStage) {
		t.Fatalf("expected unknown stage, got %v", err)
	}
}
