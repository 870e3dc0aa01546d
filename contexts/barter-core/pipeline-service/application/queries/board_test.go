package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"gifted/contexts/barter-core/pipeline-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/pipeline-service/domain/errors"
)

type fakeBoardSource struct {
	matches      []entities.CardMatch
	shipments    map[string]*entities.CardShipment
	deliverables map[string]*entities.CardDeliverable
}

func (f *fakeBoardSource) ListOpenMatches(_ context.Context, offerID string) ([]entities.CardMatch, error) {
	items := make([]entities.CardMatch, 0)
	for _, match := range f.matches {
		if match.OfferID == offerID {
			items = append(items, match)
		}
	}
	return items, nil
}

func (f *fakeBoardSource) GetMatch(_ context.Context, matchID string) (entities.CardMatch, error) {
	for _, match := range f.matches {
		if match.MatchID == matchID {
			return match, nil
		}
	}
	return entities.CardMatch{}, domainerrors.ErrInvalidBoardInput
}

func (f *fakeBoardSource) GetFulfillment(_ context.Context, matchID string) (*entities.CardShipment, *entities.CardDeliverable, error) {
	return f.shipments[matchID], f.deliverables[matchID], nil
}

func TestGetBoardGroupsByDerivedStage(t *testing.T) {
	now := time.Now()
	source := &fakeBoardSource{
		matches: []entities.CardMatch{
			{MatchID: "m1", OfferID: "offer_1", Status: "pending_approval"},
			{MatchID: "m2", OfferID: "offer_1", Status: "accepted"},
			{MatchID: "m3", OfferID: "offer_1", Status: "accepted"},
			{MatchID: "m4", OfferID: "offer_1", Status: "accepted"},
			{MatchID: "m5", OfferID: "offer_2", Status: "accepted"},
		},
		shipments: map[string]*entities.CardShipment{
			"m3": {ShipmentID: "s3", Status: "shipped", Dispatched: true},
			"m4": {ShipmentID: "s4", Status: "delivered", Dispatched: true},
		},
		deliverables: map[string]*entities.CardDeliverable{
			"m4": {DeliverableID: "d4", Status: "verified", SubmittedAt: &now},
		},
	}
	board := GetBoardUseCase{Matches: source, Fulfillment: source}

	result, err := board.Execute(context.Background(), "offer_1")
	if err != nil {
		t.Fatalf("board failed: %v", err)
	}
	if len(result.Columns[entities.StageApplied]) != 1 {
		t.Fatalf("expected one applied card, got %d", len(result.Columns[entities.StageApplied]))
	}
	if len(result.Columns[entities.StageApproved]) != 1 {
		t.Fatalf("expected one approved card, got %d", len(result.Columns[entities.StageApproved]))
	}
	if len(result.Columns[entities.StageShipped]) != 1 {
		t.Fatalf("expected one shipped card, got %d", len(result.Columns[entities.StageShipped]))
	}
	if len(result.Columns[entities.StageComplete]) != 1 {
		t.Fatalf("expected one complete card, got %d", len(result.Columns[entities.StageComplete]))
	}

	total := 0
	for _, cards := range result.Columns {
		total += len(cards)
	}
	if total != 4 {
		t.Fatalf("expected only offer_1 matches on the board, got %d cards", total)
	}
}

func TestGetBoardRequiresOfferID(t *testing.T) {
	board := GetBoardUseCase{Matches: &fakeBoardSource{}, Fulfillment: &fakeBoardSource{}}
	_, err := board.Execute(context.Background(), "  ")
	if !errors.Is(err, domainerrors.ErrInvalidBoardInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
