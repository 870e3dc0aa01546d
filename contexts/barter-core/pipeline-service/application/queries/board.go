package queries

import (
	"context"
	"log/slog"
	"strings"

	"gifted/contexts/barter-core/pipeline-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/pipeline-service/domain/errors"
	"gifted/contexts/barter-core/pipeline-service/domain/services"
	"gifted/contexts/barter-core/pipeline-service/ports"
)

type BoardCard struct {
	Match       entities.CardMatch
	Shipment    *entities.CardShipment
	Deliverable *entities.CardDeliverable
	Stage       entities.Stage
}

// Board groups an offer's open matches into the derived stage columns.
type Board struct {
	OfferID string
	Columns map[entities.Stage][]BoardCard
}

type GetBoardUseCase struct {
	Matches     ports.MatchReader
	Fulfillment ports.FulfillmentReader
	Logger      *slog.Logger
}

func (uc GetBoardUseCase) Execute(ctx context.Context, offerID string) (Board, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return Board{}, domainerrors.ErrInvalidBoardInput
	}

	matches, err := uc.Matches.ListOpenMatches(ctx, offerID)
	if err != nil {
		return Board{}, err
	}

	board := Board{
		OfferID: offerID,
		Columns: make(map[entities.Stage][]BoardCard),
	}
	for _, match := range matches {
		shipment, deliverable, err := uc.Fulfillment.GetFulfillment(ctx, match.MatchID)
		if err != nil {
			return Board{}, err
		}
		card := BoardCard{
			Match:       match,
			Shipment:    shipment,
			Deliverable: deliverable,
			Stage:       services.DeriveStage(match, shipment, deliverable),
		}
		board.Columns[card.Stage] = append(board.Columns[card.Stage], card)
	}
	return board, nil
}
