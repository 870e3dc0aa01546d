package httpadapter

import (
	"context"
	"log/slog"

	"gifted/contexts/barter-core/pipeline-service/application/commands"
	"gifted/contexts/barter-core/pipeline-service/application/queries"
	"gifted/contexts/barter-core/pipeline-service/domain/entities"
	httptransport "gifted/contexts/barter-core/pipeline-service/transport/http"
)

type Handler struct {
	GetBoard queries.GetBoardUseCase
	MoveCard commands.MoveCardUseCase
	Logger   *slog.Logger
}

func (h Handler) GetBoardHandler(ctx context.Context, offerID string) (httptransport.BoardResponse, error) {
	board, err := h.GetBoard.Execute(ctx, offerID)
	if err != nil {
		return httptransport.BoardResponse{}, err
	}

	resp := httptransport.BoardResponse{
		OfferID: board.OfferID,
		Columns: make(map[string][]httptransport.BoardCardDTO, len(board.Columns)),
	}
	for stage, cards := range board.Columns {
		column := make([]httptransport.BoardCardDTO, 0, len(cards))
		for _, card := range cards {
			dto := httptransport.BoardCardDTO{
				MatchID:      card.Match.MatchID,
				CreatorID:    card.Match.CreatorID,
				CampaignCode: card.Match.CampaignCode,
				MatchStatus:  card.Match.Status,
				Stage:        string(card.Stage),
			}
			if card.Shipment != nil {
				dto.ShipmentStatus = card.Shipment.Status
			}
			if card.Deliverable != nil {
				dto.DeliverableStatus = card.Deliverable.Status
				dto.ReviewCount = card.Deliverable.ReviewCount
			}
			column = append(column, dto)
		}
		resp.Columns[string(stage)] = column
	}
	return resp, nil
}

func (h Handler) MoveCardHandler(
	ctx context.Context,
	actorID string,
	matchID string,
	req httptransport.MoveCardRequest,
) (httptransport.MoveCardResponse, error) {
	result, err := h.MoveCard.Execute(ctx, commands.MoveCardCommand{
		MatchID:     matchID,
		ActorID:     actorID,
		TargetStage: entities.Stage(req.TargetStage),
	})
	if err != nil {
		return httptransport.MoveCardResponse{}, err
	}
	return httptransport.MoveCardResponse{Stage: string(result.Stage)}, nil
}
