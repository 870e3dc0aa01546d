package pipelineservice

import (
	"log/slog"

	httpadapter "gifted/contexts/barter-core/pipeline-service/adapters/http"
	"gifted/contexts/barter-core/pipeline-service/application/commands"
	"gifted/contexts/barter-core/pipeline-service/application/queries"
	"gifted/contexts/barter-core/pipeline-service/ports"
)

// Module is a pure projection over the match and fulfillment services; it
// owns no storage of its own.
type Module struct {
	Handler httpadapter.Handler
}

type Dependencies struct {
	Matches     ports.MatchReader
	Fulfillment ports.FulfillmentReader
	Approver    ports.MatchApprover
	Dispatcher  ports.ShipmentDispatcher
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	getBoard := queries.GetBoardUseCase{
		Matches:     deps.Matches,
		Fulfillment: deps.Fulfillment,
		Logger:      deps.Logger,
	}
	moveCard := commands.MoveCardUseCase{
		Matches:     deps.Matches,
		Fulfillment: deps.Fulfillment,
		Approver:    deps.Approver,
		Dispatcher:  deps.Dispatcher,
		Logger:      deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			GetBoard: getBoard,
			MoveCard: moveCard,
			Logger:   deps.Logger,
		},
	}
}
