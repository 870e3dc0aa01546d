package fulfillmentservice

import (
	"log/slog"

	httpadapter "gifted/contexts/barter-core/fulfillment-service/adapters/http"
	"gifted/contexts/barter-core/fulfillment-service/adapters/memory"
	"gifted/contexts/barter-core/fulfillment-service/application/commands"
	"gifted/contexts/barter-core/fulfillment-service/application/queries"
	"gifted/contexts/barter-core/fulfillment-service/ports"
)

// Module exposes the HTTP handler plus the use cases the match service
// consumes directly (provisioning on acceptance, dispatch checks before
// creator cancellation).
type Module struct {
	Handler        httpadapter.Handler
	Provision      commands.ProvisionUseCase
	GetFulfillment queries.GetMatchFulfillmentUseCase
	Store          *memory.Store
}

type Dependencies struct {
	Shipments    ports.ShipmentRepository
	Deliverables ports.DeliverableRepository
	Strikes      ports.StrikeSink
	Notifier     ports.Notifier
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	provision := commands.ProvisionUseCase{
		Shipments:    deps.Shipments,
		Deliverables: deps.Deliverables,
		Clock:        deps.Clock,
		IDGenerator:  deps.IDGenerator,
		Logger:       deps.Logger,
	}
	markShipped := commands.MarkShippedUseCase{
		Shipments:    deps.Shipments,
		Deliverables: deps.Deliverables,
		Notifier:     deps.Notifier,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	syncShopify := commands.SyncShopifyStatusUseCase{
		Shipments:    deps.Shipments,
		Deliverables: deps.Deliverables,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	submitDeliverable := commands.SubmitDeliverableUseCase{
		Deliverables: deps.Deliverables,
		Notifier:     deps.Notifier,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	reviewDeliverable := commands.ReviewDeliverableUseCase{
		Deliverables: deps.Deliverables,
		Strikes:      deps.Strikes,
		Notifier:     deps.Notifier,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	getFulfillment := queries.GetMatchFulfillmentUseCase{
		Shipments:    deps.Shipments,
		Deliverables: deps.Deliverables,
		Logger:       deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			MarkShipped:       markShipped,
			SyncShopify:       syncShopify,
			SubmitDeliverable: submitDeliverable,
			ReviewDeliverable: reviewDeliverable,
			GetFulfillment:    getFulfillment,
			Logger:            deps.Logger,
		},
		Provision:      provision,
		GetFulfillment: getFulfillment,
	}
}

func NewInMemoryModule(strikes ports.StrikeSink, notifier ports.Notifier, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Shipments:    store,
		Deliverables: store,
		Strikes:      strikes,
		Notifier:     notifier,
		Clock:        store,
		IDGenerator:  store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
