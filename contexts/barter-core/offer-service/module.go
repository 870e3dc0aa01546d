package offerservice

import (
	"log/slog"
	"time"

	httpadapter "gifted/contexts/barter-core/offer-service/adapters/http"
	"gifted/contexts/barter-core/offer-service/adapters/memory"
	"gifted/contexts/barter-core/offer-service/application/commands"
	"gifted/contexts/barter-core/offer-service/application/queries"
	"gifted/contexts/barter-core/offer-service/domain/entities"
	"gifted/contexts/barter-core/offer-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Offers         ports.OfferRepository
	Drafts         ports.DraftRepository
	History        ports.HistoryRepository
	Idempotency    ports.IdempotencyStore
	Billing        ports.BillingGate
	Notifier       ports.Notifier
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createOffer := commands.CreateOfferUseCase{
		Offers:         deps.Offers,
		Idempotency:    deps.Idempotency,
		Billing:        deps.Billing,
		Clock:          deps.Clock,
		IDGenerator:    deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	updateOffer := commands.UpdateOfferUseCase{
		Offers: deps.Offers,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Offers:   deps.Offers,
		Drafts:   deps.Drafts,
		History:  deps.History,
		Billing:  deps.Billing,
		Notifier: deps.Notifier,
		Clock:    deps.Clock,
		IDGen:    deps.IDGenerator,
		Logger:   deps.Logger,
	}
	duplicateOffer := commands.DuplicateOfferUseCase{
		Offers: deps.Offers,
		Clock:  deps.Clock,
		IDGen:  deps.IDGenerator,
		Logger: deps.Logger,
	}
	saveDraft := commands.SaveDraftUseCase{
		Offers: deps.Offers,
		Drafts: deps.Drafts,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}

	getOffer := queries.GetOfferUseCase{
		Offers: deps.Offers,
		Logger: deps.Logger,
	}
	listOffers := queries.ListOffersUseCase{
		Offers: deps.Offers,
		Logger: deps.Logger,
	}
	getDraft := queries.GetDraftUseCase{
		Drafts: deps.Drafts,
		Logger: deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateOffer:    createOffer,
			UpdateOffer:    updateOffer,
			ChangeStatus:   changeStatus,
			DuplicateOffer: duplicateOffer,
			SaveDraft:      saveDraft,
			GetOffer:       getOffer,
			ListOffers:     listOffers,
			GetDraft:       getDraft,
			Logger:         deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Offer, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Offers:         store,
		Drafts:         store,
		History:        store,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
