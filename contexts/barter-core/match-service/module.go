package matchservice

import (
	"log/slog"

	httpadapter "gifted/contexts/barter-core/match-service/adapters/http"
	"gifted/contexts/barter-core/match-service/adapters/memory"
	"gifted/contexts/barter-core/match-service/application/commands"
	"gifted/contexts/barter-core/match-service/application/queries"
	"gifted/contexts/barter-core/match-service/domain/entities"
	"gifted/contexts/barter-core/match-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

// Dependencies wires the match service. Offers and Fulfillment are served
// by sibling services; the bootstrap layer provides the adapters.
type Dependencies struct {
	Matches     ports.MatchRepository
	Offers      ports.OfferDirectory
	Creators    ports.CreatorDirectory
	Fulfillment ports.FulfillmentProvisioner
	Strikes     ports.StrikeRepository
	Notifier    ports.Notifier
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Codes       ports.CodeGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	claimOffer := commands.ClaimOfferUseCase{
		Matches:     deps.Matches,
		Offers:      deps.Offers,
		Creators:    deps.Creators,
		Fulfillment: deps.Fulfillment,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Codes:       deps.Codes,
		Logger:      deps.Logger,
	}
	approveMatch := commands.ApproveMatchUseCase{
		Matches:     deps.Matches,
		Offers:      deps.Offers,
		Fulfillment: deps.Fulfillment,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}
	rejectMatch := commands.RejectMatchUseCase{
		Matches:  deps.Matches,
		Offers:   deps.Offers,
		Strikes:  deps.Strikes,
		Notifier: deps.Notifier,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	cancelMatch := commands.CancelMatchUseCase{
		Matches:     deps.Matches,
		Offers:      deps.Offers,
		Fulfillment: deps.Fulfillment,
		Notifier:    deps.Notifier,
		Clock:       deps.Clock,
		Logger:      deps.Logger,
	}

	listMatches := queries.ListMatchesUseCase{
		Matches: deps.Matches,
		Logger:  deps.Logger,
	}
	getMatch := queries.GetMatchUseCase{
		Matches: deps.Matches,
		Logger:  deps.Logger,
	}
	creatorFeed := queries.CreatorFeedUseCase{
		Matches:  deps.Matches,
		Offers:   deps.Offers,
		Creators: deps.Creators,
		Logger:   deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ClaimOffer:   claimOffer,
			ApproveMatch: approveMatch,
			RejectMatch:  rejectMatch,
			CancelMatch:  cancelMatch,
			ListMatches:  listMatches,
			GetMatch:     getMatch,
			CreatorFeed:  creatorFeed,
			Logger:       deps.Logger,
		},
	}
}

// NewInMemoryModule backs the match service with the in-memory store.
// The offer directory and fulfillment provisioner stay injectable so tests
// and local bootstrap can bridge to the sibling in-memory modules.
func NewInMemoryModule(
	profiles []entities.CreatorProfile,
	offers ports.OfferDirectory,
	fulfillment ports.FulfillmentProvisioner,
	notifier ports.Notifier,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(profiles)
	module := NewModule(Dependencies{
		Matches:     store,
		Offers:      offers,
		Creators:    store,
		Fulfillment: fulfillment,
		Strikes:     store,
		Notifier:    notifier,
		Clock:       store,
		IDGenerator: store,
		Codes:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
