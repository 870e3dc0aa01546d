package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	fulfillmentservice "gifted/contexts/barter-core/fulfillment-service"
	fulfillmentmemory "gifted/contexts/barter-core/fulfillment-service/adapters/memory"
	fulfillmentpostgres "gifted/contexts/barter-core/fulfillment-service/adapters/postgres"
	fulfillmentports "gifted/contexts/barter-core/fulfillment-service/ports"
	matchservice "gifted/contexts/barter-core/match-service"
	matchmemory "gifted/contexts/barter-core/match-service/adapters/memory"
	matchpostgres "gifted/contexts/barter-core/match-service/adapters/postgres"
	matchentities "gifted/contexts/barter-core/match-service/domain/entities"
	matchports "gifted/contexts/barter-core/match-service/ports"
	offerservice "gifted/contexts/barter-core/offer-service"
	offermemory "gifted/contexts/barter-core/offer-service/adapters/memory"
	offerpostgres "gifted/contexts/barter-core/offer-service/adapters/postgres"
	offerentities "gifted/contexts/barter-core/offer-service/domain/entities"
	offerports "gifted/contexts/barter-core/offer-service/ports"
	pipelineservice "gifted/contexts/barter-core/pipeline-service"
	"gifted/internal/platform/config"
	"gifted/internal/platform/db"
	"gifted/internal/platform/httpserver"
	"gifted/internal/platform/messaging"
	"gifted/internal/shared/events"
	"gifted/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	relay    messaging.Relay
	logger   *slog.Logger
}

// Modules bundles the four wired service modules.
type Modules struct {
	Offers      offerservice.Module
	Matches     matchservice.Module
	Fulfillment fulfillmentservice.Module
	Board       pipelineservice.Module
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return nil, err
	}
	queue := outbox.NewQueue()

	offerRepo := offerpostgres.NewRepository(pg.DB, logger)
	matchRepo := matchpostgres.NewRepository(pg.DB, logger)
	fulfillmentRepo := fulfillmentpostgres.NewRepository(pg.DB, logger)

	var billing offerports.BillingGate
	if cfg.EnableBillingGate {
		billing = offerpostgres.NewSubscriptionGate(pg.DB)
	}

	offers := offerservice.NewModule(offerservice.Dependencies{
		Offers:         offerRepo,
		Drafts:         offerRepo,
		History:        offerRepo,
		Idempotency:    offerRepo,
		Billing:        billing,
		Notifier:       offerNotifier{logger: logger, queue: queue},
		Clock:          offerpostgres.SystemClock{},
		IDGenerator:    offerpostgres.UUIDGenerator{},
		IdempotencyTTL: cfg.IdempotencyTTL,
		Logger:         logger,
	})

	fulfillment := fulfillmentservice.NewModule(fulfillmentservice.Dependencies{
		Shipments:    fulfillmentRepo,
		Deliverables: fulfillmentRepo,
		Strikes:      matchRepo,
		Notifier:     fulfillmentNotifier{logger: logger, queue: queue},
		Clock:        fulfillmentpostgres.SystemClock{},
		IDGenerator:  fulfillmentpostgres.UUIDGenerator{},
		Logger:       logger,
	})

	matches := matchservice.NewModule(matchservice.Dependencies{
		Matches:     matchRepo,
		Offers:      offerDirectory{offers: offerRepo},
		Creators:    matchRepo,
		Fulfillment: fulfillmentBridge{provision: fulfillment.Provision, view: fulfillment.GetFulfillment},
		Strikes:     matchRepo,
		Notifier:    matchNotifier{logger: logger, queue: queue},
		Clock:       matchpostgres.SystemClock{},
		IDGenerator: matchpostgres.UUIDGenerator{},
		Codes:       matchpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	board := buildBoard(matchRepo, matches, fulfillment, logger)

	server := httpserver.New(offers, matches, fulfillment, board, logger, httpserver.Options{
		Addr:               ":" + cfg.HTTPPort,
		ClaimRatePerMinute: cfg.ClaimRatePerMinute,
		ClaimRateBurst:     cfg.ClaimRateBurst,
	})

	return &APIApp{
		server:   server,
		postgres: pg,
		relay:    messaging.Relay{Queue: queue, Bus: bus, Logger: logger},
		logger:   logger,
	}, nil
}

func (a *APIApp) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		if err := a.postgres.Close(); err != nil {
			a.logger.Error("postgres close failed",
				"event", "postgres_close_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	}()
	go func() {
		_ = a.relay.Run(ctx, time.Second)
	}()
	return a.server.Start()
}

// WorkerApp owns the bus consumers. The in-process bus scopes events to a
// single process; this wiring moves behind an external broker without
// changing the consumer code.
type WorkerApp struct {
	bus    *messaging.Kafka
	relay  messaging.Relay
	logger *slog.Logger
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	bus, err := messaging.NewKafka(nil, logger)
	if err != nil {
		return nil, err
	}
	return &WorkerApp{
		bus:    bus,
		relay:  messaging.Relay{Queue: outbox.NewQueue(), Bus: bus, Logger: logger},
		logger: logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	err := w.bus.Subscribe(ctx, events.TopicNotifications, "gifted-worker",
		func(_ context.Context, event events.Envelope) error {
			w.logger.Info("notification event consumed",
				"event", "notification_event_consumed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"event_id", event.EventID,
				"event_type", event.EventType,
				"recipient_id", event.EntityID,
			)
			return nil
		})
	if err != nil {
		return err
	}
	return w.relay.Run(ctx, time.Second)
}

// BuildInMemory wires all four modules over in-memory stores. Tests and
// local development use it; the cross-service bridges are identical to the
// postgres wiring.
func BuildInMemory(
	seedOffers []offerentities.Offer,
	seedProfiles []matchentities.CreatorProfile,
	billing offerports.BillingGate,
	logger *slog.Logger,
) Modules {
	offerStore := offermemory.NewStore(seedOffers)
	matchStore := matchmemory.NewStore(seedProfiles)
	fulfillmentStore := fulfillmentmemory.NewStore()

	offers := offerservice.NewModule(offerservice.Dependencies{
		Offers:         offerStore,
		Drafts:         offerStore,
		History:        offerStore,
		Idempotency:    offerStore,
		Billing:        billing,
		Notifier:       offerNotifier{logger: logger},
		Clock:          offerStore,
		IDGenerator:    offerStore,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	offers.Store = offerStore

	var strikes fulfillmentports.StrikeSink = matchStore
	fulfillment := fulfillmentservice.NewModule(fulfillmentservice.Dependencies{
		Shipments:    fulfillmentStore,
		Deliverables: fulfillmentStore,
		Strikes:      strikes,
		Notifier:     fulfillmentNotifier{logger: logger},
		Clock:        fulfillmentStore,
		IDGenerator:  fulfillmentStore,
		Logger:       logger,
	})
	fulfillment.Store = fulfillmentStore

	matches := matchservice.NewModule(matchservice.Dependencies{
		Matches:     matchStore,
		Offers:      offerDirectory{offers: offerStore},
		Creators:    matchStore,
		Fulfillment: fulfillmentBridge{provision: fulfillment.Provision, view: fulfillment.GetFulfillment},
		Strikes:     matchStore,
		Notifier:    matchNotifier{logger: logger},
		Clock:       matchStore,
		IDGenerator: matchStore,
		Codes:       matchStore,
		Logger:      logger,
	})
	matches.Store = matchStore

	board := buildBoard(matchStore, matches, fulfillment, logger)

	return Modules{
		Offers:      offers,
		Matches:     matches,
		Fulfillment: fulfillment,
		Board:       board,
	}
}

func buildBoard(
	matchRepo matchports.MatchRepository,
	matches matchservice.Module,
	fulfillment fulfillmentservice.Module,
	logger *slog.Logger,
) pipelineservice.Module {
	return pipelineservice.NewModule(pipelineservice.Dependencies{
		Matches:     boardMatchReader{matches: matchRepo},
		Fulfillment: boardFulfillmentReader{view: fulfillment.GetFulfillment},
		Approver:    boardApprover{approve: matches.Handler.ApproveMatch},
		Dispatcher: boardDispatcher{
			markShipped: fulfillment.Handler.MarkShipped,
			view:        fulfillment.GetFulfillment,
		},
		Logger: logger,
	})
}
