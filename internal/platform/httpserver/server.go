package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	fulfillmentservice "gifted/contexts/barter-core/fulfillment-service"
	matchservice "gifted/contexts/barter-core/match-service"
	offerservice "gifted/contexts/barter-core/offer-service"
	pipelineservice "gifted/contexts/barter-core/pipeline-service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
	_ "gifted/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	offers      offerservice.Module
	matches     matchservice.Module
	fulfillment fulfillmentservice.Module
	board       pipelineservice.Module

	claimRate  rate.Limit
	claimBurst int
	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

type Options struct {
	Addr string
	// ClaimRatePerMinute bounds claim attempts per creator; zero disables
	// the limiter.
	ClaimRatePerMinute int
	ClaimRateBurst     int
}

func New(
	offers offerservice.Module,
	matches matchservice.Module,
	fulfillment fulfillmentservice.Module,
	board pipelineservice.Module,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8080"
	}
	burst := opts.ClaimRateBurst
	if burst < 1 {
		burst = 1
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		offers:      offers,
		matches:     matches,
		fulfillment: fulfillment,
		board:       board,
		claimRate:   rate.Limit(float64(opts.ClaimRatePerMinute) / 60.0),
		claimBurst:  burst,
		limiters:    make(map[string]*rate.Limiter),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /offers", s.handleCreateOffer)
	s.mux.HandleFunc("GET /offers", s.handleListOffers)
	s.mux.HandleFunc("GET /offers/{offer_id}", s.handleGetOffer)
	s.mux.HandleFunc("PATCH /offers/{offer_id}", s.handleUpdateOffer)
	s.mux.HandleFunc("DELETE /offers/{offer_id}", s.handleDeleteOffer)
	s.mux.HandleFunc("POST /offers/{offer_id}/publish", s.handlePublishOffer)
	s.mux.HandleFunc("POST /offers/{offer_id}/archive", s.handleArchiveOffer)
	s.mux.HandleFunc("POST /offers/{offer_id}/resume", s.handleResumeOffer)
	s.mux.HandleFunc("POST /offers/{offer_id}/duplicate", s.handleDuplicateOffer)
	s.mux.HandleFunc("GET /offers/{offer_id}/draft", s.handleGetDraft)
	s.mux.HandleFunc("PUT /offers/{offer_id}/draft", s.handleSaveDraft)

	s.mux.HandleFunc("GET /feed", s.handleCreatorFeed)
	s.mux.HandleFunc("POST /offers/{offer_id}/claim", s.handleClaimOffer)
	s.mux.HandleFunc("GET /matches", s.handleListMatches)
	s.mux.HandleFunc("GET /matches/{match_id}", s.handleGetMatch)
	s.mux.HandleFunc("POST /matches/{match_id}/approve", s.handleApproveMatch)
	s.mux.HandleFunc("POST /matches/{match_id}/reject", s.handleRejectMatch)
	s.mux.HandleFunc("POST /creator/matches/{match_id}/cancel", s.handleCancelMatch)

	s.mux.HandleFunc("GET /matches/{match_id}/fulfillment", s.handleGetMatchFulfillment)
	s.mux.HandleFunc("PATCH /shipments/manual/{shipment_id}", s.handleMarkShipped)
	s.mux.HandleFunc("POST /shipments/shopify/{shipment_id}/status", s.handleShopifyStatus)
	s.mux.HandleFunc("POST /creator/matches/{match_id}/submit", s.handleSubmitDeliverable)
	s.mux.HandleFunc("POST /deliverables/{deliverable_id}/verify", s.handleVerifyDeliverable)
	s.mux.HandleFunc("POST /deliverables/{deliverable_id}/request-changes", s.handleRequestChanges)
	s.mux.HandleFunc("POST /deliverables/{deliverable_id}/fail", s.handleFailDeliverable)

	s.mux.HandleFunc("GET /board", s.handleGetBoard)
	s.mux.HandleFunc("POST /board/matches/{match_id}/move", s.handleMoveCard)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allowClaim applies the per-creator claim token bucket.
func (s *Server) allowClaim(creatorID string) bool {
	if s.claimRate <= 0 {
		return true
	}
	s.limitersMu.Lock()
	limiter, ok := s.limiters[creatorID]
	if !ok {
		limiter = rate.NewLimiter(s.claimRate, s.claimBurst)
		s.limiters[creatorID] = limiter
	}
	s.limitersMu.Unlock()
	return limiter.Allow()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
