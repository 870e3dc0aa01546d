package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	matchentities "gifted/contexts/barter-core/match-service/domain/entities"
	"gifted/internal/app/bootstrap"
	"gifted/internal/platform/httpserver"
)

func testServer(t *testing.T, opts httpserver.Options) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	profiles := []matchentities.CreatorProfile{
		{
			CreatorID:      "creator_1",
			FollowersCount: 10_000,
			ShippingName:   "Pat Q. Creator",
			AddressLine1:   "1 Main St",
			City:           "Austin",
			PostalCode:     "73301",
			Country:        "US",
			Socials: []matchentities.SocialConnection{
				{Provider: "instagram", Connected: true},
			},
		},
		{CreatorID: "creator_2"},
	}
	mods := bootstrap.BuildInMemory(nil, profiles, nil, logger)
	server := httpserver.New(mods.Offers, mods.Matches, mods.Fulfillment, mods.Board, logger, opts)
	return server.Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path, userID string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeInto(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %q: %v", recorder.Body.String(), err)
	}
}

func createPublishedOffer(t *testing.T, handler http.Handler) string {
	t.Helper()
	recorder := doJSON(t, handler, http.MethodPost, "/offers", "brand_1",
		map[string]string{"Idempotency-Key": "create-1"},
		map[string]any{
			"title":                        "Spring launch reel",
			"template":                     "reel",
			"countries_allowed":            []string{"US"},
			"max_claims":                   3,
			"deadline_days_after_delivery": 7,
			"above_threshold_auto_accept":  true,
			"status":                       "published",
			"metadata": map[string]any{
				"category":         "tech",
				"platforms":        []string{"instagram"},
				"fulfillment_type": "manual",
			},
		})
	if recorder.Code != http.StatusOK {
		t.Fatalf("create offer: status %d body %s", recorder.Code, recorder.Body.String())
	}
	var resp struct {
		Offer struct {
			OfferID string `json:"offer_id"`
			Status  string `json:"status"`
		} `json:"offer"`
	}
	decodeInto(t, recorder, &resp)
	if resp.Offer.Status != "published" {
		t.Fatalf("expected published offer, got %s", resp.Offer.Status)
	}
	return resp.Offer.OfferID
}

func TestFullBarterLifecycleOverHTTP(t *testing.T) {
	handler := testServer(t, httpserver.Options{})
	offerID := createPublishedOffer(t, handler)

	// Creator sees the offer in the feed.
	feed := doJSON(t, handler, http.MethodGet, "/feed", "creator_1", nil, nil)
	if feed.Code != http.StatusOK {
		t.Fatalf("feed: status %d body %s", feed.Code, feed.Body.String())
	}

	// Auto-accepted claim.
	claim := doJSON(t, handler, http.MethodPost, "/offers/"+offerID+"/claim", "creator_1", nil, nil)
	if claim.Code != http.StatusOK {
		t.Fatalf("claim: status %d body %s", claim.Code, claim.Body.String())
	}
	var claimResp struct {
		Match struct {
			MatchID string `json:"match_id"`
			Status  string `json:"status"`
		} `json:"match"`
	}
	decodeInto(t, claim, &claimResp)
	if claimResp.Match.Status != "accepted" {
		t.Fatalf("expected auto-accepted match, got %s", claimResp.Match.Status)
	}
	matchID := claimResp.Match.MatchID

	// Provisioned fulfillment: pending shipment, due deliverable.
	fulfillment := doJSON(t, handler, http.MethodGet, "/matches/"+matchID+"/fulfillment", "brand_1", nil, nil)
	if fulfillment.Code != http.StatusOK {
		t.Fatalf("fulfillment: status %d body %s", fulfillment.Code, fulfillment.Body.String())
	}
	var fulfillmentResp struct {
		Shipment *struct {
			ShipmentID string `json:"shipment_id"`
			Status     string `json:"status"`
		} `json:"shipment"`
		Deliverable *struct {
			DeliverableID string `json:"deliverable_id"`
			Status        string `json:"status"`
			DueAt         string `json:"due_at"`
		} `json:"deliverable"`
	}
	decodeInto(t, fulfillment, &fulfillmentResp)
	if fulfillmentResp.Shipment == nil || fulfillmentResp.Shipment.Status != "pending" {
		t.Fatalf("expected pending shipment, got %+v", fulfillmentResp.Shipment)
	}
	if fulfillmentResp.Deliverable == nil || fulfillmentResp.Deliverable.DueAt != "" {
		t.Fatalf("expected deliverable without deadline, got %+v", fulfillmentResp.Deliverable)
	}

	// Brand dispatches manually; deadline starts.
	shipped := doJSON(t, handler, http.MethodPatch,
		"/shipments/manual/"+fulfillmentResp.Shipment.ShipmentID, "brand_1", nil,
		map[string]any{"carrier": "ups", "tracking_number": "1Z999"})
	if shipped.Code != http.StatusOK {
		t.Fatalf("mark shipped: status %d body %s", shipped.Code, shipped.Body.String())
	}

	// Creator can no longer withdraw.
	cancel := doJSON(t, handler, http.MethodPost, "/creator/matches/"+matchID+"/cancel", "creator_1", nil, nil)
	if cancel.Code != http.StatusConflict {
		t.Fatalf("expected cancel blocked after dispatch, status %d body %s", cancel.Code, cancel.Body.String())
	}

	// Submission and verification.
	submit := doJSON(t, handler, http.MethodPost, "/creator/matches/"+matchID+"/submit", "creator_1", nil,
		map[string]any{"permalink": "https://instagram.com/p/abc"})
	if submit.Code != http.StatusOK {
		t.Fatalf("submit: status %d body %s", submit.Code, submit.Body.String())
	}

	verify := doJSON(t, handler, http.MethodPost,
		"/deliverables/"+fulfillmentResp.Deliverable.DeliverableID+"/verify", "brand_1", nil, nil)
	if verify.Code != http.StatusOK {
		t.Fatalf("verify: status %d body %s", verify.Code, verify.Body.String())
	}
	var verifyResp struct {
		Deliverable struct {
			Status string `json:"status"`
		} `json:"deliverable"`
	}
	decodeInto(t, verify, &verifyResp)
	if verifyResp.Deliverable.Status != "verified" {
		t.Fatalf("expected verified deliverable, got %s", verifyResp.Deliverable.Status)
	}

	// The board shows the match in the complete column.
	board := doJSON(t, handler, http.MethodGet, "/board?offer_id="+offerID, "brand_1", nil, nil)
	if board.Code != http.StatusOK {
		t.Fatalf("board: status %d body %s", board.Code, board.Body.String())
	}
	var boardResp struct {
		Columns map[string][]struct {
			MatchID string `json:"match_id"`
			Stage   string `json:"stage"`
		} `json:"columns"`
	}
	decodeInto(t, board, &boardResp)
	if len(boardResp.Columns["complete"]) != 1 {
		t.Fatalf("expected one complete card, got %+v", boardResp.Columns)
	}

	// Dropping onto a projection-only column is rejected with an explanation.
	move := doJSON(t, handler, http.MethodPost, "/board/matches/"+matchID+"/move", "brand_1", nil,
		map[string]any{"target_stage": "posted"})
	if move.Code != http.StatusConflict {
		t.Fatalf("expected gesture rejection, status %d body %s", move.Code, move.Body.String())
	}
	var moveResp struct {
		Code string `json:"code"`
	}
	decodeInto(t, move, &moveResp)
	if moveResp.Code != "gesture_rejected" {
		t.Fatalf("expected gesture_rejected code, got %q", moveResp.Code)
	}
}

func TestClaimEligibilityDenialOverHTTP(t *testing.T) {
	handler := testServer(t, httpserver.Options{})
	offerID := createPublishedOffer(t, handler)

	claim := doJSON(t, handler, http.MethodPost, "/offers/"+offerID+"/claim", "creator_2", nil, nil)
	if claim.Code != http.StatusConflict {
		t.Fatalf("expected denial, status %d body %s", claim.Code, claim.Body.String())
	}
	var resp struct {
		Code   string `json:"code"`
		Reason string `json:"reason"`
	}
	decodeInto(t, claim, &resp)
	if resp.Code != "eligibility_denied" || resp.Reason != "profile_incomplete" {
		t.Fatalf("expected profile_incomplete denial, got %+v", resp)
	}
}

func TestMissingUserHeaderRejected(t *testing.T) {
	handler := testServer(t, httpserver.Options{})
	recorder := doJSON(t, handler, http.MethodPost, "/offers", "", nil, map[string]any{"title": "x"})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestClaimRateLimit(t *testing.T) {
	handler := testServer(t, httpserver.Options{ClaimRatePerMinute: 1, ClaimRateBurst: 1})
	offerID := createPublishedOffer(t, handler)

	first := doJSON(t, handler, http.MethodPost, "/offers/"+offerID+"/claim", "creator_1", nil, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first claim: status %d body %s", first.Code, first.Body.String())
	}
	second := doJSON(t, handler, http.MethodPost, "/offers/"+offerID+"/claim", "creator_1", nil, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected rate limit, status %d body %s", second.Code, second.Body.String())
	}
}
