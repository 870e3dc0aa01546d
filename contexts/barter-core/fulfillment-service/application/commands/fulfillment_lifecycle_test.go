package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gifted/contexts/barter-core/fulfillment-service/adapters/memory"
	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"
)

type stubStrikes struct {
	mu      sync.Mutex
	strikes map[string]int
}

func (s *stubStrikes) AddStrike(_ context.Context, creatorID string, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.strikes == nil {
		s.strikes = make(map[string]int)
	}
	s.strikes[creatorID]++
	return nil
}

func (s *stubStrikes) count(creatorID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strikes[creatorID]
}

func provisionCommand(matchID string, requiresShipment bool, fulfillmentType string) ProvisionCommand {
	return ProvisionCommand{
		MatchID:                   matchID,
		OfferID:                   "offer_1",
		CreatorID:                 "creator_1",
		BrandID:                   "brand_1",
		FulfillmentType:           fulfillmentType,
		RequiresShipment:          requiresShipment,
		DeadlineDaysAfterDelivery: 7,
		AcceptedAt:                time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func provisionedStore(t *testing.T, cmd ProvisionCommand) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	provision := ProvisionUseCase{Shipments: store, Deliverables: store, Clock: store, IDGenerator: store}
	if err := provision.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("provision failed: %v", err)
	}
	return store
}

func TestProvisionCreatesShipmentAndDeliverable(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))

	shipment, err := store.GetShipmentByMatch(context.Background(), "match_1")
	if err != nil {
		t.Fatalf("expected shipment: %v", err)
	}
	if shipment.Status != entities.ShipmentStatusPending {
		t.Fatalf("expected pending shipment, got %s", shipment.Status)
	}
	deliverable, err := store.GetDeliverableByMatch(context.Background(), "match_1")
	if err != nil {
		t.Fatalf("expected deliverable: %v", err)
	}
	if deliverable.Status != entities.DeliverableStatusDue {
		t.Fatalf("expected due deliverable, got %s", deliverable.Status)
	}
	if deliverable.DueAt != nil {
		t.Fatal("deadline must not start before dispatch for shipped offers")
	}
}

func TestProvisionIsIdempotent(t *testing.T) {
	cmd := provisionCommand("match_1", true, "manual")
	store := provisionedStore(t, cmd)
	provision := ProvisionUseCase{Shipments: store, Deliverables: store, Clock: store, IDGenerator: store}

	first, _ := store.GetDeliverableByMatch(context.Background(), "match_1")
	if err := provision.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("re-provision failed: %v", err)
	}
	second, _ := store.GetDeliverableByMatch(context.Background(), "match_1")
	if first.DeliverableID != second.DeliverableID {
		t.Fatal("re-provision must not create a second deliverable")
	}
}

func TestProvisionDigitalOfferStartsDeadlineAtAcceptance(t *testing.T) {
	cmd := provisionCommand("match_1", false, "manual")
	store := provisionedStore(t, cmd)

	if _, err := store.GetShipmentByMatch(context.Background(), "match_1"); !errors.Is(err, domainerrors.ErrShipmentNotFound) {
		t.Fatalf("digital offer must not create a shipment, got %v", err)
	}
	deliverable, _ := store.GetDeliverableByMatch(context.Background(), "match_1")
	if deliverable.DueAt == nil {
		t.Fatal("expected deadline at acceptance for digital offer")
	}
	want := cmd.AcceptedAt.Add(7 * 24 * time.Hour)
	if !deliverable.DueAt.Equal(want) {
		t.Fatalf("expected due %s, got %s", want, deliverable.DueAt)
	}
}

func TestMarkShippedStartsDeadline(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	markShipped := MarkShippedUseCase{Shipments: store, Deliverables: store, Clock: store}
	shipment, _ := store.GetShipmentByMatch(context.Background(), "match_1")

	shipped, err := markShipped.Execute(context.Background(), MarkShippedCommand{
		ShipmentID:     shipment.ShipmentID,
		ActorID:        "brand_1",
		Carrier:        "ups",
		TrackingNumber: "1Z999",
	})
	if err != nil {
		t.Fatalf("mark shipped failed: %v", err)
	}
	if shipped.Status != entities.ShipmentStatusShipped {
		t.Fatalf("expected shipped, got %s", shipped.Status)
	}
	if shipped.ShippedAt == nil {
		t.Fatal("expected shippedAt stamped")
	}

	deliverable, _ := store.GetDeliverableByMatch(context.Background(), "match_1")
	if deliverable.DueAt == nil {
		t.Fatal("expected deadline started at dispatch")
	}
	want := shipped.ShippedAt.Add(7 * 24 * time.Hour)
	if !deliverable.DueAt.Equal(want) {
		t.Fatalf("expected due %s, got %s", want, deliverable.DueAt)
	}
}

func TestMarkShippedIdempotentOnSameTracking(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	markShipped := MarkShippedUseCase{Shipments: store, Deliverables: store, Clock: store}
	shipment, _ := store.GetShipmentByMatch(context.Background(), "match_1")

	cmd := MarkShippedCommand{
		ShipmentID:     shipment.ShipmentID,
		ActorID:        "brand_1",
		Carrier:        "ups",
		TrackingNumber: "1Z999",
	}
	first, err := markShipped.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first mark shipped failed: %v", err)
	}
	second, err := markShipped.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("expected identical re-ship to be a no-op, got %v", err)
	}
	if !first.ShippedAt.Equal(*second.ShippedAt) {
		t.Fatal("re-ship must not restamp shippedAt")
	}

	cmd.TrackingNumber = "1Z000"
	if _, err := markShipped.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition on changed tracking, got %v", err)
	}
}

func TestMarkShippedRejectedForShopifyShipment(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "shopify"))
	markShipped := MarkShippedUseCase{Shipments: store, Deliverables: store, Clock: store}
	shipment, _ := store.GetShipmentByMatch(context.Background(), "match_1")

	_, err := markShipped.Execute(context.Background(), MarkShippedCommand{
		ShipmentID: shipment.ShipmentID,
		ActorID:    "brand_1",
		Carrier:    "ups",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected shopify shipments to reject manual dispatch, got %v", err)
	}
}

func TestShopifySyncStartsDeadlineOnFirstShippedStatus(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "shopify"))
	syncStatus := SyncShopifyStatusUseCase{Shipments: store, Deliverables: store, Clock: store}
	shipment, _ := store.GetShipmentByMatch(context.Background(), "match_1")

	if _, err := syncStatus.Execute(context.Background(), SyncShopifyStatusCommand{
		ShipmentID: shipment.ShipmentID,
		Status:     "processing",
	}); err != nil {
		t.Fatalf("processing sync failed: %v", err)
	}
	deliverable, _ := store.GetDeliverableByMatch(context.Background(), "match_1")
	if deliverable.DueAt != nil {
		t.Fatal("processing must not start the deadline")
	}

	inTransit, err := syncStatus.Execute(context.Background(), SyncShopifyStatusCommand{
		ShipmentID: shipment.ShipmentID,
		Status:     "in_transit",
	})
	if err != nil {
		t.Fatalf("in_transit sync failed: %v", err)
	}
	if inTransit.ShippedAt == nil {
		t.Fatal("expected shippedAt at first shipped-set status")
	}
	deliverable, _ = store.GetDeliverableByMatch(context.Background(), "match_1")
	if deliverable.DueAt == nil {
		t.Fatal("expected deadline started at first shipped-set status")
	}
	firstDue := *deliverable.DueAt

	delivered, err := syncStatus.Execute(context.Background(), SyncShopifyStatusCommand{
		ShipmentID: shipment.ShipmentID,
		Status:     "delivered",
	})
	if err != nil {
		t.Fatalf("delivered sync failed: %v", err)
	}
	if !delivered.ShippedAt.Equal(*inTransit.ShippedAt) {
		t.Fatal("later statuses must not restamp shippedAt")
	}
	deliverable, _ = store.GetDeliverableByMatch(context.Background(), "match_1")
	if !deliverable.DueAt.Equal(firstDue) {
		t.Fatal("later statuses must not move the deadline")
	}
}

func TestShopifySyncRejectsUnknownStatus(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "shopify"))
	syncStatus := SyncShopifyStatusUseCase{Shipments: store, Deliverables: store, Clock: store}
	shipment, _ := store.GetShipmentByMatch(context.Background(), "match_1")

	_, err := syncStatus.Execute(context.Background(), SyncShopifyStatusCommand{
		ShipmentID: shipment.ShipmentID,
		Status:     "teleported",
	})
	if !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSubmitDeliverableKeepsStatusDue(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	submit := SubmitDeliverableUseCase{Deliverables: store, Clock: store}

	deliverable, err := submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:   "match_1",
		CreatorID: "creator_1",
		Permalink: "https://instagram.com/p/abc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if deliverable.Status != entities.DeliverableStatusDue {
		t.Fatalf("submission must not advance status, got %s", deliverable.Status)
	}
	if deliverable.SubmittedAt == nil {
		t.Fatal("expected submittedAt stamped")
	}
}

func TestSubmitRequiresPermalink(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	submit := SubmitDeliverableUseCase{Deliverables: store, Clock: store}

	_, err := submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:   "match_1",
		CreatorID: "creator_1",
	})
	if !errors.Is(err, domainerrors.ErrPermalinkRequired) {
		t.Fatalf("expected permalink required, got %v", err)
	}
}

func TestVerifyDeliverableIsTerminal(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	submit := SubmitDeliverableUseCase{Deliverables: store, Clock: store}
	review := ReviewDeliverableUseCase{Deliverables: store, Clock: store}

	submitted, err := submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:   "match_1",
		CreatorID: "creator_1",
		Permalink: "https://instagram.com/p/abc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	verified, err := review.Execute(context.Background(), ReviewDeliverableCommand{
		DeliverableID: submitted.DeliverableID,
		ActorID:       "brand_1",
		Action:        entities.ReviewActionVerified,
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if verified.Status != entities.DeliverableStatusVerified {
		t.Fatalf("expected verified, got %s", verified.Status)
	}
	if verified.VerifiedPermalink != "https://instagram.com/p/abc" {
		t.Fatalf("expected submitted permalink kept, got %q", verified.VerifiedPermalink)
	}

	_, err = review.Execute(context.Background(), ReviewDeliverableCommand{
		DeliverableID: submitted.DeliverableID,
		ActorID:       "brand_1",
		Action:        entities.ReviewActionRequestChanges,
		Reason:        "too late",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected terminal deliverable to reject review, got %v", err)
	}
}

func TestRequestChangesReopensForResubmission(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	submit := SubmitDeliverableUseCase{Deliverables: store, Clock: store}
	review := ReviewDeliverableUseCase{Deliverables: store, Clock: store}

	submitted, err := submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:   "match_1",
		CreatorID: "creator_1",
		Permalink: "https://instagram.com/p/abc",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reopened, err := review.Execute(context.Background(), ReviewDeliverableCommand{
		DeliverableID: submitted.DeliverableID,
		ActorID:       "brand_1",
		Action:        entities.ReviewActionRequestChanges,
		Reason:        "wrong hashtag",
	})
	if err != nil {
		t.Fatalf("request changes failed: %v", err)
	}
	if reopened.Status != entities.DeliverableStatusRepostRequired {
		t.Fatalf("expected repost_required, got %s", reopened.Status)
	}
	if reopened.SubmittedAt != nil || reopened.SubmittedPermalink != "" {
		t.Fatal("request changes must clear the previous submission")
	}
	if reopened.ReviewCount != 1 {
		t.Fatalf("expected review count 1, got %d", reopened.ReviewCount)
	}
	if len(reopened.Reviews) != 1 || reopened.Reviews[0].Reason != "wrong hashtag" {
		t.Fatalf("expected review log entry, got %+v", reopened.Reviews)
	}

	resubmitted, err := submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:   "match_1",
		CreatorID: "creator_1",
		Permalink: "https://instagram.com/p/def",
	})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if resubmitted.Status != entities.DeliverableStatusDue {
		t.Fatalf("expected resubmission to reopen as due, got %s", resubmitted.Status)
	}
}

func TestRequestChangesWithoutSubmissionRejected(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	review := ReviewDeliverableUseCase{Deliverables: store, Clock: store}
	deliverable, _ := store.GetDeliverableByMatch(context.Background(), "match_1")

	_, err := review.Execute(context.Background(), ReviewDeliverableCommand{
		DeliverableID: deliverable.DeliverableID,
		ActorID:       "brand_1",
		Action:        entities.ReviewActionRequestChanges,
		Reason:        "missing content",
	})
	if !errors.Is(err, domainerrors.ErrNotSubmitted) {
		t.Fatalf("expected not submitted, got %v", err)
	}
}

func TestFailDeliverableRecordsStrike(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	strikes := &stubStrikes{}
	review := ReviewDeliverableUseCase{Deliverables: store, Strikes: strikes, Clock: store}
	deliverable, _ := store.GetDeliverableByMatch(context.Background(), "match_1")

	failed, err := review.Execute(context.Background(), ReviewDeliverableCommand{
		DeliverableID: deliverable.DeliverableID,
		ActorID:       "brand_1",
		Action:        entities.ReviewActionFailed,
		Reason:        "deadline missed",
	})
	if err != nil {
		t.Fatalf("fail failed: %v", err)
	}
	if failed.Status != entities.DeliverableStatusFailed {
		t.Fatalf("expected failed, got %s", failed.Status)
	}
	if strikes.count("creator_1") != 1 {
		t.Fatalf("expected one strike, got %d", strikes.count("creator_1"))
	}

	submit := SubmitDeliverableUseCase{Deliverables: store, Clock: store}
	_, err = submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:   "match_1",
		CreatorID: "creator_1",
		Permalink: "https://instagram.com/p/late",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected failed deliverable to reject submission, got %v", err)
	}
}

func TestReviewRequiresReason(t *testing.T) {
	store := provisionedStore(t, provisionCommand("match_1", true, "manual"))
	review := ReviewDeliverableUseCase{Deliverables: store, Clock: store}
	deliverable, _ := store.GetDeliverableByMatch(context.Background(), "match_1")

	_, err := review.Execute(context.Background(), ReviewDeliverableCommand{
		DeliverableID: deliverable.DeliverableID,
		ActorID:       "brand_1",
		Action:        entities.ReviewActionFailed,
	})
	if !errors.Is(err, domainerrors.ErrReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}
}

func TestUsageRightsGrantOnlyWhenRequired(t *testing.T) {
	cmd := provisionCommand("match_1", true, "manual")
	cmd.UsageRightsRequired = true
	store := provisionedStore(t, cmd)
	submit := SubmitDeliverableUseCase{Deliverables: store, Clock: store}

	granted, err := submit.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:          "match_1",
		CreatorID:        "creator_1",
		Permalink:        "https://instagram.com/p/abc",
		GrantUsageRights: true,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if granted.UsageRightsGranted == nil {
		t.Fatal("expected usage rights granted")
	}

	other := provisionCommand("match_2", true, "manual")
	store2 := provisionedStore(t, other)
	submit2 := SubmitDeliverableUseCase{Deliverables: store2, Clock: store2}
	ungranted, err := submit2.Execute(context.Background(), SubmitDeliverableCommand{
		MatchID:          "match_2",
		CreatorID:        "creator_1",
		Permalink:        "https://instagram.com/p/abc",
		GrantUsageRights: true,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if ungranted.UsageRightsGranted != nil {
		t.Fatal("grant must be ignored when the offer does not require usage rights")
	}
}
