package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"gifted/contexts/barter-core/offer-service/adapters/memory"
	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/domain/services"
	"gifted/contexts/barter-core/offer-service/ports"
)

type stubBilling struct {
	active bool
}

func (b stubBilling) SubscriptionActive(_ context.Context, _ string) (bool, error) {
	return b.active, nil
}

func newCreateUseCase(store *memory.Store) CreateOfferUseCase {
	return CreateOfferUseCase{
		Offers:         store,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
	}
}

func newChangeStatusUseCase(store *memory.Store) ChangeStatusUseCase {
	return ChangeStatusUseCase{
		Offers:  store,
		Drafts:  store,
		History: store,
		Clock:   store,
		IDGen:   store,
	}
}

func validCreateCommand(key string) CreateOfferCommand {
	return CreateOfferCommand{
		BrandID:                   "brand_1",
		IdempotencyKey:            key,
		Title:                     "Spring launch reel",
		Template:                  "reel",
		CountriesAllowed:          []string{"US"},
		MaxClaims:                 2,
		DeadlineDaysAfterDelivery: 7,
		Metadata: services.MetadataInput{
			Category:        "tech",
			Platforms:       []string{"instagram"},
			FulfillmentType: "manual",
		},
	}
}

func TestCreateOfferIdempotentReplay(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)

	cmd := validCreateCommand("idem-1")
	first, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if !second.Replayed {
		t.Fatal("expected replayed result on repeated key")
	}
	if first.Offer.OfferID != second.Offer.OfferID {
		t.Fatalf("expected same offer id, got %s vs %s", first.Offer.OfferID, second.Offer.OfferID)
	}
	offers, _ := store.ListOffers(context.Background(), ports.OfferFilter{})
	if len(offers) != 1 {
		t.Fatalf("expected a single stored offer, got %d", len(offers))
	}
}

func TestCreateOfferIdempotencyKeyConflict(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)

	if _, err := create.Execute(context.Background(), validCreateCommand("idem-2")); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	changed := validCreateCommand("idem-2")
	changed.Title = "Different payload"
	if _, err := create.Execute(context.Background(), changed); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("expected idempotency key conflict, got %v", err)
	}
}

func TestCreateOfferRequiresIdempotencyKey(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)

	cmd := validCreateCommand("")
	if _, err := create.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected key required error, got %v", err)
	}
}

func TestCreateAndPublishStampsPublishedAt(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)

	cmd := validCreateCommand("idem-3")
	cmd.Publish = true
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create+publish failed: %v", err)
	}
	if result.Offer.Status != entities.OfferStatusPublished {
		t.Fatalf("expected published offer, got %s", result.Offer.Status)
	}
	if result.Offer.PublishedAt == nil {
		t.Fatal("expected publishedAt to be stamped")
	}
}

func TestCreateDraftWithPartialMetadata(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)

	cmd := validCreateCommand("idem-4")
	cmd.Metadata = services.MetadataInput{}
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("draft with partial metadata failed: %v", err)
	}
	if result.Offer.Status != entities.OfferStatusDraft {
		t.Fatalf("expected draft, got %s", result.Offer.Status)
	}
}

func TestPublishRevalidatesDraftMetadata(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)

	cmd := validCreateCommand("idem-5")
	cmd.Metadata = services.MetadataInput{}
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionPublish,
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error on publish, got %v", err)
	}
	issues := domainerrors.IssuesFrom(err)
	if len(issues) == 0 {
		t.Fatal("expected issue list on validation error")
	}
}

func TestPublishTwiceIsNoOp(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)

	result, err := create.Execute(context.Background(), validCreateCommand("idem-6"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	publish := ChangeStatusCommand{OfferID: result.Offer.OfferID, ActorID: "brand_1", Action: StatusActionPublish}
	if err := change.Execute(context.Background(), publish); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if err := change.Execute(context.Background(), publish); err != nil {
		t.Fatalf("expected repeated publish to be a no-op, got %v", err)
	}
	history := store.StateHistoryFor(result.Offer.OfferID)
	if len(history) != 1 {
		t.Fatalf("expected one recorded transition, got %d", len(history))
	}
}

func TestPublishBlockedByPaywall(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)
	change.Billing = stubBilling{active: false}

	result, err := create.Execute(context.Background(), validCreateCommand("idem-7"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err = change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionPublish,
	})
	if !errors.Is(err, domainerrors.ErrPaywall) {
		t.Fatalf("expected paywall error, got %v", err)
	}
}

func TestResumeBlockedByPaywall(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)
	change.Billing = stubBilling{active: true}

	cmd := validCreateCommand("idem-17")
	cmd.Publish = true
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionArchive,
		Reason:  "pausing",
	}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	// Subscription lapses while the offer sits archived.
	change.Billing = stubBilling{active: false}
	err = change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionResume,
	})
	if !errors.Is(err, domainerrors.ErrPaywall) {
		t.Fatalf("expected paywall error on resume, got %v", err)
	}
	offer, _ := store.GetOffer(context.Background(), result.Offer.OfferID)
	if offer.Status != entities.OfferStatusArchived {
		t.Fatalf("expected offer still archived, got %s", offer.Status)
	}
}

func TestPublishClearsAutosaveDraft(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)
	saveDraft := SaveDraftUseCase{Offers: store, Drafts: store, Clock: store}

	result, err := create.Execute(context.Background(), validCreateCommand("idem-8"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := saveDraft.Execute(context.Background(), SaveDraftCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Step:    2,
		Payload: []byte(`{"step":2}`),
	}); err != nil {
		t.Fatalf("draft save failed: %v", err)
	}

	if err := change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionPublish,
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := store.GetDraft(context.Background(), result.Offer.OfferID); !errors.Is(err, domainerrors.ErrDraftNotFound) {
		t.Fatalf("expected autosave draft removed after publish, got %v", err)
	}
}

func TestArchiveAndResume(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)

	cmd := validCreateCommand("idem-9")
	cmd.Publish = true
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionArchive,
		Reason:  "season over",
	}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	offer, _ := store.GetOffer(context.Background(), result.Offer.OfferID)
	if offer.Status != entities.OfferStatusArchived {
		t.Fatalf("expected archived, got %s", offer.Status)
	}
	if offer.ArchivedAt == nil {
		t.Fatal("expected archivedAt stamped")
	}

	if err := change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionResume,
	}); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	offer, _ = store.GetOffer(context.Background(), result.Offer.OfferID)
	if offer.Status != entities.OfferStatusPublished {
		t.Fatalf("expected published after resume, got %s", offer.Status)
	}
}

func TestArchiveDraftRejected(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)

	result, err := create.Execute(context.Background(), validCreateCommand("idem-10"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err = change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionArchive,
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestDeletePublishedOfferRejected(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)

	cmd := validCreateCommand("idem-11")
	cmd.Publish = true
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err = change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Action:  StatusActionDelete,
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestChangeStatusUnauthorizedActor(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	change := newChangeStatusUseCase(store)

	result, err := create.Execute(context.Background(), validCreateCommand("idem-12"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	err = change.Execute(context.Background(), ChangeStatusCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_2",
		Action:  StatusActionPublish,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected unauthorized actor, got %v", err)
	}
}

func TestUpdatePublishedOfferRejected(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	update := UpdateOfferUseCase{Offers: store, Clock: store}

	cmd := validCreateCommand("idem-13")
	cmd.Publish = true
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	title := "New title"
	_, err = update.Execute(context.Background(), UpdateOfferCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Title:   &title,
	})
	if !errors.Is(err, domainerrors.ErrOfferNotEditable) {
		t.Fatalf("expected not editable, got %v", err)
	}
}

func TestDuplicateOfferCreatesFreshDraft(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	duplicate := DuplicateOfferUseCase{Offers: store, Clock: store, IDGen: store}

	cmd := validCreateCommand("idem-14")
	cmd.Publish = true
	result, err := create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	_ = store.ReserveClaimSlot(context.Background(), result.Offer.OfferID)

	clone, err := duplicate.Execute(context.Background(), DuplicateOfferCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
	})
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if clone.OfferID == result.Offer.OfferID {
		t.Fatal("expected a new offer id")
	}
	if clone.Status != entities.OfferStatusDraft {
		t.Fatalf("expected draft clone, got %s", clone.Status)
	}
	if clone.ActiveMatchCount != 0 {
		t.Fatalf("expected zeroed claim counter, got %d", clone.ActiveMatchCount)
	}
	if clone.Title != "Spring launch reel (copy)" {
		t.Fatalf("unexpected clone title %q", clone.Title)
	}
	if clone.PublishedAt != nil {
		t.Fatal("expected clone without publishedAt")
	}

	source, _ := store.GetOffer(context.Background(), result.Offer.OfferID)
	if source.Status != entities.OfferStatusPublished {
		t.Fatalf("expected source untouched, got %s", source.Status)
	}
}

func TestSaveDraftStaleVersionRejected(t *testing.T) {
	store := memory.NewStore(nil)
	create := newCreateUseCase(store)
	saveDraft := SaveDraftUseCase{Offers: store, Drafts: store, Clock: store}

	result, err := create.Execute(context.Background(), validCreateCommand("idem-15"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first, err := saveDraft.Execute(context.Background(), SaveDraftCommand{
		OfferID: result.Offer.OfferID,
		ActorID: "brand_1",
		Step:    1,
		Payload: []byte(`{"step":1}`),
	})
	if err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("expected version 1, got %d", first.Version)
	}

	second, err := saveDraft.Execute(context.Background(), SaveDraftCommand{
		OfferID:         result.Offer.OfferID,
		ActorID:         "brand_1",
		Step:            2,
		Payload:         []byte(`{"step":2}`),
		ExpectedVersion: 1,
	})
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("expected version 2, got %d", second.Version)
	}

	_, err = saveDraft.Execute(context.Background(), SaveDraftCommand{
		OfferID:         result.Offer.OfferID,
		ActorID:         "brand_1",
		Step:            3,
		Payload:         []byte(`{"step":3}`),
		ExpectedVersion: 1,
	})
	if !errors.Is(err, domainerrors.ErrDraftVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}
