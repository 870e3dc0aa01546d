package commands

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"gifted/contexts/barter-core/match-service/adapters/memory"
	"gifted/contexts/barter-core/match-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/ports"
)

// testOfferDirectory serves a single offer and enforces the claim cap the
// way the offer service does: a conditional counter increment.
type testOfferDirectory struct {
	mu    sync.Mutex
	offer ports.OfferView
}

func (d *testOfferDirectory) GetOffer(_ context.Context, offerID string) (ports.OfferView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.offer.OfferID != offerID {
		return ports.OfferView{}, domainerrors.ErrOfferNotFound
	}
	return d.offer, nil
}

func (d *testOfferDirectory) ListPublishedOffers(_ context.Context) ([]ports.OfferView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.offer.Published {
		return nil, nil
	}
	return []ports.OfferView{d.offer}, nil
}

func (d *testOfferDirectory) ReserveClaimSlot(_ context.Context, offerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.offer.OfferID != offerID {
		return domainerrors.ErrOfferNotFound
	}
	if !d.offer.Published {
		return domainerrors.NewEligibilityError(domainerrors.DenialOfferNotActive)
	}
	if d.offer.ActiveMatchCount >= d.offer.MaxClaims {
		return domainerrors.NewEligibilityError(domainerrors.DenialOfferFull)
	}
	d.offer.ActiveMatchCount++
	return nil
}

func (d *testOfferDirectory) ReleaseClaimSlot(_ context.Context, offerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.offer.OfferID != offerID {
		return domainerrors.ErrOfferNotFound
	}
	if d.offer.ActiveMatchCount > 0 {
		d.offer.ActiveMatchCount--
	}
	return nil
}

func (d *testOfferDirectory) activeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.offer.ActiveMatchCount
}

type stubProvisioner struct {
	mu         sync.Mutex
	provisions []ports.ProvisionRequest
	dispatched map[string]bool
	fail       error
}

func (p *stubProvisioner) Provision(_ context.Context, req ports.ProvisionRequest) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	p.provisions = append(p.provisions, req)
	return nil
}

func (p *stubProvisioner) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

func (p *stubProvisioner) ShipmentDispatched(_ context.Context, matchID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispatched[matchID], nil
}

func (p *stubProvisioner) provisionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.provisions)
}

func testProfile(creatorID string, followers int) entities.CreatorProfile {
	return entities.CreatorProfile{
		CreatorID:      creatorID,
		FollowersCount: followers,
		ShippingName:   "Pat Q. Creator",
		AddressLine1:   "1 Main St",
		City:           "Austin",
		PostalCode:     "73301",
		Country:        "US",
		Socials: []entities.SocialConnection{
			{Provider: "instagram", Connected: true},
		},
	}
}

func testOffer(maxClaims int, autoAccept bool, threshold int) ports.OfferView {
	return ports.OfferView{
		OfferID:                      "offer_1",
		BrandID:                      "brand_1",
		Status:                       "published",
		Template:                     "reel",
		Published:                    true,
		MaxClaims:                    maxClaims,
		AcceptanceFollowersThreshold: threshold,
		AboveThresholdAutoAccept:     autoAccept,
		DeadlineDaysAfterDelivery:    7,
		FulfillmentType:              "manual",
		RequiresShipment:             true,
		Platforms:                    []string{"instagram"},
	}
}

func newClaimFixture(offer ports.OfferView, profiles ...entities.CreatorProfile) (ClaimOfferUseCase, *memory.Store, *testOfferDirectory, *stubProvisioner) {
	store := memory.NewStore(profiles)
	directory := &testOfferDirectory{offer: offer}
	provisioner := &stubProvisioner{dispatched: make(map[string]bool)}
	claim := ClaimOfferUseCase{
		Matches:     store,
		Offers:      directory,
		Creators:    store,
		Fulfillment: provisioner,
		Clock:       store,
		IDGenerator: store,
		Codes:       store,
	}
	return claim, store, directory, provisioner
}

func TestClaimAutoAcceptAboveThreshold(t *testing.T) {
	claim, _, directory, provisioner := newClaimFixture(
		testOffer(3, true, 5_000),
		testProfile("creator_1", 10_000),
	)

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if result.Match.Status != entities.MatchStatusAccepted {
		t.Fatalf("expected accepted, got %s", result.Match.Status)
	}
	if result.Match.AcceptedAt == nil {
		t.Fatal("expected acceptedAt stamped")
	}
	if !strings.HasPrefix(result.Match.CampaignCode, "GFT-") || len(result.Match.CampaignCode) != 14 {
		t.Fatalf("unexpected campaign code %q", result.Match.CampaignCode)
	}
	if provisioner.provisionCount() != 1 {
		t.Fatalf("expected one provision call, got %d", provisioner.provisionCount())
	}
	if directory.activeCount() != 1 {
		t.Fatalf("expected one reserved slot, got %d", directory.activeCount())
	}
}

func TestClaimBelowThresholdGoesToReview(t *testing.T) {
	claim, _, _, provisioner := newClaimFixture(
		testOffer(3, true, 5_000),
		testProfile("creator_1", 1_000),
	)

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if result.Match.Status != entities.MatchStatusPendingApproval {
		t.Fatalf("expected pending approval, got %s", result.Match.Status)
	}
	if result.Match.AcceptedAt != nil {
		t.Fatal("pending claims must not carry acceptedAt")
	}
	if provisioner.provisionCount() != 0 {
		t.Fatal("fulfillment must not be provisioned before approval")
	}
}

func TestClaimTwiceDenied(t *testing.T) {
	claim, _, _, _ := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)

	if _, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"}); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	_, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	reason, ok := domainerrors.ReasonFrom(err)
	if !ok || reason != domainerrors.DenialAlreadyClaimed {
		t.Fatalf("expected already_claimed denial, got %v", err)
	}
}

func TestClaimAfterRevokeDenied(t *testing.T) {
	offer := testOffer(3, false, 0)
	claim, store, directory, _ := newClaimFixture(offer, testProfile("creator_1", 1_000))
	reject := RejectMatchUseCase{Matches: store, Offers: directory, Strikes: store, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if _, err := reject.Execute(context.Background(), RejectMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
		Reason:  "audience mismatch",
	}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	_, err = claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	reason, ok := domainerrors.ReasonFrom(err)
	if !ok || reason != domainerrors.DenialPreviouslyRevoked {
		t.Fatalf("expected previously_revoked denial, got %v", err)
	}
}

func TestParallelClaimsRespectCap(t *testing.T) {
	const maxClaims = 2
	const claimants = 8

	profiles := make([]entities.CreatorProfile, 0, claimants)
	for i := 0; i < claimants; i++ {
		profiles = append(profiles, testProfile("creator_"+string(rune('a'+i)), 1_000))
	}
	claim, store, directory, _ := newClaimFixture(testOffer(maxClaims, false, 0), profiles...)

	var wg sync.WaitGroup
	errs := make([]error, claimants)
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := claim.Execute(context.Background(), ClaimOfferCommand{
				OfferID:   "offer_1",
				CreatorID: profiles[idx].CreatorID,
			})
			errs[idx] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if !errors.Is(err, domainerrors.ErrEligibilityDenied) {
			t.Fatalf("loser got unexpected error: %v", err)
		}
	}
	if winners != maxClaims {
		t.Fatalf("expected exactly %d winners, got %d", maxClaims, winners)
	}
	if directory.activeCount() != maxClaims {
		t.Fatalf("expected %d reserved slots, got %d", maxClaims, directory.activeCount())
	}
	matches, _ := store.ListMatches(context.Background(), ports.MatchFilter{OfferID: "offer_1"})
	if len(matches) != maxClaims {
		t.Fatalf("expected %d stored matches, got %d", maxClaims, len(matches))
	}
}

func TestApproveMatch(t *testing.T) {
	claim, store, directory, provisioner := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)
	approve := ApproveMatchUseCase{Matches: store, Offers: directory, Fulfillment: provisioner, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	approved, err := approve.Execute(context.Background(), ApproveMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Status != entities.MatchStatusAccepted {
		t.Fatalf("expected accepted, got %s", approved.Status)
	}
	if provisioner.provisionCount() != 1 {
		t.Fatalf("expected provisioning on approval, got %d calls", provisioner.provisionCount())
	}

	_, err = approve.Execute(context.Background(), ApproveMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid transition on repeated approve, got %v", err)
	}
}

func TestClaimRolledBackWhenProvisioningFails(t *testing.T) {
	claim, store, directory, provisioner := newClaimFixture(
		testOffer(3, true, 0),
		testProfile("creator_1", 10_000),
	)
	provisionErr := errors.New("fulfillment unavailable")
	provisioner.failWith(provisionErr)

	_, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if !errors.Is(err, provisionErr) {
		t.Fatalf("expected provisioning error, got %v", err)
	}
	if directory.activeCount() != 0 {
		t.Fatalf("expected reserved slot released, got %d held", directory.activeCount())
	}
	matches, err := store.ListMatches(context.Background(), ports.MatchFilter{OfferID: "offer_1"})
	if err != nil {
		t.Fatalf("list matches failed: %v", err)
	}
	for _, match := range matches {
		if match.OccupiesSlot() {
			t.Fatalf("expected no live match after failed claim, got status %s", match.Status)
		}
	}

	// The creator can claim again once fulfillment recovers.
	provisioner.failWith(nil)
	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("retry claim failed: %v", err)
	}
	if result.Match.Status != entities.MatchStatusAccepted {
		t.Fatalf("expected accepted on retry, got %s", result.Match.Status)
	}
	if provisioner.provisionCount() != 1 {
		t.Fatalf("expected one successful provision, got %d", provisioner.provisionCount())
	}
	if directory.activeCount() != 1 {
		t.Fatalf("expected one reserved slot after retry, got %d", directory.activeCount())
	}
}

func TestApproveRevertedWhenProvisioningFails(t *testing.T) {
	claim, store, directory, provisioner := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)
	approve := ApproveMatchUseCase{Matches: store, Offers: directory, Fulfillment: provisioner, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	provisionErr := errors.New("fulfillment unavailable")
	provisioner.failWith(provisionErr)
	_, err = approve.Execute(context.Background(), ApproveMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
	})
	if !errors.Is(err, provisionErr) {
		t.Fatalf("expected provisioning error, got %v", err)
	}
	match, err := store.GetMatch(context.Background(), result.Match.MatchID)
	if err != nil {
		t.Fatalf("get match failed: %v", err)
	}
	if match.Status != entities.MatchStatusPendingApproval {
		t.Fatalf("expected match back in pending approval, got %s", match.Status)
	}

	// A retried approve re-runs provisioning instead of dead-ending.
	provisioner.failWith(nil)
	approved, err := approve.Execute(context.Background(), ApproveMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
	})
	if err != nil {
		t.Fatalf("retry approve failed: %v", err)
	}
	if approved.Status != entities.MatchStatusAccepted {
		t.Fatalf("expected accepted on retry, got %s", approved.Status)
	}
	if provisioner.provisionCount() != 1 {
		t.Fatalf("expected one successful provision, got %d", provisioner.provisionCount())
	}
}

func TestApproveByWrongBrandRejected(t *testing.T) {
	claim, store, directory, provisioner := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)
	approve := ApproveMatchUseCase{Matches: store, Offers: directory, Fulfillment: provisioner, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	_, err = approve.Execute(context.Background(), ApproveMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_2",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorizedActor) {
		t.Fatalf("expected unauthorized actor, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	claim, store, directory, _ := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)
	reject := RejectMatchUseCase{Matches: store, Offers: directory, Strikes: store, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	_, err = reject.Execute(context.Background(), RejectMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
		Reason:  "   ",
	})
	if !errors.Is(err, domainerrors.ErrReasonRequired) {
		t.Fatalf("expected reason required, got %v", err)
	}
}

func TestRejectReleasesSlotAndRecordsStrike(t *testing.T) {
	claim, store, directory, _ := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)
	reject := RejectMatchUseCase{Matches: store, Offers: directory, Strikes: store, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	revoked, err := reject.Execute(context.Background(), RejectMatchCommand{
		MatchID: result.Match.MatchID,
		ActorID: "brand_1",
		Reason:  "audience mismatch",
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if revoked.Status != entities.MatchStatusRevoked {
		t.Fatalf("expected revoked, got %s", revoked.Status)
	}
	if revoked.RejectionReason != "audience mismatch" {
		t.Fatalf("expected stored reason, got %q", revoked.RejectionReason)
	}
	if directory.activeCount() != 0 {
		t.Fatalf("expected slot released, got %d", directory.activeCount())
	}
	strikes, _ := store.StrikeCount(context.Background(), "creator_1")
	if strikes != 1 {
		t.Fatalf("expected one strike, got %d", strikes)
	}
}

func TestCancelPendingReleasesSlot(t *testing.T) {
	claim, store, directory, provisioner := newClaimFixture(
		testOffer(3, false, 0),
		testProfile("creator_1", 1_000),
	)
	cancel := CancelMatchUseCase{Matches: store, Offers: directory, Fulfillment: provisioner, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	canceled, err := cancel.Execute(context.Background(), CancelMatchCommand{
		MatchID:   result.Match.MatchID,
		CreatorID: "creator_1",
	})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if canceled.Status != entities.MatchStatusCanceled {
		t.Fatalf("expected canceled, got %s", canceled.Status)
	}
	if directory.activeCount() != 0 {
		t.Fatalf("expected slot released, got %d", directory.activeCount())
	}
	strikes, _ := store.StrikeCount(context.Background(), "creator_1")
	if strikes != 0 {
		t.Fatalf("cancel must not record a strike, got %d", strikes)
	}
}

func TestCancelBlockedAfterDispatch(t *testing.T) {
	claim, store, directory, provisioner := newClaimFixture(
		testOffer(3, true, 0),
		testProfile("creator_1", 1_000),
	)
	cancel := CancelMatchUseCase{Matches: store, Offers: directory, Fulfillment: provisioner, Clock: store}

	result, err := claim.Execute(context.Background(), ClaimOfferCommand{OfferID: "offer_1", CreatorID: "creator_1"})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	provisioner.mu.Lock()
	provisioner.dispatched[result.Match.MatchID] = true
	provisioner.mu.Unlock()

	_, err = cancel.Execute(context.Background(), CancelMatchCommand{
		MatchID:   result.Match.MatchID,
		CreatorID: "creator_1",
	})
	if !errors.Is(err, domainerrors.ErrInvalidStateTransition) {
		t.Fatalf("expected cancel blocked after dispatch, got %v", err)
	}
}
