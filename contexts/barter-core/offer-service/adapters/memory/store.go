package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	offers      map[string]entities.Offer
	drafts      map[string]entities.Draft
	stateLog    []entities.StateHistory
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore(seed []entities.Offer) *Store {
	offers := make(map[string]entities.Offer, len(seed))
	for _, item := range seed {
		offers[item.OfferID] = item
	}
	return &Store{
		offers:      offers,
		drafts:      make(map[string]entities.Draft),
		stateLog:    make([]entities.StateHistory, 0),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) CreateOffer(_ context.Context, offer entities.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offers[offer.OfferID]; exists {
		return domainerrors.ErrInvalidOfferInput
	}
	s.offers[offer.OfferID] = offer
	return nil
}

func (s *Store) UpdateOffer(_ context.Context, offer entities.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.offers[offer.OfferID]
	if !exists {
		return domainerrors.ErrOfferNotFound
	}
	// The claim counter is owned by the slot operations.
	offer.ActiveMatchCount = current.ActiveMatchCount
	s.offers[offer.OfferID] = offer
	return nil
}

func (s *Store) GetOffer(_ context.Context, offerID string) (entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.offers[strings.TrimSpace(offerID)]
	if !exists {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	return item, nil
}

func (s *Store) ListOffers(_ context.Context, filter ports.OfferFilter) ([]entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Offer, 0, len(s.offers))
	for _, offer := range s.offers {
		if filter.BrandID != "" && offer.BrandID != filter.BrandID {
			continue
		}
		if filter.Status != "" && offer.Status != filter.Status {
			continue
		}
		items = append(items, offer)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ChangeOfferStatus(_ context.Context, offerID string, from, to entities.OfferStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, exists := s.offers[offerID]
	if !exists {
		return domainerrors.ErrOfferNotFound
	}
	if offer.Status != from {
		return domainerrors.ErrConflict
	}
	offer.Status = to
	offer.UpdatedAt = at
	switch to {
	case entities.OfferStatusPublished:
		stamp := at
		offer.PublishedAt = &stamp
	case entities.OfferStatusArchived:
		stamp := at
		offer.ArchivedAt = &stamp
	}
	s.offers[offerID] = offer
	return nil
}

func (s *Store) DeleteOffer(_ context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, exists := s.offers[offerID]
	if !exists {
		return domainerrors.ErrOfferNotFound
	}
	if offer.Status != entities.OfferStatusDraft {
		return domainerrors.ErrInvalidStateTransition
	}
	delete(s.offers, offerID)
	return nil
}

func (s *Store) ReserveClaimSlot(_ context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, exists := s.offers[offerID]
	if !exists {
		return domainerrors.ErrOfferNotFound
	}
	if offer.Status != entities.OfferStatusPublished {
		return domainerrors.ErrOfferNotActive
	}
	if offer.ActiveMatchCount >= offer.MaxClaims {
		return domainerrors.ErrOfferFull
	}
	offer.ActiveMatchCount++
	s.offers[offerID] = offer
	return nil
}

func (s *Store) ReleaseClaimSlot(_ context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, exists := s.offers[offerID]
	if !exists {
		return domainerrors.ErrOfferNotFound
	}
	if offer.ActiveMatchCount > 0 {
		offer.ActiveMatchCount--
	}
	s.offers[offerID] = offer
	return nil
}

func (s *Store) GetDraft(_ context.Context, offerID string) (entities.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, exists := s.drafts[strings.TrimSpace(offerID)]
	if !exists {
		return entities.Draft{}, domainerrors.ErrDraftNotFound
	}
	return draft, nil
}

func (s *Store) SaveDraft(_ context.Context, draft entities.Draft, expectedVersion int) (entities.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.drafts[draft.OfferID]
	if exists && current.Version != expectedVersion {
		return entities.Draft{}, domainerrors.ErrDraftVersionConflict
	}
	if !exists && expectedVersion != 0 {
		return entities.Draft{}, domainerrors.ErrDraftVersionConflict
	}
	draft.Version = expectedVersion + 1
	s.drafts[draft.OfferID] = draft
	return draft, nil
}

func (s *Store) DeleteDraft(_ context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, strings.TrimSpace(offerID))
	return nil
}

func (s *Store) AppendState(_ context.Context, item entities.StateHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateLog = append(s.stateLog, item)
	return nil
}

func (s *Store) StateHistoryFor(offerID string) []entities.StateHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.StateHistory, 0)
	for _, item := range s.stateLog {
		if item.OfferID == offerID {
			items = append(items, item)
		}
	}
	return items
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
