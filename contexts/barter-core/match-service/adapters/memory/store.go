package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gifted/contexts/barter-core/match-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	matches  map[string]entities.Match
	profiles map[string]entities.CreatorProfile
	strikes  map[string]int
}

func NewStore(profiles []entities.CreatorProfile) *Store {
	indexed := make(map[string]entities.CreatorProfile, len(profiles))
	for _, profile := range profiles {
		indexed[profile.CreatorID] = profile
	}
	return &Store{
		matches:  make(map[string]entities.Match),
		profiles: indexed,
		strikes:  make(map[string]int),
	}
}

func (s *Store) CreateMatch(_ context.Context, match entities.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.matches[match.MatchID]; exists {
		return domainerrors.ErrInvalidMatchInput
	}
	for _, existing := range s.matches {
		if existing.CampaignCode == match.CampaignCode {
			return domainerrors.ErrInvalidMatchInput
		}
	}
	s.matches[match.MatchID] = match
	return nil
}

func (s *Store) GetMatch(_ context.Context, matchID string) (entities.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match, exists := s.matches[strings.TrimSpace(matchID)]
	if !exists {
		return entities.Match{}, domainerrors.ErrMatchNotFound
	}
	return match, nil
}

func (s *Store) ListMatches(_ context.Context, filter ports.MatchFilter) ([]entities.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Match, 0)
	for _, match := range s.matches {
		if filter.OfferID != "" && match.OfferID != filter.OfferID {
			continue
		}
		if filter.CreatorID != "" && match.CreatorID != filter.CreatorID {
			continue
		}
		items = append(items, match)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ChangeMatchStatus(
	_ context.Context,
	matchID string,
	from, to entities.MatchStatus,
	reason string,
	at time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	match, exists := s.matches[matchID]
	if !exists {
		return domainerrors.ErrMatchNotFound
	}
	if match.Status != from {
		return domainerrors.ErrConflict
	}
	match.Status = to
	match.UpdatedAt = at
	if to == entities.MatchStatusRevoked {
		match.RejectionReason = reason
	}
	if to == entities.MatchStatusAccepted {
		stamp := at
		match.AcceptedAt = &stamp
	}
	s.matches[matchID] = match
	return nil
}

func (s *Store) GetProfile(_ context.Context, creatorID string) (entities.CreatorProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[strings.TrimSpace(creatorID)]
	if !exists {
		return entities.CreatorProfile{}, domainerrors.ErrCreatorNotFound
	}
	return profile, nil
}

func (s *Store) PutProfile(profile entities.CreatorProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.CreatorID] = profile
}

func (s *Store) AddStrike(_ context.Context, creatorID string, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strikes[strings.TrimSpace(creatorID)]++
	return nil
}

func (s *Store) StrikeCount(_ context.Context, creatorID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.strikes[strings.TrimSpace(creatorID)], nil
}

func (s *Store) Now() time.Time {
	return time.Now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) NewCampaignCode(_ context.Context) (string, error) {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "GFT-" + raw[:10], nil
}
