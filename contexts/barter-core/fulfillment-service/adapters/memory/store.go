package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	shipments          map[string]entities.Shipment
	shipmentByMatch    map[string]string
	deliverables       map[string]entities.Deliverable
	deliverableByMatch map[string]string
}

func NewStore() *Store {
	return &Store{
		shipments:          make(map[string]entities.Shipment),
		shipmentByMatch:    make(map[string]string),
		deliverables:       make(map[string]entities.Deliverable),
		deliverableByMatch: make(map[string]string),
	}
}

func (s *Store) CreateShipment(_ context.Context, shipment entities.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.shipments[shipment.ShipmentID]; exists {
		return domainerrors.ErrInvalidInput
	}
	if _, exists := s.shipmentByMatch[shipment.MatchID]; exists {
		return domainerrors.ErrAlreadyProvisioned
	}
	s.shipments[shipment.ShipmentID] = shipment
	s.shipmentByMatch[shipment.MatchID] = shipment.ShipmentID
	return nil
}

func (s *Store) GetShipment(_ context.Context, shipmentID string) (entities.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shipment, ok := s.shipments[strings.TrimSpace(shipmentID)]
	if !ok {
		return entities.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	return shipment, nil
}

func (s *Store) GetShipmentByMatch(_ context.Context, matchID string) (entities.Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shipmentID, ok := s.shipmentByMatch[strings.TrimSpace(matchID)]
	if !ok {
		return entities.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	return s.shipments[shipmentID], nil
}

func (s *Store) UpdateShipment(_ context.Context, shipment entities.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shipments[shipment.ShipmentID]; !ok {
		return domainerrors.ErrShipmentNotFound
	}
	s.shipments[shipment.ShipmentID] = shipment
	return nil
}

func (s *Store) CreateDeliverable(_ context.Context, deliverable entities.Deliverable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deliverables[deliverable.DeliverableID]; exists {
		return domainerrors.ErrInvalidInput
	}
	if _, exists := s.deliverableByMatch[deliverable.MatchID]; exists {
		return domainerrors.ErrAlreadyProvisioned
	}
	s.deliverables[deliverable.DeliverableID] = deliverable
	s.deliverableByMatch[deliverable.MatchID] = deliverable.DeliverableID
	return nil
}

func (s *Store) GetDeliverable(_ context.Context, deliverableID string) (entities.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deliverable, ok := s.deliverables[strings.TrimSpace(deliverableID)]
	if !ok {
		return entities.Deliverable{}, domainerrors.ErrDeliverableNotFound
	}
	return deliverable, nil
}

func (s *Store) GetDeliverableByMatch(_ context.Context, matchID string) (entities.Deliverable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deliverableID, ok := s.deliverableByMatch[strings.TrimSpace(matchID)]
	if !ok {
		return entities.Deliverable{}, domainerrors.ErrDeliverableNotFound
	}
	return s.deliverables[deliverableID], nil
}

func (s *Store) UpdateDeliverable(
	_ context.Context,
	deliverable entities.Deliverable,
	expectedStatus entities.DeliverableStatus,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.deliverables[deliverable.DeliverableID]
	if !ok {
		return domainerrors.ErrDeliverableNotFound
	}
	if current.Status != expectedStatus {
		return domainerrors.ErrConflict
	}
	s.deliverables[deliverable.DeliverableID] = deliverable
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
