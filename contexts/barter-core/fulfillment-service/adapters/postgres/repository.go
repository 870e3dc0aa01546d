package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateShipment(ctx context.Context, shipment entities.Shipment) error {
	row := shipmentModelFromEntity(shipment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyProvisioned
		}
		return err
	}
	return nil
}

func (r *Repository) GetShipment(ctx context.Context, shipmentID string) (entities.Shipment, error) {
	var row shipmentModel
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", strings.TrimSpace(shipmentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Shipment{}, domainerrors.ErrShipmentNotFound
		}
		return entities.Shipment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetShipmentByMatch(ctx context.Context, matchID string) (entities.Shipment, error) {
	var row shipmentModel
	err := r.db.WithContext(ctx).
		Where("match_id = ?", strings.TrimSpace(matchID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Shipment{}, domainerrors.ErrShipmentNotFound
		}
		return entities.Shipment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateShipment(ctx context.Context, shipment entities.Shipment) error {
	row := shipmentModelFromEntity(shipment)
	result := r.db.WithContext(ctx).
		Model(&shipmentModel{}).
		Where("shipment_id = ?", row.ShipmentID).
		Updates(map[string]any{
			"status":          row.Status,
			"carrier":         row.Carrier,
			"tracking_number": row.TrackingNumber,
			"tracking_url":    row.TrackingURL,
			"shipped_at":      row.ShippedAt,
			"updated_at":      row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrShipmentNotFound
	}
	return nil
}

func (r *Repository) CreateDeliverable(ctx context.Context, deliverable entities.Deliverable) error {
	row, err := deliverableModelFromEntity(deliverable)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyProvisioned
		}
		return err
	}
	return nil
}

func (r *Repository) GetDeliverable(ctx context.Context, deliverableID string) (entities.Deliverable, error) {
	var row deliverableModel
	err := r.db.WithContext(ctx).
		Where("deliverable_id = ?", strings.TrimSpace(deliverableID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Deliverable{}, domainerrors.ErrDeliverableNotFound
		}
		return entities.Deliverable{}, err
	}
	return row.toEntity()
}

func (r *Repository) GetDeliverableByMatch(ctx context.Context, matchID string) (entities.Deliverable, error) {
	var row deliverableModel
	err := r.db.WithContext(ctx).
		Where("match_id = ?", strings.TrimSpace(matchID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Deliverable{}, domainerrors.ErrDeliverableNotFound
		}
		return entities.Deliverable{}, err
	}
	return row.toEntity()
}

func (r *Repository) UpdateDeliverable(
	ctx context.Context,
	deliverable entities.Deliverable,
	expectedStatus entities.DeliverableStatus,
) error {
	row, err := deliverableModelFromEntity(deliverable)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&deliverableModel{}).
		Where("deliverable_id = ? AND status = ?", row.DeliverableID, string(expectedStatus)).
		Updates(map[string]any{
			"status":               row.Status,
			"due_at":               row.DueAt,
			"submitted_permalink":  row.SubmittedPermalink,
			"submitted_notes":      row.SubmittedNotes,
			"submitted_at":         row.SubmittedAt,
			"usage_rights_granted": row.UsageRightsGranted,
			"verified_permalink":   row.VerifiedPermalink,
			"verified_at":          row.VerifiedAt,
			"reviews":              row.Reviews,
			"review_count":         row.ReviewCount,
			"updated_at":           row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&deliverableModel{}).
			Where("deliverable_id = ?", row.DeliverableID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrDeliverableNotFound
		}
		return domainerrors.ErrConflict
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type shipmentModel struct {
	ShipmentID      string     `gorm:"column:shipment_id;primaryKey"`
	MatchID         string     `gorm:"column:match_id;uniqueIndex"`
	OfferID         string     `gorm:"column:offer_id;index"`
	BrandID         string     `gorm:"column:brand_id;index"`
	CreatorID       string     `gorm:"column:creator_id;index"`
	FulfillmentType string     `gorm:"column:fulfillment_type"`
	Status          string     `gorm:"column:status"`
	Carrier         string     `gorm:"column:carrier"`
	TrackingNumber  string     `gorm:"column:tracking_number"`
	TrackingURL     string     `gorm:"column:tracking_url"`
	ShippedAt       *time.Time `gorm:"column:shipped_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (shipmentModel) TableName() string { return "shipments" }

func shipmentModelFromEntity(shipment entities.Shipment) shipmentModel {
	return shipmentModel{
		ShipmentID:      strings.TrimSpace(shipment.ShipmentID),
		MatchID:         strings.TrimSpace(shipment.MatchID),
		OfferID:         strings.TrimSpace(shipment.OfferID),
		BrandID:         strings.TrimSpace(shipment.BrandID),
		CreatorID:       strings.TrimSpace(shipment.CreatorID),
		FulfillmentType: string(shipment.FulfillmentType),
		Status:          string(shipment.Status),
		Carrier:         shipment.Carrier,
		TrackingNumber:  shipment.TrackingNumber,
		TrackingURL:     shipment.TrackingURL,
		ShippedAt:       shipment.ShippedAt,
		CreatedAt:       shipment.CreatedAt.UTC(),
		UpdatedAt:       shipment.UpdatedAt.UTC(),
	}
}

func (m shipmentModel) toEntity() entities.Shipment {
	return entities.Shipment{
		ShipmentID:      m.ShipmentID,
		MatchID:         m.MatchID,
		OfferID:         m.OfferID,
		BrandID:         m.BrandID,
		CreatorID:       m.CreatorID,
		FulfillmentType: entities.FulfillmentType(m.FulfillmentType),
		Status:          entities.ShipmentStatus(m.Status),
		Carrier:         m.Carrier,
		TrackingNumber:  m.TrackingNumber,
		TrackingURL:     m.TrackingURL,
		ShippedAt:       m.ShippedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type deliverableModel struct {
	DeliverableID       string     `gorm:"column:deliverable_id;primaryKey"`
	MatchID             string     `gorm:"column:match_id;uniqueIndex"`
	OfferID             string     `gorm:"column:offer_id;index"`
	BrandID             string     `gorm:"column:brand_id;index"`
	CreatorID           string     `gorm:"column:creator_id;index"`
	Status              string     `gorm:"column:status"`
	DeadlineDays        int        `gorm:"column:deadline_days"`
	DueAt               *time.Time `gorm:"column:due_at"`
	SubmittedPermalink  string     `gorm:"column:submitted_permalink"`
	SubmittedNotes      string     `gorm:"column:submitted_notes"`
	SubmittedAt         *time.Time `gorm:"column:submitted_at"`
	UsageRightsRequired bool       `gorm:"column:usage_rights_required"`
	UsageRightsGranted  *time.Time `gorm:"column:usage_rights_granted"`
	VerifiedPermalink   string     `gorm:"column:verified_permalink"`
	VerifiedAt          *time.Time `gorm:"column:verified_at"`
	Reviews             []byte     `gorm:"column:reviews;type:jsonb"`
	ReviewCount         int        `gorm:"column:review_count"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (deliverableModel) TableName() string { return "deliverables" }

func deliverableModelFromEntity(deliverable entities.Deliverable) (deliverableModel, error) {
	reviews, err := json.Marshal(deliverable.Reviews)
	if err != nil {
		return deliverableModel{}, err
	}
	return deliverableModel{
		DeliverableID:       strings.TrimSpace(deliverable.DeliverableID),
		MatchID:             strings.TrimSpace(deliverable.MatchID),
		OfferID:             strings.TrimSpace(deliverable.OfferID),
		BrandID:             strings.TrimSpace(deliverable.BrandID),
		CreatorID:           strings.TrimSpace(deliverable.CreatorID),
		Status:              string(deliverable.Status),
		DeadlineDays:        deliverable.DeadlineDays,
		DueAt:               deliverable.DueAt,
		SubmittedPermalink:  deliverable.SubmittedPermalink,
		SubmittedNotes:      deliverable.SubmittedNotes,
		SubmittedAt:         deliverable.SubmittedAt,
		UsageRightsRequired: deliverable.UsageRightsRequired,
		UsageRightsGranted:  deliverable.UsageRightsGranted,
		VerifiedPermalink:   deliverable.VerifiedPermalink,
		VerifiedAt:          deliverable.VerifiedAt,
		Reviews:             reviews,
		ReviewCount:         deliverable.ReviewCount,
		CreatedAt:           deliverable.CreatedAt.UTC(),
		UpdatedAt:           deliverable.UpdatedAt.UTC(),
	}, nil
}

func (m deliverableModel) toEntity() (entities.Deliverable, error) {
	var reviews []entities.Review
	if len(m.Reviews) > 0 {
		if err := json.Unmarshal(m.Reviews, &reviews); err != nil {
			return entities.Deliverable{}, err
		}
	}
	return entities.Deliverable{
		DeliverableID:       m.DeliverableID,
		MatchID:             m.MatchID,
		OfferID:             m.OfferID,
		BrandID:             m.BrandID,
		CreatorID:           m.CreatorID,
		Status:              entities.DeliverableStatus(m.Status),
		DeadlineDays:        m.DeadlineDays,
		DueAt:               m.DueAt,
		SubmittedPermalink:  m.SubmittedPermalink,
		SubmittedNotes:      m.SubmittedNotes,
		SubmittedAt:         m.SubmittedAt,
		UsageRightsRequired: m.UsageRightsRequired,
		UsageRightsGranted:  m.UsageRightsGranted,
		VerifiedPermalink:   m.VerifiedPermalink,
		VerifiedAt:          m.VerifiedAt,
		Reviews:             reviews,
		ReviewCount:         m.ReviewCount,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}, nil
}
