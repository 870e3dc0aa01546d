package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/contexts/barter-core/offer-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

func (r *Repository) CreateOffer(ctx context.Context, offer entities.Offer) error {
	row, err := offerModelFromEntity(offer)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidOfferInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateOffer(ctx context.Context, offer entities.Offer) error {
	metadata, err := json.Marshal(offer.Metadata)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ?", strings.TrimSpace(offer.OfferID)).
		Updates(map[string]any{
			"title":                          strings.TrimSpace(offer.Title),
			"template":                       string(offer.Template),
			"countries_allowed":              strings.Join(offer.CountriesAllowed, ","),
			"max_claims":                     offer.MaxClaims,
			"deadline_days_after_delivery":   offer.DeadlineDaysAfterDelivery,
			"acceptance_followers_threshold": offer.AcceptanceFollowersThreshold,
			"above_threshold_auto_accept":    offer.AboveThresholdAutoAccept,
			"usage_rights_required":          offer.UsageRightsRequired,
			"usage_rights_scope":             strings.TrimSpace(offer.UsageRightsScope),
			"metadata":                       metadata,
			"updated_at":                     offer.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOfferNotFound
	}
	return nil
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListOffers(ctx context.Context, filter ports.OfferFilter) ([]entities.Offer, error) {
	tx := r.db.WithContext(ctx).Model(&offerModel{})
	if strings.TrimSpace(filter.BrandID) != "" {
		tx = tx.Where("brand_id = ?", strings.TrimSpace(filter.BrandID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []offerModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Offer, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) ChangeOfferStatus(ctx context.Context, offerID string, from, to entities.OfferStatus, at time.Time) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at.UTC(),
	}
	switch to {
	case entities.OfferStatusPublished:
		updates["published_at"] = at.UTC()
	case entities.OfferStatusArchived:
		updates["archived_at"] = at.UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ? AND status = ?", strings.TrimSpace(offerID), string(from)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing offer from a lost transition race.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&offerModel{}).
			Where("offer_id = ?", strings.TrimSpace(offerID)).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrOfferNotFound
		}
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) DeleteOffer(ctx context.Context, offerID string) error {
	result := r.db.WithContext(ctx).
		Where("offer_id = ? AND status = ?", strings.TrimSpace(offerID), string(entities.OfferStatusDraft)).
		Delete(&offerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrInvalidStateTransition
	}
	return nil
}

func (r *Repository) ReserveClaimSlot(ctx context.Context, offerID string) error {
	// Conditional increment keeps the cap enforcement atomic: concurrent
	// claims past max_claims all see RowsAffected == 0.
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ? AND status = ? AND active_match_count < max_claims",
			strings.TrimSpace(offerID), string(entities.OfferStatusPublished)).
		Update("active_match_count", gorm.Expr("active_match_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var row offerModel
		err := r.db.WithContext(ctx).
			Where("offer_id = ?", strings.TrimSpace(offerID)).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrOfferNotFound
			}
			return err
		}
		if row.Status != string(entities.OfferStatusPublished) {
			return domainerrors.ErrOfferNotActive
		}
		return domainerrors.ErrOfferFull
	}
	return nil
}

func (r *Repository) ReleaseClaimSlot(ctx context.Context, offerID string) error {
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ? AND active_match_count > 0", strings.TrimSpace(offerID)).
		Update("active_match_count", gorm.Expr("active_match_count - 1"))
	return result.Error
}

func (r *Repository) GetDraft(ctx context.Context, offerID string) (entities.Draft, error) {
	var row draftModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Draft{}, domainerrors.ErrDraftNotFound
		}
		return entities.Draft{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveDraft(ctx context.Context, draft entities.Draft, expectedVersion int) (entities.Draft, error) {
	draft.Version = expectedVersion + 1
	if expectedVersion == 0 {
		row := draftModelFromEntity(draft)
		createResult := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "offer_id"}},
				DoNothing: true,
			}).
			Create(&row)
		if createResult.Error != nil {
			return entities.Draft{}, createResult.Error
		}
		if createResult.RowsAffected == 0 {
			return entities.Draft{}, domainerrors.ErrDraftVersionConflict
		}
		return draft, nil
	}

	result := r.db.WithContext(ctx).
		Model(&draftModel{}).
		Where("offer_id = ? AND version = ?", draft.OfferID, expectedVersion).
		Updates(map[string]any{
			"step":       draft.Step,
			"payload":    draft.Payload,
			"version":    draft.Version,
			"updated_at": draft.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return entities.Draft{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Draft{}, domainerrors.ErrDraftVersionConflict
	}
	return draft, nil
}

func (r *Repository) DeleteDraft(ctx context.Context, offerID string) error {
	return r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		Delete(&draftModel{}).
		Error
}

func (r *Repository) AppendState(ctx context.Context, item entities.StateHistory) error {
	row := stateHistoryModel{
		HistoryID:    strings.TrimSpace(item.HistoryID),
		OfferID:      strings.TrimSpace(item.OfferID),
		FromStatus:   string(item.FromStatus),
		ToStatus:     string(item.ToStatus),
		ChangedBy:    strings.TrimSpace(item.ChangedBy),
		ChangeReason: strings.TrimSpace(item.ChangeReason),
		CreatedAt:    item.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidOfferInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		OfferID:     row.OfferID,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		OfferID:     record.OfferID,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || existing.OfferID != row.OfferID {
		return domainerrors.ErrIdempotencyKeyConflict
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

type offerModel struct {
	OfferID                      string     `gorm:"column:offer_id;primaryKey"`
	BrandID                      string     `gorm:"column:brand_id"`
	Title                        string     `gorm:"column:title"`
	Status                       string     `gorm:"column:status"`
	Template                     string     `gorm:"column:template"`
	CountriesAllowed             string     `gorm:"column:countries_allowed"`
	MaxClaims                    int        `gorm:"column:max_claims"`
	DeadlineDaysAfterDelivery    int        `gorm:"column:deadline_days_after_delivery"`
	AcceptanceFollowersThreshold int        `gorm:"column:acceptance_followers_threshold"`
	AboveThresholdAutoAccept     bool       `gorm:"column:above_threshold_auto_accept"`
	UsageRightsRequired          bool       `gorm:"column:usage_rights_required"`
	UsageRightsScope             string     `gorm:"column:usage_rights_scope"`
	Metadata                     []byte     `gorm:"column:metadata;type:jsonb"`
	ActiveMatchCount             int        `gorm:"column:active_match_count"`
	CreatedAt                    time.Time  `gorm:"column:created_at"`
	UpdatedAt                    time.Time  `gorm:"column:updated_at"`
	PublishedAt                  *time.Time `gorm:"column:published_at"`
	ArchivedAt                   *time.Time `gorm:"column:archived_at"`
}

func (offerModel) TableName() string { return "offers" }

func offerModelFromEntity(offer entities.Offer) (offerModel, error) {
	metadata, err := json.Marshal(offer.Metadata)
	if err != nil {
		return offerModel{}, err
	}
	return offerModel{
		OfferID:                      strings.TrimSpace(offer.OfferID),
		BrandID:                      strings.TrimSpace(offer.BrandID),
		Title:                        strings.TrimSpace(offer.Title),
		Status:                       string(offer.Status),
		Template:                     string(offer.Template),
		CountriesAllowed:             strings.Join(offer.CountriesAllowed, ","),
		MaxClaims:                    offer.MaxClaims,
		DeadlineDaysAfterDelivery:    offer.DeadlineDaysAfterDelivery,
		AcceptanceFollowersThreshold: offer.AcceptanceFollowersThreshold,
		AboveThresholdAutoAccept:     offer.AboveThresholdAutoAccept,
		UsageRightsRequired:          offer.UsageRightsRequired,
		UsageRightsScope:             strings.TrimSpace(offer.UsageRightsScope),
		Metadata:                     metadata,
		ActiveMatchCount:             offer.ActiveMatchCount,
		CreatedAt:                    offer.CreatedAt.UTC(),
		UpdatedAt:                    offer.UpdatedAt.UTC(),
		PublishedAt:                  offer.PublishedAt,
		ArchivedAt:                   offer.ArchivedAt,
	}, nil
}

func (m offerModel) toEntity() (entities.Offer, error) {
	var metadata entities.Metadata
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return entities.Offer{}, err
		}
	}
	var countries []string
	if m.CountriesAllowed != "" {
		countries = strings.Split(m.CountriesAllowed, ",")
	}
	return entities.Offer{
		OfferID:                      m.OfferID,
		BrandID:                      m.BrandID,
		Title:                        m.Title,
		Status:                       entities.OfferStatus(m.Status),
		Template:                     entities.OfferTemplate(m.Template),
		CountriesAllowed:             countries,
		MaxClaims:                    m.MaxClaims,
		DeadlineDaysAfterDelivery:    m.DeadlineDaysAfterDelivery,
		AcceptanceFollowersThreshold: m.AcceptanceFollowersThreshold,
		AboveThresholdAutoAccept:     m.AboveThresholdAutoAccept,
		UsageRightsRequired:          m.UsageRightsRequired,
		UsageRightsScope:             m.UsageRightsScope,
		Metadata:                     metadata,
		ActiveMatchCount:             m.ActiveMatchCount,
		CreatedAt:                    m.CreatedAt,
		UpdatedAt:                    m.UpdatedAt,
		PublishedAt:                  m.PublishedAt,
		ArchivedAt:                   m.ArchivedAt,
	}, nil
}

type draftModel struct {
	OfferID   string    `gorm:"column:offer_id;primaryKey"`
	BrandID   string    `gorm:"column:brand_id"`
	Step      int       `gorm:"column:step"`
	Payload   []byte    `gorm:"column:payload;type:jsonb"`
	Version   int       `gorm:"column:version"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (draftModel) TableName() string { return "offer_drafts" }

func draftModelFromEntity(draft entities.Draft) draftModel {
	return draftModel{
		OfferID:   strings.TrimSpace(draft.OfferID),
		BrandID:   strings.TrimSpace(draft.BrandID),
		Step:      draft.Step,
		Payload:   append([]byte(nil), draft.Payload...),
		Version:   draft.Version,
		UpdatedAt: draft.UpdatedAt.UTC(),
	}
}

func (m draftModel) toEntity() entities.Draft {
	return entities.Draft{
		OfferID:   m.OfferID,
		BrandID:   m.BrandID,
		Step:      m.Step,
		Payload:   append([]byte(nil), m.Payload...),
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}
}

type stateHistoryModel struct {
	HistoryID    string    `gorm:"column:history_id;primaryKey"`
	OfferID      string    `gorm:"column:offer_id"`
	FromStatus   string    `gorm:"column:from_status"`
	ToStatus     string    `gorm:"column:to_status"`
	ChangedBy    string    `gorm:"column:changed_by"`
	ChangeReason string    `gorm:"column:change_reason"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (stateHistoryModel) TableName() string { return "offer_state_history" }

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	OfferID     string    `gorm:"column:offer_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string { return "offer_idempotency" }
