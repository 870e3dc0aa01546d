package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gifted/contexts/barter-core/match-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/match-service/domain/errors"
	"gifted/contexts/barter-core/match-service/ports"

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

func (r *Repository) CreateMatch(ctx context.Context, match entities.Match) error {
	row := matchModelFromEntity(match)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidMatchInput
		}
		return err
	}
	return nil
}

func (r *Repository) GetMatch(ctx context.Context, matchID string) (entities.Match, error) {
	var row matchModel
	err := r.db.WithContext(ctx).
		Where("match_id = ?", strings.TrimSpace(matchID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Match{}, domainerrors.ErrMatchNotFound
		}
		return entities.Match{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListMatches(ctx context.Context, filter ports.MatchFilter) ([]entities.Match, error) {
	tx := r.db.WithContext(ctx).Model(&matchModel{})
	if strings.TrimSpace(filter.OfferID) != "" {
		tx = tx.Where("offer_id = ?", strings.TrimSpace(filter.OfferID))
	}
	if strings.TrimSpace(filter.CreatorID) != "" {
		tx = tx.Where("creator_id = ?", strings.TrimSpace(filter.CreatorID))
	}

	var rows []matchModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Match, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ChangeMatchStatus(
	ctx context.Context,
	matchID string,
	from, to entities.MatchStatus,
	reason string,
	at time.Time,
) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at.UTC(),
	}
	if to == entities.MatchStatusRevoked {
		updates["rejection_reason"] = strings.TrimSpace(reason)
	}
	if to == entities.MatchStatusAccepted {
		updates["accepted_at"] = at.UTC()
	}

	result := r.db.WithContext(ctx).
		Model(&matchModel{}).
		Where("match_id = ? AND status = ?", strings.TrimSpace(matchID), string(from)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&matchModel{}).
			Where("match_id = ?", strings.TrimSpace(matchID)).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrMatchNotFound
		}
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, creatorID string) (entities.CreatorProfile, error) {
	var row creatorProfileModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.CreatorProfile{}, domainerrors.ErrCreatorNotFound
		}
		return entities.CreatorProfile{}, err
	}

	var socials []socialConnectionModel
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		Find(&socials).
		Error; err != nil {
		return entities.CreatorProfile{}, err
	}
	return row.toEntity(socials), nil
}

func (r *Repository) AddStrike(ctx context.Context, creatorID string, reason string, at time.Time) error {
	row := strikeModel{
		CreatorID: strings.TrimSpace(creatorID),
		Reason:    strings.TrimSpace(reason),
		CreatedAt: at.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) StrikeCount(ctx context.Context, creatorID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&strikeModel{}).
		Where("creator_id = ?", strings.TrimSpace(creatorID)).
		Count(&count).
		Error
	return int(count), err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

type matchModel struct {
	MatchID         string     `gorm:"column:match_id;primaryKey"`
	OfferID         string     `gorm:"column:offer_id;index"`
	CreatorID       string     `gorm:"column:creator_id;index"`
	Status          string     `gorm:"column:status"`
	CampaignCode    string     `gorm:"column:campaign_code;uniqueIndex"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	AcceptedAt      *time.Time `gorm:"column:accepted_at"`
}

func (matchModel) TableName() string { return "matches" }

func matchModelFromEntity(match entities.Match) matchModel {
	return matchModel{
		MatchID:         strings.TrimSpace(match.MatchID),
		OfferID:         strings.TrimSpace(match.OfferID),
		CreatorID:       strings.TrimSpace(match.CreatorID),
		Status:          string(match.Status),
		CampaignCode:    strings.TrimSpace(match.CampaignCode),
		RejectionReason: strings.TrimSpace(match.RejectionReason),
		CreatedAt:       match.CreatedAt.UTC(),
		UpdatedAt:       match.UpdatedAt.UTC(),
		AcceptedAt:      match.AcceptedAt,
	}
}

func (m matchModel) toEntity() entities.Match {
	return entities.Match{
		MatchID:         m.MatchID,
		OfferID:         m.OfferID,
		CreatorID:       m.CreatorID,
		Status:          entities.MatchStatus(m.Status),
		CampaignCode:    m.CampaignCode,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		AcceptedAt:      m.AcceptedAt,
	}
}

type creatorProfileModel struct {
	CreatorID         string   `gorm:"column:creator_id;primaryKey"`
	FollowersCount    int      `gorm:"column:followers_count"`
	ShippingName      string   `gorm:"column:shipping_name"`
	AddressLine1      string   `gorm:"column:address_line1"`
	City              string   `gorm:"column:city"`
	PostalCode        string   `gorm:"column:postal_code"`
	Country           string   `gorm:"column:country"`
	DigitalOnlyOptOut bool     `gorm:"column:digital_only_opt_out"`
	Lat               *float64 `gorm:"column:lat"`
	Lng               *float64 `gorm:"column:lng"`
}

func (creatorProfileModel) TableName() string { return "creator_profiles" }

func (m creatorProfileModel) toEntity(socials []socialConnectionModel) entities.CreatorProfile {
	connections := make([]entities.SocialConnection, 0, len(socials))
	for _, social := range socials {
		connections = append(connections, entities.SocialConnection{
			Provider:  social.Provider,
			Connected: social.Connected,
			Expired:   social.Expired,
		})
	}
	return entities.CreatorProfile{
		CreatorID:         m.CreatorID,
		FollowersCount:    m.FollowersCount,
		ShippingName:      m.ShippingName,
		AddressLine1:      m.AddressLine1,
		City:              m.City,
		PostalCode:        m.PostalCode,
		Country:           m.Country,
		DigitalOnlyOptOut: m.DigitalOnlyOptOut,
		Lat:               m.Lat,
		Lng:               m.Lng,
		Socials:           connections,
	}
}

type socialConnectionModel struct {
	CreatorID string `gorm:"column:creator_id;primaryKey"`
	Provider  string `gorm:"column:provider;primaryKey"`
	Connected bool   `gorm:"column:connected"`
	Expired   bool   `gorm:"column:expired"`
}

func (socialConnectionModel) TableName() string { return "creator_social_connections" }

type strikeModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CreatorID string    `gorm:"column:creator_id;index"`
	Reason    string    `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (strikeModel) TableName() string { return "creator_strikes" }
