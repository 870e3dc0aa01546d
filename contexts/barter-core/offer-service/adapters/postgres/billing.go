package postgresadapter

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// SubscriptionGate answers the publish-time billing check from the
// subscription records the billing system writes.
type SubscriptionGate struct {
	db *gorm.DB
}

func NewSubscriptionGate(db *gorm.DB) *SubscriptionGate {
	return &SubscriptionGate{db: db}
}

func (g *SubscriptionGate) SubscriptionActive(ctx context.Context, brandID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Table("brand_subscriptions").
		Where("brand_id = ? AND status = ?", strings.TrimSpace(brandID), "active").
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
