package postgresadapter

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// NewCampaignCode derives a short human-readable code from a fresh UUID.
// Codes are unique-indexed in storage; a collision surfaces as a create error.
func (UUIDGenerator) NewCampaignCode(_ context.Context) (string, error) {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "GFT-" + raw[:10], nil
}
