package entities

import (
	"strings"
	"time"
)

type OfferStatus string
type OfferTemplate string

const (
	OfferStatusDraft     OfferStatus = "draft"
	OfferStatusPublished OfferStatus = "published"
	OfferStatusArchived  OfferStatus = "archived"

	OfferTemplateReel          OfferTemplate = "reel"
	OfferTemplateFeed          OfferTemplate = "feed"
	OfferTemplateReelPlusStory OfferTemplate = "reel_plus_story"
	OfferTemplateUGCOnly       OfferTemplate = "ugc_only"
)

type Offer struct {
	OfferID                      string
	BrandID                      string
	Title                        string
	Status                       OfferStatus
	Template                     OfferTemplate
	CountriesAllowed             []string
	MaxClaims                    int
	DeadlineDaysAfterDelivery    int
	AcceptanceFollowersThreshold int
	AboveThresholdAutoAccept     bool
	UsageRightsRequired          bool
	UsageRightsScope             string
	Metadata                     Metadata
	ActiveMatchCount             int
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
	PublishedAt                  *time.Time
	ArchivedAt                   *time.Time
}

func (o Offer) CanEdit() bool {
	return o.Status == OfferStatusDraft
}

func (o Offer) CanDelete() bool {
	return o.Status == OfferStatusDraft
}

// RequiresShipment reports whether the template involves a physical product.
func (o Offer) RequiresShipment() bool {
	return o.Template != OfferTemplateUGCOnly
}

func (o Offer) HasClaimCapacity() bool {
	return o.ActiveMatchCount < o.MaxClaims
}

func IsSupportedTemplate(value OfferTemplate) bool {
	switch value {
	case OfferTemplateReel, OfferTemplateFeed, OfferTemplateReelPlusStory, OfferTemplateUGCOnly:
		return true
	default:
		return false
	}
}

func ValidCountryCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

type StateHistory struct {
	HistoryID    string
	OfferID      string
	FromStatus   OfferStatus
	ToStatus     OfferStatus
	ChangedBy    string
	ChangeReason string
	CreatedAt    time.Time
}
