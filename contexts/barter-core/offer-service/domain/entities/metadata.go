package entities

import "strings"

type FulfillmentType string
type FulfillmentMethod string

const (
	FulfillmentTypeShopify FulfillmentType = "shopify"
	FulfillmentTypeManual  FulfillmentType = "manual"

	FulfillmentMethodShip   FulfillmentMethod = "ship"
	FulfillmentMethodPickup FulfillmentMethod = "pickup"

	// OtherSentinel marks a selection that requires the companion free-text field.
	OtherSentinel = "other"

	MaxProductValue   = 1_000_000.0
	MinLocationRadius = 1.0
	MaxLocationRadius = 8_000.0

	// RegionMulti is the derived region for offers spanning multiple countries.
	RegionMulti = "multi"
)

// Metadata is the validated configuration bag attached to an offer. It is
// stored only after passing through the metadata validator, so persisted
// metadata is always in canonical form (radius in km, no unit ambiguity).
type Metadata struct {
	Category          string
	CategoryOther     string
	Platforms         []string
	PlatformOther     string
	ContentTypes      []string
	ContentTypeOther  string
	Niches            []string
	NicheOther        string
	Hashtags          []string
	Guidelines        string
	FulfillmentType   FulfillmentType
	FulfillmentMethod FulfillmentMethod
	LocationRadiusKm  float64
	CTAUrl            string
	PresetID          string
	ProductValue      float64
	Region            string
	BrandLat          *float64
	BrandLng          *float64
}

func (m Metadata) HasLocationRadius() bool {
	return m.LocationRadiusKm > 0
}

func (m Metadata) HasBrandLocation() bool {
	return m.BrandLat != nil && m.BrandLng != nil
}

func IsSupportedCategory(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "beauty", "fashion", "food_beverage", "fitness", "tech", "home", "travel", OtherSentinel:
		return true
	default:
		return false
	}
}

func IsSupportedPlatform(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "instagram", "tiktok", "youtube", "snapchat", OtherSentinel:
		return true
	default:
		return false
	}
}

func IsSupportedContentType(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "reel", "story", "feed_post", "video", "photo", OtherSentinel:
		return true
	default:
		return false
	}
}

func IsSupportedNiche(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "gaming", "beauty", "fitness", "tech", "comedy", "parenting", "food", OtherSentinel:
		return true
	default:
		return false
	}
}

func IsSupportedFulfillmentType(value FulfillmentType) bool {
	switch value {
	case FulfillmentTypeShopify, FulfillmentTypeManual:
		return true
	default:
		return false
	}
}

func IsSupportedFulfillmentMethod(value FulfillmentMethod) bool {
	switch value {
	case FulfillmentMethodShip, FulfillmentMethodPickup:
		return true
	default:
		return false
	}
}

// platformCountryDenylist keeps platforms out of countries where they are not
// operable. Platform selections must clear the denylist for every allowed
// country on the offer.
var platformCountryDenylist = map[string][]string{
	"tiktok":   {"IN"},
	"snapchat": {"CN"},
	"youtube":  {"CN"},
}

func PlatformAllowedIn(platform string, country string) bool {
	for _, blocked := range platformCountryDenylist[strings.ToLower(strings.TrimSpace(platform))] {
		if strings.EqualFold(blocked, country) {
			return false
		}
	}
	return true
}

// DerivedRegion collapses the allowed-country set into the single region tag
// clients send back: the country code itself for single-country offers, the
// multi marker otherwise.
func DerivedRegion(countries []string) string {
	switch len(countries) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(strings.TrimSpace(countries[0]))
	default:
		return RegionMulti
	}
}
