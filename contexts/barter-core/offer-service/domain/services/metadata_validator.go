package services

import (
	"fmt"
	"strings"

	"gifted/contexts/barter-core/offer-service/domain/entities"
	domainerrors "gifted/contexts/barter-core/offer-service/domain/errors"
)

type ValidationMode string

const (
	// ModeDraft tolerates missing required fields so partial wizard state can
	// be stored for later completion. Malformed values are still rejected.
	ModeDraft ValidationMode = "draft"
	// ModePublish enforces every rule and blocks the draft→published transition.
	ModePublish ValidationMode = "publish"
)

const milesToKm = 1.609344

// MetadataInput is raw, pre-normalization metadata as submitted by clients.
// Radius may arrive in either unit; the validator normalizes to km and
// rejects submissions carrying both keys.
type MetadataInput struct {
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
	FulfillmentType   string
	FulfillmentMethod string
	LocationRadiusKm  *float64
	LocationRadiusMi  *float64
	CTAUrl            string
	PresetID          string
	ProductValue      *float64
	Region            string
	BrandLat          *float64
	BrandLng          *float64
}

// ValidateMetadata applies every rule and returns the full issue list; it
// never stops at the first violation and never partially applies
// normalization. On success the returned metadata is canonical.
func ValidateMetadata(input MetadataInput, countries []string, mode ValidationMode) (entities.Metadata, []domainerrors.Issue) {
	var issues []domainerrors.Issue
	add := func(field, code, message string) {
		issues = append(issues, domainerrors.Issue{Field: field, Code: code, Message: message})
	}

	meta := entities.Metadata{
		Category:          strings.ToLower(strings.TrimSpace(input.Category)),
		CategoryOther:     strings.TrimSpace(input.CategoryOther),
		PlatformOther:     strings.TrimSpace(input.PlatformOther),
		ContentTypeOther:  strings.TrimSpace(input.ContentTypeOther),
		NicheOther:        strings.TrimSpace(input.NicheOther),
		Hashtags:          normalizeList(input.Hashtags),
		Guidelines:        strings.TrimSpace(input.Guidelines),
		FulfillmentType:   entities.FulfillmentType(strings.ToLower(strings.TrimSpace(input.FulfillmentType))),
		FulfillmentMethod: entities.FulfillmentMethod(strings.ToLower(strings.TrimSpace(input.FulfillmentMethod))),
		CTAUrl:            strings.TrimSpace(input.CTAUrl),
		PresetID:          strings.TrimSpace(input.PresetID),
		Region:            strings.TrimSpace(input.Region),
		BrandLat:          input.BrandLat,
		BrandLng:          input.BrandLng,
	}
	meta.Platforms = normalizeList(input.Platforms)
	meta.ContentTypes = normalizeList(input.ContentTypes)
	meta.Niches = normalizeList(input.Niches)

	// Category plus its companion.
	if meta.Category == "" {
		if mode == ModePublish {
			add("category", "required", "category is required")
		}
	} else if !entities.IsSupportedCategory(meta.Category) {
		add("category", "unsupported", fmt.Sprintf("category %q is not supported", meta.Category))
	}
	checkOtherCompanion(&issues, "categoryOther", meta.Category == entities.OtherSentinel, meta.CategoryOther)

	// Platforms plus companion, plus the per-country allow-list.
	if len(meta.Platforms) == 0 {
		if mode == ModePublish {
			add("platforms", "required", "at least one platform is required")
		}
	}
	for _, platform := range meta.Platforms {
		if !entities.IsSupportedPlatform(platform) {
			add("platforms", "unsupported", fmt.Sprintf("platform %q is not supported", platform))
			continue
		}
		for _, country := range countries {
			if !entities.PlatformAllowedIn(platform, country) {
				add("platforms", "not_allowed_in_country",
					fmt.Sprintf("platform %q is not available in %s", platform, strings.ToUpper(country)))
			}
		}
	}
	checkOtherCompanion(&issues, "platformOther", contains(meta.Platforms, entities.OtherSentinel), meta.PlatformOther)

	// Content types and niches follow the same OTHER rule.
	for _, ct := range meta.ContentTypes {
		if !entities.IsSupportedContentType(ct) {
			add("contentTypes", "unsupported", fmt.Sprintf("content type %q is not supported", ct))
		}
	}
	checkOtherCompanion(&issues, "contentTypeOther", contains(meta.ContentTypes, entities.OtherSentinel), meta.ContentTypeOther)

	for _, niche := range meta.Niches {
		if !entities.IsSupportedNiche(niche) {
			add("niches", "unsupported", fmt.Sprintf("niche %q is not supported", niche))
		}
	}
	checkOtherCompanion(&issues, "nicheOther", contains(meta.Niches, entities.OtherSentinel), meta.NicheOther)

	// Fulfillment.
	if meta.FulfillmentType == "" {
		if mode == ModePublish {
			add("fulfillmentType", "required", "fulfillment type is required")
		}
	} else if !entities.IsSupportedFulfillmentType(meta.FulfillmentType) {
		add("fulfillmentType", "unsupported", fmt.Sprintf("fulfillment type %q is not supported", meta.FulfillmentType))
	}
	if meta.FulfillmentMethod != "" && !entities.IsSupportedFulfillmentMethod(meta.FulfillmentMethod) {
		add("fulfillmentMethod", "unsupported", fmt.Sprintf("fulfillment method %q is not supported", meta.FulfillmentMethod))
	}

	// Radius arrives in exactly one unit and is stored in km.
	switch {
	case input.LocationRadiusKm != nil && input.LocationRadiusMi != nil:
		add("locationRadiusMiles", "ambiguous_unit", "radius must be supplied in km or miles, not both")
	case input.LocationRadiusKm != nil:
		meta.LocationRadiusKm = *input.LocationRadiusKm
	case input.LocationRadiusMi != nil:
		meta.LocationRadiusKm = *input.LocationRadiusMi * milesToKm
	}
	if meta.LocationRadiusKm != 0 &&
		(meta.LocationRadiusKm < entities.MinLocationRadius || meta.LocationRadiusKm > entities.MaxLocationRadius) {
		add("locationRadiusKm", "out_of_range",
			fmt.Sprintf("radius must be between %.0f and %.0f km", entities.MinLocationRadius, entities.MaxLocationRadius))
	}

	if input.ProductValue != nil {
		meta.ProductValue = *input.ProductValue
		if meta.ProductValue < 0 || meta.ProductValue > entities.MaxProductValue {
			add("productValue", "out_of_range",
				fmt.Sprintf("product value must be between 0 and %.0f", entities.MaxProductValue))
		}
	}

	// Region is accepted only when it agrees with the derived region; a
	// mismatch is rejected, not silently corrected.
	if meta.Region != "" {
		// With no countries yet (draft autosave) there is nothing to derive
		// from, so the supplied value is kept as-is until publish.
		if derived := entities.DerivedRegion(countries); derived != "" {
			if strings.EqualFold(meta.Region, derived) {
				meta.Region = derived
			} else {
				add("region", "mismatch",
					fmt.Sprintf("region %q does not match countries (derived %q)", meta.Region, derived))
			}
		}
	}

	if len(issues) > 0 {
		return entities.Metadata{}, issues
	}
	return meta, nil
}

// ValidatePublish layers the offer-level publish invariants on top of
// publish-mode metadata rules. The offer's metadata must already be canonical.
func ValidatePublish(offer entities.Offer) []domainerrors.Issue {
	var issues []domainerrors.Issue
	add := func(field, code, message string) {
		issues = append(issues, domainerrors.Issue{Field: field, Code: code, Message: message})
	}

	if len(strings.TrimSpace(offer.Title)) < 3 {
		add("title", "too_short", "title must be at least 3 characters")
	}
	if len(offer.CountriesAllowed) == 0 {
		add("countriesAllowed", "required", "at least one allowed country is required")
	}
	for _, country := range offer.CountriesAllowed {
		if !entities.ValidCountryCode(country) {
			add("countriesAllowed", "invalid_code", fmt.Sprintf("%q is not an ISO country code", country))
		}
	}
	if !entities.IsSupportedTemplate(offer.Template) {
		add("template", "unsupported", fmt.Sprintf("template %q is not supported", offer.Template))
	}
	if offer.MaxClaims < 1 {
		add("maxClaims", "out_of_range", "maxClaims must be at least 1")
	}
	if offer.DeadlineDaysAfterDelivery < 1 {
		add("deadlineDaysAfterDelivery", "out_of_range", "deadline days must be at least 1")
	}
	if offer.AcceptanceFollowersThreshold < 0 {
		add("acceptanceFollowersThreshold", "out_of_range", "followers threshold cannot be negative")
	}
	if offer.UsageRightsRequired && strings.TrimSpace(offer.UsageRightsScope) == "" {
		add("usageRightsScope", "required", "usage rights scope is required when usage rights are required")
	}
	if !offer.UsageRightsRequired && strings.TrimSpace(offer.UsageRightsScope) != "" {
		add("usageRightsScope", "forbidden", "usage rights scope is only allowed when usage rights are required")
	}
	if needsBrandLocation(offer.Metadata) && !offer.Metadata.HasBrandLocation() {
		add("brandLocation", "required", "brand location is required for radius or pickup offers")
	}

	return issues
}

func needsBrandLocation(meta entities.Metadata) bool {
	return meta.HasLocationRadius() || meta.FulfillmentMethod == entities.FulfillmentMethodPickup
}

// checkOtherCompanion enforces the mutual exclusive-required rule: the
// companion free-text field is required when OTHER is selected and forbidden
// otherwise.
func checkOtherCompanion(issues *[]domainerrors.Issue, field string, otherSelected bool, companion string) {
	if otherSelected && companion == "" {
		*issues = append(*issues, domainerrors.Issue{
			Field: field, Code: "required",
			Message: fmt.Sprintf("%s is required when %q is selected", field, entities.OtherSentinel),
		})
	}
	if !otherSelected && companion != "" {
		*issues = append(*issues, domainerrors.Issue{
			Field: field, Code: "forbidden",
			Message: fmt.Sprintf("%s is only allowed when %q is selected", field, entities.OtherSentinel),
		})
	}
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
