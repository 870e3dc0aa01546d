package http

import "encoding/json"

type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Issues  []Issue `json:"issues,omitempty"`
}

type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MetadataPayload struct {
	Category          string   `json:"category"`
	CategoryOther     string   `json:"category_other"`
	Platforms         []string `json:"platforms"`
	PlatformOther     string   `json:"platform_other"`
	ContentTypes      []string `json:"content_types"`
	ContentTypeOther  string   `json:"content_type_other"`
	Niches            []string `json:"niches"`
	NicheOther        string   `json:"niche_other"`
	Hashtags          []string `json:"hashtags"`
	Guidelines        string   `json:"guidelines"`
	FulfillmentType   string   `json:"fulfillment_type"`
	FulfillmentMethod string   `json:"fulfillment_method"`
	LocationRadiusKm  *float64 `json:"location_radius_km"`
	LocationRadiusMi  *float64 `json:"location_radius_miles"`
	CTAUrl            string   `json:"cta_url"`
	PresetID          string   `json:"preset_id"`
	ProductValue      *float64 `json:"product_value"`
	Region            string   `json:"region"`
	BrandLat          *float64 `json:"brand_lat"`
	BrandLng          *float64 `json:"brand_lng"`
}

type CreateOfferRequest struct {
	Title                        string          `json:"title"`
	Template                     string          `json:"template"`
	CountriesAllowed             []string        `json:"countries_allowed"`
	MaxClaims                    int             `json:"max_claims"`
	DeadlineDaysAfterDelivery    int             `json:"deadline_days_after_delivery"`
	AcceptanceFollowersThreshold int             `json:"acceptance_followers_threshold"`
	AboveThresholdAutoAccept     bool            `json:"above_threshold_auto_accept"`
	UsageRightsRequired          bool            `json:"usage_rights_required"`
	UsageRightsScope             string          `json:"usage_rights_scope"`
	Metadata                     MetadataPayload `json:"metadata"`
	Status                       string          `json:"status"`
}

type UpdateOfferRequest struct {
	Title                        *string          `json:"title"`
	Template                     *string          `json:"template"`
	CountriesAllowed             *[]string        `json:"countries_allowed"`
	MaxClaims                    *int             `json:"max_claims"`
	DeadlineDaysAfterDelivery    *int             `json:"deadline_days_after_delivery"`
	AcceptanceFollowersThreshold *int             `json:"acceptance_followers_threshold"`
	AboveThresholdAutoAccept     *bool            `json:"above_threshold_auto_accept"`
	UsageRightsRequired          *bool            `json:"usage_rights_required"`
	UsageRightsScope             *string          `json:"usage_rights_scope"`
	Metadata                     *MetadataPayload `json:"metadata"`
	Status                       *string          `json:"status"`
	Reason                       string           `json:"reason"`
}

type SaveDraftRequest struct {
	Step    int             `json:"step"`
	Payload json.RawMessage `json:"payload"`
	Version int             `json:"version"`
}

type DraftDTO struct {
	OfferID   string          `json:"offer_id"`
	Step      int             `json:"step"`
	Payload   json.RawMessage `json:"payload"`
	Version   int             `json:"version"`
	UpdatedAt string          `json:"updated_at"`
}

type MetadataDTO struct {
	Category          string   `json:"category"`
	CategoryOther     string   `json:"category_other,omitempty"`
	Platforms         []string `json:"platforms"`
	PlatformOther     string   `json:"platform_other,omitempty"`
	ContentTypes      []string `json:"content_types"`
	ContentTypeOther  string   `json:"content_type_other,omitempty"`
	Niches            []string `json:"niches"`
	NicheOther        string   `json:"niche_other,omitempty"`
	Hashtags          []string `json:"hashtags"`
	Guidelines        string   `json:"guidelines,omitempty"`
	FulfillmentType   string   `json:"fulfillment_type"`
	FulfillmentMethod string   `json:"fulfillment_method,omitempty"`
	LocationRadiusKm  float64  `json:"location_radius_km,omitempty"`
	CTAUrl            string   `json:"cta_url,omitempty"`
	PresetID          string   `json:"preset_id,omitempty"`
	ProductValue      float64  `json:"product_value,omitempty"`
	Region            string   `json:"region,omitempty"`
	BrandLat          *float64 `json:"brand_lat,omitempty"`
	BrandLng          *float64 `json:"brand_lng,omitempty"`
}

type OfferDTO struct {
	OfferID                      string      `json:"offer_id"`
	BrandID                      string      `json:"brand_id"`
	Title                        string      `json:"title"`
	Status                       string      `json:"status"`
	Template                     string      `json:"template"`
	CountriesAllowed             []string    `json:"countries_allowed"`
	MaxClaims                    int         `json:"max_claims"`
	DeadlineDaysAfterDelivery    int         `json:"deadline_days_after_delivery"`
	AcceptanceFollowersThreshold int         `json:"acceptance_followers_threshold"`
	AboveThresholdAutoAccept     bool        `json:"above_threshold_auto_accept"`
	UsageRightsRequired          bool        `json:"usage_rights_required"`
	UsageRightsScope             string      `json:"usage_rights_scope,omitempty"`
	Metadata                     MetadataDTO `json:"metadata"`
	ActiveMatchCount             int         `json:"active_match_count"`
	CreatedAt                    string      `json:"created_at"`
	UpdatedAt                    string      `json:"updated_at"`
	PublishedAt                  string      `json:"published_at,omitempty"`
	ArchivedAt                   string      `json:"archived_at,omitempty"`
}

type CreateOfferResponse struct {
	Offer    OfferDTO `json:"offer"`
	Replayed bool     `json:"replayed"`
}

type GetOfferResponse struct {
	Offer OfferDTO `json:"offer"`
}

type ListOffersResponse struct {
	Items []OfferDTO `json:"items"`
}

type DuplicateOfferResponse struct {
	Offer OfferDTO `json:"offer"`
}

type SaveDraftResponse struct {
	Draft DraftDTO `json:"draft"`
}

type GetDraftResponse struct {
	Draft DraftDTO `json:"draft"`
}
