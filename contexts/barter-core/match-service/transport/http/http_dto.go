package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

type MatchDTO struct {
	MatchID         string `json:"match_id"`
	OfferID         string `json:"offer_id"`
	CreatorID       string `json:"creator_id"`
	Status          string `json:"status"`
	CampaignCode    string `json:"campaign_code"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
	AcceptedAt      string `json:"accepted_at,omitempty"`
}

type ClaimOfferResponse struct {
	Match MatchDTO `json:"match"`
}

type RejectMatchRequest struct {
	Reason string `json:"reason"`
}

type GetMatchResponse struct {
	Match MatchDTO `json:"match"`
}

type ListMatchesResponse struct {
	Matches []MatchDTO `json:"matches"`
}

// FeedOfferDTO is the creator-facing projection of a published offer.
type FeedOfferDTO struct {
	OfferID                   string   `json:"offer_id"`
	BrandID                   string   `json:"brand_id"`
	Template                  string   `json:"template"`
	MaxClaims                 int      `json:"max_claims"`
	ActiveMatchCount          int      `json:"active_match_count"`
	DeadlineDaysAfterDelivery int      `json:"deadline_days_after_delivery"`
	FulfillmentType           string   `json:"fulfillment_type"`
	UsageRightsRequired       bool     `json:"usage_rights_required"`
	Platforms                 []string `json:"platforms"`
}

type FeedItemDTO struct {
	Offer        FeedOfferDTO `json:"offer"`
	Eligible     bool         `json:"eligible"`
	DenialReason string       `json:"denial_reason,omitempty"`
}

type FeedResponse struct {
	Items []FeedItemDTO `json:"items"`
}
