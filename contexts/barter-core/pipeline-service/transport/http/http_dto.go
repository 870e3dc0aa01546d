package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BoardCardDTO struct {
	MatchID           string `json:"match_id"`
	CreatorID         string `json:"creator_id"`
	CampaignCode      string `json:"campaign_code"`
	MatchStatus       string `json:"match_status"`
	ShipmentStatus    string `json:"shipment_status,omitempty"`
	DeliverableStatus string `json:"deliverable_status,omitempty"`
	ReviewCount       int    `json:"review_count,omitempty"`
	Stage             string `json:"stage"`
}

type BoardResponse struct {
	OfferID string                    `json:"offer_id"`
	Columns map[string][]BoardCardDTO `json:"columns"`
}

type MoveCardRequest struct {
	TargetStage string `json:"target_stage"`
}

type MoveCardResponse struct {
	Stage string `json:"stage"`
}
