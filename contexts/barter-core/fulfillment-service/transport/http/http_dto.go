package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ShipmentDTO struct {
	ShipmentID      string `json:"shipment_id"`
	MatchID         string `json:"match_id"`
	FulfillmentType string `json:"fulfillment_type"`
	Status          string `json:"status"`
	Carrier         string `json:"carrier,omitempty"`
	TrackingNumber  string `json:"tracking_number,omitempty"`
	TrackingURL     string `json:"tracking_url,omitempty"`
	ShippedAt       string `json:"shipped_at,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type ReviewDTO struct {
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
	ReviewerID string `json:"reviewer_id"`
	At         string `json:"at"`
}

type DeliverableDTO struct {
	DeliverableID       string      `json:"deliverable_id"`
	MatchID             string      `json:"match_id"`
	Status              string      `json:"status"`
	DueAt               string      `json:"due_at,omitempty"`
	SubmittedPermalink  string      `json:"submitted_permalink,omitempty"`
	SubmittedNotes      string      `json:"submitted_notes,omitempty"`
	SubmittedAt         string      `json:"submitted_at,omitempty"`
	UsageRightsRequired bool        `json:"usage_rights_required"`
	UsageRightsGranted  string      `json:"usage_rights_granted,omitempty"`
	VerifiedPermalink   string      `json:"verified_permalink,omitempty"`
	VerifiedAt          string      `json:"verified_at,omitempty"`
	Reviews             []ReviewDTO `json:"reviews"`
	ReviewCount         int         `json:"review_count"`
}

type MarkShippedRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url"`
}

type ShopifyStatusRequest struct {
	Status string `json:"status"`
}

type SubmitDeliverableRequest struct {
	Permalink        string `json:"permalink"`
	Notes            string `json:"notes"`
	GrantUsageRights bool   `json:"grant_usage_rights"`
}

type ReviewDeliverableRequest struct {
	Reason    string `json:"reason"`
	Permalink string `json:"permalink"`
}

type ShipmentResponse struct {
	Shipment ShipmentDTO `json:"shipment"`
}

type DeliverableResponse struct {
	Deliverable DeliverableDTO `json:"deliverable"`
}

type MatchFulfillmentResponse struct {
	Shipment    *ShipmentDTO    `json:"shipment,omitempty"`
	Deliverable *DeliverableDTO `json:"deliverable,omitempty"`
}
