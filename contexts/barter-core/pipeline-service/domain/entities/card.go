package entities

import "time"

// Stage is the display-only pipeline label of a match. It is derived on
// every read and never persisted.
type Stage string

const (
	StageApplied        Stage = "applied"
	StageApproved       Stage = "approved"
	StageShipped        Stage = "shipped"
	StagePosted         Stage = "posted"
	StageRepostRequired Stage = "repost_required"
	StageComplete       Stage = "complete"
)

var validStages = map[Stage]bool{
	StageApplied:        true,
	StageApproved:       true,
	StageShipped:        true,
	StagePosted:         true,
	StageRepostRequired: true,
	StageComplete:       true,
}

func ValidStage(stage Stage) bool {
	return validStages[stage]
}

// CardMatch is the slice of match state the board needs.
type CardMatch struct {
	MatchID      string
	OfferID      string
	CreatorID    string
	Status       string
	CampaignCode string
	CreatedAt    time.Time
}

// CardShipment is the slice of shipment state the board needs. Dispatched
// already folds in the per-fulfillment-type shipped semantics.
type CardShipment struct {
	ShipmentID string
	Status     string
	Dispatched bool
}

// CardDeliverable is the slice of deliverable state the board needs.
type CardDeliverable struct {
	DeliverableID string
	Status        string
	SubmittedAt   *time.Time
	ReviewCount   int
}
