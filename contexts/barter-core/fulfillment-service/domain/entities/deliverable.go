package entities

import "time"

type DeliverableStatus string

const (
	DeliverableStatusDue            DeliverableStatus = "due"
	DeliverableStatusVerified       DeliverableStatus = "verified"
	DeliverableStatusFailed         DeliverableStatus = "failed"
	DeliverableStatusRepostRequired DeliverableStatus = "repost_required"
)

type ReviewAction string

const (
	ReviewActionVerified       ReviewAction = "verified"
	ReviewActionRequestChanges ReviewAction = "request_changes"
	ReviewActionFailed         ReviewAction = "failed"
)

// Review is one immutable entry in the deliverable's review log.
type Review struct {
	Action     ReviewAction
	Reason     string
	ReviewerID string
	At         time.Time
}

// Deliverable tracks the content submission and brand review for a match.
// DueAt stays unset on physical offers until the shipment dispatches; for
// digital-only offers it is fixed from the acceptance time.
type Deliverable struct {
	DeliverableID       string
	MatchID             string
	OfferID             string
	BrandID             string
	CreatorID           string
	Status              DeliverableStatus
	DeadlineDays        int
	DueAt               *time.Time
	SubmittedPermalink  string
	SubmittedNotes      string
	SubmittedAt         *time.Time
	UsageRightsRequired bool
	UsageRightsGranted  *time.Time
	VerifiedPermalink   string
	VerifiedAt          *time.Time
	Reviews             []Review
	ReviewCount         int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Terminal reports whether no further submission or review is possible.
func (d Deliverable) Terminal() bool {
	return d.Status == DeliverableStatusVerified || d.Status == DeliverableStatusFailed
}

// Submittable reports whether the creator may (re)submit content.
func (d Deliverable) Submittable() bool {
	return d.Status == DeliverableStatusDue || d.Status == DeliverableStatusRepostRequired
}

// Reviewable reports whether a brand review action may apply. A review needs
// a submission on record.
func (d Deliverable) Reviewable() bool {
	return !d.Terminal() && d.SubmittedAt != nil
}
