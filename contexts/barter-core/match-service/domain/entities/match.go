package entities

import "time"

type MatchStatus string

const (
	MatchStatusPendingApproval MatchStatus = "pending_approval"
	MatchStatusAccepted        MatchStatus = "accepted"
	MatchStatusRevoked         MatchStatus = "revoked"
	MatchStatusCanceled        MatchStatus = "canceled"
)

type Match struct {
	MatchID         string
	OfferID         string
	CreatorID       string
	Status          MatchStatus
	CampaignCode    string
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	AcceptedAt      *time.Time
}

// OccupiesSlot reports whether the match counts toward the offer's claim cap.
func (m Match) OccupiesSlot() bool {
	return m.Status == MatchStatusPendingApproval || m.Status == MatchStatusAccepted
}

func (m Match) Terminal() bool {
	return m.Status == MatchStatusRevoked || m.Status == MatchStatusCanceled
}
