package services

import "gifted/contexts/barter-core/match-service/domain/entities"

// DecideAcceptance is the acceptance policy: a claim skips brand review only
// when the creator clears the follower threshold and auto-accept is on.
// Below-threshold creators always land in manual review; the flag can skip
// review, never force a rejection.
func DecideAcceptance(followers int, threshold int, autoAccept bool) entities.MatchStatus {
	if autoAccept && followers >= threshold {
		return entities.MatchStatusAccepted
	}
	return entities.MatchStatusPendingApproval
}
