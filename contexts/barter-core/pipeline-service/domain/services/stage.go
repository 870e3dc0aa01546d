package services

import "gifted/contexts/barter-core/pipeline-service/domain/entities"

const matchStatusAccepted = "accepted"

// DeriveStage computes the single display stage of a match from the current
// match, shipment, and deliverable states. It is pure and total: shipment
// and deliverable may be nil, and the precedence order below is fixed, each
// rule checked only when the previous one did not apply.
func DeriveStage(
	match entities.CardMatch,
	shipment *entities.CardShipment,
	deliverable *entities.CardDeliverable,
) entities.Stage {
	if deliverable != nil {
		if deliverable.Status == "verified" {
			return entities.StageComplete
		}
		if deliverable.Status == "repost_required" {
			return entities.StageRepostRequired
		}
		if deliverable.SubmittedAt != nil {
			return entities.StagePosted
		}
	}
	if shipment != nil && shipment.Dispatched {
		return entities.StageShipped
	}
	if match.Status == matchStatusAccepted {
		return entities.StageApproved
	}
	return entities.StageApplied
}
