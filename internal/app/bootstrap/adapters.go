package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	fulfillmentcommands "gifted/contexts/barter-core/fulfillment-service/application/commands"
	fulfillmentqueries "gifted/contexts/barter-core/fulfillment-service/application/queries"
	fulfillmenterrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"
	fulfillmentports "gifted/contexts/barter-core/fulfillment-service/ports"
	matchcommands "gifted/contexts/barter-core/match-service/application/commands"
	matchentities "gifted/contexts/barter-core/match-service/domain/entities"
	matcherrors "gifted/contexts/barter-core/match-service/domain/errors"
	matchports "gifted/contexts/barter-core/match-service/ports"
	offerentities "gifted/contexts/barter-core/offer-service/domain/entities"
	offererrors "gifted/contexts/barter-core/offer-service/domain/errors"
	offerports "gifted/contexts/barter-core/offer-service/ports"
	pipelineentities "gifted/contexts/barter-core/pipeline-service/domain/entities"
	"gifted/internal/shared/events"
	"gifted/internal/shared/outbox"
)

// offerDirectory bridges the match service to offer storage. The match
// service never touches offer tables directly; everything flows through the
// offer repository so the claim-cap compare-and-set stays in one place.
type offerDirectory struct {
	offers offerports.OfferRepository
}

func (d offerDirectory) GetOffer(ctx context.Context, offerID string) (matchports.OfferView, error) {
	offer, err := d.offers.GetOffer(ctx, offerID)
	if err != nil {
		return matchports.OfferView{}, err
	}
	return offerView(offer), nil
}

func (d offerDirectory) ListPublishedOffers(ctx context.Context) ([]matchports.OfferView, error) {
	offers, err := d.offers.ListOffers(ctx, offerports.OfferFilter{Status: offerentities.OfferStatusPublished})
	if err != nil {
		return nil, err
	}
	views := make([]matchports.OfferView, 0, len(offers))
	for _, offer := range offers {
		views = append(views, offerView(offer))
	}
	return views, nil
}

func (d offerDirectory) ReserveClaimSlot(ctx context.Context, offerID string) error {
	err := d.offers.ReserveClaimSlot(ctx, offerID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, offererrors.ErrOfferFull):
		return matcherrors.NewEligibilityError(matcherrors.DenialOfferFull)
	case errors.Is(err, offererrors.ErrOfferNotActive):
		return matcherrors.NewEligibilityError(matcherrors.DenialOfferNotActive)
	default:
		return err
	}
}

func (d offerDirectory) ReleaseClaimSlot(ctx context.Context, offerID string) error {
	return d.offers.ReleaseClaimSlot(ctx, offerID)
}

func offerView(offer offerentities.Offer) matchports.OfferView {
	return matchports.OfferView{
		OfferID:                      offer.OfferID,
		BrandID:                      offer.BrandID,
		Status:                       string(offer.Status),
		Template:                     string(offer.Template),
		Published:                    offer.Status == offerentities.OfferStatusPublished,
		MaxClaims:                    offer.MaxClaims,
		ActiveMatchCount:             offer.ActiveMatchCount,
		AcceptanceFollowersThreshold: offer.AcceptanceFollowersThreshold,
		AboveThresholdAutoAccept:     offer.AboveThresholdAutoAccept,
		DeadlineDaysAfterDelivery:    offer.DeadlineDaysAfterDelivery,
		FulfillmentType:              string(offer.Metadata.FulfillmentType),
		RequiresShipment:             offer.RequiresShipment(),
		UsageRightsRequired:          offer.UsageRightsRequired,
		Platforms:                    offer.Metadata.Platforms,
		LocationRadiusKm:             offer.Metadata.LocationRadiusKm,
		BrandLat:                     offer.Metadata.BrandLat,
		BrandLng:                     offer.Metadata.BrandLng,
	}
}

// fulfillmentBridge lets the match service provision shipments and check
// dispatch without importing fulfillment internals.
type fulfillmentBridge struct {
	provision fulfillmentcommands.ProvisionUseCase
	view      fulfillmentqueries.GetMatchFulfillmentUseCase
}

func (b fulfillmentBridge) Provision(ctx context.Context, req matchports.ProvisionRequest) error {
	return b.provision.Execute(ctx, fulfillmentcommands.ProvisionCommand{
		MatchID:                   req.MatchID,
		OfferID:                   req.OfferID,
		CreatorID:                 req.CreatorID,
		BrandID:                   req.BrandID,
		FulfillmentType:           req.FulfillmentType,
		RequiresShipment:          req.RequiresShipment,
		UsageRightsRequired:       req.UsageRightsRequired,
		DeadlineDaysAfterDelivery: req.DeadlineDaysAfterDelivery,
		AcceptedAt:                req.AcceptedAt,
	})
}

func (b fulfillmentBridge) ShipmentDispatched(ctx context.Context, matchID string) (bool, error) {
	view, err := b.view.Execute(ctx, matchID)
	if err != nil {
		return false, err
	}
	if view.Shipment == nil {
		return false, nil
	}
	return view.Shipment.Dispatched(), nil
}

// boardMatchReader projects match records into board cards.
type boardMatchReader struct {
	matches matchports.MatchRepository
}

func (r boardMatchReader) ListOpenMatches(ctx context.Context, offerID string) ([]pipelineentities.CardMatch, error) {
	matches, err := r.matches.ListMatches(ctx, matchports.MatchFilter{OfferID: offerID})
	if err != nil {
		return nil, err
	}
	cards := make([]pipelineentities.CardMatch, 0, len(matches))
	for _, match := range matches {
		if match.Terminal() {
			continue
		}
		cards = append(cards, cardMatch(match))
	}
	return cards, nil
}

func (r boardMatchReader) GetMatch(ctx context.Context, matchID string) (pipelineentities.CardMatch, error) {
	match, err := r.matches.GetMatch(ctx, matchID)
	if err != nil {
		return pipelineentities.CardMatch{}, err
	}
	return cardMatch(match), nil
}

func cardMatch(match matchentities.Match) pipelineentities.CardMatch {
	return pipelineentities.CardMatch{
		MatchID:      match.MatchID,
		OfferID:      match.OfferID,
		CreatorID:    match.CreatorID,
		Status:       string(match.Status),
		CampaignCode: match.CampaignCode,
		CreatedAt:    match.CreatedAt,
	}
}

// boardFulfillmentReader projects shipment and deliverable state into board
// card slices.
type boardFulfillmentReader struct {
	view fulfillmentqueries.GetMatchFulfillmentUseCase
}

func (r boardFulfillmentReader) GetFulfillment(
	ctx context.Context,
	matchID string,
) (*pipelineentities.CardShipment, *pipelineentities.CardDeliverable, error) {
	view, err := r.view.Execute(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	var shipment *pipelineentities.CardShipment
	if view.Shipment != nil {
		shipment = &pipelineentities.CardShipment{
			ShipmentID: view.Shipment.ShipmentID,
			Status:     string(view.Shipment.Status),
			Dispatched: view.Shipment.Dispatched(),
		}
	}
	var deliverable *pipelineentities.CardDeliverable
	if view.Deliverable != nil {
		deliverable = &pipelineentities.CardDeliverable{
			DeliverableID: view.Deliverable.DeliverableID,
			Status:        string(view.Deliverable.Status),
			SubmittedAt:   view.Deliverable.SubmittedAt,
			ReviewCount:   view.Deliverable.ReviewCount,
		}
	}
	return shipment, deliverable, nil
}

// boardApprover maps the approved-column drop onto match approval.
type boardApprover struct {
	approve matchcommands.ApproveMatchUseCase
}

func (a boardApprover) Approve(ctx context.Context, actorID string, matchID string) error {
	_, err := a.approve.Execute(ctx, matchcommands.ApproveMatchCommand{
		MatchID: matchID,
		ActorID: actorID,
	})
	return err
}

// boardDispatcher maps the shipped-column drop onto a manual dispatch with
// no tracking details.
type boardDispatcher struct {
	markShipped fulfillmentcommands.MarkShippedUseCase
	view        fulfillmentqueries.GetMatchFulfillmentUseCase
}

func (d boardDispatcher) MarkShipped(ctx context.Context, actorID string, matchID string) error {
	view, err := d.view.Execute(ctx, matchID)
	if err != nil {
		return err
	}
	if view.Shipment == nil {
		return fulfillmenterrors.ErrShipmentNotFound
	}
	_, err = d.markShipped.Execute(ctx, fulfillmentcommands.MarkShippedCommand{
		ShipmentID: view.Shipment.ShipmentID,
		ActorID:    actorID,
	})
	return err
}

// Logging notifiers are the default delivery channel; real channels consume
// the notification events the outbox relay publishes.
type offerNotifier struct {
	logger *slog.Logger
	queue  *outbox.Queue
}

func (n offerNotifier) Notify(_ context.Context, notification offerports.Notification) {
	recordNotification(n.logger, n.queue, notification.Kind, notification.Text, notification.RecipientID)
}

type matchNotifier struct {
	logger *slog.Logger
	queue  *outbox.Queue
}

func (n matchNotifier) Notify(_ context.Context, notification matchports.Notification) {
	recordNotification(n.logger, n.queue, notification.Kind, notification.Text, notification.RecipientID)
}

type fulfillmentNotifier struct {
	logger *slog.Logger
	queue  *outbox.Queue
}

func (n fulfillmentNotifier) Notify(_ context.Context, notification fulfillmentports.Notification) {
	recordNotification(n.logger, n.queue, notification.Kind, notification.Text, notification.RecipientID)
}

func recordNotification(logger *slog.Logger, queue *outbox.Queue, kind, text, recipientID string) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		"event", "notification_dispatched",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"kind", kind,
		"recipient_id", recipientID,
		"text", text,
	)
	if queue == nil {
		return
	}
	envelope := events.Envelope{
		EventID:        uuid.NewString(),
		EventType:      "notification." + kind,
		SourceService:  "gifted",
		OccurredAtUTC:  time.Now().UTC(),
		EntityType:     "notification",
		EntityID:       recipientID,
		PayloadVersion: 1,
		Payload: map[string]string{
			"kind":         kind,
			"recipient_id": recipientID,
			"text":         text,
		},
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		logger.Error("notification envelope encode failed",
			"event", "notification_encode_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
		return
	}
	queue.Append(outbox.Message{
		ID:        envelope.EventID,
		Topic:     events.TopicNotifications,
		EventType: envelope.EventType,
		Payload:   payload,
	})
}
