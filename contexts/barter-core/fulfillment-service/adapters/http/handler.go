package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"gifted/contexts/barter-core/fulfillment-service/application/commands"
	"gifted/contexts/barter-core/fulfillment-service/application/queries"
	"gifted/contexts/barter-core/fulfillment-service/domain/entities"
	httptransport "gifted/contexts/barter-core/fulfillment-service/transport/http"
)

type Handler struct {
	MarkShipped       commands.MarkShippedUseCase
	SyncShopify       commands.SyncShopifyStatusUseCase
	SubmitDeliverable commands.SubmitDeliverableUseCase
	ReviewDeliverable commands.ReviewDeliverableUseCase
	GetFulfillment    queries.GetMatchFulfillmentUseCase
	Logger            *slog.Logger
}

func (h Handler) MarkShippedHandler(
	ctx context.Context,
	actorID string,
	shipmentID string,
	req httptransport.MarkShippedRequest,
) (httptransport.ShipmentResponse, error) {
	shipment, err := h.MarkShipped.Execute(ctx, commands.MarkShippedCommand{
		ShipmentID:     shipmentID,
		ActorID:        actorID,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		TrackingURL:    req.TrackingURL,
	})
	if err != nil {
		return httptransport.ShipmentResponse{}, err
	}
	return httptransport.ShipmentResponse{Shipment: mapShipment(shipment)}, nil
}

func (h Handler) ShopifyStatusHandler(
	ctx context.Context,
	shipmentID string,
	req httptransport.ShopifyStatusRequest,
) (httptransport.ShipmentResponse, error) {
	shipment, err := h.SyncShopify.Execute(ctx, commands.SyncShopifyStatusCommand{
		ShipmentID: shipmentID,
		Status:     req.Status,
	})
	if err != nil {
		return httptransport.ShipmentResponse{}, err
	}
	return httptransport.ShipmentResponse{Shipment: mapShipment(shipment)}, nil
}

func (h Handler) SubmitDeliverableHandler(
	ctx context.Context,
	creatorID string,
	matchID string,
	req httptransport.SubmitDeliverableRequest,
) (httptransport.DeliverableResponse, error) {
	deliverable, err := h.SubmitDeliverable.Execute(ctx, commands.SubmitDeliverableCommand{
		MatchID:          matchID,
		CreatorID:        creatorID,
		Permalink:        req.Permalink,
		Notes:            req.Notes,
		GrantUsageRights: req.GrantUsageRights,
	})
	if err != nil {
		return httptransport.DeliverableResponse{}, err
	}
	return httptransport.DeliverableResponse{Deliverable: mapDeliverable(deliverable)}, nil
}

func (h Handler) ReviewDeliverableHandler(
	ctx context.Context,
	actorID string,
	deliverableID string,
	action entities.ReviewAction,
	req httptransport.ReviewDeliverableRequest,
) (httptransport.DeliverableResponse, error) {
	deliverable, err := h.ReviewDeliverable.Execute(ctx, commands.ReviewDeliverableCommand{
		DeliverableID: deliverableID,
		ActorID:       actorID,
		Action:        action,
		Reason:        req.Reason,
		Permalink:     req.Permalink,
	})
	if err != nil {
		return httptransport.DeliverableResponse{}, err
	}
	return httptransport.DeliverableResponse{Deliverable: mapDeliverable(deliverable)}, nil
}

func (h Handler) GetMatchFulfillmentHandler(ctx context.Context, matchID string) (httptransport.MatchFulfillmentResponse, error) {
	view, err := h.GetFulfillment.Execute(ctx, matchID)
	if err != nil {
		return httptransport.MatchFulfillmentResponse{}, err
	}
	var resp httptransport.MatchFulfillmentResponse
	if view.Shipment != nil {
		dto := mapShipment(*view.Shipment)
		resp.Shipment = &dto
	}
	if view.Deliverable != nil {
		dto := mapDeliverable(*view.Deliverable)
		resp.Deliverable = &dto
	}
	return resp, nil
}

func mapShipment(shipment entities.Shipment) httptransport.ShipmentDTO {
	dto := httptransport.ShipmentDTO{
		ShipmentID:      shipment.ShipmentID,
		MatchID:         shipment.MatchID,
		FulfillmentType: string(shipment.FulfillmentType),
		Status:          string(shipment.Status),
		Carrier:         shipment.Carrier,
		TrackingNumber:  shipment.TrackingNumber,
		TrackingURL:     shipment.TrackingURL,
		CreatedAt:       shipment.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       shipment.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if shipment.ShippedAt != nil {
		dto.ShippedAt = shipment.ShippedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func mapDeliverable(deliverable entities.Deliverable) httptransport.DeliverableDTO {
	dto := httptransport.DeliverableDTO{
		DeliverableID:       deliverable.DeliverableID,
		MatchID:             deliverable.MatchID,
		Status:              string(deliverable.Status),
		SubmittedPermalink:  deliverable.SubmittedPermalink,
		SubmittedNotes:      deliverable.SubmittedNotes,
		UsageRightsRequired: deliverable.UsageRightsRequired,
		VerifiedPermalink:   deliverable.VerifiedPermalink,
		Reviews:             make([]httptransport.ReviewDTO, 0, len(deliverable.Reviews)),
		ReviewCount:         deliverable.ReviewCount,
	}
	if deliverable.DueAt != nil {
		dto.DueAt = deliverable.DueAt.UTC().Format(time.RFC3339)
	}
	if deliverable.SubmittedAt != nil {
		dto.SubmittedAt = deliverable.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if deliverable.UsageRightsGranted != nil {
		dto.UsageRightsGranted = deliverable.UsageRightsGranted.UTC().Format(time.RFC3339)
	}
	if deliverable.VerifiedAt != nil {
		dto.VerifiedAt = deliverable.VerifiedAt.UTC().Format(time.RFC3339)
	}
	for _, review := range deliverable.Reviews {
		dto.Reviews = append(dto.Reviews, httptransport.ReviewDTO{
			Action:     string(review.Action),
			Reason:     review.Reason,
			ReviewerID: review.ReviewerID,
			At:         review.At.UTC().Format(time.RFC3339),
		})
	}
	return dto
}
