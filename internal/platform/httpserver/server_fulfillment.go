package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	fulfillmententities "gifted/contexts/barter-core/fulfillment-service/domain/entities"
	fulfillmenterrors "gifted/contexts/barter-core/fulfillment-service/domain/errors"
	fulfillmenthttp "gifted/contexts/barter-core/fulfillment-service/transport/http"
	"gifted/internal/platform/metrics"
)

func (s *Server) handleMarkShipped(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireFulfillmentUserID(w, r)
	if !ok {
		return
	}

	var req fulfillmenthttp.MarkShippedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFulfillmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.fulfillment.Handler.MarkShippedHandler(r.Context(), userID, r.PathValue("shipment_id"), req)
	if err != nil {
		writeFulfillmentDomainError(w, err)
		return
	}
	metrics.RecordStateTransition("shipment", resp.Shipment.Status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShopifyStatus(w http.ResponseWriter, r *http.Request) {
	var req fulfillmenthttp.ShopifyStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFulfillmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.fulfillment.Handler.ShopifyStatusHandler(r.Context(), r.PathValue("shipment_id"), req)
	if err != nil {
		writeFulfillmentDomainError(w, err)
		return
	}
	metrics.RecordStateTransition("shipment", resp.Shipment.Status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitDeliverable(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireFulfillmentUserID(w, r)
	if !ok {
		return
	}

	var req fulfillmenthttp.SubmitDeliverableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFulfillmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.fulfillment.Handler.SubmitDeliverableHandler(r.Context(), userID, r.PathValue("match_id"), req)
	if err != nil {
		writeFulfillmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyDeliverable(w http.ResponseWriter, r *http.Request) {
	s.handleReviewDeliverable(w, r, fulfillmententities.ReviewActionVerified)
}

func (s *Server) handleRequestChanges(w http.ResponseWriter, r *http.Request) {
	s.handleReviewDeliverable(w, r, fulfillmententities.ReviewActionRequestChanges)
}

func (s *Server) handleFailDeliverable(w http.ResponseWriter, r *http.Request) {
	s.handleReviewDeliverable(w, r, fulfillmententities.ReviewActionFailed)
}

func (s *Server) handleReviewDeliverable(
	w http.ResponseWriter,
	r *http.Request,
	action fulfillmententities.ReviewAction,
) {
	userID, ok := requireFulfillmentUserID(w, r)
	if !ok {
		return
	}

	var req fulfillmenthttp.ReviewDeliverableRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFulfillmentError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	resp, err := s.fulfillment.Handler.ReviewDeliverableHandler(
		r.Context(),
		userID,
		r.PathValue("deliverable_id"),
		action,
		req,
	)
	if err != nil {
		writeFulfillmentDomainError(w, err)
		return
	}
	metrics.RecordStateTransition("deliverable", resp.Deliverable.Status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMatchFulfillment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fulfillment.Handler.GetMatchFulfillmentHandler(r.Context(), r.PathValue("match_id"))
	if err != nil {
		writeFulfillmentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireFulfillmentUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeFulfillmentError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeFulfillmentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fulfillmenterrors.ErrShipmentNotFound),
		errors.Is(err, fulfillmenterrors.ErrDeliverableNotFound):
		writeFulfillmentError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrReasonRequired):
		writeFulfillmentError(w, http.StatusBadRequest, "reason_required", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrPermalinkRequired):
		writeFulfillmentError(w, http.StatusBadRequest, "permalink_required", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrNotSubmitted):
		writeFulfillmentError(w, http.StatusConflict, "not_submitted", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrUnauthorizedActor):
		writeFulfillmentError(w, http.StatusForbidden, "not_allowed", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrInvalidStateTransition):
		writeFulfillmentError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrConflict):
		writeFulfillmentError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, fulfillmenterrors.ErrInvalidInput):
		writeFulfillmentError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		writeFulfillmentError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeFulfillmentError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, fulfillmenthttp.ErrorResponse{Code: code, Message: message})
}
