package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	offererrors "gifted/contexts/barter-core/offer-service/domain/errors"
	offerhttp "gifted/contexts/barter-core/offer-service/transport/http"
)

func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeOfferError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req offerhttp.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.offers.Handler.CreateOfferHandler(
		r.Context(),
		userID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req offerhttp.UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.offers.Handler.UpdateOfferHandler(r.Context(), userID, r.PathValue("offer_id"), req)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := s.offers.Handler.DeleteOfferHandler(r.Context(), userID, r.PathValue("offer_id")); err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePublishOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := s.offers.Handler.PublishOfferHandler(r.Context(), userID, r.PathValue("offer_id")); err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

func (s *Server) handleArchiveOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	if err := s.offers.Handler.ArchiveOfferHandler(r.Context(), userID, r.PathValue("offer_id"), req.Reason); err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

func (s *Server) handleResumeOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := s.offers.Handler.ResumeOfferHandler(r.Context(), userID, r.PathValue("offer_id")); err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "published"})
}

func (s *Server) handleDuplicateOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.offers.Handler.DuplicateOfferHandler(r.Context(), userID, r.PathValue("offer_id"))
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offers.Handler.GetOfferHandler(r.Context(), r.PathValue("offer_id"))
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.offers.Handler.ListOffersHandler(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req offerhttp.SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.offers.Handler.SaveDraftHandler(r.Context(), userID, r.PathValue("offer_id"), req)
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.offers.Handler.GetDraftHandler(r.Context(), userID, r.PathValue("offer_id"))
	if err != nil {
		writeOfferDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeOfferDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, offererrors.ErrValidation):
		writeJSON(w, http.StatusBadRequest, offerhttp.ErrorResponse{
			Code:    "validation_failed",
			Message: err.Error(),
			Issues:  mapOfferIssues(offererrors.IssuesFrom(err)),
		})
	case errors.Is(err, offererrors.ErrOfferNotFound):
		writeOfferError(w, http.StatusNotFound, "offer_not_found", err.Error())
	case errors.Is(err, offererrors.ErrDraftNotFound):
		writeOfferError(w, http.StatusNotFound, "draft_not_found", err.Error())
	case errors.Is(err, offererrors.ErrPaywall):
		writeOfferError(w, http.StatusPaymentRequired, "subscription_required", err.Error())
	case errors.Is(err, offererrors.ErrUnauthorizedActor):
		writeOfferError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, offererrors.ErrOfferNotEditable),
		errors.Is(err, offererrors.ErrInvalidStateTransition):
		writeOfferError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, offererrors.ErrConflict):
		writeOfferError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, offererrors.ErrDraftVersionConflict):
		writeOfferError(w, http.StatusConflict, "draft_version_conflict", err.Error())
	case errors.Is(err, offererrors.ErrIdempotencyKeyConflict):
		writeOfferError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, offererrors.ErrIdempotencyKeyRequired):
		writeOfferError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, offererrors.ErrInvalidOfferInput):
		writeOfferError(w, http.StatusBadRequest, "invalid_offer_input", err.Error())
	default:
		writeOfferError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeOfferError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, offerhttp.ErrorResponse{Code: code, Message: message})
}

func mapOfferIssues(issues []offererrors.Issue) []offerhttp.Issue {
	out := make([]offerhttp.Issue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, offerhttp.Issue{
			Field:   issue.Field,
			Code:    issue.Code,
			Message: issue.Message,
		})
	}
	return out
}
