package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	matcherrors "gifted/contexts/barter-core/match-service/domain/errors"
	matchhttp "gifted/contexts/barter-core/match-service/transport/http"
	offererrors "gifted/contexts/barter-core/offer-service/domain/errors"
	"gifted/internal/platform/metrics"
)

func (s *Server) handleClaimOffer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	creatorID, ok := requireMatchUserID(w, r)
	if !ok {
		return
	}
	if !s.allowClaim(creatorID) {
		metrics.RecordClaimAttempt("rate_limited")
		writeMatchError(w, http.StatusTooManyRequests, "rate_limited", "too many claim attempts, slow down")
		return
	}

	resp, err := s.matches.Handler.ClaimOfferHandler(r.Context(), creatorID, r.PathValue("offer_id"))
	if err != nil {
		metrics.RecordClaimAttempt(claimOutcome(err))
		metrics.RecordRequestDuration("claim", "error", time.Since(start).Seconds())
		writeMatchDomainError(w, err)
		return
	}
	metrics.RecordClaimAttempt(resp.Match.Status)
	metrics.RecordStateTransition("match", resp.Match.Status)
	metrics.RecordRequestDuration("claim", "ok", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireMatchUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.matches.Handler.ApproveMatchHandler(r.Context(), userID, r.PathValue("match_id"))
	if err != nil {
		writeMatchDomainError(w, err)
		return
	}
	metrics.RecordStateTransition("match", resp.Match.Status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireMatchUserID(w, r)
	if !ok {
		return
	}

	var req matchhttp.RejectMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMatchError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.matches.Handler.RejectMatchHandler(r.Context(), userID, r.PathValue("match_id"), req)
	if err != nil {
		writeMatchDomainError(w, err)
		return
	}
	metrics.RecordStateTransition("match", resp.Match.Status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelMatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireMatchUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.matches.Handler.CancelMatchHandler(r.Context(), userID, r.PathValue("match_id"))
	if err != nil {
		writeMatchDomainError(w, err)
		return
	}
	metrics.RecordStateTransition("match", resp.Match.Status)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	resp, err := s.matches.Handler.GetMatchHandler(r.Context(), r.PathValue("match_id"))
	if err != nil {
		writeMatchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offerID := query.Get("offer_id")
	creatorID := query.Get("creator_id")
	if offerID == "" && creatorID == "" {
		// Without explicit filters the caller sees their own matches.
		userID, ok := requireMatchUserID(w, r)
		if !ok {
			return
		}
		creatorID = userID
	}

	resp, err := s.matches.Handler.ListMatchesHandler(r.Context(), offerID, creatorID)
	if err != nil {
		writeMatchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreatorFeed(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := requireMatchUserID(w, r)
	if !ok {
		return
	}
	resp, err := s.matches.Handler.CreatorFeedHandler(r.Context(), creatorID)
	if err != nil {
		writeMatchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireMatchUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeMatchError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func claimOutcome(err error) string {
	if _, ok := matcherrors.ReasonFrom(err); ok {
		return "denied"
	}
	return "error"
}

func writeMatchDomainError(w http.ResponseWriter, err error) {
	if reason, ok := matcherrors.ReasonFrom(err); ok {
		writeJSON(w, http.StatusConflict, matchhttp.ErrorResponse{
			Code:    "eligibility_denied",
			Message: err.Error(),
			Reason:  string(reason),
		})
		return
	}

	switch {
	case errors.Is(err, matcherrors.ErrMatchNotFound),
		errors.Is(err, matcherrors.ErrOfferNotFound),
		errors.Is(err, matcherrors.ErrCreatorNotFound),
		errors.Is(err, offererrors.ErrOfferNotFound):
		writeMatchError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, matcherrors.ErrReasonRequired):
		writeMatchError(w, http.StatusBadRequest, "reason_required", err.Error())
	case errors.Is(err, matcherrors.ErrInvalidMatchInput):
		writeMatchError(w, http.StatusBadRequest, "invalid_match_input", err.Error())
	case errors.Is(err, matcherrors.ErrUnauthorizedActor):
		writeMatchError(w, http.StatusForbidden, "not_allowed", err.Error())
	case errors.Is(err, matcherrors.ErrInvalidStateTransition):
		writeMatchError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, matcherrors.ErrConflict):
		writeMatchError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, offererrors.ErrOfferFull):
		writeMatchError(w, http.StatusConflict, "offer_full", err.Error())
	case errors.Is(err, offererrors.ErrOfferNotActive):
		writeMatchError(w, http.StatusConflict, "offer_not_active", err.Error())
	default:
		writeMatchError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMatchError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, matchhttp.ErrorResponse{Code: code, Message: message})
}
