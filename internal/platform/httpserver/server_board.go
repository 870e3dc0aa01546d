package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	matcherrors "gifted/contexts/barter-core/match-service/domain/errors"
	boarderrors "gifted/contexts/barter-core/pipeline-service/domain/errors"
	boardhttp "gifted/contexts/barter-core/pipeline-service/transport/http"
)

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireBoardUserID(w, r); !ok {
		return
	}
	resp, err := s.board.Handler.GetBoardHandler(r.Context(), r.URL.Query().Get("offer_id"))
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMoveCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireBoardUserID(w, r)
	if !ok {
		return
	}

	var req boardhttp.MoveCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBoardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.board.Handler.MoveCardHandler(r.Context(), userID, r.PathValue("match_id"), req)
	if err != nil {
		writeBoardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireBoardUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeBoardError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeBoardDomainError(w http.ResponseWriter, err error) {
	if explanation, ok := boarderrors.ExplanationFrom(err); ok {
		writeBoardError(w, http.StatusConflict, "gesture_rejected", explanation)
		return
	}

	switch {
	case errors.Is(err, boarderrors.ErrInvalidBoardInput):
		writeBoardError(w, http.StatusBadRequest, "invalid_board_input", err.Error())
	case errors.Is(err, boarderrors.ErrUnknownStage):
		writeBoardError(w, http.StatusBadRequest, "unknown_stage", err.Error())
	case errors.Is(err, matcherrors.ErrMatchNotFound):
		writeBoardError(w, http.StatusNotFound, "match_not_found", err.Error())
	case errors.Is(err, matcherrors.ErrUnauthorizedActor):
		writeBoardError(w, http.StatusForbidden, "not_allowed", err.Error())
	case errors.Is(err, matcherrors.ErrInvalidStateTransition),
		errors.Is(err, matcherrors.ErrConflict):
		writeBoardError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeBoardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBoardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, boardhttp.ErrorResponse{Code: code, Message: message})
}
