package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	CandidateID uuid.UUID `json:"candidate_id"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := userID(r)
	if !ok {
		ErrorResponse(w, http.StatusUnauthorized, "missing user context")
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	vote, err := h.service.CastVote(r.Context(), voterID, req.CandidateID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusCreated, vote)
}

func (h *VoteHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	voterID, ok := userID(r)
	if !ok {
		ErrorResponse(w, http.StatusUnauthorized, "missing user context")
		return
	}

	electionID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	receipt, err := h.service.HasVoted(r.Context(), voterID, electionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, receipt)
}

func (h *VoteHandler) Results(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	results, err := h.service.TallyResults(r.Context(), electionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, results)
}
