package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type CandidateHandler struct {
	service ports.CandidateService
}

func NewCandidateHandler(service ports.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		service: service,
	}
}

type createCandidateRequest struct {
	ElectionID uuid.UUID `json:"election_id"`
	Number     int       `json:"number"`
	Name       string    `json:"name"`
	Vision     string    `json:"vision"`
	Mission    string    `json:"mission"`
	ImageURL   string    `json:"image_url"`
}

type updateCandidateRequest struct {
	Number   *int    `json:"number"`
	Name     *string `json:"name"`
	Vision   *string `json:"vision"`
	Mission  *string `json:"mission"`
	ImageURL *string `json:"image_url"`
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	var electionID *uuid.UUID
	if raw := r.URL.Query().Get("election_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeServiceError(w, r, domain.ErrInvalidID)
			return
		}
		electionID = &id
	}

	candidates, err := h.service.List(r.Context(), electionID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if candidates == nil {
		candidates = []*domain.Candidate{}
	}
	JSONResponse(w, http.StatusOK, candidates)
}

func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	candidate, err := h.service.Create(r.Context(), ports.CreateCandidateInput{
		ElectionID: req.ElectionID,
		Number:     req.Number,
		Name:       req.Name,
		Vision:     req.Vision,
		Mission:    req.Mission,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusCreated, candidate)
}

func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	candidate, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req updateCandidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	candidate, err := h.service.Update(r.Context(), id, ports.UpdateCandidateInput{
		Number:   req.Number,
		Name:     req.Name,
		Vision:   req.Vision,
		Mission:  req.Mission,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, candidate)
}

func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
