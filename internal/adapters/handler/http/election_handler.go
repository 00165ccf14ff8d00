package http

import (
	"net/http"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		service: service,
	}
}

type createElectionRequest struct {
	Title        string `json:"title"`
	ElectionDate string `json:"election_date"`
}

type updateElectionRequest struct {
	Title        *string `json:"title"`
	ElectionDate *string `json:"election_date"`
}

func (h *ElectionHandler) List(w http.ResponseWriter, r *http.Request) {
	elections, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if elections == nil {
		elections = []*domain.Election{}
	}
	JSONResponse(w, http.StatusOK, elections)
}

func (h *ElectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createElectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	election, err := h.service.Create(r.Context(), ports.CreateElectionInput{
		Title:        req.Title,
		ElectionDate: req.ElectionDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusCreated, election)
}

func (h *ElectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, detail)
}

func (h *ElectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req updateElectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	election, err := h.service.Update(r.Context(), id, ports.UpdateElectionInput{
		Title:        req.Title,
		ElectionDate: req.ElectionDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, election)
}

func (h *ElectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *ElectionHandler) Current(w http.ResponseWriter, r *http.Request) {
	election, err := h.service.Current(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	JSONResponse(w, http.StatusOK, election)
}
