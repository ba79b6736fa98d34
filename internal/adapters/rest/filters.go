package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundfield/trackboard/internal/core/domain"
)

type setGenreRequest struct {
	Genre string `json:"genre"`
}

type setRangeRequest struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type setSelectionRequest struct {
	IDs []string `json:"ids"`
}

type commandResponse struct {
	Applied bool `json:"applied"`
}

// SetGenre handles PUT /session/filters/genre
func (h *Handler) SetGenre(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req setGenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sched.SetGenre(req.Genre); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: true})
}

// SetYearRange handles PUT /session/filters/years
func (h *Handler) SetYearRange(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req setRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Min == nil || req.Max == nil {
		writeError(w, http.StatusBadRequest, "min and max are required")
		return
	}

	if err := h.sched.SetYearRange(int(*req.Min), int(*req.Max)); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: true})
}

// SetPopularityRange handles PUT /session/filters/popularity
func (h *Handler) SetPopularityRange(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req setRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Min == nil || req.Max == nil {
		writeError(w, http.StatusBadRequest, "min and max are required")
		return
	}

	if err := h.sched.SetPopularityRange(*req.Min, *req.Max); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: true})
}

// SetSelection handles PUT /session/selection. An empty or null id list
// clears the selection, same as DELETE.
func (h *Handler) SetSelection(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req setSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sched.SetSelection(req.IDs); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: true})
}

// ClearSelection handles DELETE /session/selection
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.ClearSelection(); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: true})
}

// Reset handles POST /session/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.Reset(); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Applied: true})
}

// Refresh handles POST /session/refresh: schedule a pass with no state
// change, the resize/re-render case.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.Refresh(); err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, commandResponse{Applied: true})
}

// writeCommandError maps rejected transitions to 400 and everything else to
// 500. A rejected transition leaves the state unchanged.
func (h *Handler) writeCommandError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidRange) || errors.Is(err, domain.ErrEmptyGenre) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
