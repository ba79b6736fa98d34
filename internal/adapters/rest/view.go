package rest

import (
	"net/http"
	"strconv"

	"github.com/soundfield/trackboard/internal/core/domain"
)

// GetView handles GET /session/view
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.View())
}

// GetTracks handles GET /session/view/tracks. The optional ?limit= caps the
// rendered point count only; the aggregates and the correlation matrix are
// always computed over the full filtered subset before this cap applies.
func (h *Handler) GetTracks(w http.ResponseWriter, r *http.Request) {
	tracks := h.sched.View().Tracks

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(tracks) {
			tracks = tracks[:limit]
		}
	}

	if tracks == nil {
		tracks = []domain.Track{}
	}
	writeJSON(w, http.StatusOK, tracks)
}

// GetGenres handles GET /session/view/genres
func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.View().Genres)
}

// GetYears handles GET /session/view/years
func (h *Handler) GetYears(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.View().Years)
}

// GetCorrelation handles GET /session/view/correlation
func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.View().Correlation)
}

// GetSummary handles GET /session/view/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sched.View().Summary)
}
