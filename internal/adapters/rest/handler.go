// Package rest exposes the engine over HTTP: filter commands mutate the
// session state through the scheduler, view endpoints serve the latest
// completed recomputation pass.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/soundfield/trackboard/internal/core/services"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	sched  *services.Scheduler // Dependency on the Core Service
	router *http.ServeMux      // Standard library router
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(sched *services.Scheduler) *Handler {
	h := &Handler{
		sched:  sched,
		router: http.NewServeMux(),
	}

	// Register Routes
	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface.
// It acts as a proxy, passing the request to our internal router.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)

	// Commands: the six filter transitions plus recompute-only refresh
	h.router.HandleFunc("PUT /session/filters/genre", h.SetGenre)
	h.router.HandleFunc("PUT /session/filters/years", h.SetYearRange)
	h.router.HandleFunc("PUT /session/filters/popularity", h.SetPopularityRange)
	h.router.HandleFunc("PUT /session/selection", h.SetSelection)
	h.router.HandleFunc("DELETE /session/selection", h.ClearSelection)
	h.router.HandleFunc("POST /session/reset", h.Reset)
	h.router.HandleFunc("POST /session/refresh", h.Refresh)

	// Views: outputs of the latest completed pass
	h.router.HandleFunc("GET /session/view", h.GetView)
	h.router.HandleFunc("GET /session/view/tracks", h.GetTracks)
	h.router.HandleFunc("GET /session/view/genres", h.GetGenres)
	h.router.HandleFunc("GET /session/view/years", h.GetYears)
	h.router.HandleFunc("GET /session/view/correlation", h.GetCorrelation)
	h.router.HandleFunc("GET /session/view/summary", h.GetSummary)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Trackboard is live 🎶"})
}
