package services

import (
	"github.com/google/uuid"

	"github.com/soundfield/trackboard/internal/core/analytics"
	"github.com/soundfield/trackboard/internal/core/domain"
)

// Config tunes the analytical engine.
type Config struct {
	// Features is the ordered list of numeric features correlated against
	// each other. Empty means domain.FeatureNames().
	Features []string
	// TopGenres caps the genre aggregate table. Zero means the default.
	TopGenres int
}

// Summary describes one recomputation pass for presentation: subset size,
// active predicates and selection size.
type Summary struct {
	Count           int     `json:"count"`
	Genre           string  `json:"genre"`
	YearMin         int     `json:"yearMin"`
	YearMax         int     `json:"yearMax"`
	PopularityMin   float64 `json:"popularityMin"`
	PopularityMax   float64 `json:"popularityMax"`
	SelectionActive bool    `json:"selectionActive"`
	SelectionSize   int     `json:"selectionSize"`
	StateVersion    uint64  `json:"stateVersion"`
}

// View is the engine's complete output for one pass. It is recreated, never
// patched; presentation must not mutate it.
type View struct {
	ID          string                `json:"id"`
	Tracks      []domain.Track        `json:"tracks"`
	Genres      []analytics.GenreStat `json:"genres"`
	Years       []analytics.YearStat  `json:"years"`
	Correlation analytics.Matrix      `json:"correlation"`
	Summary     Summary               `json:"summary"`
}

// Engine owns the immutable record store and the single mutable FilterState.
// It is not safe for concurrent use on its own; the Scheduler serializes all
// access on one goroutine, matching the single-threaded model of the
// original dashboard.
type Engine struct {
	store []domain.Track
	state *domain.FilterState
	cfg   Config
}

// NewEngine validates the dataset into an immutable store and derives the
// initial filter state from the observed year extent.
func NewEngine(tracks []domain.Track, cfg Config) *Engine {
	store := make([]domain.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.Validate() == nil {
			store = append(store, t)
		}
	}

	yearMin, yearMax := 0, 0
	for i, t := range store {
		if i == 0 || t.Year < yearMin {
			yearMin = t.Year
		}
		if i == 0 || t.Year > yearMax {
			yearMax = t.Year
		}
	}

	if len(cfg.Features) == 0 {
		cfg.Features = domain.FeatureNames()
	}
	if cfg.TopGenres <= 0 {
		cfg.TopGenres = analytics.DefaultTopGenres
	}

	return &Engine{
		store: store,
		state: domain.NewFilterState(yearMin, yearMax),
		cfg:   cfg,
	}
}

// State exposes the mutable filter state. Callers outside tests must only
// reach it through the Scheduler.
func (e *Engine) State() *domain.FilterState { return e.state }

// StoreSize returns the number of validated records in the store.
func (e *Engine) StoreSize() int { return len(e.store) }

// Compute runs one full pipeline pass against the current state snapshot:
// filter, both aggregations, the correlation matrix and the summary. The
// correlation always runs over the full filtered subset; display capping is
// presentation's problem and happens after this.
func (e *Engine) Compute() View {
	snap := e.state.Snapshot()
	filtered := analytics.ApplyFilter(e.store, snap)

	return View{
		ID:          uuid.NewString(),
		Tracks:      filtered,
		Genres:      analytics.TopGenres(filtered, e.cfg.TopGenres),
		Years:       analytics.YearlyMeans(filtered),
		Correlation: analytics.Correlate(filtered, e.cfg.Features),
		Summary: Summary{
			Count:           len(filtered),
			Genre:           snap.Genre,
			YearMin:         snap.YearMin,
			YearMax:         snap.YearMax,
			PopularityMin:   snap.PopMin,
			PopularityMax:   snap.PopMax,
			SelectionActive: snap.HasSelection(),
			SelectionSize:   len(snap.Selection),
			StateVersion:    snap.Version,
		},
	}
}
