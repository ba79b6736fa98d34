package domain

import (
	"errors"
	"fmt"
)

// GenreAll is the sentinel meaning "no genre restriction".
const GenreAll = "all"

// Popularity is always bounded to this scale.
const (
	PopularityFloor = 0
	PopularityCeil  = 100
)

var (
	// ErrInvalidRange indicates a rejected range transition. The state is
	// left unchanged when this is returned.
	ErrInvalidRange = errors.New("domain: invalid range")

	// ErrEmptyGenre indicates a genre transition with an empty label.
	ErrEmptyGenre = errors.New("domain: genre cannot be empty")
)

// RangeError provides context for a rejected range transition.
type RangeError struct {
	Field string
	Lo    float64
	Hi    float64
}

func (e RangeError) Error() string {
	return fmt.Sprintf("domain: invalid %s range [%g, %g]", e.Field, e.Lo, e.Hi)
}

func (e RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// FilterState is the only mutable entity of the engine. It holds the active
// predicate parameters: genre selector, year range, popularity range and an
// optional explicit selection (a geometric brush resolved to track IDs).
//
// Every derived structure is a pure function of the record store plus a
// Snapshot of this state, so mutations here never patch derived data.
type FilterState struct {
	genre        string
	yearMin      int
	yearMax      int
	popMin       float64
	popMax       float64
	selection    map[string]struct{}
	version      uint64
	resetYearMin int
	resetYearMax int
}

// Snapshot is an immutable copy of FilterState handed to the pure pipeline
// functions. A recomputation pass always observes a fully-applied state.
type Snapshot struct {
	Genre     string              `json:"genre"`
	YearMin   int                 `json:"yearMin"`
	YearMax   int                 `json:"yearMax"`
	PopMin    float64             `json:"popularityMin"`
	PopMax    float64             `json:"popularityMax"`
	Selection map[string]struct{} `json:"-"`
	Version   uint64              `json:"version"`
}

// HasSelection reports whether a populated explicit selection is active.
// An empty selection never filters; only a populated set restricts.
func (s Snapshot) HasSelection() bool {
	return len(s.Selection) > 0
}

// NewFilterState builds the initial state: all genres, the full observed
// year extent, the full popularity scale, no selection.
func NewFilterState(yearMin, yearMax int) *FilterState {
	if yearMax < yearMin {
		yearMin, yearMax = yearMax, yearMin
	}
	return &FilterState{
		genre:        GenreAll,
		yearMin:      yearMin,
		yearMax:      yearMax,
		popMin:       PopularityFloor,
		popMax:       PopularityCeil,
		resetYearMin: yearMin,
		resetYearMax: yearMax,
	}
}

// Version increases by one on every applied transition. Rejected
// transitions do not bump it.
func (s *FilterState) Version() uint64 { return s.version }

// SetGenre selects one concrete genre, or GenreAll to lift the restriction.
// Changing the genre invalidates any geometric brush: the brush was drawn
// against the points visible under the old predicate.
func (s *FilterState) SetGenre(genre string) error {
	if genre == "" {
		return ErrEmptyGenre
	}
	s.genre = genre
	s.selection = nil
	s.version++
	return nil
}

// SetYearRange sets the inclusive year bounds and clears the selection.
func (s *FilterState) SetYearRange(lo, hi int) error {
	if lo > hi {
		return RangeError{Field: "year", Lo: float64(lo), Hi: float64(hi)}
	}
	s.yearMin, s.yearMax = lo, hi
	s.selection = nil
	s.version++
	return nil
}

// SetPopularityRange sets the inclusive popularity bounds and clears the
// selection. Bounds outside [0,100], NaN, or lo > hi reject the transition.
func (s *FilterState) SetPopularityRange(lo, hi float64) error {
	if !isFinite(lo) || !isFinite(hi) || lo > hi || lo < PopularityFloor || hi > PopularityCeil {
		return RangeError{Field: "popularity", Lo: lo, Hi: hi}
	}
	s.popMin, s.popMax = lo, hi
	s.version++
	s.selection = nil
	return nil
}

// SetSelection replaces the explicit selection. A nil or empty set is
// identical to clearing it.
func (s *FilterState) SetSelection(ids []string) {
	if len(ids) == 0 {
		s.ClearSelection()
		return
	}
	sel := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			sel[id] = struct{}{}
		}
	}
	if len(sel) == 0 {
		s.ClearSelection()
		return
	}
	s.selection = sel
	s.version++
}

// ClearSelection drops the explicit selection without touching the ranges.
func (s *FilterState) ClearSelection() {
	s.selection = nil
	s.version++
}

// Reset restores the initial state: full observed year extent, popularity
// [0,100], all genres, no selection.
func (s *FilterState) Reset() {
	s.genre = GenreAll
	s.yearMin, s.yearMax = s.resetYearMin, s.resetYearMax
	s.popMin, s.popMax = PopularityFloor, PopularityCeil
	s.selection = nil
	s.version++
}

// Snapshot copies the current state, including the selection set, so the
// caller can compute against it while further mutations arrive.
func (s *FilterState) Snapshot() Snapshot {
	var sel map[string]struct{}
	if len(s.selection) > 0 {
		sel = make(map[string]struct{}, len(s.selection))
		for id := range s.selection {
			sel[id] = struct{}{}
		}
	}
	return Snapshot{
		Genre:     s.genre,
		YearMin:   s.yearMin,
		YearMax:   s.yearMax,
		PopMin:    s.popMin,
		PopMax:    s.popMax,
		Selection: sel,
		Version:   s.version,
	}
}
