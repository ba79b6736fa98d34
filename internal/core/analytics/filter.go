// Package analytics holds the pure computations of the engine: the filter
// pipeline, the grouped aggregations and the pairwise correlation matrix.
// Every function takes the record store and a state snapshot as arguments
// and performs no I/O, so each is unit-testable without the service layer.
package analytics

import (
	"github.com/soundfield/trackboard/internal/core/domain"
)

// ApplyFilter returns the tracks satisfying every active predicate, in
// store order. Filtering is stable and conjunctive: year range, popularity
// range, genre, then the explicit selection when one is populated. All
// bounds are inclusive on both ends.
func ApplyFilter(tracks []domain.Track, f domain.Snapshot) []domain.Track {
	out := make([]domain.Track, 0, len(tracks))
	restrict := f.HasSelection()
	for _, t := range tracks {
		if t.Year < f.YearMin || t.Year > f.YearMax {
			continue
		}
		if t.Popularity < f.PopMin || t.Popularity > f.PopMax {
			continue
		}
		if f.Genre != domain.GenreAll && t.Genre != f.Genre {
			continue
		}
		if restrict {
			if _, ok := f.Selection[t.ID]; !ok {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
