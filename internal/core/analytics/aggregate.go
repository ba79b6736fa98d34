package analytics

import (
	"sort"

	"github.com/soundfield/trackboard/internal/core/domain"
)

// DefaultTopGenres caps the genre table when the caller passes k <= 0.
const DefaultTopGenres = 10

// GenreStat is one row of the per-genre aggregate table.
type GenreStat struct {
	Genre          string  `json:"genre"`
	Count          int     `json:"count"`
	MeanPopularity float64 `json:"meanPopularity"`
}

// YearStat is one row of the per-year aggregate table.
type YearStat struct {
	Year           int     `json:"year"`
	Count          int     `json:"count"`
	MeanPopularity float64 `json:"meanPopularity"`
}

// TopGenres groups the filtered sequence by genre, computes count and mean
// popularity per group, sorts by mean popularity descending and keeps the
// top k rows. The sort is stable, so equal-mean genres keep the order in
// which they were first encountered in the sequence; that incidental tie
// order matches the original dashboard and is deliberately preserved.
// An empty input yields an empty table; a mean is never taken over zero
// tracks.
func TopGenres(tracks []domain.Track, k int) []GenreStat {
	if len(tracks) == 0 {
		return nil
	}
	if k <= 0 {
		k = DefaultTopGenres
	}

	type acc struct {
		count int
		sum   float64
	}
	sums := make(map[string]*acc)
	order := make([]string, 0)
	for _, t := range tracks {
		a, ok := sums[t.Genre]
		if !ok {
			a = &acc{}
			sums[t.Genre] = a
			order = append(order, t.Genre)
		}
		a.count++
		a.sum += t.Popularity
	}

	stats := make([]GenreStat, 0, len(order))
	for _, g := range order {
		a := sums[g]
		stats = append(stats, GenreStat{
			Genre:          g,
			Count:          a.count,
			MeanPopularity: a.sum / float64(a.count),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].MeanPopularity > stats[j].MeanPopularity
	})

	if len(stats) > k {
		stats = stats[:k]
	}
	return stats
}

// YearlyMeans groups the filtered sequence by release year and computes
// count and mean popularity per year, sorted ascending by year (numeric).
// Every year with at least one track is present; there is no truncation.
func YearlyMeans(tracks []domain.Track) []YearStat {
	if len(tracks) == 0 {
		return nil
	}

	type acc struct {
		count int
		sum   float64
	}
	sums := make(map[int]*acc)
	years := make([]int, 0)
	for _, t := range tracks {
		a, ok := sums[t.Year]
		if !ok {
			a = &acc{}
			sums[t.Year] = a
			years = append(years, t.Year)
		}
		a.count++
		a.sum += t.Popularity
	}

	sort.Ints(years)

	stats := make([]YearStat, 0, len(years))
	for _, y := range years {
		a := sums[y]
		stats = append(stats, YearStat{
			Year:           y,
			Count:          a.count,
			MeanPopularity: a.sum / float64(a.count),
		})
	}
	return stats
}
