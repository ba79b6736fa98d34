// Package dataset loads a Spotify-songs CSV into domain tracks, applying
// the ingestion-time cleaning the dashboard expects: header aliasing, year
// extraction from release dates, de-duplication by track ID and row
// validation. Malformed or incomplete rows are silently dropped, never
// fatal; the report carries the counts.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/soundfield/trackboard/internal/core/domain"
)

// Options tunes a load.
type Options struct {
	// TopGenres keeps only the N most common genres to keep the dashboard
	// readable. Zero keeps all genres.
	TopGenres int
	// KeepIncomplete keeps rows missing optional audio features (energy
	// included) so an enrichment step can backfill them before validation.
	KeepIncomplete bool
}

// Report summarizes one load.
type Report struct {
	Rows       int // data rows read
	Kept       int // tracks returned
	Dropped    int // rows failing validation
	Duplicates int // rows discarded as duplicate IDs
}

// Column aliases between the raw dataset export and the cleaned file.
var headerAliases = map[string]string{
	"track_id":                 "id",
	"track_name":               "track_name",
	"name":                     "track_name",
	"track_artist":             "track_artist",
	"artist":                   "track_artist",
	"playlist_genre":           "genre",
	"track_popularity":         "popularity",
	"track_album_release_date": "release_date",
}

func canonicalHeader(h string) string {
	key := strings.ToLower(strings.TrimSpace(h))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if alias, ok := headerAliases[key]; ok {
		return alias
	}
	return key
}

// LoadFile reads and parses a CSV file.
func LoadFile(path string, opts Options) ([]domain.Track, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load parses CSV rows into validated tracks, preserving file order.
func Load(r io.Reader, opts Options) ([]domain.Track, Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, Report{}, fmt.Errorf("dataset: read header: %w", err)
	}
	cols := make(map[string]int, len(headers))
	for i, h := range headers {
		cols[canonicalHeader(h)] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, Report{}, fmt.Errorf("dataset: no id column in %v", headers)
	}

	var (
		tracks []domain.Track
		report Report
		seen   = make(map[string]struct{})
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows are excluded, not fatal.
			report.Rows++
			report.Dropped++
			continue
		}
		report.Rows++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		id := field("id")
		if id == "" {
			report.Dropped++
			continue
		}
		if _, dup := seen[id]; dup {
			report.Duplicates++
			continue
		}
		seen[id] = struct{}{}

		year, ok := parseYear(field("year"))
		if !ok {
			year, ok = parseYear(field("release_date"))
		}
		if !ok {
			report.Dropped++
			continue
		}

		t := domain.Track{
			ID:         id,
			Name:       field("track_name"),
			Artist:     field("track_artist"),
			Genre:      field("genre"),
			Year:       year,
			Popularity: parseFloat(field("popularity")),
			AudioFeatures: domain.AudioFeatures{
				Danceability:     parseFloat(field("danceability")),
				Energy:           parseFloat(field("energy")),
				Loudness:         parseFloat(field("loudness")),
				Speechiness:      parseFloat(field("speechiness")),
				Acousticness:     parseFloat(field("acousticness")),
				Instrumentalness: parseFloat(field("instrumentalness")),
				Liveness:         parseFloat(field("liveness")),
				Valence:          parseFloat(field("valence")),
				Tempo:            parseFloat(field("tempo")),
				DurationMs:       parseFloat(field("duration_ms")),
			},
		}

		if err := t.Validate(); err != nil {
			if !opts.KeepIncomplete || t.ID == "" || t.Genre == "" {
				report.Dropped++
				continue
			}
			// Incomplete but enrichable: keep only if the hard fields hold.
			if !finite(t.Popularity) {
				report.Dropped++
				continue
			}
		}
		tracks = append(tracks, t)
	}

	if opts.TopGenres > 0 {
		tracks = trimToTopGenres(tracks, opts.TopGenres)
	}
	report.Kept = len(tracks)
	return tracks, report, nil
}

// parseYear extracts a plausible release year: the leading four digits of
// the value, whatever separator (or none) follows, as in "2019", "2019-06-14"
// or "20190614".
func parseYear(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	y, _ := strconv.Atoi(s[:4])
	if y < 1900 || y > 2100 {
		return 0, false
	}
	return y, true
}

// parseFloat treats blanks and garbage as missing (NaN).
func parseFloat(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// trimToTopGenres keeps tracks whose genre is among the n most common,
// preserving the original order of the survivors.
func trimToTopGenres(tracks []domain.Track, n int) []domain.Track {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, t := range tracks {
		if _, ok := counts[t.Genre]; !ok {
			order = append(order, t.Genre)
		}
		counts[t.Genre]++
	}
	if len(order) <= n {
		return tracks
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	keep := make(map[string]struct{}, n)
	for _, g := range order[:n] {
		keep[g] = struct{}{}
	}

	out := tracks[:0]
	for _, t := range tracks {
		if _, ok := keep[t.Genre]; ok {
			out = append(out, t)
		}
	}
	return out
}
