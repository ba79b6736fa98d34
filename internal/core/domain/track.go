package domain

import (
	"encoding/json"
	"errors"
	"math"
)

// ErrIncompleteTrack marks a row that must not enter the record store.
var ErrIncompleteTrack = errors.New("domain: incomplete track")

// AudioFeatures holds the numeric audio descriptors of a track.
// A missing value is represented as NaN, never as zero: zero is a valid
// measurement on most of these scales.
type AudioFeatures struct {
	Danceability     float64
	Energy           float64
	Loudness         float64
	Speechiness      float64
	Acousticness     float64
	Instrumentalness float64
	Liveness         float64
	Valence          float64
	Tempo            float64
	DurationMs       float64
}

// Track represents one record of the music dataset in the domain layer.
// The record store holds tracks immutably once ingested.
type Track struct {
	ID         string
	Name       string
	Artist     string
	Genre      string
	Year       int
	Popularity float64 // bounded [0,100]
	AudioFeatures
}

// FeatureNames is the canonical ordering of correlatable numeric features.
// The correlation matrix and presentation both follow this order.
func FeatureNames() []string {
	return []string{
		"popularity",
		"danceability",
		"energy",
		"loudness",
		"speechiness",
		"acousticness",
		"instrumentalness",
		"liveness",
		"valence",
		"tempo",
		"duration_ms",
	}
}

// Feature returns the named numeric feature. The second return is false for
// unknown names; a known feature with no value comes back as NaN.
func (t Track) Feature(name string) (float64, bool) {
	switch name {
	case "popularity":
		return t.Popularity, true
	case "danceability":
		return t.Danceability, true
	case "energy":
		return t.Energy, true
	case "loudness":
		return t.Loudness, true
	case "speechiness":
		return t.Speechiness, true
	case "acousticness":
		return t.Acousticness, true
	case "instrumentalness":
		return t.Instrumentalness, true
	case "liveness":
		return t.Liveness, true
	case "valence":
		return t.Valence, true
	case "tempo":
		return t.Tempo, true
	case "duration_ms":
		return t.DurationMs, true
	default:
		return 0, false
	}
}

// Validate enforces the ingestion invariant: identifier, genre, year,
// popularity and energy must all be present. A track failing this never
// enters the record store.
func (t Track) Validate() error {
	if t.ID == "" || t.Genre == "" {
		return ErrIncompleteTrack
	}
	if t.Year == 0 {
		return ErrIncompleteTrack
	}
	if !isFinite(t.Popularity) || !isFinite(t.Energy) {
		return ErrIncompleteTrack
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// trackWire mirrors Track for JSON, carrying missing features as null.
// encoding/json refuses NaN, so the conversion happens here rather than in
// every handler.
type trackWire struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Artist     string              `json:"artist"`
	Genre      string              `json:"genre"`
	Year       int                 `json:"year"`
	Popularity float64             `json:"popularity"`
	Features   map[string]*float64 `json:"features"`
}

// MarshalJSON renders the track with NaN features as JSON null.
func (t Track) MarshalJSON() ([]byte, error) {
	features := make(map[string]*float64, 10)
	for _, name := range FeatureNames() {
		if name == "popularity" {
			continue
		}
		v, _ := t.Feature(name)
		if isFinite(v) {
			val := v
			features[name] = &val
		} else {
			features[name] = nil
		}
	}
	return json.Marshal(trackWire{
		ID:         t.ID,
		Name:       t.Name,
		Artist:     t.Artist,
		Genre:      t.Genre,
		Year:       t.Year,
		Popularity: t.Popularity,
		Features:   features,
	})
}
