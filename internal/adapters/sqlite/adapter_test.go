package sqlite

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/soundfield/trackboard/internal/core/domain"
	"github.com/soundfield/trackboard/internal/core/ports"
)

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	a, err := NewAdapter(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func storedTracks() []domain.Track {
	return []domain.Track{
		{
			ID: "t1", Name: "Song One", Artist: "Artist A", Genre: "pop", Year: 2010, Popularity: 80,
			AudioFeatures: domain.AudioFeatures{
				Danceability: 0.5, Energy: 0.6, Loudness: -6, Speechiness: 0.05,
				Acousticness: 0.2, Instrumentalness: 0, Liveness: 0.1, Valence: 0.7,
				Tempo: 120, DurationMs: 210000,
			},
		},
		{
			ID: "t2", Genre: "rock", Year: 2012, Popularity: 40,
			AudioFeatures: domain.AudioFeatures{
				Danceability: math.NaN(), Energy: 0.8, Loudness: -4, Speechiness: 0.04,
				Acousticness: 0.1, Instrumentalness: 0.2, Liveness: 0.3, Valence: 0.5,
				Tempo: math.NaN(), DurationMs: 180000,
			},
		},
	}
}

func TestAdapter_RoundTrip(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.ReplaceAll(ctx, storedTracks()); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	got, err := a.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("tracks: got %d, want 2", len(got))
	}

	// Insert order preserved.
	if got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Name != "Song One" || got[0].Artist != "Artist A" {
		t.Fatalf("metadata lost: %+v", got[0])
	}
	if got[0].Genre != "pop" || got[0].Year != 2010 || got[0].Popularity != 80 {
		t.Fatalf("core columns: %+v", got[0])
	}
	if got[0].Tempo != 120 || got[0].DurationMs != 210000 {
		t.Fatalf("features: %+v", got[0].AudioFeatures)
	}
}

func TestAdapter_MissingFeaturesSurviveAsNaN(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.ReplaceAll(ctx, storedTracks()); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	got, err := a.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}

	t2 := got[1]
	if !math.IsNaN(t2.Danceability) || !math.IsNaN(t2.Tempo) {
		t.Fatalf("missing features must round-trip as NaN: %+v", t2.AudioFeatures)
	}
	if t2.Energy != 0.8 {
		t.Fatalf("present feature clobbered: %g", t2.Energy)
	}
}

func TestAdapter_ReplaceAllSwapsDataset(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.ReplaceAll(ctx, storedTracks()); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if err := a.ReplaceAll(ctx, storedTracks()[:1]); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	n, err := a.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count after swap: got %d, want 1", n)
	}
}

func TestAdapter_UpdateTrackFeatures(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.ReplaceAll(ctx, storedTracks()); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	updated := domain.AudioFeatures{
		Danceability: 0.9, Energy: 0.95, Loudness: -3, Speechiness: 0.1,
		Acousticness: 0.05, Instrumentalness: 0.01, Liveness: 0.2, Valence: 0.8,
		Tempo: 128, DurationMs: 200000,
	}
	if err := a.UpdateTrackFeatures(ctx, "t2", updated); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := a.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if got[1].Energy != 0.95 || got[1].Tempo != 128 {
		t.Fatalf("update not persisted: %+v", got[1].AudioFeatures)
	}
	// The other track is untouched.
	if got[0].Energy != 0.6 {
		t.Fatalf("wrong row updated: %+v", got[0].AudioFeatures)
	}
}

func TestAdapter_UpdateUnknownTrack(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	if err := a.ReplaceAll(ctx, storedTracks()); err != nil {
		t.Fatalf("replace all: %v", err)
	}

	err := a.UpdateTrackFeatures(ctx, "nope", domain.AudioFeatures{Energy: 0.5})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdapter_EmptyStore(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	got, err := a.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty store, got %d tracks", len(got))
	}

	n, err := a.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count: got %d, want 0", n)
	}
}
