package analytics

import (
	"testing"

	"github.com/soundfield/trackboard/internal/core/domain"
)

func TestTopGenres(t *testing.T) {
	got := TopGenres(sampleTracks(), 10)

	want := []GenreStat{
		{Genre: "pop", Count: 2, MeanPopularity: 70},
		{Genre: "rock", Count: 1, MeanPopularity: 40},
	}
	if len(got) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopGenres_Truncation(t *testing.T) {
	tracks := []domain.Track{}
	for i, g := range []string{"a", "b", "c", "d", "e"} {
		tracks = append(tracks, domain.Track{
			ID: g, Genre: g, Year: 2010, Popularity: float64(90 - i*10),
		})
	}

	got := TopGenres(tracks, 3)
	if len(got) != 3 {
		t.Fatalf("rows: got %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].MeanPopularity > got[i-1].MeanPopularity {
			t.Fatalf("not sorted non-increasing: %+v", got)
		}
	}
	for _, g := range got {
		if g.Count < 1 {
			t.Fatalf("group with zero members: %+v", g)
		}
	}
}

func TestTopGenres_TiesKeepFirstEncounterOrder(t *testing.T) {
	// Both genres average 50; "blues" appears first in the sequence and must
	// stay first in the table.
	tracks := []domain.Track{
		{ID: "1", Genre: "blues", Year: 2010, Popularity: 50},
		{ID: "2", Genre: "ska", Year: 2010, Popularity: 50},
		{ID: "3", Genre: "blues", Year: 2011, Popularity: 50},
	}

	got := TopGenres(tracks, 10)
	if len(got) != 2 || got[0].Genre != "blues" || got[1].Genre != "ska" {
		t.Fatalf("tie order broken: %+v", got)
	}
}

func TestTopGenres_Empty(t *testing.T) {
	if got := TopGenres(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty table, got %+v", got)
	}
}

func TestYearlyMeans(t *testing.T) {
	got := YearlyMeans(sampleTracks())

	want := []YearStat{
		{Year: 2010, Count: 2, MeanPopularity: 70},
		{Year: 2012, Count: 1, MeanPopularity: 40},
	}
	if len(got) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestYearlyMeans_SortedNumericNoDuplicates(t *testing.T) {
	tracks := []domain.Track{
		{ID: "1", Genre: "pop", Year: 2012, Popularity: 10},
		{ID: "2", Genre: "pop", Year: 998, Popularity: 20},
		{ID: "3", Genre: "pop", Year: 2012, Popularity: 30},
		{ID: "4", Genre: "pop", Year: 1999, Popularity: 40},
	}

	got := YearlyMeans(tracks)
	if len(got) != 3 {
		t.Fatalf("rows: got %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Year <= got[i-1].Year {
			t.Fatalf("years not strictly increasing: %+v", got)
		}
	}
}

func TestYearlyMeans_Empty(t *testing.T) {
	if got := YearlyMeans([]domain.Track{}); len(got) != 0 {
		t.Fatalf("expected empty table, got %+v", got)
	}
}
