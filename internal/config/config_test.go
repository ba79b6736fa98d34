package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != ":8080" || c.DBPath != "trackboard.db" {
		t.Fatalf("defaults: %+v", c)
	}
	if c.TopGenres != 10 || c.CoalesceMs != 200 {
		t.Fatalf("engine defaults: %+v", c)
	}
	if c.CoalesceWindow() != 200*time.Millisecond {
		t.Fatalf("coalesce window: %v", c.CoalesceWindow())
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	c := &Config{
		Addr:            ":9090",
		DBPath:          "custom.db",
		TopGenres:       5,
		CoalesceMs:      50,
		Features:        []string{"popularity", "energy"},
		IngestTopGenres: 3,
		EnrichWorkers:   4,
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Addr != ":9090" || got.DBPath != "custom.db" {
		t.Fatalf("round trip: %+v", got)
	}
	if got.TopGenres != 5 || got.CoalesceMs != 50 || got.EnrichWorkers != 4 {
		t.Fatalf("round trip numerics: %+v", got)
	}
	if len(got.Features) != 2 || got.Features[0] != "popularity" {
		t.Fatalf("round trip features: %v", got.Features)
	}
}
