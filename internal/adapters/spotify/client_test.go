package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soundfield/trackboard/internal/core/ports"
)

const featuresBody = `{
	"id": "track123",
	"danceability": 0.7,
	"energy": 0.8,
	"loudness": -5.2,
	"speechiness": 0.04,
	"acousticness": 0.1,
	"instrumentalness": 0.0,
	"liveness": 0.12,
	"valence": 0.6,
	"tempo": 118.5,
	"duration_ms": 214000
}`

func newFastClient(baseURL string) *Client {
	c := NewClientWithHTTP(nil, baseURL)
	c.baseBackoff = time.Millisecond
	return c
}

func TestGetAudioFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio-features/track123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(featuresBody))
	}))
	defer srv.Close()

	got, err := newFastClient(srv.URL).GetAudioFeatures(context.Background(), "track123")
	if err != nil {
		t.Fatalf("get features: %v", err)
	}
	if got.Energy != 0.8 || got.Tempo != 118.5 {
		t.Fatalf("features: %+v", got)
	}
	if got.DurationMs != 214000 {
		t.Fatalf("duration not widened: %g", got.DurationMs)
	}
}

func TestGetAudioFeatures_Unavailable(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := newFastClient(srv.URL).GetAudioFeatures(context.Background(), "gone")
		srv.Close()

		if !errors.Is(err, ports.ErrFeaturesUnavailable) {
			t.Fatalf("status %d: expected ErrFeaturesUnavailable, got %v", status, err)
		}
	}
}

func TestGetAudioFeatures_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(featuresBody))
	}))
	defer srv.Close()

	got, err := newFastClient(srv.URL).GetAudioFeatures(context.Background(), "track123")
	if err != nil {
		t.Fatalf("get features: %v", err)
	}
	if got.Danceability != 0.7 {
		t.Fatalf("features: %+v", got)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("calls: got %d, want 3", n)
	}
}

func TestGetAudioFeatures_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(featuresBody))
	}))
	defer srv.Close()

	if _, err := newFastClient(srv.URL).GetAudioFeatures(context.Background(), "track123"); err != nil {
		t.Fatalf("get features: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("calls: got %d, want 2", n)
	}
}

func TestGetAudioFeatures_GivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newFastClient(srv.URL)
	c.maxRetries = 2

	if _, err := c.GetAudioFeatures(context.Background(), "track123"); err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
}

func TestGetPreviewURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tracks/track123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"track123","name":"Song","preview_url":"https://cdn.example/p.mp3"}`))
	}))
	defer srv.Close()

	url, err := newFastClient(srv.URL).GetPreviewURL(context.Background(), "track123")
	if err != nil {
		t.Fatalf("get preview: %v", err)
	}
	if url != "https://cdn.example/p.mp3" {
		t.Fatalf("url: %q", url)
	}
}

func TestGetPreviewURL_NoneAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"track123","name":"Song","preview_url":null}`))
	}))
	defer srv.Close()

	url, err := newFastClient(srv.URL).GetPreviewURL(context.Background(), "track123")
	if err != nil {
		t.Fatalf("get preview: %v", err)
	}
	if url != "" {
		t.Fatalf("expected empty url, got %q", url)
	}
}
