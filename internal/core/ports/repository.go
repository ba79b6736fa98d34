package ports

import (
	"context"
	"errors"

	"github.com/soundfield/trackboard/internal/core/domain"
)

var ErrNotFound = errors.New("ports: not found")

// TrackRepository persists the ingested dataset between sessions. The engine
// reads the whole store once at startup; it never writes back.
type TrackRepository interface {
	All(ctx context.Context) ([]domain.Track, error)
	ReplaceAll(ctx context.Context, tracks []domain.Track) error
	UpdateTrackFeatures(ctx context.Context, trackID string, features domain.AudioFeatures) error
	Count(ctx context.Context) (int, error)
}
