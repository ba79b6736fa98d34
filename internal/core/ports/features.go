package ports

import (
	"context"
	"errors"

	"github.com/soundfield/trackboard/internal/core/domain"
)

// ErrFeaturesUnavailable indicates the catalog cannot serve audio features
// for a track (deprecated endpoint, unknown ID). Callers may fall back to
// preview analysis.
var ErrFeaturesUnavailable = errors.New("ports: audio features unavailable")

// FeatureSource supplies audio features for known track IDs at ingest time.
type FeatureSource interface {
	GetAudioFeatures(ctx context.Context, trackID string) (domain.AudioFeatures, error)
	GetPreviewURL(ctx context.Context, trackID string) (string, error)
}
