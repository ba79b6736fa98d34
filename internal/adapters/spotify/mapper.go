package spotify

import (
	"github.com/soundfield/trackboard/internal/core/domain"
)

// mapFeaturesToDomain converts raw Spotify audio features into the domain
// shape. DurationMs is widened to float64 to match the feature model.
func mapFeaturesToDomain(f audioFeatures) domain.AudioFeatures {
	return domain.AudioFeatures{
		Danceability:     f.Danceability,
		Energy:           f.Energy,
		Loudness:         f.Loudness,
		Speechiness:      f.Speechiness,
		Acousticness:     f.Acousticness,
		Instrumentalness: f.Instrumentalness,
		Liveness:         f.Liveness,
		Valence:          f.Valence,
		Tempo:            f.Tempo,
		DurationMs:       float64(f.DurationMs),
	}
}
