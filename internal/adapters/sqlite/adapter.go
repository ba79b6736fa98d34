// Package sqlite provides a SQLite-backed implementation of the track
// repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/soundfield/trackboard/internal/core/domain"
	"github.com/soundfield/trackboard/internal/core/ports"
)

// Adapter implements the repository port for SQLite.
type Adapter struct {
	db *sql.DB
}

var _ ports.TrackRepository = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev.
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully.
func (a *Adapter) Close() error {
	return a.db.Close()
}

// All returns every stored track in ingest order.
func (a *Adapter) All(ctx context.Context) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, artist, genre, year, popularity,
			danceability, energy, loudness, speechiness, acousticness,
			instrumentalness, liveness, valence, tempo, duration_ms
		FROM tracks
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var (
			t        domain.Track
			name     sql.NullString
			artist   sql.NullString
			features [10]sql.NullFloat64
		)
		if err := rows.Scan(
			&t.ID, &name, &artist, &t.Genre, &t.Year, &t.Popularity,
			&features[0], &features[1], &features[2], &features[3], &features[4],
			&features[5], &features[6], &features[7], &features[8], &features[9],
		); err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		if name.Valid {
			t.Name = name.String
		}
		if artist.Valid {
			t.Artist = artist.String
		}
		t.Danceability = fromNull(features[0])
		t.Energy = fromNull(features[1])
		t.Loudness = fromNull(features[2])
		t.Speechiness = fromNull(features[3])
		t.Acousticness = fromNull(features[4])
		t.Instrumentalness = fromNull(features[5])
		t.Liveness = fromNull(features[6])
		t.Valence = fromNull(features[7])
		t.Tempo = fromNull(features[8])
		t.DurationMs = fromNull(features[9])
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return tracks, nil
}

// ReplaceAll swaps the stored dataset in one transaction.
func (a *Adapter) ReplaceAll(ctx context.Context, tracks []domain.Track) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Safety net: auto-rollback if we error before commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM tracks"); err != nil {
		return fmt.Errorf("failed to clear tracks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tracks (
			id, name, artist, genre, year, popularity,
			danceability, energy, loudness, speechiness, acousticness,
			instrumentalness, liveness, valence, tempo, duration_ms
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, t := range tracks {
		if _, err := stmt.ExecContext(
			ctx,
			t.ID, t.Name, t.Artist, t.Genre, t.Year, t.Popularity,
			toNull(t.Danceability), toNull(t.Energy), toNull(t.Loudness),
			toNull(t.Speechiness), toNull(t.Acousticness), toNull(t.Instrumentalness),
			toNull(t.Liveness), toNull(t.Valence), toNull(t.Tempo), toNull(t.DurationMs),
		); err != nil {
			return fmt.Errorf("failed to save track %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

// UpdateTrackFeatures backfills the audio features of one track.
func (a *Adapter) UpdateTrackFeatures(ctx context.Context, trackID string, features domain.AudioFeatures) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE tracks
		SET
			danceability = ?,
			energy = ?,
			loudness = ?,
			speechiness = ?,
			acousticness = ?,
			instrumentalness = ?,
			liveness = ?,
			valence = ?,
			tempo = ?,
			duration_ms = ?
		WHERE id = ?
	`,
		toNull(features.Danceability), toNull(features.Energy), toNull(features.Loudness),
		toNull(features.Speechiness), toNull(features.Acousticness), toNull(features.Instrumentalness),
		toNull(features.Liveness), toNull(features.Valence), toNull(features.Tempo),
		toNull(features.DurationMs), trackID,
	)
	if err != nil {
		return fmt.Errorf("failed to update track features: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Count returns the number of stored tracks.
func (a *Adapter) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tracks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return n, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		name TEXT,
		artist TEXT,
		genre TEXT NOT NULL,
		year INTEGER NOT NULL,
		popularity REAL NOT NULL,
		danceability REAL,
		energy REAL,
		loudness REAL,
		speechiness REAL,
		acousticness REAL,
		instrumentalness REAL,
		liveness REAL,
		valence REAL,
		tempo REAL,
		duration_ms REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tracks_genre ON tracks(genre);
	CREATE INDEX IF NOT EXISTS idx_tracks_year ON tracks(year);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}
	return nil
}

// toNull maps a missing (NaN/Inf) feature to SQL NULL.
func toNull(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// fromNull maps SQL NULL back to NaN.
func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
