package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/soundfield/trackboard/internal/adapters/dataset"
	"github.com/soundfield/trackboard/internal/adapters/spotify"
	"github.com/soundfield/trackboard/internal/adapters/sqlite"
	"github.com/soundfield/trackboard/internal/core/domain"
	"github.com/soundfield/trackboard/internal/worker"
)

var (
	ingestCSV       string
	ingestTopGenres int
	ingestEnrich    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Validate a Spotify-songs CSV and store it in the local database",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCSV, "csv", "", "path to the CSV file (required)")
	ingestCmd.Flags().IntVar(&ingestTopGenres, "top-genres", -1, "keep only the N most common genres (0 keeps all; overrides config)")
	ingestCmd.Flags().BoolVar(&ingestEnrich, "enrich", false, "backfill missing audio features from the Spotify API")
	_ = ingestCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}

	topGenres := c.IngestTopGenres
	if ingestTopGenres >= 0 {
		topGenres = ingestTopGenres
	}

	tracks, report, err := dataset.LoadFile(ingestCSV, dataset.Options{
		TopGenres:      topGenres,
		KeepIncomplete: ingestEnrich,
	})
	if err != nil {
		return err
	}
	log.Printf("Parsed %s: %d rows, %d kept, %d dropped, %d duplicates",
		ingestCSV, report.Rows, report.Kept, report.Dropped, report.Duplicates)

	repo, err := sqlite.NewAdapter(c.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	ctx := cmd.Context()
	if err := repo.ReplaceAll(ctx, tracks); err != nil {
		return err
	}

	if ingestEnrich {
		if c.SpotifyClientID == "" || c.SpotifyClientSecret == "" {
			return fmt.Errorf("--enrich requires spotify_client_id and spotify_client_secret in config")
		}

		incomplete := 0
		source := spotify.NewClient(c.SpotifyClientID, c.SpotifyClientSecret)
		pool := worker.NewPool(source, repo, 100)
		pool.Start(c.EnrichWorkers)
		for _, t := range tracks {
			if t.Validate() != nil {
				incomplete++
				pool.Submit(worker.Job{TrackID: t.ID})
			}
		}
		pool.Stop()
		log.Printf("Enrichment finished for %d incomplete tracks", incomplete)

		// Enrichment may still leave tracks without required features;
		// those never enter the record store.
		stored, err := repo.All(ctx)
		if err != nil {
			return err
		}
		valid := make([]domain.Track, 0, len(stored))
		for _, t := range stored {
			if t.Validate() == nil {
				valid = append(valid, t)
			}
		}
		if len(valid) != len(stored) {
			log.Printf("Dropping %d tracks still incomplete after enrichment", len(stored)-len(valid))
			if err := repo.ReplaceAll(ctx, valid); err != nil {
				return err
			}
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	log.Printf("💾 Store now holds %d tracks (%s)", count, c.DBPath)
	return nil
}
