package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundfield/trackboard/internal/adapters/dataset"
	"github.com/soundfield/trackboard/internal/adapters/rest"
	"github.com/soundfield/trackboard/internal/adapters/sqlite"
	"github.com/soundfield/trackboard/internal/core/domain"
	"github.com/soundfield/trackboard/internal/core/services"
)

var (
	serveAddr string
	serveCSV  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive analytics session over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveCSV, "csv", "", "serve directly from a CSV file instead of the database")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	addr := c.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	tracks, err := loadTracks(cmd.Context(), c.DBPath, serveCSV)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no tracks in the store; run 'trackboard ingest --csv <file>' first")
	}

	engine := services.NewEngine(tracks, services.Config{
		Features:  c.Features,
		TopGenres: c.TopGenres,
	})
	sched := services.NewScheduler(engine, c.CoalesceWindow(), nil)
	sched.Start()
	defer sched.Stop()

	handler := rest.NewHandler(sched)

	log.Println("------------------------------------------------")
	log.Printf("🎶 Trackboard is running on http://localhost%s (%d tracks)", addr, engine.StoreSize())
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
	return nil
}

// loadTracks reads the dataset either from a CSV directly or from the
// SQLite store.
func loadTracks(ctx context.Context, dbPath, csvPath string) ([]domain.Track, error) {
	if csvPath != "" {
		tracks, report, err := dataset.LoadFile(csvPath, dataset.Options{})
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %d tracks from %s (%d rows, %d dropped, %d duplicates)",
			report.Kept, csvPath, report.Rows, report.Dropped, report.Duplicates)
		return tracks, nil
	}

	repo, err := sqlite.NewAdapter(dbPath)
	if err != nil {
		return nil, err
	}
	defer repo.Close()
	return repo.All(ctx)
}
