package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundfield/trackboard/internal/adapters/sqlite"
	"github.com/soundfield/trackboard/internal/core/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary statistics for the stored dataset",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}

	repo, err := sqlite.NewAdapter(c.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	tracks, err := repo.All(cmd.Context())
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
	view := engine.Compute()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tracks: %d  Years: %d-%d\n\n",
		view.Summary.Count, view.Summary.YearMin, view.Summary.YearMax)

	fmt.Fprintf(out, "%-20s %8s %10s\n", "GENRE", "TRACKS", "AVG POP")
	for _, g := range view.Genres {
		fmt.Fprintf(out, "%-20s %8d %10.1f\n", g.Genre, g.Count, g.MeanPopularity)
	}

	fmt.Fprintf(out, "\n%-6s %8s %10s\n", "YEAR", "TRACKS", "AVG POP")
	for _, y := range view.Years {
		fmt.Fprintf(out, "%-6d %8d %10.1f\n", y.Year, y.Count, y.MeanPopularity)
	}

	return nil
}
