// Package cli wires the trackboard commands: serve, ingest and stats.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/soundfield/trackboard/internal/config"
)

var (
	// Global flags
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "trackboard",
	Short: "Trackboard: interactive analytics over a music-track dataset",
	Long: `Trackboard ingests a Spotify-songs CSV and serves an interactive
analytical session: categorical, range and brush filters over the tracks,
with per-genre and per-year aggregates and a feature correlation matrix
recomputed on every filter change.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.trackboard/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// requireConfig guards commands that cannot run without configuration.
func requireConfig() (*cfgpkg.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}
