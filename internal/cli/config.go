package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/soundfield/trackboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set trackboard configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "addr: %s\n", c.Addr)
		fmt.Fprintf(out, "db_path: %s\n", c.DBPath)
		fmt.Fprintf(out, "top_genres: %d\n", c.TopGenres)
		fmt.Fprintf(out, "coalesce_ms: %d\n", c.CoalesceMs)
		if len(c.Features) > 0 {
			fmt.Fprintf(out, "features: %s\n", strings.Join(c.Features, ","))
		}
		fmt.Fprintf(out, "ingest_top_genres: %d\n", c.IngestTopGenres)
		fmt.Fprintf(out, "enrich_workers: %d\n", c.EnrichWorkers)
		if c.SpotifyClientID != "" {
			fmt.Fprintf(out, "spotify_client_id: %s\n", c.SpotifyClientID)
		}
		if c.SpotifyClientSecret != "" {
			fmt.Fprintf(out, "spotify_client_secret: %s\n", mask(c.SpotifyClientSecret))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "addr":
			cfg.Addr = val
		case "db_path":
			cfg.DBPath = val
		case "top_genres":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for top_genres: %v", val)
			}
			cfg.TopGenres = i
		case "coalesce_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for coalesce_ms: %v", val)
			}
			cfg.CoalesceMs = i
		case "features":
			cfg.Features = splitFeatures(val)
		case "ingest_top_genres":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for ingest_top_genres: %v", val)
			}
			cfg.IngestTopGenres = i
		case "enrich_workers":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for enrich_workers: %v", val)
			}
			cfg.EnrichWorkers = i
		case "spotify_client_id":
			cfg.SpotifyClientID = val
		case "spotify_client_secret":
			cfg.SpotifyClientSecret = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// splitFeatures parses a comma-separated feature list, dropping blanks.
func splitFeatures(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
