// Package config loads trackboard configuration from file, environment and
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the global configuration structure.
type Config struct {
	Addr   string `mapstructure:"addr" yaml:"addr"`
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// Engine
	TopGenres  int      `mapstructure:"top_genres" yaml:"top_genres"`
	CoalesceMs int      `mapstructure:"coalesce_ms" yaml:"coalesce_ms"`
	Features   []string `mapstructure:"features" yaml:"features"`

	// Ingest
	IngestTopGenres int `mapstructure:"ingest_top_genres" yaml:"ingest_top_genres"`
	EnrichWorkers   int `mapstructure:"enrich_workers" yaml:"enrich_workers"`

	// Spotify enrichment credentials
	SpotifyClientID     string `mapstructure:"spotify_client_id" yaml:"spotify_client_id"`
	SpotifyClientSecret string `mapstructure:"spotify_client_secret" yaml:"spotify_client_secret"`
}

// CoalesceWindow returns the scheduler's coalescing window.
func (c *Config) CoalesceWindow() time.Duration {
	return time.Duration(c.CoalesceMs) * time.Millisecond
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKBOARD")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "trackboard.db")
	v.SetDefault("top_genres", 10)
	v.SetDefault("coalesce_ms", 200)
	v.SetDefault("features", []string{})
	v.SetDefault("ingest_top_genres", 10)
	v.SetDefault("enrich_workers", 2)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".trackboard")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.trackboard/config.yaml, creating the directory if needed.
func Save(c *Config, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".trackboard")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
