package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Library   LibraryConfig   `toml:"library"`
	Songstats SongstatsConfig `toml:"songstats"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Output    OutputConfig    `toml:"output"`
}

// LibraryConfig describes the local media library that tracks are read from.
type LibraryConfig struct {
	Path     string `toml:"path"`     // SQLite library database
	Playlist string `toml:"playlist"` // Playlist holding the year's selection
}

// SongstatsConfig contains Songstats API credentials and limits.
//
// APIKey authenticates with a static header. Enterprise accounts can instead
// set ClientID/ClientSecret for an OAuth2 client-credentials exchange; when
// both are present the OAuth2 flow wins.
type SongstatsConfig struct {
	BaseURL      string  `toml:"base_url"`
	APIKey       string  `toml:"api_key"`
	ClientID     string  `toml:"client_id"`
	ClientSecret string  `toml:"client_secret"`
	TokenURL     string  `toml:"token_url"`
	RateLimit    float64 `toml:"rate_limit"` // Requests per second
}

// PipelineConfig contains pipeline run settings.
type PipelineConfig struct {
	Year           int    `toml:"year"`
	DataDir        string `toml:"data_dir"`
	IncludeYouTube bool   `toml:"include_youtube"`
	CategoriesPath string `toml:"categories_path"` // Category config JSON; empty uses built-in defaults
	Normalizer     string `toml:"normalizer"`      // minmax | zscore | robust
}

// OutputConfig contains export settings.
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.applyDefaults()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyDefaults()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// PlaylistName resolves the configured playlist name, substituting the
// {year} placeholder with the pipeline year.
func (c *Config) PlaylistName() string {
	return strings.ReplaceAll(c.Library.Playlist, "{year}", strconv.Itoa(c.Pipeline.Year))
}

func (c *Config) applyDefaults() {
	if c.Songstats.BaseURL == "" {
		c.Songstats.BaseURL = "https://api.songstats.com/enterprise/v1"
	}
	if c.Songstats.RateLimit <= 0 {
		c.Songstats.RateLimit = 2.0
	}
	if c.Pipeline.DataDir == "" {
		c.Pipeline.DataDir = "data"
	}
	if c.Pipeline.Normalizer == "" {
		c.Pipeline.Normalizer = "minmax"
	}
	if c.Output.Dir == "" {
		c.Output.Dir = filepath.Join(c.Pipeline.DataDir, "output")
	}
}
