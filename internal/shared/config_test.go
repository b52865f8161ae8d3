package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[library]
path = "/tmp/library.db"
playlist = "Best of {year}"

[songstats]
api_key = "test-key"
rate_limit = 5.0

[pipeline]
year = 2025
data_dir = "/tmp/data"
normalizer = "zscore"

[output]
dir = "/tmp/out"
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Library.Path != "/tmp/library.db" {
		t.Errorf("library path = %q", config.Library.Path)
	}
	if config.Songstats.APIKey != "test-key" {
		t.Errorf("api key = %q", config.Songstats.APIKey)
	}
	if config.Songstats.RateLimit != 5.0 {
		t.Errorf("rate limit = %v", config.Songstats.RateLimit)
	}
	if config.Pipeline.Year != 2025 {
		t.Errorf("year = %d", config.Pipeline.Year)
	}
	if config.Pipeline.Normalizer != "zscore" {
		t.Errorf("normalizer = %q", config.Pipeline.Normalizer)
	}
	if config.Output.Dir != "/tmp/out" {
		t.Errorf("output dir = %q", config.Output.Dir)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[library]
path = "/tmp/library.db"

[pipeline]
year = 2025
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Songstats.BaseURL != "https://api.songstats.com/enterprise/v1" {
		t.Errorf("base url = %q", config.Songstats.BaseURL)
	}
	if config.Songstats.RateLimit != 2.0 {
		t.Errorf("rate limit = %v", config.Songstats.RateLimit)
	}
	if config.Pipeline.DataDir != "data" {
		t.Errorf("data dir = %q", config.Pipeline.DataDir)
	}
	if config.Pipeline.Normalizer != "minmax" {
		t.Errorf("normalizer = %q", config.Pipeline.Normalizer)
	}
	if config.Output.Dir != filepath.Join("data", "output") {
		t.Errorf("output dir = %q", config.Output.Dir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, ErrMissingConfig) {
		t.Errorf("err = %v, want ErrMissingConfig", err)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := writeConfig(t, "not [valid toml")
	_, err := LoadConfig(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestPlaylistName(t *testing.T) {
	config := &Config{
		Library:  LibraryConfig{Playlist: "Power Rankings {year}"},
		Pipeline: PipelineConfig{Year: 2025},
	}
	if got := config.PlaylistName(); got != "Power Rankings 2025" {
		t.Errorf("PlaylistName() = %q", got)
	}

	config.Library.Playlist = "No Placeholder"
	if got := config.PlaylistName(); got != "No Placeholder" {
		t.Errorf("PlaylistName() = %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Songstats.BaseURL == "" {
		t.Error("default config missing base url")
	}
	if config.Pipeline.Normalizer == "" {
		t.Error("default config missing normalizer")
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := CreateConfigFile(path); err != nil {
		t.Fatalf("CreateConfigFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if err := CreateConfigFile(path); err == nil {
		t.Error("expected error when config file already exists")
	}
}
