package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all vttseg configuration.
type Config struct {
	SegmentLength float64 `toml:"segment_length"`
	OutputDir     string  `toml:"output_dir"`

	HLS     HLSConfig     `toml:"hls"`
	Archive ArchiveConfig `toml:"archive"`
	Index   IndexConfig   `toml:"index"`
	Watch   WatchConfig   `toml:"watch"`
}

type HLSConfig struct {
	MPEGTS       int    `toml:"mpegts"`
	PlaylistName string `toml:"playlist_name"`
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type IndexConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SegmentLength: 10,
		OutputDir:     "~/captions/segments",
		HLS: HLSConfig{
			MPEGTS:       900000,
			PlaylistName: "playlist.m3u8",
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Dir:     "~/captions/archive",
		},
		Index: IndexConfig{
			Enabled: true,
			Path:    "~/.local/state/vttseg/runs.db",
		},
		Watch: WatchConfig{
			DebounceMS: 250,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	cfg := DefaultConfig()
	cfg.expand()
	return cfg, nil
}

// LoadFile reads config from path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.expand()
	return cfg, nil
}

// Validate rejects settings the segmenter cannot run with.
func (c Config) Validate() error {
	if !(c.SegmentLength > 0) || math.IsInf(c.SegmentLength, 1) {
		return fmt.Errorf("%w: segment_length must be positive, got %v", ErrInvalidConfig, c.SegmentLength)
	}
	if c.HLS.MPEGTS < 0 {
		return fmt.Errorf("%w: hls.mpegts must not be negative, got %d", ErrInvalidConfig, c.HLS.MPEGTS)
	}
	if strings.TrimSpace(c.HLS.PlaylistName) == "" {
		return fmt.Errorf("%w: hls.playlist_name is empty", ErrInvalidConfig)
	}
	if strings.ContainsRune(c.HLS.PlaylistName, filepath.Separator) {
		return fmt.Errorf("%w: hls.playlist_name %q must be a file name", ErrInvalidConfig, c.HLS.PlaylistName)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: watch.debounce_ms must not be negative, got %d", ErrInvalidConfig, c.Watch.DebounceMS)
	}
	return nil
}

func (c *Config) expand() {
	c.OutputDir = expandHome(c.OutputDir)
	c.Archive.Dir = expandHome(c.Archive.Dir)
	c.Index.Path = expandHome(c.Index.Path)
}

// Path returns the config file Load would read, or "" when none exists.
func Path() string {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "vttseg", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "vttseg", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
