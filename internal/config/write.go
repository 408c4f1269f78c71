package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the vttseg config directory path.
// Uses $XDG_CONFIG_HOME/vttseg if set, otherwise ~/.config/vttseg.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vttseg")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vttseg")
}

const defaultTOML = `segment_length = 10
output_dir = "~/captions/segments"

[hls]
mpegts = 900000
playlist_name = "playlist.m3u8"

[archive]
enabled = false
dir = "~/captions/archive"

[index]
enabled = true
path = "~/.local/state/vttseg/runs.db"

[watch]
debounce_ms = 250
`

// WriteDefault writes a default config.toml and returns its path.
// Skips if config.toml already exists.
func WriteDefault() (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultTOML), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
