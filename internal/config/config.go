// Package config loads optional user settings from the XDG config dir.
package config

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	// DefaultPolicy is the resolution policy used when --policy is not
	// given: current, incoming or both.
	DefaultPolicy string `toml:"default_policy"`
	// Clipboard copies resolved text to the system clipboard by default.
	Clipboard bool `toml:"clipboard"`
	// HistoryFile overrides the shell history location.
	HistoryFile string `toml:"history_file"`
}

func Default() Config {
	return Config{DefaultPolicy: "current"}
}

// Load reads cmerge/config.toml from the XDG config path. A missing file
// is not an error; defaults are returned.
func Load() (Config, error) {
	path, err := xdg.SearchConfigFile("cmerge/config.toml")
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}
