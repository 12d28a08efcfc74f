// Copyright 2024 The OpenFPV Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

// Package config loads the optional TOML configuration of osdtool.
// Every value has a default so a missing file is not an error.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/openfpv/go-osd/overlay"
)

const fontDirEnvVar = "DJI_OSD_FONTS_DIR"

type Config struct {
	Fonts   FontsConfig   `toml:"fonts"`
	Overlay OverlayConfig `toml:"overlay"`
}

type FontsConfig struct {
	Dir   string `toml:"dir"`
	Ident string `toml:"ident"`
}

type OverlayConfig struct {
	MinMarginHorizontal int `toml:"min_margin_horizontal"`
	MinMarginVertical   int `toml:"min_margin_vertical"`
	MinCoveragePercent  int `toml:"min_coverage_percent"`
}

// MinMargins returns the configured minimum overlay margins.
func (c OverlayConfig) MinMargins() overlay.Margins {
	return overlay.Margins{
		Horizontal: c.MinMarginHorizontal,
		Vertical:   c.MinMarginVertical,
	}
}

func DefaultConfig() *Config {
	fontDir := os.Getenv(fontDirEnvVar)
	if fontDir == "" {
		fontDir = "fonts"
	}
	return &Config{
		Fonts: FontsConfig{
			Dir: fontDir,
		},
		Overlay: OverlayConfig{
			MinMarginHorizontal: overlay.DefaultMinMarginHorizontal,
			MinMarginVertical:   overlay.DefaultMinMarginVertical,
			MinCoveragePercent:  overlay.DefaultMinCoveragePercent,
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "osdtool"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration from the default path, returning the
// defaults when no file exists there.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from an explicit path. Values not
// present in the file keep their defaults; a missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
