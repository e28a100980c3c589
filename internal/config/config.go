// Package config loads the optional bl2patch YAML configuration file.
//
// A missing file is not an error: Load returns Default(). The file is never
// created automatically.
//
// Example config.yaml:
//
//	app_id: 49520
//	executable: Binaries/Win32/Borderlands2.exe
//	steam_roots:
//	  - /mnt/games/Steam
//	sync: full
//	backup:
//	  enabled: true
//	  dir: ""
//	  keep: 5
//	log:
//	  enabled: false
//	  level: info
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/bl2patch/internal/fsync"
	"github.com/joshuapare/bl2patch/internal/logger"
)

const (
	// DefaultAppID is Borderlands 2's Steam application id.
	DefaultAppID = 49520

	// DefaultExecutable is the game executable relative to the install
	// directory, slash-separated.
	DefaultExecutable = "Binaries/Win32/Borderlands2.exe"

	// FileName is the config file name inside the config directory.
	FileName = "config.yaml"
)

// Config is the on-disk configuration.
type Config struct {
	AppID      int      `yaml:"app_id"`
	Executable string   `yaml:"executable"`
	SteamRoots []string `yaml:"steam_roots,omitempty"`
	Sync       string   `yaml:"sync"`
	Backup     Backup   `yaml:"backup"`
	Log        Log      `yaml:"log"`
}

// Backup configures the copy taken before each write.
type Backup struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Keep    int    `yaml:"keep"`
}

// Log configures the log file.
type Log struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AppID:      DefaultAppID,
		Executable: DefaultExecutable,
		Sync:       fsync.Auto.String(),
		Backup: Backup{
			Enabled: true,
			Keep:    5,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bl2patch/config.yaml, or the
// platform equivalent from os.UserConfigDir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate config directory: %w", err)
	}
	return filepath.Join(dir, "bl2patch", FileName), nil
}

// Load reads path over Default(). Keys absent from the file keep their
// defaults. An empty path means DefaultPath().
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			// No config directory on this system: defaults only.
			logger.Debug("no config directory", "error", err)
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}

	logger.Debug("config loaded", "path", path)
	return cfg, nil
}

// Validate checks field values that the YAML decoder cannot.
func (c Config) Validate() error {
	if c.AppID <= 0 {
		return fmt.Errorf("app_id must be positive, got %d", c.AppID)
	}
	if c.Executable == "" {
		return errors.New("executable must not be empty")
	}
	if _, err := fsync.ParseMode(c.Sync); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// SyncMode returns the parsed sync mode. Call Validate first.
func (c Config) SyncMode() fsync.Mode {
	m, _ := fsync.ParseMode(c.Sync)
	return m
}
