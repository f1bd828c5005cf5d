// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads chatdeck settings from ~/.chatdeck/config.toml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/chatdeck/internal/util"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// ServerConfig points at the chat backend.
type ServerConfig struct {
	// BaseURL is the backend address, e.g. http://localhost:5000.
	BaseURL string `toml:"base_url"`
	// HealthIntervalSecs is how often the background health probe runs.
	HealthIntervalSecs int `toml:"health_interval_secs"`
}

// StorageConfig controls where the conversation snapshot lives.
type StorageConfig struct {
	// Path of the snapshot file. Empty means ~/.chatdeck/conversations.json.
	Path string `toml:"path"`
}

// UIConfig holds display options.
type UIConfig struct {
	// Markdown renders assistant replies through a terminal markdown
	// renderer when true.
	Markdown bool `toml:"markdown"`
	// SidebarWidth is the conversation list width in columns.
	SidebarWidth int `toml:"sidebar_width"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:            "http://localhost:5000",
			HealthIntervalSecs: 10,
		},
		UI: UIConfig{
			Markdown:     true,
			SidebarWidth: 28,
		},
	}
}

// DefaultPath returns ~/.chatdeck/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck", "config.toml"), nil
}

// Load reads the config file at path. A missing file yields defaults;
// fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults replaces zero values that would break the app.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.HealthIntervalSecs <= 0 {
		c.Server.HealthIntervalSecs = d.Server.HealthIntervalSecs
	}
	if c.UI.SidebarWidth <= 0 {
		c.UI.SidebarWidth = d.UI.SidebarWidth
	}
}

// Save writes the config atomically.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// SnapshotPath resolves the snapshot file location, falling back to the
// default when unset.
func (c *Config) SnapshotPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chatdeck", "conversations.json"), nil
}

var (
	globalMu sync.RWMutex
	global   = Default()
)

// Global returns the process-wide configuration.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = cfg
}

// watchDebounce is how long the watcher waits after the last event
// before reloading. Non-atomic writers fire a Write on truncation and
// again when the content lands; reloading on the first one would
// install a half-written file.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the config whenever the file changes and reports the
// new value through onChange. The returned stop function releases the
// watcher. Editors that replace the file via rename are handled by
// watching the parent directory.
func Watch(path string, onChange func(*Config)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
					fire = timer.C
				} else {
					if !timer.Stop() {
						select {
						case <-fire:
						default:
						}
					}
					timer.Reset(watchDebounce)
				}
			case <-fire:
				timer = nil
				fire = nil
				cfg, err := Load(path)
				if err != nil {
					continue
				}
				SetGlobal(cfg)
				if onChange != nil {
					onChange(cfg)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return watcher.Close, nil
}
