// Package config loads the luxdeck TOML configuration shared by the
// console commands and the rig daemon.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config is the full configuration tree.
type Config struct {
	// RigURL is where the console finds the rig daemon.
	RigURL string `toml:"rig_url"`
	// RequestTimeoutMS bounds individual console requests.
	RequestTimeoutMS int `toml:"request_timeout_ms"`
	// PushDebounceMS is the editor's quiescence delay before a live push.
	PushDebounceMS int `toml:"push_debounce_ms"`

	Rig Rig `toml:"rig"`
}

// Rig configures the daemon started by `luxdeck serve`.
type Rig struct {
	Listen          string `toml:"listen"`
	DataDir         string `toml:"data_dir"`
	FixturePlanPath string `toml:"fixture_plan"`
	// Universes declares output sizes as universe id -> channel count,
	// used when creating scenes from scratch.
	Universes map[string]int `toml:"universes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		RigURL:           "http://127.0.0.1:8790",
		RequestTimeoutMS: 10_000,
		PushDebounceMS:   70,
		Rig: Rig{
			Listen:    "127.0.0.1:8790",
			DataDir:   filepath.Join(home, ".local", "share", "luxdeck"),
			Universes: map[string]int{"1": 512, "2": 512},
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "luxdeck.toml"
	}

	return filepath.Join(home, ".config", "luxdeck", "config.toml")
}

// Load reads the config at path, layered over defaults. A missing file is
// not an error: the defaults run a single-machine rig out of the box.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate rejects values the rest of the system cannot work with.
func (c *Config) Validate() error {
	if c.RigURL == "" {
		return errors.New("rig_url must not be empty")
	}

	if c.PushDebounceMS <= 0 {
		return errors.New("push_debounce_ms must be positive")
	}

	if c.RequestTimeoutMS <= 0 {
		return errors.New("request_timeout_ms must be positive")
	}

	if c.Rig.Listen == "" {
		return errors.New("rig.listen must not be empty")
	}

	for id, size := range c.Rig.Universes {
		if size <= 0 || size > 512 {
			return fmt.Errorf("rig.universes[%s]: channel count %d out of range (1-512)", id, size)
		}
	}

	return nil
}

// RequestTimeout returns the request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// PushDebounce returns the editor quiescence delay as a duration.
func (c *Config) PushDebounce() time.Duration {
	return time.Duration(c.PushDebounceMS) * time.Millisecond
}

// WriteSample writes the annotated sample config to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}

	return nil
}
