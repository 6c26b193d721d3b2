// Package config loads pinpoint's TOML configuration.
//
// Configuration is optional: every field has a working default, and the
// file is searched at $XDG_CONFIG_HOME/pinpoint/config.toml (falling back
// to ~/.config/pinpoint/config.toml) unless a path is given explicitly.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bailus/pinpoint/pkg/errors"
)

// appName is the directory name used for XDG config lookup.
const appName = "pinpoint"

// Duration is a time.Duration that decodes from TOML strings like "30m".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration.
type Config struct {
	Serve   Serve    `toml:"serve"`
	Cache   CacheCfg `toml:"cache"`
	Overlay Overlay  `toml:"overlay"`
	Demo    Demo     `toml:"demo"`
}

// Serve configures the placement service.
type Serve struct {
	// Listen is the HTTP listen address.
	Listen string `toml:"listen"`

	// Store selects the overlay backend: "memory" or "mongo".
	Store string `toml:"store"`

	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// Overlays optionally seeds the store from an overlay-set JSON file at
	// startup.
	Overlays string `toml:"overlays"`
}

// CacheCfg configures the placement response cache.
type CacheCfg struct {
	// Backend selects the cache: "null", "file", or "redis".
	Backend string `toml:"backend"`

	// Dir is the file-cache directory. Empty uses the XDG cache dir.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TTL is how long placement responses stay cached.
	TTL Duration `toml:"ttl"`
}

// Overlay configures default placement options.
type Overlay struct {
	Anchor          string   `toml:"anchor"`
	OffsetRadius    float64  `toml:"offset_radius"`
	Subpixel        bool     `toml:"subpixel"`
	OccludedOpacity *float64 `toml:"occluded_opacity"`
}

// Demo configures the interactive demo's starting camera.
type Demo struct {
	Lng  float64 `toml:"lng"`
	Lat  float64 `toml:"lat"`
	Zoom float64 `toml:"zoom"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Serve: Serve{
			Listen:        ":8080",
			Store:         "memory",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "pinpoint",
		},
		Cache: CacheCfg{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			TTL:       Duration(time.Hour),
		},
		Demo: Demo{
			Lng:  0,
			Lat:  30,
			Zoom: 2,
		},
	}
}

// Load reads configuration from path, or from the default location when
// path is empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		if path, err = defaultPath(); err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	switch c.Serve.Store {
	case "", "memory", "mongo":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend: %q (must be memory or mongo)", c.Serve.Store)
	}
	switch c.Cache.Backend {
	case "", "null", "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend: %q (must be null, file, or redis)", c.Cache.Backend)
	}
	if c.Overlay.OccludedOpacity != nil {
		if err := errors.ValidateOpacity(*c.Overlay.OccludedOpacity); err != nil {
			return err
		}
	}
	return nil
}

// defaultPath returns the XDG config file path.
func defaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
