// Package config loads viewer settings from a YAML file and CHESSLENS_*
// environment variables, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit path is given. Its absence is not
// an error.
const DefaultFile = "chesslens.yaml"

type Config struct {
	Window  Window  `yaml:"window"`
	Engine  Engine  `yaml:"engine"`
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
}

type Window struct {
	// Resolution is the edge length of the square board in pixels.
	Resolution int `yaml:"resolution"`
}

type Engine struct {
	// Workers bounds the per-move fan-out. 1 classifies serially.
	Workers int `yaml:"workers"`
	// CacheEntries caps memoised reports. 0 disables the cache.
	CacheEntries int64 `yaml:"cache_entries"`
	// Palette is "four" for the full color set or "three" for the reduced one.
	Palette string `yaml:"palette"`
}

type Storage struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Window: Window{Resolution: 800},
		Engine: Engine{
			Workers:      runtime.GOMAXPROCS(0),
			CacheEntries: 4096,
			Palette:      "four",
		},
		Storage: Storage{Enabled: true},
		Log:     Log{Level: "info", Format: "console"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// DefaultFile when path is empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = DefaultFile
	}
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", file, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == "":
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the viewer cannot run with.
func (c Config) Validate() error {
	if c.Window.Resolution < 160 {
		return fmt.Errorf("window.resolution %d is below 160", c.Window.Resolution)
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be at least 1, got %d", c.Engine.Workers)
	}
	if c.Engine.CacheEntries < 0 {
		return fmt.Errorf("engine.cache_entries must not be negative")
	}
	switch c.Engine.Palette {
	case "four", "three":
	default:
		return fmt.Errorf("engine.palette %q: want four or three", c.Engine.Palette)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q: want console or json", c.Log.Format)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int64) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	var res, workers int64 = int64(cfg.Window.Resolution), int64(cfg.Engine.Workers)
	if err := num("CHESSLENS_RESOLUTION", &res); err != nil {
		return err
	}
	if err := num("CHESSLENS_WORKERS", &workers); err != nil {
		return err
	}
	if err := num("CHESSLENS_CACHE_ENTRIES", &cfg.Engine.CacheEntries); err != nil {
		return err
	}
	cfg.Window.Resolution, cfg.Engine.Workers = int(res), int(workers)

	str("CHESSLENS_PALETTE", &cfg.Engine.Palette)
	str("CHESSLENS_STORAGE_DIR", &cfg.Storage.Dir)
	str("CHESSLENS_LOG_LEVEL", &cfg.Log.Level)
	str("CHESSLENS_LOG_FORMAT", &cfg.Log.Format)
	str("CHESSLENS_LOG_FILE", &cfg.Log.File)

	if v := strings.TrimSpace(getenv("CHESSLENS_STORAGE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CHESSLENS_STORAGE: %w", err)
		}
		cfg.Storage.Enabled = b
	}
	return nil
}
