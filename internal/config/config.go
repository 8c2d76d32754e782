package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for a leasewatch run.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Logging  Logging        `yaml:"logging"`
	Run      RunConfig      `yaml:"run"`
	Sensors  SensorConfig   `yaml:"sensors"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RunConfig controls the historical estimation run: which buildings, which
// dates, where the results go, and how failures are handled.
type RunConfig struct {
	Buildings []int  `yaml:"buildings"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	OutputDir string `yaml:"output_dir"`
	// Overwrite allows reusing a non-empty output directory.
	Overwrite bool `yaml:"overwrite"`
	// OnError is "skip" (log and continue to the next date) or "abort".
	OnError    string `yaml:"on_error"`
	MaxWorkers int    `yaml:"max_workers"`
	// Scanner selects the aggregation strategy by registry name.
	Scanner string `yaml:"scanner"`
}

// SensorConfig curates the sensors used for aggregation.
type SensorConfig struct {
	// Good lists the sensor IDs considered reliable. Empty means use all
	// sensors present in the fetched data.
	Good []int `yaml:"good"`
}

// ScheduleConfig controls obligation schedule loading.
type ScheduleConfig struct {
	// UseDefaultFallback serves the portfolio-default schedule for
	// buildings with no rows in the database instead of failing.
	UseDefaultFallback bool `yaml:"use_default_fallback"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the run parameters a driver cannot proceed without.
func (c *Config) Validate() error {
	if c.Run.OnError != "skip" && c.Run.OnError != "abort" {
		return fmt.Errorf("run.on_error must be \"skip\" or \"abort\", got %q", c.Run.OnError)
	}
	if c.Run.MaxWorkers < 1 {
		return fmt.Errorf("run.max_workers must be at least 1, got %d", c.Run.MaxWorkers)
	}
	return nil
}

// applyDefaults fills in values a config file may reasonably omit.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Run.OnError == "" {
		cfg.Run.OnError = "skip"
	}
	if cfg.Run.MaxWorkers == 0 {
		cfg.Run.MaxWorkers = 1
	}
	if cfg.Run.Scanner == "" {
		cfg.Run.Scanner = "mean-band"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}

	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Run.OutputDir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LEASEWATCH_OVERWRITE"); v != "" {
		cfg.Run.Overwrite = strings.EqualFold(v, "true") || v == "1"
	}
}
