/*
PURPOSE:
  Defines the configuration structure and loading logic for diabetes-check.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the backend URL, timeouts and output locations.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support .env files and environment overrides (DIABETES_...).

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine, internal/output
  - Dependencies: gopkg.in/yaml.v3, github.com/joho/godotenv

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files fall back to defaults silently.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults should be sensible (e.g., 30s request timeout).

USAGE:
  cfg, err := config.Load("diabetes_check.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct, DefaultConfig() and applyEnv().

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "DIABETES_"

// DefaultFiles are searched, in order, when no --config is given.
var DefaultFiles = []string{"diabetes_check.yaml", "diabetes.yaml"}

// Config represents the full configuration for diabetes-check.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 disables the timeout
	OutputDir      string        `yaml:"output_dir"`
	ReportDir      string        `yaml:"report_dir"`
	// ReviewFields are echoed back under the result for the user to review.
	ReviewFields []string `yaml:"review_fields"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"` // text | json
	// ProbeOnStart runs the /health probe before the first action.
	ProbeOnStart bool `yaml:"probe_on_start"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:8000",
		RequestTimeout: 30 * time.Second,
		OutputDir:      ".",
		ReportDir:      "reports",
		ReviewFields:   []string{"age", "gender", "bmi", "glucose", "hypertensive"},
		LogLevel:       "info",
		LogFormat:      "text",
		ProbeOnStart:   true,
	}
}

// Load reads configuration from a file, then applies .env and environment overrides.
// If path is specified, it attempts to load that file.
// If path is empty, it searches DefaultFiles in order.
// If no file found, defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				break
			}
		}
	}

	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// A missing .env is normal; the process environment is used as-is.
	_ = godotenv.Load()

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays DIABETES_* variables on cfg.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "BASE_URL"); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sREQUEST_TIMEOUT %q: %w", EnvPrefix, v, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup(EnvPrefix + "OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := lookup(EnvPrefix + "REPORT_DIR"); ok && v != "" {
		cfg.ReportDir = v
	}
	if v, ok := lookup(EnvPrefix + "REVIEW_FIELDS"); ok && v != "" {
		cfg.ReviewFields = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = v
	}
	if v, ok := lookup(EnvPrefix + "PROBE_ON_START"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sPROBE_ON_START %q: %w", EnvPrefix, v, err)
		}
		cfg.ProbeOnStart = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Write serializes cfg as YAML to path. It refuses to overwrite unless force is set.
func Write(cfg *Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
