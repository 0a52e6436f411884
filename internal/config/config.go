// Package config provides configuration loading and validation for the agent.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adhocore/gronx"
	"github.com/go-playground/validator/v10"
)

// Config represents the agent configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Connections
	DatabaseURL  string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	CronSecret   string `json:"cron_secret,omitempty"`    // Shared secret for the job trigger endpoints

	// Server
	Port int `json:"port,omitempty" validate:"min=0,max=65535"`

	// Pipeline knobs
	MaxRetries int `json:"max_retries,omitempty" validate:"min=0,max=10"` // Failures before an ad is skipped
	BatchSize  int `json:"batch_size,omitempty" validate:"min=0,max=500"` // Ads per tagging run

	// Schedules (standard 5-field cron expressions)
	ClassifyCron  string `json:"classify_cron,omitempty"`
	TagImagesCron string `json:"tag_images_cron,omitempty"`
	TagVideosCron string `json:"tag_videos_cron,omitempty"`

	// MediaWorkDir is the scratch directory for downloaded video media
	MediaWorkDir string `json:"media_work_dir,omitempty"`

	// Verbose prints detailed debug information
	Verbose bool `json:"verbose,omitempty"`
}

// Defaults returns the production defaults applied beneath file, env, and
// flag values.
func Defaults() Config {
	return Config{
		Port:          8080,
		MaxRetries:    2,
		BatchSize:     20,
		ClassifyCron:  "0 2 * * *",
		TagImagesCron: "0 */4 * * *",
		TagVideosCron: "30 */6 * * *",
		MediaWorkDir:  filepath.Join(os.TempDir(), "admirror"),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables on the config. Environment values
// win over file values; flags are merged later and win over both.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		c.CronSecret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	return nil
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the
// subcommand; each command checks its own requirements after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	g := gronx.New()
	for name, expr := range map[string]string{
		"classify_cron":   c.ClassifyCron,
		"tag_images_cron": c.TagImagesCron,
		"tag_videos_cron": c.TagVideosCron,
	} {
		if expr != "" && !g.IsValid(expr) {
			return fmt.Errorf("config error: invalid cron expression for %s: %q", name, expr)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.CronSecret == "" {
		result.CronSecret = defaults.CronSecret
	}
	if result.ClassifyCron == "" {
		result.ClassifyCron = defaults.ClassifyCron
	}
	if result.TagImagesCron == "" {
		result.TagImagesCron = defaults.TagImagesCron
	}
	if result.TagVideosCron == "" {
		result.TagVideosCron = defaults.TagVideosCron
	}
	if result.MediaWorkDir == "" {
		result.MediaWorkDir = defaults.MediaWorkDir
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxRetries == 0 {
		result.MaxRetries = defaults.MaxRetries
	}
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
