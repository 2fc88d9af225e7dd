// Package config provides configuration management for the school merge pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources            = errors.New("at least one source is required")
	ErrSourceMissingName    = errors.New("source name is required")
	ErrDuplicateSource      = errors.New("source name must be unique")
	ErrSourceMissingColumns = errors.New("source columns are required")
	ErrSourceMissingKey     = errors.New("source columns must include a column renamed to join.key")
	ErrMissingJoinKey       = errors.New("join.key is required")
	ErrInvalidPercentile    = errors.New("filters percentiles must satisfy 0 <= lower < upper <= 1")
	ErrMissingGradeSentinel = errors.New("filters.grade_sentinel is required when grade_columns are set")
	ErrInvalidExclusion     = errors.New("filters.exclusions entries need a column and at least one value")
	ErrInvalidDelimiter     = errors.New("delimiter must be a single character")
	ErrMissingFeatureColumn = errors.New("features columns must all be set")
	ErrInvalidLogLevel      = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat     = errors.New("logging.format must be 'text' or 'json'")
)

// Source names used by the default configuration.
const (
	SourceOutcomes        = "outcomes"
	SourceCharacteristics = "characteristics"
	SourceCovariates      = "covariates"
	SourcePoverty         = "poverty"
)

// Config represents the complete pipeline configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Join     JoinConfig     `yaml:"join"`
	Features FeaturesConfig `yaml:"features"`
	Sources  []SourceConfig `yaml:"sources"`
	Filters  FiltersConfig  `yaml:"filters"`
}

// SourceConfig describes one input table.
type SourceConfig struct {
	Rename    map[string]string `yaml:"rename"`
	Name      string            `yaml:"name"`
	File      string            `yaml:"file"`
	Delimiter string            `yaml:"delimiter"`
	Sheet     string            `yaml:"sheet"`
	Columns   []string          `yaml:"columns"`
}

// JoinConfig defines the join key. Sources are joined left to right in the
// order they are listed.
type JoinConfig struct {
	Key string `yaml:"key"`
}

// FiltersConfig defines the cleaning rules.
type FiltersConfig struct {
	GradeSentinel   string          `yaml:"grade_sentinel"`
	NullTokens      []string        `yaml:"null_tokens"`
	GradeColumns    []string        `yaml:"grade_columns"`
	Exclusions      []ExclusionRule `yaml:"exclusions"`
	SentinelStrings []string        `yaml:"sentinel_strings"`
	LowerPercentile float64         `yaml:"lower_percentile"`
	UpperPercentile float64         `yaml:"upper_percentile"`
}

// ExclusionRule removes rows whose Column equals any of Values.
type ExclusionRule struct {
	Column string   `yaml:"column"`
	Values []string `yaml:"values"`
}

// FeaturesConfig names the columns the derived features read.
type FeaturesConfig struct {
	Male     string `yaml:"male"`
	Female   string `yaml:"female"`
	Native   string `yaml:"native"`
	Hispanic string `yaml:"hispanic"`
	Black    string `yaml:"black"`
	White    string `yaml:"white"`
	Asian    string `yaml:"asian"`
}

// OutputConfig defines output behavior.
type OutputConfig struct {
	Path      string `yaml:"path"`
	Delimiter string `yaml:"delimiter"`
	BOM       bool   `yaml:"bom"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// LoadConfig loads configuration from a YAML file on top of DefaultConfig.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides logging settings from environment variables such as
// SEDA_LOG_LEVEL when prefix is "SEDA". Unset variables leave values alone.
func (c *Config) ApplyEnv(prefix string) error {
	if err := envconfig.Process(prefix, &c.Logging); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	return c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	if c.Join.Key == "" {
		return ErrMissingJoinKey
	}

	seen := make(map[string]bool, len(c.Sources))

	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingName, i)
		}

		if seen[src.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, src.Name)
		}

		seen[src.Name] = true

		if len(src.Columns) == 0 {
			return fmt.Errorf("%w: %s", ErrSourceMissingColumns, src.Name)
		}

		if !src.exposes(c.Join.Key) {
			return fmt.Errorf("%w: %s", ErrSourceMissingKey, src.Name)
		}

		if src.Delimiter != "" && !singleRune(src.Delimiter) {
			return fmt.Errorf("%w: source %s", ErrInvalidDelimiter, src.Name)
		}
	}

	f := c.Filters
	if f.LowerPercentile < 0 || f.UpperPercentile > 1 || f.LowerPercentile >= f.UpperPercentile {
		return ErrInvalidPercentile
	}

	if len(f.GradeColumns) > 0 && f.GradeSentinel == "" {
		return ErrMissingGradeSentinel
	}

	for i, rule := range f.Exclusions {
		if rule.Column == "" || len(rule.Values) == 0 {
			return fmt.Errorf("%w: exclusions[%d]", ErrInvalidExclusion, i)
		}
	}

	ft := c.Features
	for _, col := range []string{ft.Male, ft.Female, ft.Native, ft.Hispanic, ft.Black, ft.White, ft.Asian} {
		if col == "" {
			return ErrMissingFeatureColumn
		}
	}

	if c.Output.Delimiter != "" && !singleRune(c.Output.Delimiter) {
		return fmt.Errorf("%w: output", ErrInvalidDelimiter)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// SourceNames returns the source names in join order.
func (c *Config) SourceNames() []string {
	names := make([]string, len(c.Sources))
	for i, src := range c.Sources {
		names[i] = src.Name
	}

	return names
}

// DelimiterRune returns the source delimiter, defaulting to a comma.
func (s *SourceConfig) DelimiterRune() rune {
	return delimiterRune(s.Delimiter)
}

// DelimiterRune returns the output delimiter, defaulting to a comma.
func (o *OutputConfig) DelimiterRune() rune {
	return delimiterRune(o.Delimiter)
}

// exposes reports whether the source will carry the named canonical column
// once renamed.
func (s *SourceConfig) exposes(canonical string) bool {
	for _, col := range s.Columns {
		if lower(col) == canonical || s.Rename[lower(col)] == canonical {
			return true
		}
	}

	return false
}

func delimiterRune(s string) rune {
	if s == "" {
		return ','
	}

	r, _ := utf8.DecodeRuneInString(s)

	return r
}

func singleRune(s string) bool {
	return utf8.RuneCountInString(s) == 1
}
