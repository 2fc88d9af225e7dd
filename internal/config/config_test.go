package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// overrideConfigYAML replaces the sources and tightens the outlier band.
const overrideConfigYAML = `
sources:
  - name: scores
    columns: ["ID", "score"]
    rename:
      id: school_id
  - name: extra
    delimiter: "\t"
    columns: ["school_id", "flag"]
filters:
  lower_percentile: 0.1
  upper_percentile: 0.9
output:
  path: "./out/result.csv"
  bom: true
logging:
  level: "debug"
`

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig is invalid: %v", err)
	}

	want := []string{SourceOutcomes, SourceCharacteristics, SourceCovariates, SourcePoverty}

	got := cfg.SourceNames()
	if len(got) != len(want) {
		t.Fatalf("Expected %d sources, got %d", len(want), len(got))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("source[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDefaultConfig_IsolatedCopies(t *testing.T) {
	a := DefaultConfig()
	a.Filters.NullTokens[0] = "changed"

	b := DefaultConfig()
	if b.Filters.NullTokens[0] != "" {
		t.Errorf("DefaultConfig shares null token storage between calls")
	}
}

func TestLoadConfig_Override(t *testing.T) {
	configPath := createTempConfigFile(t, overrideConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(cfg.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(cfg.Sources))
	}

	extra := cfg.Sources[1]
	if extra.Name != "extra" {
		t.Fatalf("Expected second source 'extra', got %q", extra.Name)
	}

	if extra.DelimiterRune() != '\t' {
		t.Errorf("Expected tab delimiter, got %q", extra.DelimiterRune())
	}

	if cfg.Filters.LowerPercentile != 0.1 || cfg.Filters.UpperPercentile != 0.9 {
		t.Errorf("Expected band 0.1-0.9, got %v-%v", cfg.Filters.LowerPercentile, cfg.Filters.UpperPercentile)
	}

	if !cfg.Output.BOM {
		t.Error("Expected output.bom to be read")
	}

	// Untouched sections keep their defaults.
	if cfg.Filters.GradeSentinel != "N" {
		t.Errorf("Expected default grade sentinel 'N', got %q", cfg.Filters.GradeSentinel)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no sources", func(c *Config) { c.Sources = nil }, ErrNoSources},
		{"no join key", func(c *Config) { c.Join.Key = "" }, ErrMissingJoinKey},
		{"unnamed source", func(c *Config) { c.Sources[1].Name = "" }, ErrSourceMissingName},
		{"duplicate source", func(c *Config) { c.Sources[1].Name = c.Sources[0].Name }, ErrDuplicateSource},
		{"no columns", func(c *Config) { c.Sources[0].Columns = nil }, ErrSourceMissingColumns},
		{"key not exposed", func(c *Config) { delete(c.Sources[3].Rename, "ncessch") }, ErrSourceMissingKey},
		{"bad source delimiter", func(c *Config) { c.Sources[0].Delimiter = ";;" }, ErrInvalidDelimiter},
		{"inverted band", func(c *Config) { c.Filters.LowerPercentile = 0.95; c.Filters.UpperPercentile = 0.05 }, ErrInvalidPercentile},
		{"band above one", func(c *Config) { c.Filters.UpperPercentile = 1.5 }, ErrInvalidPercentile},
		{"grade without sentinel", func(c *Config) { c.Filters.GradeSentinel = "" }, ErrMissingGradeSentinel},
		{"empty exclusion", func(c *Config) { c.Filters.Exclusions[0].Values = nil }, ErrInvalidExclusion},
		{"missing feature column", func(c *Config) { c.Features.Black = "" }, ErrMissingFeatureColumn},
		{"bad output delimiter", func(c *Config) { c.Output.Delimiter = "||" }, ErrInvalidDelimiter},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("SEDA_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv("SEDA"); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected level 'warn', got %q", cfg.Logging.Level)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("Expected unset format to stay 'text', got %q", cfg.Logging.Format)
	}
}

func TestConfig_ApplyEnv_Invalid(t *testing.T) {
	t.Setenv("SEDA_LOG_FORMAT", "xml")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv("SEDA"); !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("Expected ErrInvalidLogFormat, got %v", err)
	}
}

func TestLoadConfig_SampleMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "configs", "sedaplus.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := DefaultConfig()
	for i := range want.Sources {
		want.Sources[i].File = filepath.Join("data", want.Sources[i].File)
	}

	want.Output.Path = filepath.Join("data", want.Output.Path)

	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Sample config drifted from defaults.\nGot:  %+v\nWant: %+v", cfg, want)
	}
}
