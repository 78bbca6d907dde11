package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Pipeline.SampleRate != 200 {
		t.Errorf("sample_rate = %g, want 200", cfg.Pipeline.SampleRate)
	}
	if !cfg.Pipeline.MemoryLean {
		t.Error("memory_lean should default to true")
	}
	if cfg.Pipeline.Filter.Type != "bandpass" {
		t.Errorf("filter.type = %q, want bandpass", cfg.Pipeline.Filter.Type)
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Name != "ecgflow" {
		t.Errorf("name = %q", cfg.Name)
	}
	if !cfg.Debug {
		t.Error("development should set debug")
	}
	if cfg.Pipeline.Outliers.ZThresh != 3.5 {
		t.Errorf("z_thresh = %g, want 3.5", cfg.Pipeline.Outliers.ZThresh)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")
	yamlContent := `
name: ecg-denoiser
environment: staging
pipeline:
  sample_rate: 500
  memory_lean: false
  filter:
    enabled: true
    type: highpass
    low_cut: 0.3
  motions:
    enabled: false
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := Load(&cfg, WithConfigFile(configPath)); err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "ecg-denoiser" || cfg.Environment != "staging" {
		t.Errorf("base = %q/%q", cfg.Name, cfg.Environment)
	}
	if cfg.Pipeline.SampleRate != 500 {
		t.Errorf("sample_rate = %g, want 500", cfg.Pipeline.SampleRate)
	}
	if cfg.Pipeline.MemoryLean {
		t.Error("memory_lean should be overridden to false")
	}
	if cfg.Pipeline.Filter.Type != "highpass" || cfg.Pipeline.Filter.LowCut != 0.3 {
		t.Errorf("filter = %+v", cfg.Pipeline.Filter)
	}
	if cfg.Pipeline.Motions.Enabled {
		t.Error("motions should be disabled")
	}
	// Untouched sections keep their defaults.
	if cfg.Pipeline.Outliers.ZThresh != 3.5 {
		t.Errorf("z_thresh = %g, want default 3.5", cfg.Pipeline.Outliers.ZThresh)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	cfg := Default()
	err := Load(&cfg, WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ECGFLOW_PIPELINE_SAMPLE_RATE", "360")
	t.Setenv("ECGFLOW_NAME", "from-env")

	cfg := Default()
	if err := Load(&cfg, WithFileSystem(&fakeFS{})); err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.SampleRate != 360 {
		t.Errorf("sample_rate = %g, want 360 from env", cfg.Pipeline.SampleRate)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want from-env", cfg.Name)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("ECGFLOW_PIPELINE_OUTLIERS_Z_THRESH=4.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv writes into the process environment.
	t.Cleanup(func() { os.Unsetenv("ECGFLOW_PIPELINE_OUTLIERS_Z_THRESH") })

	cfg := Default()
	if err := Load(&cfg, WithEnvFile(envPath)); err != nil {
		t.Fatal(err)
	}
	if cfg.Pipeline.Outliers.ZThresh != 4.0 {
		t.Errorf("z_thresh = %g, want 4.0 from .env", cfg.Pipeline.Outliers.ZThresh)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"zero sample rate", func(c *Config) { c.Pipeline.SampleRate = 0 }, "pipeline.sample_rate"},
		{"bad filter type", func(c *Config) { c.Pipeline.Filter.Type = "notch" }, "pipeline.filter.type"},
		{"low cut above nyquist", func(c *Config) { c.Pipeline.Filter.LowCut = 150 }, "nyquist"},
		{"inverted band", func(c *Config) {
			c.Pipeline.Filter.LowCut = 50
			c.Pipeline.Filter.HighCut = 40
		}, "pipeline.filter.high_cut"},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, "environment"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad sample ratio", func(c *Config) { c.Observability.SampleRate = 2 }, "observability.sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDisabledSectionsSkipValidation(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.Filter.Enabled = false
	cfg.Pipeline.Filter.LowCut = -1 // nonsense, but the section is off
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// fakeFS reports every file as absent so Load exercises only env layering.
type fakeFS struct{}

func (fakeFS) Exists(string) bool   { return false }
func (fakeFS) LoadEnv(string) error { return nil }
