package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/ecgflow/logger"
	"github.com/skillsenselab/ecgflow/validation"
)

// ServerConfig configures the HTTP report API.
type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ObservabilityConfig configures OTLP trace and metric export.
type ObservabilityConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio (0.0 to 1.0).
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// OutputConfig configures run artifact writing.
type OutputConfig struct {
	// Dir is the directory run artifacts are written into.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// WriteIntermediates also writes intermediate stage arrays.
	WriteIntermediates bool `yaml:"write_intermediates" mapstructure:"write_intermediates"`
}

// Config is the root service configuration.
type Config struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`

	Pipeline      PipelineConfig      `yaml:"pipeline" mapstructure:"pipeline"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// Default returns a fully populated configuration with canonical defaults.
func Default() Config {
	var logging logger.Config
	logging.ApplyDefaults()
	return Config{
		Name:        "ecgflow",
		Environment: "development",
		Logging:     logging,
		Pipeline:    DefaultPipeline(),
		Output:      OutputConfig{Dir: "out"},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Observability: ObservabilityConfig{
			Endpoint:   "localhost:4318",
			Insecure:   true,
			SampleRate: 1.0,
			Interval:   15 * time.Second,
		},
	}
}

// ApplyDefaults fills zero-valued fields with the canonical defaults.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Name == "" {
		c.Name = def.Name
	}
	if c.Environment == "" {
		c.Environment = def.Environment
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
	if c.Server.Port == 0 {
		c.Server = def.Server
	}
	if c.Observability.Endpoint == "" {
		c.Observability.Endpoint = def.Observability.Endpoint
		c.Observability.Insecure = def.Observability.Insecure
	}
	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = def.Observability.SampleRate
	}
	if c.Observability.Interval == 0 {
		c.Observability.Interval = def.Observability.Interval
	}
	c.Pipeline.ApplyDefaults()
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	v := validation.New()
	v.Required("name", c.Name)
	v.OneOf("environment", c.Environment, []string{"development", "staging", "production"})
	v.PositiveInt("server.port", c.Server.Port).
		Max("server.port", c.Server.Port, 65535)
	v.Range("observability.sample_rate", c.Observability.SampleRate, 0, 1)
	if c.Observability.Enabled {
		v.Required("observability.endpoint", c.Observability.Endpoint)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return nil
}

// Addr returns the server listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
