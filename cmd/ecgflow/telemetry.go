package main

import (
	"github.com/skillsenselab/ecgflow/config"
	"github.com/skillsenselab/ecgflow/observability"
)

func tracerConfig(cfg *config.Config) observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Observability.Endpoint,
		Insecure:       cfg.Observability.Insecure,
		SampleRate:     cfg.Observability.SampleRate,
	}
}

func meterConfig(cfg *config.Config) observability.MeterConfig {
	return observability.MeterConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Observability.Endpoint,
		Insecure:       cfg.Observability.Insecure,
		Interval:       cfg.Observability.Interval,
	}
}
