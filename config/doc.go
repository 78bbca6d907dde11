// Package config loads and validates the service configuration.
//
// Configuration comes from three layers, later layers overriding earlier
// ones: a YAML file (config.yml), a .env file, and process environment
// variables. The pipeline section mirrors the denoising parameters
// (sampling rate, filter band, detector thresholds); every section has
// working defaults so an empty file is a valid configuration.
//
// Example:
//
//	cfg := config.Default()
//	if err := config.Load(&cfg, config.WithConfigFile(path)); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
