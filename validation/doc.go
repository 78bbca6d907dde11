// Package validation provides input validation for configuration and API
// payloads.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// the usual choice for configuration sections.
//
// # Struct Tag Validation
//
//	type FilterConfig struct {
//	    LowCut  float64 `mapstructure:"low_cut" validate:"gt=0"`
//	    HighCut float64 `mapstructure:"high_cut" validate:"gtfield=LowCut"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Positive("sample_rate", cfg.SampleRate)
//	err := v.Validate()
package validation
