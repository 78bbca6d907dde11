package config

import (
	"fmt"

	"github.com/skillsenselab/ecgflow/validation"
)

// FilterConfig configures the band-limiting filter stage.
type FilterConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Type is "highpass" or "bandpass".
	Type string `yaml:"type" mapstructure:"type"`
	// LowCut is the low corner frequency in Hz.
	LowCut float64 `yaml:"low_cut" mapstructure:"low_cut"`
	// HighCut is the high corner frequency in Hz (bandpass only).
	HighCut float64 `yaml:"high_cut" mapstructure:"high_cut"`
	// Order is the filter order per corner.
	Order int `yaml:"order" mapstructure:"order"`
}

// OutliersConfig configures amplitude outlier detection.
type OutliersConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ZThresh is the robust z-score threshold.
	ZThresh float64 `yaml:"z_thresh" mapstructure:"z_thresh"`
	// MinLen pads each hit to at least this many samples.
	MinLen int `yaml:"min_len" mapstructure:"min_len"`
	// MergeGap coalesces hits closer than this many samples.
	MergeGap int `yaml:"merge_gap" mapstructure:"merge_gap"`
}

// RDropoutsConfig configures flat-line (dropout) detection.
type RDropoutsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Win is the rolling window length in samples.
	Win int `yaml:"win" mapstructure:"win"`
	// VarThresh flags windows whose variance falls below it.
	VarThresh float64 `yaml:"var_thresh" mapstructure:"var_thresh"`
	MergeGap  int     `yaml:"merge_gap" mapstructure:"merge_gap"`
}

// MotionsConfig configures motion artifact detection.
type MotionsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	Win     int  `yaml:"win" mapstructure:"win"`
	// StdThresh flags windows whose absolute deviation exceeds it.
	StdThresh float64 `yaml:"std_thresh" mapstructure:"std_thresh"`
	MergeGap  int     `yaml:"merge_gap" mapstructure:"merge_gap"`
}

// PipelineConfig holds the denoising parameters.
type PipelineConfig struct {
	// SampleRate is the signal sampling rate in Hz.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// MemoryLean releases intermediate stage arrays after use.
	MemoryLean bool `yaml:"memory_lean" mapstructure:"memory_lean"`
	// DetectParallelism bounds concurrent detection stages; 0 or 1 keeps
	// detection sequential.
	DetectParallelism int `yaml:"detect_parallelism" mapstructure:"detect_parallelism"`

	Filter    FilterConfig    `yaml:"filter" mapstructure:"filter"`
	Outliers  OutliersConfig  `yaml:"outliers" mapstructure:"outliers"`
	RDropouts RDropoutsConfig `yaml:"rdropouts" mapstructure:"rdropouts"`
	Motions   MotionsConfig   `yaml:"motions" mapstructure:"motions"`
}

// DefaultPipeline returns the canonical ECG denoising parameters.
func DefaultPipeline() PipelineConfig {
	return PipelineConfig{
		SampleRate: 200,
		MemoryLean: true,
		Filter: FilterConfig{
			Enabled: true,
			Type:    "bandpass",
			LowCut:  0.5,
			HighCut: 40.0,
			Order:   4,
		},
		Outliers: OutliersConfig{
			Enabled:  true,
			ZThresh:  3.5,
			MinLen:   8,
			MergeGap: 10,
		},
		RDropouts: RDropoutsConfig{
			Enabled:   true,
			Win:       40,
			VarThresh: 1e-5,
			MergeGap:  10,
		},
		Motions: MotionsConfig{
			Enabled:   true,
			Win:       20,
			StdThresh: 0.15,
			MergeGap:  10,
		},
	}
}

// ApplyDefaults fills zero-valued fields with the canonical parameters.
// Enabled flags are left alone: a disabled section stays disabled.
func (c *PipelineConfig) ApplyDefaults() {
	def := DefaultPipeline()
	if c.SampleRate == 0 {
		c.SampleRate = def.SampleRate
	}
	if c.Filter.Type == "" {
		c.Filter.Type = def.Filter.Type
	}
	if c.Filter.LowCut == 0 {
		c.Filter.LowCut = def.Filter.LowCut
	}
	if c.Filter.HighCut == 0 {
		c.Filter.HighCut = def.Filter.HighCut
	}
	if c.Filter.Order == 0 {
		c.Filter.Order = def.Filter.Order
	}
	if c.Outliers.ZThresh == 0 {
		c.Outliers.ZThresh = def.Outliers.ZThresh
	}
	if c.Outliers.MinLen == 0 {
		c.Outliers.MinLen = def.Outliers.MinLen
	}
	if c.Outliers.MergeGap == 0 {
		c.Outliers.MergeGap = def.Outliers.MergeGap
	}
	if c.RDropouts.Win == 0 {
		c.RDropouts.Win = def.RDropouts.Win
	}
	if c.RDropouts.VarThresh == 0 {
		c.RDropouts.VarThresh = def.RDropouts.VarThresh
	}
	if c.RDropouts.MergeGap == 0 {
		c.RDropouts.MergeGap = def.RDropouts.MergeGap
	}
	if c.Motions.Win == 0 {
		c.Motions.Win = def.Motions.Win
	}
	if c.Motions.StdThresh == 0 {
		c.Motions.StdThresh = def.Motions.StdThresh
	}
	if c.Motions.MergeGap == 0 {
		c.Motions.MergeGap = def.Motions.MergeGap
	}
}

// Validate checks the pipeline parameters.
func (c *PipelineConfig) Validate() error {
	v := validation.New()
	v.Positive("pipeline.sample_rate", c.SampleRate)
	v.NonNegativeInt("pipeline.detect_parallelism", c.DetectParallelism)

	if c.Filter.Enabled {
		nyquist := c.SampleRate / 2
		v.OneOf("pipeline.filter.type", c.Filter.Type, []string{"highpass", "bandpass"})
		v.Positive("pipeline.filter.low_cut", c.Filter.LowCut)
		v.Min("pipeline.filter.order", c.Filter.Order, 1).
			Max("pipeline.filter.order", c.Filter.Order, 10)
		v.Custom(c.Filter.LowCut < nyquist, "pipeline.filter.low_cut",
			fmt.Sprintf("must be below the Nyquist frequency %g Hz", nyquist))
		if c.Filter.Type == "bandpass" {
			v.Custom(c.Filter.HighCut > c.Filter.LowCut, "pipeline.filter.high_cut",
				"must be greater than low_cut")
			v.Custom(c.Filter.HighCut < nyquist, "pipeline.filter.high_cut",
				fmt.Sprintf("must be below the Nyquist frequency %g Hz", nyquist))
		}
	}
	if c.Outliers.Enabled {
		v.Positive("pipeline.outliers.z_thresh", c.Outliers.ZThresh)
		v.PositiveInt("pipeline.outliers.min_len", c.Outliers.MinLen)
		v.NonNegativeInt("pipeline.outliers.merge_gap", c.Outliers.MergeGap)
	}
	if c.RDropouts.Enabled {
		v.PositiveInt("pipeline.rdropouts.win", c.RDropouts.Win)
		v.Positive("pipeline.rdropouts.var_thresh", c.RDropouts.VarThresh)
		v.NonNegativeInt("pipeline.rdropouts.merge_gap", c.RDropouts.MergeGap)
	}
	if c.Motions.Enabled {
		v.PositiveInt("pipeline.motions.win", c.Motions.Win)
		v.Positive("pipeline.motions.std_thresh", c.Motions.StdThresh)
		v.NonNegativeInt("pipeline.motions.merge_gap", c.Motions.MergeGap)
	}
	return v.Validate()
}
