package validation

import (
	"strings"
	"testing"

	"github.com/skillsenselab/ecgflow/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "ecg-run")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorNumericChecks(t *testing.T) {
	v := New()
	v.Positive("sample_rate", 200).
		PositiveInt("order", 4).
		NonNegativeInt("merge_gap", 0).
		Range("z_thresh", 3.5, 0, 10).
		Min("min_len", 8, 1).
		Max("win", 40, 10000)
	if v.HasErrors() {
		t.Errorf("expected no errors, got %v", v.Errors())
	}

	v2 := New()
	v2.Positive("sample_rate", 0).
		PositiveInt("order", -1).
		NonNegativeInt("merge_gap", -5).
		Range("z_thresh", 15, 0, 10)
	if len(v2.Errors()) != 4 {
		t.Errorf("expected 4 errors, got %v", v2.Errors())
	}
}

func TestValidatorOneOf(t *testing.T) {
	v := New()
	v.OneOf("type", "bandpass", []string{"highpass", "bandpass"})
	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}

	v2 := New()
	v2.OneOf("type", "notch", []string{"highpass", "bandpass"})
	if !v2.HasErrors() {
		t.Error("expected error for disallowed value")
	}

	// Empty values are skipped; pair with Required when mandatory.
	v3 := New()
	v3.OneOf("type", "", []string{"highpass", "bandpass"})
	if v3.HasErrors() {
		t.Error("expected empty value to be skipped")
	}
}

func TestValidatorError(t *testing.T) {
	v := New()
	if err := v.Validate(); err != nil {
		t.Errorf("expected nil error for clean validator, got %v", err)
	}

	v.AddError("sample_rate", "must be greater than 0")
	v.AddError("order", "must be at least 1")
	err := v.Validate()
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if !strings.Contains(err.Error(), "sample_rate") || !strings.Contains(err.Error(), "order") {
		t.Errorf("error message missing fields: %v", err)
	}
	e, _ := errors.AsError(err)
	fields, ok := e.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Errorf("details fields = %v", e.Details["fields"])
	}
}

type structFixture struct {
	SampleRate float64 `mapstructure:"sample_rate" validate:"gt=0"`
	Type       string  `mapstructure:"type" validate:"oneof=highpass bandpass"`
	LowCut     float64 `mapstructure:"low_cut" validate:"gt=0"`
	HighCut    float64 `mapstructure:"high_cut" validate:"gtfield=LowCut"`
	Order      int     `mapstructure:"order" validate:"min=1,max=10"`
}

func TestValidateStruct(t *testing.T) {
	valid := structFixture{SampleRate: 200, Type: "bandpass", LowCut: 0.5, HighCut: 40, Order: 4}
	if err := Validate(valid); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*structFixture)
		wantMsg string
	}{
		{"zero sample rate", func(f *structFixture) { f.SampleRate = 0 }, "sample_rate: must be greater than 0"},
		{"bad type", func(f *structFixture) { f.Type = "notch" }, "type: must be one of: highpass bandpass"},
		{"inverted band", func(f *structFixture) { f.HighCut = 0.1 }, "high_cut: must be greater than low_cut"},
		{"order too high", func(f *structFixture) { f.Order = 11 }, "order: must be at most 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := Validate(f)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
