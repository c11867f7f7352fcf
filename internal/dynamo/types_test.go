package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"zeros", State{0.0, 0.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
		{"nan state", NaNState(3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	if a[0] != 1 || b[0] != 4 {
		t.Error("arithmetic mutated its operands")
	}

	short := a.Add(State{10})
	if short[0] != 11 || short[1] != 2 || short[2] != 3 {
		t.Errorf("Add with shorter operand: got %v", short)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero horizon", func(c *Config) { c.Horizon = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1 }},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }},
		{"inverted bounds", func(c *Config) { c.MinDt, c.MaxDt = 1, 1e-3 }},
		{"no steps", func(c *Config) { c.MaxSteps = 0 }},
		{"no stall budget", func(c *Config) { c.StallLimit = 0 }},
		{"NaN horizon", func(c *Config) { c.Horizon = math.NaN() }},
		{"infinite horizon", func(c *Config) { c.Horizon = math.Inf(1) }},
		{"NaN dt", func(c *Config) { c.Dt = math.NaN() }},
		{"NaN tolerance", func(c *Config) { c.Tolerance = math.NaN() }},
		{"NaN min dt", func(c *Config) { c.MinDt = math.NaN() }},
		{"NaN max dt", func(c *Config) { c.MaxDt = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrStepTooSmall}
	expected := "step 150 (t=1.5): dynamo: adaptive timestep below minimum"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrStepTooSmall) {
		t.Error("SimulationError does not unwrap to its cause")
	}
}
