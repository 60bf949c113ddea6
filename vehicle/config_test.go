package vehicle

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
}

// TestValidateRanges checks both bounds are inclusive and NaN is rejected
func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
		ok    bool
	}{
		{"mass low bound", func(c *Config) { c.Mass = 1200 }, "", true},
		{"mass below", func(c *Config) { c.Mass = 1199 }, "mass", false},
		{"mass above", func(c *Config) { c.Mass = 2501 }, "mass", false},
		{"zero acceleration", func(c *Config) { c.Acceleration = 0 }, "", true},
		{"acceleration over", func(c *Config) { c.Acceleration = 200.5 }, "acceleration", false},
		{"max speed negative", func(c *Config) { c.MaxSpeed = -1 }, "maxSpeed", false},
		{"steer 45", func(c *Config) { c.SteerAngle = 45 }, "", true},
		{"steer 46", func(c *Config) { c.SteerAngle = 46 }, "steerAngle", false},
		{"drag too lossy", func(c *Config) { c.DragFactor = 0.8 }, "dragFactor", false},
		{"drag 1", func(c *Config) { c.DragFactor = 1 }, "", true},
		{"traction low", func(c *Config) { c.TractionFactor = 0.4 }, "tractionFactor", false},
		{"wheel tiny", func(c *Config) { c.WheelRadius = 0.05 }, "wheelRadius", false},
		{"smoke NaN", func(c *Config) { c.SmokeSteerThreshold = math.NaN() }, "smokeSteerThreshold", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			err := cfg.Validate()
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrConfigRange) {
				t.Errorf("error %v does not wrap ErrConfigRange", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) || fe.Field != tt.field {
				t.Errorf("field error = %+v, want field %q", fe, tt.field)
			}
		})
	}
}

// TestValidateReportsEveryField ensures all problems surface in one error
func TestValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mass = 10
	cfg.WheelRadius = 5
	err := cfg.Validate()

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConfigError, got %T", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "vehicle config: ") {
		t.Errorf("message prefix: %q", msg)
	}
	if !strings.Contains(msg, "mass=10") || !strings.Contains(msg, "wheelRadius=5") {
		t.Errorf("message missing fields: %q", msg)
	}
	if strings.Contains(msg, "\n") {
		t.Errorf("message should be single line: %q", msg)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSpeed = 1000
	if _, err := newTestRig(cfg); !errors.Is(err, ErrConfigRange) {
		t.Errorf("New error = %v, want ErrConfigRange", err)
	}
}

// TestNewRigErrors covers missing body, nil wheels and wrong wheel count
func TestNewRigErrors(t *testing.T) {
	body := newFakeBody()
	wheels := func(n int) []Wheel {
		out := make([]Wheel, n)
		for i := range out {
			out[i] = &fakeWheel{body: body, offset: wheelOffsets[i%len(wheelOffsets)]}
		}
		return out
	}

	tests := []struct {
		name string
		rig  Rig
		want error
	}{
		{"no body", Rig{Wheels: wheels(4)}, ErrMissingHandle},
		{"three wheels", Rig{Body: body, Wheels: wheels(3)}, ErrWheelCount},
		{"five wheels", Rig{Body: body, Wheels: wheels(5)}, ErrWheelCount},
		{"nil wheel", Rig{Body: body, Wheels: append(wheels(3), nil)}, ErrMissingHandle},
		{"typed-nil body", Rig{Body: (*fakeBody)(nil), Wheels: wheels(4)}, ErrMissingHandle},
		{"typed-nil wheel", Rig{Body: body, Wheels: append(wheels(3), (*fakeWheel)(nil))}, ErrMissingHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultConfig(), tt.rig)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("want *ConfigError, got %T", err)
			}
		})
	}
}

// TestNewCopiesWheelSlice guards against the caller mutating the rig after construction
func TestNewCopiesWheelSlice(t *testing.T) {
	body := newFakeBody()
	src := make([]Wheel, WheelCount)
	for i := range src {
		src[i] = &fakeWheel{body: body, offset: wheelOffsets[i]}
	}
	ctrl, err := New(DefaultConfig(), Rig{Body: body, Wheels: src})
	if err != nil {
		t.Fatal(err)
	}
	src[0] = nil
	ctrl.Tick(dt, 1, 0)
	if ctrl.wheels[0] == nil {
		t.Error("controller wheel list aliases caller slice")
	}
}
