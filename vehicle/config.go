package vehicle

import (
	"errors"
	"fmt"
	"strings"
)

// WheelCount is the fixed number of wheels a rig carries
const WheelCount = 4

var (
	// ErrConfigRange marks a tuning value outside its allowed range
	ErrConfigRange = errors.New("value out of range")
	// ErrMissingHandle marks a required handle that was not supplied
	ErrMissingHandle = errors.New("missing required handle")
	// ErrWheelCount marks a wheel list that is not exactly WheelCount long
	ErrWheelCount = errors.New("wrong wheel count")
)

// Config holds the tuning values, immutable after construction
type Config struct {
	// Mass is written into the rigid body once at construction (kg)
	Mass float64 `mapstructure:"mass"`
	// Acceleration is the longitudinal speed per unit throttle (m/s)
	Acceleration float64 `mapstructure:"acceleration"`
	// MaxSpeed caps velocity magnitude (m/s)
	MaxSpeed float64 `mapstructure:"maxSpeed"`
	// SteerAngle is yaw per tick per unit steer (degrees)
	SteerAngle float64 `mapstructure:"steerAngle"`
	// DragFactor is velocity retention per tick, not scaled by dt
	DragFactor float64 `mapstructure:"dragFactor"`
	// TractionFactor scales the dt-based blend toward pure forward motion
	TractionFactor float64 `mapstructure:"tractionFactor"`
	// WheelRadius in metres, used for spin rate
	WheelRadius float64 `mapstructure:"wheelRadius"`
	// SmokeSteerThreshold is the |steer| above which drift and wheel smoke engage
	SmokeSteerThreshold float64 `mapstructure:"smokeSteerThreshold"`
}

// DefaultConfig returns the stock arcade tuning
func DefaultConfig() Config {
	return Config{
		Mass:                1600,
		Acceleration:        60,
		MaxSpeed:            180,
		SteerAngle:          10,
		DragFactor:          0.99,
		TractionFactor:      0.9,
		WheelRadius:         0.35,
		SmokeSteerThreshold: 0.6,
	}
}

type fieldRange struct {
	name   string
	value  float64
	lo, hi float64
}

func (c Config) ranges() []fieldRange {
	return []fieldRange{
		{"mass", c.Mass, 1200, 2500},
		{"acceleration", c.Acceleration, 0, 200},
		{"maxSpeed", c.MaxSpeed, 0, 300},
		{"steerAngle", c.SteerAngle, 0, 45},
		{"dragFactor", c.DragFactor, 0.9, 1.0},
		{"tractionFactor", c.TractionFactor, 0.5, 1.0},
		{"wheelRadius", c.WheelRadius, 0.1, 1.0},
		{"smokeSteerThreshold", c.SmokeSteerThreshold, 0, 1},
	}
}

// Validate rejects out-of-range values, reporting every offending field
func (c Config) Validate() error {
	var problems []error
	for _, r := range c.ranges() {
		// Negated comparison so NaN is rejected too
		if !(r.value >= r.lo && r.value <= r.hi) {
			problems = append(problems, &FieldError{Field: r.name, Value: r.value, Min: r.lo, Max: r.hi})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ConfigError{Err: errors.Join(problems...)}
}

// FieldError describes one out-of-range tuning value
type FieldError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s=%g not in [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *FieldError) Unwrap() error { return ErrConfigRange }

// ConfigError is the single construction-time error type
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	msg := strings.ReplaceAll(e.Err.Error(), "\n", "; ")
	return "vehicle config: " + msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Rig bundles the borrowed scene handles
type Rig struct {
	Body   RigidBody
	Wheels []Wheel

	// Optional effect sinks, nil entries are skipped
	BodySmoke     Emitter
	WheelSmoke    Emitter
	RegularTrails []Trail
	DriftTrails   []Trail
}

func (r Rig) validate() error {
	var problems []error
	if absent(r.Body) {
		problems = append(problems, fmt.Errorf("body: %w", ErrMissingHandle))
	}
	if len(r.Wheels) != WheelCount {
		problems = append(problems, fmt.Errorf("wheels: got %d, want %d: %w", len(r.Wheels), WheelCount, ErrWheelCount))
	}
	for i, w := range r.Wheels {
		if absent(w) {
			problems = append(problems, fmt.Errorf("wheel %d: %w", i, ErrMissingHandle))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ConfigError{Err: errors.Join(problems...)}
}
