// Package config loads Settings from defaults, an optional config file and
// DRIFTER_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lixenwraith/drifter/audio"
	"github.com/lixenwraith/drifter/input"
	"github.com/lixenwraith/drifter/logging"
	"github.com/lixenwraith/drifter/telemetry"
	"github.com/lixenwraith/drifter/vehicle"
)

// EnvPrefix prefixes every environment override, e.g. DRIFTER_SIM_TICKRATE
const EnvPrefix = "DRIFTER"

// SimConfig holds the fixed-step scheduler settings
type SimConfig struct {
	TickRate   float64 `mapstructure:"tickRate"` // Hz
	MaxCatchUp int     `mapstructure:"maxCatchUp"`
	// Arena is the half extent of the square play area, 0 = unbounded
	Arena float64 `mapstructure:"arena"`
	Seed  uint64  `mapstructure:"seed"`
}

// InputConfig is keyboard smoothing plus key binding overrides
type InputConfig struct {
	input.KeyboardConfig `mapstructure:",squash"`
	// Bindings maps action names to key names, merged over the default table
	Bindings map[string][]string `mapstructure:"bindings"`
}

type Settings struct {
	Vehicle   vehicle.Config   `mapstructure:"vehicle"`
	Sim       SimConfig        `mapstructure:"sim"`
	Input     InputConfig      `mapstructure:"input"`
	Log       logging.Config   `mapstructure:"log"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	Audio     audio.Config     `mapstructure:"audio"`
}

// ErrInvalid marks a setting outside its allowed range
var ErrInvalid = errors.New("invalid setting")

func setDefaults(v *viper.Viper) {
	vc := vehicle.DefaultConfig()
	v.SetDefault("vehicle.mass", vc.Mass)
	v.SetDefault("vehicle.acceleration", vc.Acceleration)
	v.SetDefault("vehicle.maxSpeed", vc.MaxSpeed)
	v.SetDefault("vehicle.steerAngle", vc.SteerAngle)
	v.SetDefault("vehicle.dragFactor", vc.DragFactor)
	v.SetDefault("vehicle.tractionFactor", vc.TractionFactor)
	v.SetDefault("vehicle.wheelRadius", vc.WheelRadius)
	v.SetDefault("vehicle.smokeSteerThreshold", vc.SmokeSteerThreshold)

	v.SetDefault("sim.tickRate", 50.0)
	v.SetDefault("sim.maxCatchUp", 5)
	v.SetDefault("sim.arena", 120.0)
	v.SetDefault("sim.seed", 1)

	kc := input.DefaultKeyboardConfig()
	v.SetDefault("input.sensitivity", kc.Sensitivity)
	v.SetDefault("input.gravity", kc.Gravity)
	v.SetDefault("input.snap", kc.Snap)
	v.SetDefault("input.keyHold", kc.KeyHold)
	v.SetDefault("input.bindings", map[string][]string{})

	lc := logging.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.file", lc.File)
	v.SetDefault("log.console", lc.Console)
	v.SetDefault("log.maxSize", lc.MaxSize)

	tc := telemetry.DefaultConfig()
	v.SetDefault("telemetry.backend", tc.Backend)
	v.SetDefault("telemetry.path", tc.Path)
	v.SetDefault("telemetry.batchSize", tc.BatchSize)
	v.SetDefault("telemetry.capacity", tc.Capacity)

	ac := audio.DefaultConfig()
	v.SetDefault("audio.enabled", ac.Enabled)
	v.SetDefault("audio.volume", ac.Volume)
}

// Load reads settings; an empty path skips the config file
// The file format follows its extension (toml, json, yaml)
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the settings Load produces with no file and no environment
func Default() *Settings {
	return &Settings{
		Vehicle:   vehicle.DefaultConfig(),
		Sim:       SimConfig{TickRate: 50, MaxCatchUp: 5, Arena: 120, Seed: 1},
		Input:     InputConfig{KeyboardConfig: input.DefaultKeyboardConfig(), Bindings: map[string][]string{}},
		Log:       logging.DefaultConfig(),
		Telemetry: telemetry.DefaultConfig(),
		Audio:     audio.DefaultConfig(),
	}
}

// Validate checks every section and reports all problems at once
func (s *Settings) Validate() error {
	var problems []error
	if err := s.Vehicle.Validate(); err != nil {
		problems = append(problems, err)
	}

	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(s.Sim.TickRate > 0 && s.Sim.TickRate <= 1000, "sim.tickRate %v outside (0, 1000]", s.Sim.TickRate)
	check(s.Sim.MaxCatchUp >= 1, "sim.maxCatchUp %d below 1", s.Sim.MaxCatchUp)
	check(s.Sim.Arena >= 0, "sim.arena %v is negative", s.Sim.Arena)
	check(s.Input.Sensitivity > 0, "input.sensitivity %v must be positive", s.Input.Sensitivity)
	check(s.Input.Gravity >= 0, "input.gravity %v is negative", s.Input.Gravity)
	check(s.Input.KeyHold >= 0 && s.Input.KeyHold <= 2*time.Second, "input.keyHold %v outside [0, 2s]", s.Input.KeyHold)
	check(s.Audio.Volume >= 0 && s.Audio.Volume <= 1, "audio.volume %v outside [0, 1]", s.Audio.Volume)
	check(s.Telemetry.BatchSize >= 1, "telemetry.batchSize %d below 1", s.Telemetry.BatchSize)
	check(s.Telemetry.Capacity >= 1, "telemetry.capacity %d below 1", s.Telemetry.Capacity)

	if _, err := telemetry.NewBackend(s.Telemetry); err != nil {
		problems = append(problems, err)
	}
	if _, err := s.KeyTable(); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

// KeyTable is the default key table with the configured bindings applied
func (s *Settings) KeyTable() (*input.KeyTable, error) {
	table := input.DefaultKeyTable()
	if len(s.Input.Bindings) == 0 {
		return table, nil
	}
	over, err := input.LoadKeyConfig(s.Input.Bindings)
	if err != nil {
		return nil, err
	}
	table.Merge(over)
	return table, nil
}
