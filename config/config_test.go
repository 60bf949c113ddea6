package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/drifter/input"
	"github.com/lixenwraith/drifter/telemetry"
	"github.com/lixenwraith/drifter/vehicle"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Vehicle, s.Vehicle)
	assert.Equal(t, def.Sim, s.Sim)
	assert.Equal(t, def.Input.KeyboardConfig, s.Input.KeyboardConfig)
	assert.Empty(t, s.Input.Bindings)
	assert.Equal(t, def.Log, s.Log)
	assert.Equal(t, def.Telemetry, s.Telemetry)
	assert.Equal(t, def.Audio, s.Audio)

	assert.Equal(t, 50.0, s.Sim.TickRate)
	assert.Equal(t, 120*time.Millisecond, s.Input.KeyHold)
	assert.Equal(t, "none", s.Telemetry.Backend)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeConfig(t, "drifter.toml", `
[vehicle]
maxSpeed = 120.0
steerAngle = 6.5

[sim]
tickRate = 60.0
arena = 0.0

[input]
keyHold = "200ms"
snap = false

[input.bindings]
handbrake = ["b"]
reset = ["f1"]

[telemetry]
backend = "sqlite"
path = "runs.db"
batchSize = 64
`)
	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120.0, s.Vehicle.MaxSpeed)
	assert.Equal(t, 6.5, s.Vehicle.SteerAngle)
	assert.Equal(t, vehicle.DefaultConfig().Mass, s.Vehicle.Mass, "unset keys keep defaults")
	assert.Equal(t, 60.0, s.Sim.TickRate)
	assert.Zero(t, s.Sim.Arena)
	assert.Equal(t, 200*time.Millisecond, s.Input.KeyHold)
	assert.False(t, s.Input.Snap)
	assert.Equal(t, []string{"b"}, s.Input.Bindings["handbrake"])
	assert.Equal(t, "sqlite", s.Telemetry.Backend)
	assert.Equal(t, "runs.db", s.Telemetry.Path)
	assert.Equal(t, 64, s.Telemetry.BatchSize)

	table, err := s.KeyTable()
	require.NoError(t, err)
	assert.Equal(t, input.IntentHandbrake, table.Lookup(tcell.KeyRune, 'b'))
	assert.Equal(t, input.IntentReset, table.Lookup(tcell.KeyF1, 0))
	assert.Equal(t, input.IntentThrottle, table.Lookup(tcell.KeyUp, 0), "defaults survive the merge")
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeConfig(t, "drifter.json", `{"audio": {"enabled": true, "volume": 0.25}, "log": {"level": "debug"}}`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.True(t, s.Audio.Enabled)
	assert.Equal(t, 0.25, s.Audio.Volume)
	assert.Equal(t, "debug", s.Log.Level)
}

// TestLoad_EnvOverridesFile checks env beats the file and the file beats defaults
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "drifter.toml", "[vehicle]\nmaxSpeed = 120.0\nacceleration = 40.0\n")
	t.Setenv("DRIFTER_VEHICLE_MAXSPEED", "90")
	t.Setenv("DRIFTER_TELEMETRY_BACKEND", "memory")
	t.Setenv("DRIFTER_INPUT_KEYHOLD", "80ms")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90.0, s.Vehicle.MaxSpeed)
	assert.Equal(t, 40.0, s.Vehicle.Acceleration)
	assert.Equal(t, "memory", s.Telemetry.Backend)
	assert.Equal(t, 80*time.Millisecond, s.Input.KeyHold)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// TestLoad_InvalidReportsEverySection collects vehicle and sim problems together
func TestLoad_InvalidReportsEverySection(t *testing.T) {
	path := writeConfig(t, "bad.toml", "[vehicle]\nmass = 10.0\n\n[sim]\ntickRate = 0.0\nmaxCatchUp = 0\n")
	_, err := Load(path)
	require.Error(t, err)

	assert.ErrorIs(t, err, vehicle.ErrConfigRange)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "mass")
	assert.Contains(t, err.Error(), "sim.tickRate")
	assert.Contains(t, err.Error(), "sim.maxCatchUp")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
		target error
	}{
		{"volume", func(s *Settings) { s.Audio.Volume = 1.5 }, ErrInvalid},
		{"arena", func(s *Settings) { s.Sim.Arena = -1 }, ErrInvalid},
		{"key hold", func(s *Settings) { s.Input.KeyHold = 5 * time.Second }, ErrInvalid},
		{"backend", func(s *Settings) { s.Telemetry.Backend = "influx" }, telemetry.ErrUnknownBackend},
		{"batch", func(s *Settings) { s.Telemetry.BatchSize = 0 }, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), tt.target)
		})
	}

	s := Default()
	s.Input.Bindings = map[string][]string{"fly": {"x"}}
	assert.Error(t, s.Validate(), "unknown action")

	assert.NoError(t, Default().Validate())
}
