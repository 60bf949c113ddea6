package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/drifter/telemetry"
)

func TestOpenRecorder(t *testing.T) {
	tests := []struct {
		name        string
		backend     string
		wantName    string
		wantStandby bool
	}{
		{"unset falls back to memory", "", "memory", true},
		{"none falls back to memory", "None", "memory", true},
		{"explicit memory records", "memory", "memory", false},
		{"sqlite records", "sqlite", "sqlite", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := telemetry.DefaultConfig()
			cfg.Backend = tt.backend
			cfg.Path = filepath.Join(t.TempDir(), "drifter.db")

			b, name, standby, err := openRecorder(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = b.Close() })
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantStandby, standby)
		})
	}

	_, _, _, err := openRecorder(telemetry.Config{Backend: "kafka"})
	assert.ErrorIs(t, err, telemetry.ErrUnknownBackend)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "REC  MUTED", status(true, true, false))
	assert.Equal(t, "NO AUDIO", status(false, true, true))
	assert.Empty(t, status(false, false, false))
}
