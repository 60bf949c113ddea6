// Command drifter is the interactive terminal sandbox: drive the car with the
// keyboard and watch smoke, skid trails and the HUD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/drifter/audio"
	"github.com/lixenwraith/drifter/config"
	"github.com/lixenwraith/drifter/engine"
	"github.com/lixenwraith/drifter/input"
	"github.com/lixenwraith/drifter/logging"
	"github.com/lixenwraith/drifter/render"
	"github.com/lixenwraith/drifter/telemetry"
)

const (
	frameInterval  = 33 * time.Millisecond
	defaultLogFile = "logs/drifter.log"
)

var (
	configFlag    = flag.String("config", "", "Config file (toml, json, yaml)")
	colorModeFlag = flag.String("color", "auto", "Color mode: auto, truecolor, 256")
	recordFlag    = flag.Bool("record", false, "Start with telemetry recording on")
)

// crash restores the terminal and exits; \r\n keeps raw mode output readable
func crash(who string, r any) {
	render.EmergencyReset(os.Stdout)
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", who, r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			crash("DRIFTER", r)
		}
	}()

	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config: %v\n", err)
		os.Exit(1)
	}

	// The screen owns the terminal, so logs only go to the file
	logCfg := settings.Log
	logCfg.Console = false
	if logCfg.File == "" {
		logCfg.File = defaultLogFile
	}
	logger, logCloser, err := logging.Setup(logCfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(settings, logger); err != nil {
		logger.Error().Err(err).Msg("drifter exited with error")
		fmt.Fprintf(os.Stderr, "drifter: %v\n", err)
		os.Exit(1)
	}
}

func run(settings *config.Settings, logger zerolog.Logger) error {
	sounds, err := audio.Open(settings.Audio)
	if err != nil {
		logger.Warn().Err(err).Msg("continuing without audio")
	}
	defer sounds.Close()

	recorder, name, standby, err := openRecorder(settings.Telemetry)
	if err != nil {
		return err
	}
	gate := telemetry.NewGate(recorder, *recordFlag || !standby)
	defer func() {
		if err := gate.Close(); err != nil {
			logger.Warn().Err(err).Msg("telemetry close failed")
		}
	}()

	table, err := settings.KeyTable()
	if err != nil {
		return err
	}
	kb := input.NewKeyboard(settings.Input.KeyboardConfig, table)

	sim, err := engine.NewSimulation(engine.Options{
		Vehicle:         settings.Vehicle,
		TickRate:        settings.Sim.TickRate,
		MaxCatchUp:      settings.Sim.MaxCatchUp,
		ArenaHalfExtent: settings.Sim.Arena,
		Input:           kb,
		Recorder:        gate,
		RecorderName:    name,
		Squeal:          sounds.Squeal,
		Engine:          sounds.Hum,
		Seed:            settings.Sim.Seed,
		Logger:          &logger,
	})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	view := render.NewView(render.ViewConfig{
		Arena: settings.Sim.Arena,
		Mode:  render.ParseColorMode(*colorModeFlag),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	simDone := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				crash("SIMULATION", r)
			}
		}()
		simDone <- sim.Run(ctx)
	}()

	eventChan := make(chan tcell.Event, 256)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				crash("EVENT POLLER", r)
			}
		}()
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	logger.Info().
		Str("run", sim.RunID()).
		Str("telemetry", name).
		Bool("audio", !sounds.Silent()).
		Msg("drifter started")

	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	muted := false
loop:
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch kb.HandleKey(ev) {
				case input.IntentQuit:
					break loop
				case input.IntentReset:
					kb.Reset()
					if err := sim.Reset(); err != nil {
						return err
					}
				case input.IntentPause:
					if sim.Clock().TogglePause() {
						sounds.Hum.SetLoad(0)
					}
				case input.IntentToggleHUD:
					view.ShowHUD = !view.ShowHUD
				case input.IntentToggleAudio:
					if !sounds.Silent() {
						muted = !sounds.ToggleMute()
					}
				case input.IntentToggleRecord:
					on := gate.Toggle()
					logger.Info().Bool("recording", on).Str("backend", name).Msg("telemetry toggled")
				}
			}

		case <-frameTicker.C:
			view.Status = status(gate.Recording(), muted, sounds.Silent())
			view.Draw(screen, sim.Snapshot())
		}
	}

	cancel()
	if err := <-simDone; err != nil {
		logger.Warn().Err(err).Msg("final telemetry flush failed")
	}
	snap := sim.Snapshot()
	logger.Info().
		Uint64("ticks", snap.Tick).
		Uint64("dropped", snap.Dropped).
		Uint64("recordErrors", snap.RecordErrors).
		Msg("drifter stopped")
	return nil
}

// openRecorder creates and opens the configured backend
// With none configured a memory ring stands by for the record toggle; standby
// reports that substitution so the gate starts closed only in that case
func openRecorder(cfg telemetry.Config) (b telemetry.Backend, name string, standby bool, err error) {
	name = strings.ToLower(cfg.Backend)
	if name == "" || name == "none" {
		name, standby = "memory", true
		cfg.Backend = name
	}
	if b, err = telemetry.NewBackend(cfg); err != nil {
		return nil, "", false, err
	}
	if err = b.Init(); err != nil {
		return nil, "", false, fmt.Errorf("telemetry %s: %w", name, err)
	}
	return b, name, standby, nil
}

func status(recording, muted, silent bool) string {
	var parts []string
	if recording {
		parts = append(parts, "REC")
	}
	switch {
	case silent:
		parts = append(parts, "NO AUDIO")
	case muted:
		parts = append(parts, "MUTED")
	}
	return strings.Join(parts, "  ")
}
