// Command drift-sim runs the car headless against a scripted input timeline and
// records telemetry, for tuning and regression runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/drifter/config"
	"github.com/lixenwraith/drifter/engine"
	"github.com/lixenwraith/drifter/input"
	"github.com/lixenwraith/drifter/logging"
	"github.com/lixenwraith/drifter/telemetry"
	"github.com/lixenwraith/drifter/vehicle"
)

const defaultScript = "2s:1,0; 1.5s:1,0.8; 1s:1,-0.8; 2s:0,0"

var (
	configFlag   = flag.String("config", "", "Config file (toml, json, yaml)")
	scriptFlag   = flag.String("script", defaultScript, "Input timeline, \"duration:throttle,steer\" segments separated by ';'")
	ticksFlag    = flag.Int("ticks", 0, "Steps to run, 0 runs the script once")
	dbFlag       = flag.String("db", "", "Record to this SQLite file, overriding the configured backend")
	logLevelFlag = flag.String("log", "", "Log level override: trace, debug, info, warn, error")
	realtimeFlag = flag.Bool("realtime", false, "Pace steps in wall-clock time instead of running flat out")
	dumpFlag     = flag.String("dump", "", "Copy the SQLite telemetry database to this file after the run")
)

func main() {
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config: %v\n", err)
		os.Exit(1)
	}
	if *logLevelFlag != "" {
		settings.Log.Level = *logLevelFlag
	}
	if *dbFlag != "" {
		settings.Telemetry.Backend = "sqlite"
		settings.Telemetry.Path = *dbFlag
	}

	logger, logCloser, err := logging.Setup(settings.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	script, err := input.ParseScript(*scriptFlag)
	if err != nil {
		logger.Error().Err(err).Msg("bad script")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := run(ctx, settings, runOptions{
		Script:   script,
		Ticks:    *ticksFlag,
		Realtime: *realtimeFlag,
		Dump:     *dumpFlag,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("drift-sim failed")
		os.Exit(1)
	}
	sum.print(os.Stdout)
}

type runOptions struct {
	Script   *input.Script
	Ticks    int
	Realtime bool
	// Dump is a file to copy the SQLite database to; other backends reject it
	Dump string
}

// summary aggregates one run for the report
type summary struct {
	RunID    string
	Backend  string
	Ticks    uint64
	Time     float64
	MaxSpeed float64
	Final    engine.Snapshot
	States   map[vehicle.State]uint64
	Stored   int64 // -1 when the backend cannot count
	// Recorded tallies states read back from the backend; nil when it keeps none
	Recorded map[vehicle.State]uint64
	Unknown  int
}

var ErrDumpBackend = errors.New("dump needs the sqlite telemetry backend")

func run(ctx context.Context, settings *config.Settings, ro runOptions, logger zerolog.Logger) (*summary, error) {
	backend, err := telemetry.NewBackend(settings.Telemetry)
	if err != nil {
		return nil, err
	}
	if _, ok := backend.(*telemetry.SQLite); ro.Dump != "" && !ok {
		return nil, ErrDumpBackend
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("telemetry %s: %w", settings.Telemetry.Backend, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn().Err(err).Msg("telemetry close failed")
		}
	}()

	sim, err := engine.NewSimulation(engine.Options{
		Vehicle:         settings.Vehicle,
		TickRate:        settings.Sim.TickRate,
		MaxCatchUp:      settings.Sim.MaxCatchUp,
		ArenaHalfExtent: settings.Sim.Arena,
		Input:           ro.Script,
		Recorder:        backend,
		RecorderName:    settings.Telemetry.Backend,
		Seed:            settings.Sim.Seed,
		Logger:          &logger,
	})
	if err != nil {
		return nil, err
	}

	ticks := ro.Ticks
	if ticks <= 0 {
		ticks = int(ro.Script.Duration().Seconds()*settings.Sim.TickRate + 0.5)
	}
	sum := &summary{
		RunID:   sim.RunID(),
		Backend: settings.Telemetry.Backend,
		States:  make(map[vehicle.State]uint64),
		Stored:  -1,
	}

	if ro.Realtime {
		err = runRealtime(ctx, sim, uint64(ticks), sum)
	} else {
		err = runFlat(ctx, sim, ticks, sum)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	if err := sim.Flush(); err != nil {
		return nil, fmt.Errorf("flush telemetry: %w", err)
	}

	sum.Final = sim.Snapshot()
	sum.Ticks = sum.Final.Tick
	sum.Time = sum.Final.Time
	if err := sum.readBack(backend); err != nil {
		return nil, fmt.Errorf("read telemetry: %w", err)
	}
	if ro.Dump != "" {
		if err := backend.(*telemetry.SQLite).DumpTo(ro.Dump); err != nil {
			return nil, err
		}
		logger.Info().Str("path", ro.Dump).Msg("telemetry dumped")
	}

	logger.Info().
		Uint64("ticks", sum.Ticks).
		Float64("maxSpeed", sum.MaxSpeed).
		Str("finalState", sum.Final.State.String()).
		Msg("run complete")
	return sum, nil
}

// readBack counts what the backend kept for this run and tallies the recorded states
func (sum *summary) readBack(backend telemetry.Backend) error {
	var samples []telemetry.Sample
	switch b := backend.(type) {
	case *telemetry.SQLite:
		n, err := b.Count(sum.RunID)
		if err != nil {
			return err
		}
		sum.Stored = n
		if samples, err = b.Query(sum.RunID, 1, sum.Ticks); err != nil {
			return err
		}
	case *telemetry.Memory:
		sum.Stored = int64(b.Total())
		samples = b.Range(1, sum.Ticks)
	default:
		return nil
	}

	sum.Recorded = make(map[vehicle.State]uint64)
	for _, smp := range samples {
		st, ok := vehicle.ParseState(smp.State)
		if !ok {
			sum.Unknown++
			continue
		}
		sum.Recorded[st]++
	}
	return nil
}

func (sum *summary) observe(snap engine.Snapshot) {
	sum.States[snap.State]++
	sum.MaxSpeed = max(sum.MaxSpeed, snap.Speed)
}

func runFlat(ctx context.Context, sim *engine.Simulation, ticks int, sum *summary) error {
	for range ticks {
		if err := ctx.Err(); err != nil {
			return err
		}
		sim.Step()
		sum.observe(sim.Snapshot())
	}
	return nil
}

// runRealtime lets the scheduler pace the steps and samples state at each frame
func runRealtime(ctx context.Context, sim *engine.Simulation, ticks uint64, sum *summary) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx) }()

	poll := time.NewTicker(sim.Clock().Interval())
	defer poll.Stop()
	for {
		select {
		case err := <-done:
			return err
		case <-poll.C:
			snap := sim.Snapshot()
			sum.observe(snap)
			if snap.Tick >= ticks {
				cancel()
				return <-done
			}
		}
	}
}

func (sum *summary) print(w io.Writer) {
	fmt.Fprintf(w, "run        %s\n", sum.RunID)
	fmt.Fprintf(w, "ticks      %d (%.2fs simulated)\n", sum.Ticks, sum.Time)
	fmt.Fprintf(w, "max speed  %.2f m/s\n", sum.MaxSpeed)
	fmt.Fprintf(w, "final      pos (%.2f, %.2f) hdg %.1f° speed %.2f m/s %s\n",
		sum.Final.Position.X(), sum.Final.Position.Z(), sum.Final.Heading, sum.Final.Speed, sum.Final.State)
	for _, st := range []vehicle.State{vehicle.StateIdle, vehicle.StateRolling, vehicle.StateDrifting, vehicle.StateSpinning} {
		if sum.Recorded != nil {
			fmt.Fprintf(w, "  %-9s %d (%d recorded)\n", st, sum.States[st], sum.Recorded[st])
			continue
		}
		fmt.Fprintf(w, "  %-9s %d\n", st, sum.States[st])
	}
	if sum.Unknown > 0 {
		fmt.Fprintf(w, "  unknown   %d recorded\n", sum.Unknown)
	}
	if sum.Final.Dropped > 0 || sum.Final.RecordErrors > 0 {
		fmt.Fprintf(w, "dropped    %d steps, %d telemetry errors\n", sum.Final.Dropped, sum.Final.RecordErrors)
	}
	if sum.Stored >= 0 {
		fmt.Fprintf(w, "telemetry  %d samples in %s\n", sum.Stored, sum.Backend)
	}
}
