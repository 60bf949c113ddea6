package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/lixenwraith/drifter/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// simMetrics holds the OTel instruments of one simulation
// The meter comes from the global provider, a no-op unless the host installs one
type simMetrics struct {
	ticks       metric.Int64Counter
	dropped     metric.Int64Counter
	transitions metric.Int64Counter
	recordErrs  metric.Int64Counter
	speed       metric.Float64Histogram
	tickGauge   metric.Int64ObservableGauge

	// Plain counters mirrored for the HUD and tests
	droppedTotal atomic.Uint64
	recordFailed atomic.Uint64
}

func newSimMetrics(clock *Clock) (*simMetrics, error) {
	m := meter()
	sm := &simMetrics{}

	var err error
	sm.ticks, err = m.Int64Counter(
		"drifter.sim.ticks",
		metric.WithDescription("Total fixed steps executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	sm.dropped, err = m.Int64Counter(
		"drifter.sim.ticks.dropped",
		metric.WithDescription("Steps skipped because the scheduler fell behind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	sm.transitions, err = m.Int64Counter(
		"drifter.vehicle.transitions",
		metric.WithDescription("Vehicle state changes"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transitions counter: %w", err)
	}

	sm.recordErrs, err = m.Int64Counter(
		"drifter.telemetry.errors",
		metric.WithDescription("Telemetry samples the backend refused"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry error counter: %w", err)
	}

	sm.speed, err = m.Float64Histogram(
		"drifter.vehicle.speed",
		metric.WithDescription("Vehicle speed per step"),
		metric.WithUnit("m/s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating speed histogram: %w", err)
	}

	sm.tickGauge, err = m.Int64ObservableGauge(
		"drifter.sim.tick",
		metric.WithDescription("Current simulation tick"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick gauge: %w", err)
	}
	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(sm.tickGauge, int64(clock.Tick()))
			return nil
		},
		sm.tickGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering tick callback: %w", err)
	}

	return sm, nil
}

func (sm *simMetrics) step(speed float64) {
	ctx := context.Background()
	sm.ticks.Add(ctx, 1)
	sm.speed.Record(ctx, speed)
}

func (sm *simMetrics) transition(from, to string) {
	sm.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

func (sm *simMetrics) drop(n int) {
	sm.droppedTotal.Add(uint64(n))
	sm.dropped.Add(context.Background(), int64(n))
}

func (sm *simMetrics) recordFailure(backend string) {
	sm.recordFailed.Add(1)
	sm.recordErrs.Add(context.Background(), 1, metric.WithAttributes(attribute.String("backend", backend)))
}
