package engine

import (
	"context"
	"time"
)

// pacer tracks the next step deadline in wall-clock time
type pacer struct {
	interval   time.Duration
	maxCatchUp int
	deadline   time.Time
}

func newPacer(interval time.Duration, maxCatchUp int, now time.Time) *pacer {
	return &pacer{interval: interval, maxCatchUp: maxCatchUp, deadline: now.Add(interval)}
}

// due reports how many steps to run at now and how many fell past the catch-up cap
// The deadline moves past now either way, so dropped steps are never replayed
func (p *pacer) due(now time.Time) (run, dropped int) {
	if now.Before(p.deadline) {
		return 0, 0
	}
	behind := int(now.Sub(p.deadline)/p.interval) + 1
	run = min(behind, p.maxCatchUp)
	p.deadline = p.deadline.Add(time.Duration(behind) * p.interval)
	return run, behind - run
}

// wait is the sleep until the next deadline, never negative
func (p *pacer) wait(now time.Time) time.Duration {
	return max(p.deadline.Sub(now), 0)
}

// restart re-anchors after a pause so paused time is not caught up
func (p *pacer) restart(now time.Time) {
	p.deadline = now.Add(p.interval)
}

// pump runs the steps due at now
func (s *Simulation) pump(p *pacer, now time.Time) (ran, dropped int) {
	ran, dropped = p.due(now)
	if dropped > 0 {
		s.log.Warn().
			Int("dropped", dropped).
			Int("ran", ran).
			Uint64("tick", s.clock.Tick()).
			Msg("scheduler behind, dropping steps")
		s.met.drop(dropped)
	}
	for range ran {
		s.Step()
	}
	return ran, dropped
}

// Run steps the simulation in real time until ctx is done
// While the clock is paused no steps run and none accumulate
// The returned error is from the final telemetry flush
func (s *Simulation) Run(ctx context.Context) error {
	tp := s.opts.Time
	interval := s.clock.Interval()
	p := newPacer(interval, s.opts.MaxCatchUp, tp.Now())

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	s.log.Info().
		Dur("interval", interval).
		Int("maxCatchUp", s.opts.MaxCatchUp).
		Msg("simulation started")

	wasPaused := false
	for {
		select {
		case <-ctx.Done():
			return s.stop()
		default:
		}

		var sleep time.Duration
		if s.clock.IsPaused() {
			// Longer sleep while paused to save CPU
			wasPaused = true
			sleep = interval * 2
		} else {
			now := tp.Now()
			if wasPaused {
				p.restart(now)
				wasPaused = false
			}
			s.pump(p, now)
			sleep = p.wait(tp.Now())
		}
		if sleep <= 0 {
			continue
		}

		timer.Reset(sleep)
		select {
		case <-ctx.Done():
			return s.stop()
		case <-timer.C:
		}
	}
}

func (s *Simulation) stop() error {
	err := s.Flush()
	s.log.Info().
		Uint64("ticks", s.clock.Tick()).
		Uint64("dropped", s.met.droppedTotal.Load()).
		Msg("simulation stopped")
	return err
}
