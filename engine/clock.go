package engine

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// Clock is the fixed-step simulation clock
// Tick count and pause flag are safe to read from any goroutine
type Clock struct {
	dt       float64
	interval time.Duration

	tick   atomic.Uint64
	paused atomic.Bool
}

// NewClock derives the step from a tick rate in Hz
func NewClock(tickRate float64) (*Clock, error) {
	if !(tickRate > 0) || math.IsInf(tickRate, 0) || tickRate > 1000 {
		return nil, fmt.Errorf("tick rate %v outside (0, 1000] Hz", tickRate)
	}
	return &Clock{
		dt:       1 / tickRate,
		interval: time.Duration(float64(time.Second) / tickRate),
	}, nil
}

// Dt is the step length in seconds
func (c *Clock) Dt() float64 { return c.dt }

// Interval is the step length as a wall-clock duration
func (c *Clock) Interval() time.Duration { return c.interval }

func (c *Clock) Tick() uint64 { return c.tick.Load() }

// Elapsed is simulated time in seconds
func (c *Clock) Elapsed() float64 { return float64(c.tick.Load()) * c.dt }

func (c *Clock) advance() uint64 { return c.tick.Add(1) }

func (c *Clock) IsPaused() bool { return c.paused.Load() }

// TogglePause flips the pause state and reports the new one
// A paused scheduler issues no steps; Step itself still works
func (c *Clock) TogglePause() bool {
	for {
		p := c.paused.Load()
		if c.paused.CompareAndSwap(p, !p) {
			return !p
		}
	}
}

func (c *Clock) reset() { c.tick.Store(0) }
