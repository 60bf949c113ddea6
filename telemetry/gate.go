package telemetry

import "sync/atomic"

// Gate forwards samples to a backend only while recording is on
// Toggle may be called from any goroutine
type Gate struct {
	Backend
	on atomic.Bool
}

func NewGate(b Backend, recording bool) *Gate {
	g := &Gate{Backend: b}
	g.on.Store(recording)
	return g
}

func (g *Gate) Record(s Sample) error {
	if !g.on.Load() {
		return nil
	}
	return g.Backend.Record(s)
}

// Recording reports whether samples are being forwarded
func (g *Gate) Recording() bool { return g.on.Load() }

// Toggle flips recording and returns the new state
func (g *Gate) Toggle() bool {
	for {
		cur := g.on.Load()
		if g.on.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}
