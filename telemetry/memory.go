package telemetry

import "sync"

// Memory keeps the most recent samples in a fixed ring
type Memory struct {
	mu    sync.RWMutex
	buf   []Sample
	next  int
	full  bool
	total uint64
}

// NewMemory creates a ring of capacity samples; non-positive capacity means 1
func NewMemory(capacity int) *Memory {
	if capacity < 1 {
		capacity = 1
	}
	return &Memory{buf: make([]Sample, capacity)}
}

func (m *Memory) Init() error  { return nil }
func (m *Memory) Flush() error { return nil }
func (m *Memory) Close() error { return nil }

func (m *Memory) Record(s Sample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buf[m.next] = s
	m.next++
	if m.next == len(m.buf) {
		m.next = 0
		m.full = true
	}
	m.total++
	return nil
}

// Samples returns a copy of the retained samples, oldest first
func (m *Memory) Samples() []Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.full {
		return append([]Sample(nil), m.buf[:m.next]...)
	}
	out := make([]Sample, 0, len(m.buf))
	out = append(out, m.buf[m.next:]...)
	return append(out, m.buf[:m.next]...)
}

// Range returns retained samples with from <= Tick <= to
func (m *Memory) Range(from, to uint64) []Sample {
	var out []Sample
	for _, s := range m.Samples() {
		if s.Tick >= from && s.Tick <= to {
			out = append(out, s)
		}
	}
	return out
}

// Total counts every sample ever recorded, including overwritten ones
func (m *Memory) Total() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total
}
