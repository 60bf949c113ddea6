package engine

import (
	"sync"
	"time"
)

// TimeProvider is the wall-clock source of the scheduler
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider reads the system clock with its monotonic component
type MonotonicTimeProvider struct{}

func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider provides a controllable time source for testing
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{currentTime: startTime}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime jumps the mock clock, backwards included
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
