package engine

import (
	"sync"
	"testing"
	"time"
)

var (
	_ TimeProvider = (*MonotonicTimeProvider)(nil)
	_ TimeProvider = (*MockTimeProvider)(nil)
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	if d := provider.Now().Sub(t1); d < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", d)
	}
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	if !mock.Now().Equal(start) {
		t.Errorf("initial time = %v, want %v", mock.Now(), start)
	}
	mock.Advance(20 * time.Millisecond)
	mock.Advance(20 * time.Millisecond)
	if got := mock.Now().Sub(start); got != 40*time.Millisecond {
		t.Errorf("advanced %v, want 40ms", got)
	}
	mock.SetTime(start)
	if !mock.Now().Equal(start) {
		t.Error("SetTime should jump back")
	}
}

// TestMockTimeProviderConcurrency advances from several goroutines
func TestMockTimeProviderConcurrency(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				mock.Advance(time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				_ = mock.Now()
			}
		}()
	}
	wg.Wait()

	if got := mock.Now().Sub(start); got != 250*time.Millisecond {
		t.Errorf("advanced %v, want 250ms", got)
	}
}
