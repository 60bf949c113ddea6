package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// KeyboardConfig tunes axis smoothing and key hold
type KeyboardConfig struct {
	Sensitivity float64       `mapstructure:"sensitivity"`
	Gravity     float64       `mapstructure:"gravity"`
	Snap        bool          `mapstructure:"snap"`
	KeyHold     time.Duration `mapstructure:"keyHold"`
}

// DefaultKeyboardConfig matches a typical engine's keyboard axis preset
func DefaultKeyboardConfig() KeyboardConfig {
	return KeyboardConfig{
		Sensitivity: 3,
		Gravity:     3,
		Snap:        true,
		KeyHold:     120 * time.Millisecond,
	}
}

// Keyboard maps key events onto throttle and steer axes
// Terminals report no key release, so a press holds its axis for KeyHold and
// autorepeat keeps extending it
// HandleKey runs on the event goroutine, Axes on the tick goroutine
type Keyboard struct {
	mu    sync.Mutex
	table *KeyTable
	hold  float64

	throttle Axis
	steer    Axis

	// Remaining hold per axis intent, seconds
	held map[Intent]float64
}

// NewKeyboard creates a keyboard source; a nil table uses DefaultKeyTable
func NewKeyboard(cfg KeyboardConfig, table *KeyTable) *Keyboard {
	if table == nil {
		table = DefaultKeyTable()
	}
	return &Keyboard{
		table:    table,
		hold:     cfg.KeyHold.Seconds(),
		throttle: Axis{Sensitivity: cfg.Sensitivity, Gravity: cfg.Gravity, Snap: cfg.Snap},
		steer:    Axis{Sensitivity: cfg.Sensitivity, Gravity: cfg.Gravity, Snap: cfg.Snap},
		held:     make(map[Intent]float64),
	}
}

var opposite = map[Intent]Intent{
	IntentThrottle:   IntentReverse,
	IntentReverse:    IntentThrottle,
	IntentSteerLeft:  IntentSteerRight,
	IntentSteerRight: IntentSteerLeft,
}

// HandleKey records axis presses and returns the resolved intent
// Callers act on system intents and ignore axis ones
func (k *Keyboard) HandleKey(ev *tcell.EventKey) Intent {
	return k.Press(ev.Key(), ev.Rune())
}

// Press is HandleKey without the event wrapper
func (k *Keyboard) Press(key tcell.Key, r rune) Intent {
	intent := k.table.Lookup(key, r)
	if !intent.IsAxis() {
		return intent
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if intent == IntentHandbrake {
		delete(k.held, IntentThrottle)
		delete(k.held, IntentReverse)
		k.throttle.Reset()
		return intent
	}
	delete(k.held, opposite[intent])
	k.held[intent] = k.hold
	return intent
}

// Axes advances the hold timers and smoothing by dt and returns the axis values
func (k *Keyboard) Axes(dt float64) (throttle, steer float64) {
	k.mu.Lock()
	defer k.mu.Unlock()

	var tTarget, sTarget float64
	if k.held[IntentThrottle] > 0 {
		tTarget = 1
	} else if k.held[IntentReverse] > 0 {
		tTarget = -1
	}
	if k.held[IntentSteerRight] > 0 {
		sTarget = 1
	} else if k.held[IntentSteerLeft] > 0 {
		sTarget = -1
	}

	for in, left := range k.held {
		left -= dt
		if left <= 0 {
			delete(k.held, in)
			continue
		}
		k.held[in] = left
	}

	return k.throttle.Update(tTarget, dt), k.steer.Update(sTarget, dt)
}

// Reset releases every key and zeroes both axes
func (k *Keyboard) Reset() {
	k.mu.Lock()
	defer k.mu.Unlock()
	clear(k.held)
	k.throttle.Reset()
	k.steer.Reset()
}
