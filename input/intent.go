// Package input turns keyboard events and scripted timelines into the throttle and
// steer axes the controller consumes, smoothed the way a game engine's virtual axes are.
package input

// Intent discriminates what a key press asks for
type Intent uint8

const (
	IntentNone Intent = iota

	// Axis intents, consumed by Keyboard itself
	IntentThrottle // W, Up
	IntentReverse  // S, Down
	IntentSteerLeft
	IntentSteerRight
	IntentHandbrake // Space: release throttle immediately

	// System intents, returned to the caller
	IntentQuit
	IntentReset
	IntentToggleAudio
	IntentToggleHUD
	IntentToggleRecord
	IntentPause
)

var intentNames = [...]string{
	IntentNone:         "none",
	IntentThrottle:     "throttle",
	IntentReverse:      "reverse",
	IntentSteerLeft:    "steer_left",
	IntentSteerRight:   "steer_right",
	IntentHandbrake:    "handbrake",
	IntentQuit:         "quit",
	IntentReset:        "reset",
	IntentToggleAudio:  "toggle_audio",
	IntentToggleHUD:    "toggle_hud",
	IntentToggleRecord: "toggle_record",
	IntentPause:        "pause",
}

func (i Intent) String() string {
	if int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "unknown"
}

// IsAxis reports whether the intent drives throttle or steer
func (i Intent) IsAxis() bool {
	return i >= IntentThrottle && i <= IntentHandbrake
}

// parseIntent resolves a config action name
func parseIntent(name string) (Intent, bool) {
	for i, n := range intentNames {
		if n == name {
			return Intent(i), true
		}
	}
	return IntentNone, false
}
