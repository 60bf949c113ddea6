package vehicle

// State is the discrete vehicle state consumed by effects and HUDs
type State uint8

const (
	StateIdle State = iota
	StateRolling
	StateDrifting
	// StateSpinning overlays Rolling or Drifting while throttle and steer are both hard over
	StateSpinning
)

var stateNames = [...]string{
	StateIdle:     "idle",
	StateRolling:  "rolling",
	StateDrifting: "drifting",
	StateSpinning: "spinning",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ParseState is the inverse of String, used when reading recorded telemetry
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return StateIdle, false
}
