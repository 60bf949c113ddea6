package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Segment holds throttle and steer constant for Duration
type Segment struct {
	Duration time.Duration
	Throttle float64
	Steer    float64
}

// Script replays a fixed timeline of raw axis values, no smoothing
type Script struct {
	segments []Segment
	// Loop restarts the timeline instead of going idle at the end
	Loop bool

	elapsed float64
	total   float64
}

// NewScript copies segments into a new timeline
func NewScript(segments ...Segment) *Script {
	s := &Script{segments: append([]Segment(nil), segments...)}
	for _, seg := range s.segments {
		s.total += seg.Duration.Seconds()
	}
	return s
}

// Axes returns the values in force at the current time, then advances by dt
// After the end a non-looping script returns zero on both axes
func (s *Script) Axes(dt float64) (throttle, steer float64) {
	if s.total <= 0 {
		return 0, 0
	}
	at := s.elapsed
	if s.Loop {
		at -= s.total * float64(int(at/s.total))
	}
	s.elapsed += dt

	for _, seg := range s.segments {
		d := seg.Duration.Seconds()
		if at < d {
			return seg.Throttle, seg.Steer
		}
		at -= d
	}
	return 0, 0
}

// Done reports whether a non-looping script has run past its last segment
func (s *Script) Done() bool {
	return !s.Loop && s.elapsed >= s.total
}

// Duration is the length of one pass through the timeline
func (s *Script) Duration() time.Duration {
	return time.Duration(s.total * float64(time.Second))
}

// Rewind restarts from the first segment
func (s *Script) Rewind() { s.elapsed = 0 }

// ErrScriptSyntax marks a malformed timeline string
var ErrScriptSyntax = errors.New("script syntax")

// ParseScript reads "duration:throttle,steer" segments separated by ';'
// e.g. "1s:1,0; 500ms:1,1; 2s:0,0"
func ParseScript(text string) (*Script, error) {
	var segs []Segment
	for i, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		durText, axes, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("segment %d %q: missing ':': %w", i, part, ErrScriptSyntax)
		}
		d, err := time.ParseDuration(strings.TrimSpace(durText))
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("segment %d: bad duration %q: %w", i, durText, ErrScriptSyntax)
		}
		tText, sText, ok := strings.Cut(axes, ",")
		if !ok {
			return nil, fmt.Errorf("segment %d %q: want throttle,steer: %w", i, part, ErrScriptSyntax)
		}
		th, err1 := strconv.ParseFloat(strings.TrimSpace(tText), 64)
		st, err2 := strconv.ParseFloat(strings.TrimSpace(sText), 64)
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("segment %d: %w: %w", i, ErrScriptSyntax, err)
		}
		segs = append(segs, Segment{Duration: d, Throttle: th, Steer: st})
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty timeline: %w", ErrScriptSyntax)
	}
	return NewScript(segs...), nil
}
