package render

import (
	"io"
	"os"
)

var (
	seqMouseOff     = []byte("\x1b[?1000l\x1b[?1002l\x1b[?1003l\x1b[?1006l")
	seqCursorShow   = []byte("\x1b[?25h")
	seqAltScreenOff = []byte("\x1b[?1049l")
	seqSGR0         = []byte("\x1b[0m")
	seqAutoWrapOn   = []byte("\x1b[?7h")
)

// EmergencyReset puts the terminal back into a usable state after a crash
// It does not need the tcell screen, which may be the thing that panicked
func EmergencyReset(w io.Writer) {
	for _, seq := range [][]byte{seqMouseOff, seqCursorShow, seqAltScreenOff, seqSGR0, seqAutoWrapOn} {
		_, _ = w.Write(seq)
	}
	if f, ok := w.(*os.File); ok {
		_ = f.Sync()
	}
	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
