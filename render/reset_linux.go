//go:build linux

package render

import (
	"os"

	"golang.org/x/sys/unix"
)

// resetTerminalMode re-enables echo and canonical input on the controlling tty
// Best-effort; errors ignored
func resetTerminalMode() {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return
	}
	defer tty.Close()
	fd := int(tty.Fd())
	if termios, err := unix.IoctlGetTermios(fd, unix.TCGETS); err == nil {
		termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
		termios.Iflag |= unix.ICRNL
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, termios)
	}
}
