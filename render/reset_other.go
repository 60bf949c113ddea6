//go:build !linux

package render

func resetTerminalMode() {}
