package render

import (
	"image/color"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack = RGB{0, 0, 0}
	// DefaultBgRGB is the arena floor
	DefaultBgRGB = RGB{26, 27, 38}
)

// FromNRGBA drops alpha; callers blend with it separately
func FromNRGBA(c color.NRGBA) RGB { return RGB{c.R, c.G, c.B} }

// Blend mixes src over dst by alpha in [0,1]
func (dst RGB) Blend(src RGB, alpha float64) RGB {
	if alpha >= 1.0 {
		return src
	}
	if alpha <= 0.0 {
		return dst
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(dst.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(dst.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(dst.B)*inv),
	}
}

// Color cube levels for the 6x6x6 palette (indices 16-231)
var cubeValues = [6]int{0, 95, 135, 175, 215, 255}

func cubeIndex(v int) int {
	best, bestDist := 0, 256
	for i, c := range cubeValues {
		if d := abs(v - c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 finds the nearest xterm-256 palette index
// Near-gray colours may land on the 24-step grayscale ramp (232-255)
func RGBTo256(c RGB) uint8 {
	r, g, b := int(c.R), int(c.G), int(c.B)
	cr, cg, cb := cubeIndex(r), cubeIndex(g), cubeIndex(b)
	cube := 16 + 36*cr + 6*cg + cb

	gray := (r + g + b) / 3
	if max(abs(r-gray), abs(g-gray), abs(b-gray)) >= 10 {
		return uint8(cube)
	}
	switch {
	case gray < 4:
		return 16
	case gray > 243:
		return 231
	}
	grayIdx := min(232+(gray-8)/10, 255)
	level := 8 + (grayIdx-232)*10
	grayDist := abs(r-level) + abs(g-level) + abs(b-level)
	cubeDist := abs(r-cubeValues[cr]) + abs(g-cubeValues[cg]) + abs(b-cubeValues[cb])
	if grayDist < cubeDist {
		return uint8(grayIdx)
	}
	return uint8(cube)
}

// Tcell converts to a tcell colour for the given mode
func (c RGB) Tcell(mode ColorMode) tcell.Color {
	if mode == ColorMode256 {
		return tcell.PaletteColor(int(RGBTo256(c)))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// ParseColorMode resolves the -color flag; anything but 256 or truecolor detects
func ParseColorMode(name string) ColorMode {
	switch strings.ToLower(name) {
	case "256":
		return ColorMode256
	case "truecolor", "true", "24bit":
		return ColorModeTrueColor
	default:
		return DetectColorMode()
	}
}

// DetectColorMode determines terminal color capability from environment
func DetectColorMode() ColorMode {
	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return ColorModeTrueColor
	}
	for _, env := range []string{"KITTY_WINDOW_ID", "KONSOLE_VERSION", "ITERM_SESSION_ID", "ALACRITTY_WINDOW_ID", "WEZTERM_PANE"} {
		if os.Getenv(env) != "" {
			return ColorModeTrueColor
		}
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "truecolor") || strings.Contains(term, "24bit") || strings.Contains(term, "direct") {
		return ColorModeTrueColor
	}
	return ColorMode256
}
