package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/effect"
	"github.com/lixenwraith/drifter/engine"
	"github.com/lixenwraith/drifter/vehicle"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func row(s tcell.Screen, y, w int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestCarGlyph(t *testing.T) {
	tests := []struct {
		heading float64
		want    rune
	}{
		{0, '↑'},
		{22, '↑'},
		{44, '↗'},
		{90, '→'},
		{135, '↘'},
		{180, '↓'},
		{-180, '↓'},
		{-90, '←'},
		{-45, '↖'},
	}
	for _, tt := range tests {
		if got := CarGlyph(tt.heading); got != tt.want {
			t.Errorf("CarGlyph(%v) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

// TestCameraRoundTrip checks +Z maps up and rows cover Aspect metres
func TestCameraRoundTrip(t *testing.T) {
	cam := Camera{Scale: 1, Aspect: 2}
	x, y := cam.Project(mgl64.Vec3{5, 0, 4}, 40, 20)
	if x != 25 || y != 8 {
		t.Errorf("Project = %d,%d, want 25,8", x, y)
	}
	if p := cam.Unproject(25, 8, 40, 20); p != (mgl64.Vec3{5, 0, 4}) {
		t.Errorf("Unproject = %v", p)
	}

	cam.Center = mgl64.Vec3{100, 0, 100}
	if x, y := cam.Project(cam.Center, 40, 20); x != 20 || y != 10 {
		t.Errorf("camera centre projects to %d,%d", x, y)
	}
}

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		in   RGB
		want uint8
	}{
		{RGB{0, 0, 0}, 16},
		{RGB{255, 255, 255}, 231},
		{RGB{255, 0, 0}, 196},
		{RGB{0, 0, 255}, 21},
		{RGB{128, 128, 128}, 244},
	}
	for _, tt := range tests {
		if got := RGBTo256(tt.in); got != tt.want {
			t.Errorf("RGBTo256(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBlend(t *testing.T) {
	src := RGB{200, 100, 0}
	if got := RGBBlack.Blend(src, 0.5); got != (RGB{100, 50, 0}) {
		t.Errorf("half blend = %v", got)
	}
	if RGBBlack.Blend(src, 0) != RGBBlack || RGBBlack.Blend(src, 2) != src {
		t.Error("alpha should clamp at the ends")
	}
}

func TestParseColorMode(t *testing.T) {
	if ParseColorMode("256") != ColorMode256 || ParseColorMode("TrueColor") != ColorModeTrueColor {
		t.Error("explicit modes not honoured")
	}
	t.Setenv("COLORTERM", "truecolor")
	if ParseColorMode("auto") != ColorModeTrueColor {
		t.Error("auto should detect COLORTERM")
	}
}

func TestBufferClipsAndClears(t *testing.T) {
	b := NewRenderBuffer(4, 2)
	b.SetRune(-1, 0, 'x', RGBBlack)
	b.SetRune(4, 1, 'x', RGBBlack)
	if n := b.SetText(2, 1, "abc", RGBBlack, RGBBlack, false); n != 3 {
		t.Errorf("SetText advanced %d", n)
	}
	if b.At(3, 1).Rune != 'b' || b.At(2, 1).Rune != 'a' {
		t.Error("text not written")
	}
	b.Clear()
	if b.At(3, 1) != emptyCell {
		t.Error("Clear left content")
	}
	b.Resize(10, 10)
	if w, h := b.Size(); w != 10 || h != 10 || b.At(9, 9) != emptyCell {
		t.Error("Resize should clear to the new size")
	}
}

func baseSnapshot() engine.Snapshot {
	return engine.Snapshot{
		Tick:     3,
		Time:     0.06,
		Speed:    12.5,
		Heading:  90,
		State:    vehicle.StateDrifting,
		Drifting: true,
	}
}

// TestViewDrawsCarAndHUD renders onto a simulation screen and reads it back
func TestViewDrawsCarAndHUD(t *testing.T) {
	screen := newScreen(t, 60, 20)
	v := NewView(ViewConfig{Mode: ColorModeTrueColor})
	v.Status = "REC"
	v.Draw(screen, baseSnapshot())

	if r, _, _, _ := screen.GetContent(30, 10); r != '→' {
		t.Errorf("car glyph = %q, want →", r)
	}
	hud := row(screen, 0, 60)
	for _, want := range []string{"12.5 m/s", "drifting", "tick 3", "REC"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD %q missing %q", hud, want)
		}
	}
	if help := row(screen, 19, 60); !strings.Contains(help, "arrows/wasd") {
		t.Errorf("help line = %q", help)
	}

	v.ShowHUD = false
	v.Draw(screen, baseSnapshot())
	if strings.Contains(row(screen, 0, 60), "m/s") {
		t.Error("HUD drawn while hidden")
	}
}

func TestViewTrailsAndSmoke(t *testing.T) {
	screen := newScreen(t, 40, 20)
	v := NewView(ViewConfig{})

	snap := baseSnapshot()
	snap.Trails = []engine.TrailView{{
		Drift: true,
		Points: []engine.TrailPointView{
			{Position: mgl64.Vec3{3, 0, 0}, Color: color.NRGBA{R: 230, G: 70, B: 30, A: 255}},
			{Position: mgl64.Vec3{6, 0, 0}, Color: color.NRGBA{R: 230, G: 70, B: 30, A: 0}},
		},
	}}
	snap.Smoke = []effect.Particle{{
		Pos:      mgl64.Vec3{0, 0, -4},
		Lifetime: 1,
		Color:    color.NRGBA{R: 230, G: 230, B: 230, A: 220},
	}}
	v.Draw(screen, snap)

	buf := v.Buffer()
	if bg := buf.At(23, 10).Bg; bg != (RGB{230, 70, 30}) {
		t.Errorf("opaque trail bg = %v", bg)
	}
	if bg := buf.At(26, 10).Bg; bg != DefaultBgRGB {
		t.Errorf("transparent trail point drew: %v", bg)
	}
	if r := buf.At(20, 12).Rune; r != '▓' {
		t.Errorf("smoke glyph = %q", r)
	}
}

func TestViewArenaWall(t *testing.T) {
	screen := newScreen(t, 40, 20)
	v := NewView(ViewConfig{Arena: 5})
	v.ShowHUD = false
	v.Draw(screen, baseSnapshot())

	if r, _, _, _ := screen.GetContent(0, 10); r != '#' {
		t.Errorf("outside the arena = %q, want #", r)
	}
	if r, _, _, _ := screen.GetContent(22, 10); r == '#' {
		t.Error("wall drawn inside the arena")
	}
}

func TestEmergencyResetWritesSequences(t *testing.T) {
	var sb strings.Builder
	EmergencyReset(&sb)
	out := sb.String()
	for _, want := range []string{"\x1b[?25h", "\x1b[?1049l", "\x1b[0m"} {
		if !strings.Contains(out, want) {
			t.Errorf("reset output missing %q", want)
		}
	}
}
