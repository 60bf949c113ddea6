// Package render draws engine snapshots top-down onto a tcell screen.
package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/engine"
	"github.com/lixenwraith/drifter/vehicle"
)

// ViewConfig sets the camera and overlays
type ViewConfig struct {
	Scale  float64 // cells per metre
	Aspect float64
	// Arena is the half extent drawn as a wall, 0 for none
	Arena       float64
	GridSpacing float64 // metres between floor dots
	Mode        ColorMode
}

func DefaultViewConfig() ViewConfig {
	return ViewConfig{Scale: 1, Aspect: 2, GridSpacing: 10, Mode: ColorModeTrueColor}
}

var (
	gridRGB  = RGB{60, 62, 80}
	wallRGB  = RGB{150, 110, 60}
	wheelRGB = RGB{40, 40, 40}
	hudFg    = RGB{220, 220, 230}
	hudBg    = RGB{40, 42, 60}
	helpFg   = RGB{130, 130, 150}

	stateRGB = map[vehicle.State]RGB{
		vehicle.StateIdle:     {230, 230, 230},
		vehicle.StateRolling:  {120, 220, 120},
		vehicle.StateDrifting: {250, 160, 40},
		vehicle.StateSpinning: {230, 80, 230},
	}
)

const helpLine = " arrows/wasd drive  space brake  r reset  p pause  tab hud  ctrl+s audio  ctrl+t record  q quit "

// View owns the frame buffer; Draw runs on the render goroutine only
type View struct {
	cfg ViewConfig
	buf *RenderBuffer

	ShowHUD bool
	// Status is appended to the HUD, e.g. REC or MUTED
	Status string
}

func NewView(cfg ViewConfig) *View {
	def := DefaultViewConfig()
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	if cfg.Aspect <= 0 {
		cfg.Aspect = def.Aspect
	}
	if cfg.GridSpacing <= 0 {
		cfg.GridSpacing = def.GridSpacing
	}
	return &View{cfg: cfg, buf: NewRenderBuffer(0, 0), ShowHUD: true}
}

// Buffer exposes the last composited frame
func (v *View) Buffer() *RenderBuffer { return v.buf }

// Draw composites a snapshot and shows it
func (v *View) Draw(screen tcell.Screen, snap engine.Snapshot) {
	w, h := screen.Size()
	if bw, bh := v.buf.Size(); bw != w || bh != h {
		v.buf.Resize(w, h)
	} else {
		v.buf.Clear()
	}
	cam := Camera{Center: snap.Position, Scale: v.cfg.Scale, Aspect: v.cfg.Aspect}

	v.drawGround(cam, w, h)
	v.drawTrails(cam, w, h, snap.Trails)
	v.drawSmoke(cam, w, h, snap)
	v.drawCar(cam, w, h, snap)
	if v.ShowHUD {
		v.drawHUD(w, h, snap)
	}

	v.buf.Flush(screen, v.cfg.Mode)
	screen.Show()
}

func (v *View) drawGround(cam Camera, w, h int) {
	step := v.cfg.GridSpacing
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := cam.Unproject(x, y, w, h)
			if v.cfg.Arena > 0 && (math.Abs(p.X()) > v.cfg.Arena || math.Abs(p.Z()) > v.cfg.Arena) {
				v.buf.SetRune(x, y, '#', wallRGB)
				continue
			}
			// Dot the cell nearest each grid intersection
			gx := math.Round(p.X()/step) * step
			gz := math.Round(p.Z()/step) * step
			if cx, cy := cam.Project(mgl64.Vec3{gx, 0, gz}, w, h); cx == x && cy == y {
				v.buf.SetRune(x, y, '·', gridRGB)
			}
		}
	}
}

func (v *View) drawTrails(cam Camera, w, h int, trails []engine.TrailView) {
	for _, tr := range trails {
		for _, p := range tr.Points {
			if p.Color.A == 0 {
				continue
			}
			x, y := cam.Project(p.Position, w, h)
			v.buf.BlendBg(x, y, FromNRGBA(p.Color), float64(p.Color.A)/255)
		}
	}
}

func smokeGlyph(alpha uint8) rune {
	switch {
	case alpha < 85:
		return '░'
	case alpha < 170:
		return '▒'
	default:
		return '▓'
	}
}

func (v *View) drawSmoke(cam Camera, w, h int, snap engine.Snapshot) {
	for i := range snap.Smoke {
		p := &snap.Smoke[i]
		a := p.Alpha()
		if a == 0 {
			continue
		}
		x, y := cam.Project(p.Pos, w, h)
		bg := v.buf.At(x, y).Bg
		v.buf.SetRune(x, y, smokeGlyph(a), bg.Blend(FromNRGBA(p.Color), float64(a)/255))
	}
}

func (v *View) drawCar(cam Camera, w, h int, snap engine.Snapshot) {
	for _, wh := range snap.Wheels {
		x, y := cam.Project(wh.Position, w, h)
		v.buf.SetRune(x, y, 'o', wheelRGB)
	}
	x, y := cam.Project(snap.Position, w, h)
	v.buf.SetRune(x, y, CarGlyph(snap.Heading), stateRGB[snap.State])
	if v.buf.inBounds(x, y) {
		v.buf.cells[y*v.buf.width+x].Bold = true
	}
}

// HUDLine is the status text shown on the top row
func HUDLine(snap engine.Snapshot, status string) string {
	line := fmt.Sprintf(" %6.1f m/s  %-8s  ω %7.0f°/s  hdg %4.0f°  t %7.2fs  tick %d",
		snap.Speed, snap.State, snap.WheelOmega, snap.Heading, snap.Time, snap.Tick)
	if snap.Paused {
		line += "  PAUSED"
	}
	if snap.Dropped > 0 {
		line += fmt.Sprintf("  dropped %d", snap.Dropped)
	}
	if status != "" {
		line += "  " + status
	}
	return line + " "
}

func (v *View) drawHUD(w, h int, snap engine.Snapshot) {
	for x := 0; x < w; x++ {
		v.buf.SetText(x, 0, " ", hudFg, hudBg, false)
	}
	v.buf.SetText(0, 0, HUDLine(snap, v.Status), hudFg, hudBg, true)
	if h > 2 {
		v.buf.SetText(0, h-1, helpLine, helpFg, DefaultBgRGB, false)
	}
}
