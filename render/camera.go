package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/drifter/vmath"
)

// Camera maps the XZ ground plane onto cells, +Z up and +X right
type Camera struct {
	Center mgl64.Vec3
	// Scale is cells per metre along a row
	Scale float64
	// Aspect is cell height over cell width; rows cover Aspect times more ground
	Aspect float64
}

// Project returns the cell of a world point on a w by h screen
func (c Camera) Project(p mgl64.Vec3, w, h int) (x, y int) {
	px, pz := vmath.V3XZ(p.Sub(c.Center))
	return w/2 + round(px*c.Scale), h/2 - round(pz*c.Scale/c.Aspect)
}

// Unproject returns the ground point at the centre of cell x,y
func (c Camera) Unproject(x, y, w, h int) mgl64.Vec3 {
	wx := c.Center.X() + float64(x-w/2)/c.Scale
	wz := c.Center.Z() - float64(y-h/2)*c.Aspect/c.Scale
	return mgl64.Vec3{wx, 0, wz}
}

func round(v float64) int { return int(math.Floor(v + 0.5)) }

var headingGlyphs = [8]rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}

// CarGlyph picks the arrow nearest the heading (degrees, 0 = +Z, 90 = +X)
func CarGlyph(heading float64) rune {
	oct := round(heading/45) % 8
	if oct < 0 {
		oct += 8
	}
	return headingGlyphs[oct]
}
