package render

import "github.com/gdamore/tcell/v2"

// Cell is one composited terminal cell; Rune 0 draws as a space
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
	Bold bool
}

var emptyCell = Cell{Fg: RGBBlack, Bg: DefaultBgRGB}

// RenderBuffer composites a frame before it is written to the screen
// Layers draw back to front; background blends, foreground replaces
type RenderBuffer struct {
	cells  []Cell
	width  int
	height int
}

func NewRenderBuffer(width, height int) *RenderBuffer {
	b := &RenderBuffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *RenderBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

func (b *RenderBuffer) Size() (int, int) { return b.width, b.height }

// Clear resets all cells to empty using exponential copy
func (b *RenderBuffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = emptyCell
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

func (b *RenderBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the cell at x,y; out of bounds yields the empty cell
func (b *RenderBuffer) At(x, y int) Cell {
	if !b.inBounds(x, y) {
		return emptyCell
	}
	return b.cells[y*b.width+x]
}

// SetRune replaces the glyph and foreground, keeping the composited background
func (b *RenderBuffer) SetRune(x, y int, r rune, fg RGB) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Rune = r
	c.Fg = fg
}

// BlendBg mixes bg into the cell background by alpha
func (b *RenderBuffer) BlendBg(x, y int, bg RGB, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	c := &b.cells[y*b.width+x]
	c.Bg = c.Bg.Blend(bg, alpha)
}

// SetText writes s left to right, clipped at the right edge
func (b *RenderBuffer) SetText(x, y int, s string, fg, bg RGB, bold bool) int {
	n := 0
	for _, r := range s {
		if b.inBounds(x+n, y) {
			b.cells[y*b.width+x+n] = Cell{Rune: r, Fg: fg, Bg: bg, Bold: bold}
		}
		n++
	}
	return n
}

// Flush writes every cell to the screen; the caller calls Show
func (b *RenderBuffer) Flush(screen tcell.Screen, mode ColorMode) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			style := tcell.StyleDefault.
				Foreground(c.Fg.Tcell(mode)).
				Background(c.Bg.Tcell(mode)).
				Bold(c.Bold)
			screen.SetContent(x, y, r, nil, style)
		}
	}
}
