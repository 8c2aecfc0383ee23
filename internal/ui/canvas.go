package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/TaskTree/internal/gesture"
	"github.com/josephgoksu/TaskTree/internal/sim"
)

// Glyphs
const (
	glyphNode     = '●'
	glyphExternal = '■'
	glyphSelected = '◉'
	glyphDragged  = '◎'
	glyphGhost    = '◌'
	glyphEdge     = '·'
)

const maxLabel = 18

// projection maps board coordinates onto a cols x rows grid of cells.
type projection struct {
	layout     sim.Layout
	cols, rows int
}

func (p projection) valid() bool {
	return p.cols > 1 && p.rows > 1 && p.layout.Width > 0 && p.layout.Height > 0
}

// toCell returns the cell containing board point (x, y).
func (p projection) toCell(x, y float64) (col, row int) {
	col = int(math.Round((x - p.layout.MinX()) / p.layout.Width * float64(p.cols-1)))
	row = int(math.Round(y / p.layout.Height * float64(p.rows-1)))
	return clampInt(col, 0, p.cols-1), clampInt(row, 0, p.rows-1)
}

// toBoard returns the board point at the centre of a cell.
func (p projection) toBoard(col, row int) (x, y float64) {
	col, row = clampInt(col, 0, p.cols-1), clampInt(row, 0, p.rows-1)
	x = p.layout.MinX() + float64(col)/float64(p.cols-1)*p.layout.Width
	y = float64(row) / float64(p.rows-1) * p.layout.Height
	return x, y
}

// nodeAt returns the node drawn nearest to the cell, within a small radius.
func (p projection) nodeAt(frame sim.Frame, col, row int) (string, bool) {
	best, bestDist := "", math.Inf(1)
	for _, n := range frame.Nodes {
		nc, nr := p.toCell(n.X, n.Y)
		dx, dy := nc-col, nr-row
		if abs(dx) > 2 || abs(dy) > 1 {
			continue
		}
		// cells are roughly twice as tall as they are wide
		d := float64(dx*dx) + float64(4*dy*dy)
		if d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

// onGhost reports whether the cell is on the spawn target.
func (p projection) onGhost(gx, gy float64, col, row int) bool {
	c, r := p.toCell(gx, gy)
	return abs(c-col) <= 2 && abs(r-row) <= 1
}

type cell struct {
	r     rune
	style lipgloss.Style
}

// canvas is a grid of styled runes.
type canvas struct {
	proj  projection
	cells [][]cell
}

// decorations is what the board draws on top of the simulation frame.
type decorations struct {
	highlight  gesture.Highlight
	selected   string
	hovered    string
	dragged    string
	subject    string
	ghost      bool
	ghostX     float64
	ghostY     float64
	showLabels bool
}

func newCanvas(proj projection, frame sim.Frame, hl gesture.Highlight) *canvas {
	c := &canvas{proj: proj, cells: make([][]cell, proj.rows)}
	for row := range c.cells {
		_, y := proj.toBoard(0, row)
		z := frame.Layout.ZoneOf(y)
		bg := lipgloss.NewStyle().Background(zoneBackground(z, zoneLit(z, hl)))
		c.cells[row] = make([]cell, proj.cols)
		for col := range c.cells[row] {
			c.cells[row][col] = cell{r: ' ', style: bg}
		}
	}
	return c
}

func zoneLit(z sim.Zone, hl gesture.Highlight) bool {
	switch z {
	case sim.ZoneComplete:
		return hl.Complete
	case sim.ZoneBlocked:
		return hl.Blocked
	default:
		return hl.Available
	}
}

func (c *canvas) set(col, row int, r rune, fg lipgloss.TerminalColor, bold bool) {
	if row < 0 || row >= len(c.cells) || col < 0 || col >= len(c.cells[row]) {
		return
	}
	cur := c.cells[row][col]
	c.cells[row][col] = cell{r: r, style: cur.style.Foreground(fg).Bold(bold)}
}

func (c *canvas) text(col, row int, s string, fg lipgloss.TerminalColor) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r, fg, false)
	}
}

// label writes s beside the glyph at (col, row), on the left when the right
// edge would cut it off.
func (c *canvas) label(col, row int, s string, fg lipgloss.TerminalColor) {
	n := len([]rune(s))
	if col+2+n > c.proj.cols && col-1-n >= 0 {
		c.text(col-1-n, row, s, fg)
		return
	}
	c.text(col+2, row, s, fg)
}

// line draws an edge with Bresenham's algorithm, leaving the endpoints free.
func (c *canvas) line(c0, r0, c1, r1 int) {
	dx, dy := abs(c1-c0), -abs(r1-r0)
	sx, sy := sign(c1-c0), sign(r1-r0)
	err := dx + dy
	col, row := c0, r0
	for {
		if (col != c0 || row != r0) && (col != c1 || row != r1) {
			c.set(col, row, glyphEdge, ColorEdge, false)
		}
		if col == c1 && row == r1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			col += sx
		}
		if e2 <= dx {
			err += dx
			row += sy
		}
	}
}

// draw renders edges, then labels, then nodes, then the ghost.
func (c *canvas) draw(frame sim.Frame, d decorations) {
	for _, e := range frame.Edges {
		c0, r0 := c.proj.toCell(e.X1, e.Y1)
		c1, r1 := c.proj.toCell(e.X2, e.Y2)
		c.line(c0, r0, c1, r1)
	}

	if d.showLabels {
		for _, n := range frame.Nodes {
			col, row := c.proj.toCell(n.X, n.Y)
			c.label(col, row, truncate(n.Title, maxLabel), ColorSecondary)
		}
	}

	for _, n := range frame.Nodes {
		col, row := c.proj.toCell(n.X, n.Y)
		r := glyphNode
		if n.Shape == sim.ShapeSquare {
			r = glyphExternal
		}
		var fg lipgloss.TerminalColor = nodeForeground(n)
		bold := n.Priority > 0 && n.Priority <= 2
		switch n.ID {
		case d.dragged:
			r, fg, bold = glyphDragged, ColorPrimary, true
		case d.subject:
			fg, bold = ColorWarning, true
		case d.selected:
			r, fg, bold = glyphSelected, ColorPrimary, true
		case d.hovered:
			fg, bold = ColorPrimary, true
		}
		c.set(col, row, r, fg, bold)
		if n.ID == d.hovered && !d.showLabels {
			c.label(col, row, truncate(n.Title, maxLabel), ColorPrimary)
		}
	}

	if d.ghost {
		col, row := c.proj.toCell(d.ghostX, d.ghostY)
		c.set(col, row, glyphGhost, ColorPrimary, true)
		c.label(col, row, "+ new blocker", ColorPrimary)
	}
}

// String renders the canvas, merging runs of identically styled cells.
func (c *canvas) String() string {
	var sb strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle lipgloss.Style
		flush := func() {
			if run.Len() > 0 {
				sb.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for j, cl := range row {
			if j > 0 && !sameStyle(cl.style, runStyle) {
				flush()
			}
			if run.Len() == 0 {
				runStyle = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return sb.String()
}

func sameStyle(a, b lipgloss.Style) bool {
	return a.GetForeground() == b.GetForeground() &&
		a.GetBackground() == b.GetBackground() &&
		a.GetBold() == b.GetBold()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clampInt(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
