package viz

import (
	"math"
	"strings"

	"github.com/san-kum/spinbottle/internal/angle"
)

// Braille cell dot bits, indexed [row][col] within the 2x4 cell:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells addressed in sub-pixels, two per cell
// across and four down, origin top left. Polar helpers measure angles from
// the centre with 0 up and clockwise positive.
type Canvas struct {
	Width, Height int // in cells
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Size is the canvas extent in sub-pixels.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.Width * 2), float64(c.Height * 4)
}

// Radius is the largest circle around the centre that keeps a two sub-pixel
// margin.
func (c *Canvas) Radius() float64 {
	w, h := c.Size()
	return math.Min(w, h)/2 - 2
}

// cell locates the braille cell and dot bit of sub-pixel (x, y).
func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return 0, 0, 0, false
	}
	return y / 4, x / 2, dotBits[y%4][x%2], true
}

// Set lights the sub-pixel at (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.cells[row][col] |= bit
	}
}

func (c *Canvas) Lit(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && c.cells[row][col]&bit != 0
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = blank
		}
	}
}

// Polar returns the sub-pixel at angle a and distance r from the centre.
func (c *Canvas) Polar(a, r float64) (int, int) {
	w, h := c.Size()
	x, y := angle.ToPoint(a, r, w, h)
	return int(x), int(y)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Spoke joins two polar points.
func (c *Canvas) Spoke(a0, r0, a1, r1 float64) {
	x0, y0 := c.Polar(a0, r0)
	x1, y1 := c.Polar(a1, r1)
	c.DrawLine(x0, y0, x1, y1)
}

// Ring dots a circle of radius r every spacing degrees, starting at 0.
func (c *Canvas) Ring(r, spacing float64) {
	for a := 0.0; a < angle.FullTurn; a += spacing {
		c.Set(c.Polar(a, r))
	}
}

// Dot fills a disc of radius r around (x, y).
func (c *Canvas) Dot(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(x+dx, y+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	if x < 0 {
		return -1
	}
	return 1
}
