package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const blank = rune(0x2800)

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells. Each cell holds 2x4 sub-pixels, so a
// canvas of Width x Height cells addresses (Width*2) x (Height*4) pixels.
type Canvas struct {
	Width, Height int
	grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{
		Width:  w,
		Height: h,
		grid:   make([][]rune, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set lights the sub-pixel at (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = blank
		}
	}
}

// Project maps normalized coordinates onto pixels. Values outside [0,1]
// land outside the canvas and are clipped by Set.
func (c *Canvas) Project(x, y float64) (int, int) {
	px := math.Round(x * float64(c.PixelWidth()-1))
	py := math.Round(y * float64(c.PixelHeight()-1))
	// keep far out-of-range values from overflowing int conversion
	px = math.Max(-1, math.Min(px, float64(c.PixelWidth())))
	py = math.Max(-1, math.Min(py, float64(c.PixelHeight())))
	if math.IsNaN(px) || math.IsNaN(py) {
		return -1, -1
	}
	return int(px), int(py)
}

// Plot draws a disc of radius r pixels at normalized (x, y). A centre
// outside [0,1] on either axis is off the surface and draws nothing; a disc
// near the border is cut at the edge.
func (c *Canvas) Plot(x, y float64, r int) {
	if !(x >= 0 && x <= 1 && y >= 0 && y <= 1) {
		return
	}
	px, py := c.Project(x, y)
	c.Disc(px, py, r)
}

// Disc fills a circle of radius r pixels centred on (cx, cy).
func (c *Canvas) Disc(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	r2 := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r2 {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// Cell returns the Braille rune at the given cell, or blank when out of range.
func (c *Canvas) Cell(col, row int) rune {
	if col < 0 || row < 0 || col >= c.Width || row >= c.Height {
		return blank
	}
	return c.grid[row][col]
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		b.WriteString(string(row))
		if i < len(c.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
