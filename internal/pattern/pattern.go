// Package pattern computes the time-varying color gradient shown by the
// pattern demo. Red follows the column, green the row, and blue sweeps with
// a counter, peaking every 100 frames.
package pattern

import "math"

// RGB holds color channels in [0,1].
type RGB struct {
	R, G, B float64
}

// Bytes scales the channels to 0..255.
func (c RGB) Bytes() (r, g, b uint8) {
	scale := func(v float64) uint8 {
		return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
	}
	return scale(c.R), scale(c.G), scale(c.B)
}

// Phase is |fract(counter/100) - 0.5|, a triangle wave in [0, 0.5].
func Phase(counter int) float64 {
	f := float64(counter) / 100
	return math.Abs(f - math.Floor(f) - 0.5)
}

// Color returns the color of cell (i, j) on a w x h grid.
func Color(i, j, w, h, counter int) RGB {
	return RGB{
		R: float64(i) / float64(max(w, 1)),
		G: float64(j) / float64(max(h, 1)),
		B: Phase(counter),
	}
}

// Fill writes the whole w x h grid row-major into dst, growing it if needed.
func Fill(dst []RGB, w, h, counter int) []RGB {
	n := w * h
	if cap(dst) < n {
		dst = make([]RGB, n)
	}
	dst = dst[:n]
	b := Phase(counter)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			dst[j*w+i] = RGB{R: float64(i) / float64(w), G: float64(j) / float64(h), B: b}
		}
	}
	return dst
}
