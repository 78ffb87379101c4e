package viz

import "github.com/san-kum/springsim/internal/dynamo"

type Point struct {
	X, Y, Radius float64
}

// Recorder is a headless surface. It reports itself running for a fixed
// number of presented frames and remembers what each frame contained.
type Recorder struct {
	limit   int
	pending []Point
	frames  [][]Point
	closed  bool
	closes  int
}

func NewRecorder(frames int) *Recorder {
	return &Recorder{limit: frames, frames: make([][]Point, 0, max(frames, 0))}
}

func (r *Recorder) Circle(x, y, radius float64) {
	r.pending = append(r.pending, Point{X: x, Y: y, Radius: radius})
}

func (r *Recorder) Show() error {
	if r.closed {
		return dynamo.ErrSurfaceClosed
	}
	r.frames = append(r.frames, r.pending)
	r.pending = nil
	return nil
}

func (r *Recorder) Running() bool { return !r.closed && len(r.frames) < r.limit }

func (r *Recorder) Close() error {
	r.closed = true
	r.closes++
	return nil
}

func (r *Recorder) Frames() int     { return len(r.frames) }
func (r *Recorder) Closed() bool    { return r.closed }
func (r *Recorder) CloseCount() int { return r.closes }

// Frame returns the points presented in frame i.
func (r *Recorder) Frame(i int) []Point { return r.frames[i] }

// Trace returns the x coordinate of the first point of every frame.
func (r *Recorder) Trace() []float64 {
	out := make([]float64, 0, len(r.frames))
	for _, f := range r.frames {
		if len(f) > 0 {
			out = append(out, f[0].X)
		}
	}
	return out
}
