package sim

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultRadius = 3.0
	DefaultRow    = 0.5
)

type Status int

const (
	Running Status = iota
	Stopped
)

func (s Status) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Stopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Loop couples one simulation step to one presented frame. It owns the
// surface it is given and closes it when Run returns.
type Loop struct {
	model      dynamo.ForceModel
	integrator dynamo.Integrator
	surface    dynamo.Surface
	state      *dynamo.State
	observers  []dynamo.Observer
	radius     float64
	row        float64
	status     Status
	frames     int
}

func NewLoop(model dynamo.ForceModel, integrator dynamo.Integrator, surface dynamo.Surface, state *dynamo.State) *Loop {
	return &Loop{
		model:      model,
		integrator: integrator,
		surface:    surface,
		state:      state,
		observers:  make([]dynamo.Observer, 0),
		radius:     DefaultRadius,
		row:        DefaultRow,
		status:     Running,
	}
}

func (l *Loop) AddObserver(o dynamo.Observer) { l.observers = append(l.observers, o) }

// SetRadius sets the radius of the drawn point in surface units.
func (l *Loop) SetRadius(r float64) { l.radius = r }

// SetRow sets the fixed second coordinate of the drawn point.
func (l *Loop) SetRow(y float64) { l.row = y }

func (l *Loop) Status() Status       { return l.status }
func (l *Loop) Frames() int          { return l.frames }
func (l *Loop) State() *dynamo.State { return l.state }

// Run steps, draws and presents until the surface stops reporting itself as
// running or ctx is done. A surface that closes is a normal stop, not an
// error. The surface is closed on every return path.
func (l *Loop) Run(ctx context.Context) (err error) {
	defer func() {
		l.status = Stopped
		if cerr := l.surface.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close surface: %w", cerr)
		}
		log.Printf("loop stopped after %d frames (x=%.6f v=%.6f)", l.frames, l.state.Position, l.state.Velocity)
	}()

	for l.status == Running {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !l.surface.Running() {
			return nil
		}

		f := l.model.Forces(l.state)
		l.integrator.Step(l.state, f)

		sample := dynamo.NewSample(l.frames+1, l.state, f, energyOf(l.model, l.state))
		for _, obs := range l.observers {
			obs.OnStep(sample)
		}

		l.surface.Circle(l.state.Position, l.row, l.radius)
		if err := l.surface.Show(); err != nil {
			if errors.Is(err, dynamo.ErrSurfaceClosed) {
				return nil
			}
			return fmt.Errorf("present frame %d: %w", l.frames+1, err)
		}
		l.frames++
	}
	return nil
}
