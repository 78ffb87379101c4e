package viz

import (
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Screen is a full-terminal surface drawing on a Braille canvas through
// tcell. The bottom row carries a status line. q, Esc or Ctrl+C deactivate it.
type Screen struct {
	screen  tcell.Screen
	canvas  *Canvas
	style   tcell.Style
	hud     tcell.Style
	status  string
	pace    pacer
	active  atomic.Bool
	resized atomic.Bool
	closed  bool
}

func NewScreen(fps int) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewScreenOn(s, fps)
}

// NewScreenOn initialises s and takes ownership of it.
func NewScreenOn(s tcell.Screen, fps int) (*Screen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.HideCursor()
	s.Clear()

	sc := &Screen{
		screen: s,
		style:  tcell.StyleDefault.Foreground(tcell.ColorAqua),
		hud:    tcell.StyleDefault.Foreground(tcell.ColorGray),
		status: " q to quit",
		pace:   newPacer(fps),
	}
	sc.fit()
	sc.active.Store(true)
	go watchQuit(s, &sc.active, &sc.resized)
	return sc, nil
}

// watchQuit drains terminal events until the screen is finalized.
func watchQuit(s tcell.Screen, active, resized *atomic.Bool) {
	for {
		ev := s.PollEvent()
		if ev == nil {
			active.Store(false)
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isQuitKey(ev) {
				active.Store(false)
			}
		case *tcell.EventResize:
			resized.Store(true)
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func (sc *Screen) fit() {
	w, h := sc.screen.Size()
	sc.canvas = NewCanvas(w, h-1)
}

func (sc *Screen) Circle(x, y, radius float64) {
	sc.canvas.Plot(x, y, int(radius))
}

// OnStep updates the status line with the latest sample.
func (sc *Screen) OnStep(s dynamo.Sample) {
	sc.status = fmt.Sprintf(" step %d  t=%.1f  x=%.4f  v=%.4f  F=%.4f  E=%.5f   q to quit",
		s.Step, s.Time, s.Position, s.Velocity, s.Forces.Net, s.Energy)
}

func (sc *Screen) Show() error {
	if sc.closed {
		return dynamo.ErrSurfaceClosed
	}

	sc.screen.Clear()
	for row := 0; row < sc.canvas.Height; row++ {
		for col := 0; col < sc.canvas.Width; col++ {
			if r := sc.canvas.Cell(col, row); r != blank {
				sc.screen.SetContent(col, row, r, nil, sc.style)
			}
		}
	}
	for i, r := range []rune(sc.status) {
		sc.screen.SetContent(i, sc.canvas.Height, r, nil, sc.hud)
	}
	sc.screen.Show()

	sc.canvas.Clear()
	if sc.resized.Swap(false) {
		sc.screen.Sync()
		sc.fit()
	}
	sc.pace.wait()
	return nil
}

func (sc *Screen) Running() bool { return !sc.closed && sc.active.Load() }

func (sc *Screen) Close() error {
	if sc.closed {
		return nil
	}
	sc.closed = true
	sc.active.Store(false)
	sc.screen.Fini()
	return nil
}
