package viz

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/san-kum/springsim/internal/pattern"
)

// PatternScreen paints the time-varying color pattern over the whole
// terminal, advancing the counter once per frame.
type PatternScreen struct {
	screen  tcell.Screen
	pace    pacer
	counter int
	frames  int
	cells   []pattern.RGB
	active  atomic.Bool
	resized atomic.Bool
}

func NewPatternScreen(fps int) (*PatternScreen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	return NewPatternScreenOn(s, fps)
}

func NewPatternScreenOn(s tcell.Screen, fps int) (*PatternScreen, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.HideCursor()
	p := &PatternScreen{screen: s, pace: newPacer(fps), counter: 1}
	p.active.Store(true)
	go watchQuit(s, &p.active, &p.resized)
	return p, nil
}

// Counter is the value the next frame is painted with. The first frame uses 1.
func (p *PatternScreen) Counter() int { return p.counter }

func (p *PatternScreen) Frames() int { return p.frames }

// Frame paints one frame for the current counter and advances it.
func (p *PatternScreen) Frame() {
	if p.resized.Swap(false) {
		p.screen.Sync()
	}
	w, h := p.screen.Size()
	p.cells = pattern.Fill(p.cells, w, h, p.counter)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b := p.cells[y*w+x].Bytes()
			bg := tcell.NewRGBColor(int32(r), int32(g), int32(b))
			p.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
	p.screen.Show()
	p.counter++
	p.frames++
}

// Run paints frames until the user quits, ctx is done or maxFrames frames
// were shown (maxFrames <= 0 means no limit). The screen is finalized on
// return.
func (p *PatternScreen) Run(ctx context.Context, maxFrames int) error {
	defer p.screen.Fini()
	for p.active.Load() {
		if maxFrames > 0 && p.frames >= maxFrames {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		p.Frame()
		p.pace.wait()
	}
	return nil
}
