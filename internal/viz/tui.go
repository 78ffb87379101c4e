package viz

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	statsWidth    = 48
	traceCapacity = 120
	minCanvasW    = 20
	minCanvasH    = 6
)

type frameMsg struct {
	points []Point
	sample dynamo.Sample
}

// tuiModel is the Bubble Tea side of TUISurface. It only renders what the
// render loop sends; it never steps the simulation itself.
type tuiModel struct {
	title         string
	canvas        *Canvas
	sample        dynamo.Sample
	initialEnergy float64
	frames        int
	trace         []float64
	energyBar     progress.Model
}

func newTUIModel(title string) tuiModel {
	return tuiModel{
		title:     title,
		canvas:    NewCanvas(60, 16),
		trace:     make([]float64, 0, traceCapacity),
		energyBar: progress.New(progress.WithScaledGradient("#00ccff", "#ff00ff"), progress.WithWidth(statsWidth-8)),
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.canvas = NewCanvas(max(msg.Width-statsWidth-8, minCanvasW), max(msg.Height-8, minCanvasH))
	case frameMsg:
		m.canvas.Clear()
		for _, p := range msg.points {
			m.canvas.Plot(p.X, p.Y, int(p.Radius))
		}
		if m.frames == 0 {
			m.initialEnergy = msg.sample.Energy
		}
		m.frames++
		m.sample = msg.sample
		m.trace = append(m.trace, msg.sample.Position)
		if len(m.trace) > traceCapacity {
			m.trace = m.trace[1:]
		}
	}
	return m, nil
}

// energyFraction is the share of the first frame's energy still present.
func (m tuiModel) energyFraction() float64 {
	if m.initialEnergy <= 0 {
		return 0
	}
	return min(max(m.sample.Energy/m.initialEnergy, 0), 1)
}

func (m tuiModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(statusStyle.Render("RUNNING") + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d", m.sample.Step))
	row("Time", fmt.Sprintf("%.2f", m.sample.Time))
	row("Position", fmt.Sprintf("%.5f", m.sample.Position))
	row("Velocity", fmt.Sprintf("%.5f", m.sample.Velocity))
	row("Net force", fmt.Sprintf("%.5f", m.sample.Forces.Net))
	row("Energy", fmt.Sprintf("%.6f", m.sample.Energy))
	s.WriteString("\n" + m.energyBar.ViewAs(m.energyFraction()) + "\n")

	if len(m.trace) > 1 {
		chart := asciigraph.Plot(m.trace, asciigraph.Height(6), asciigraph.Width(statsWidth-14), asciigraph.Caption("position"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("q / esc: quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
}

// TUISurface presents frames through a Bubble Tea program running in its own
// goroutine. The render loop stays the only writer of simulation state; the
// program only receives copies.
type TUISurface struct {
	program *tea.Program
	done    chan struct{}
	err     error
	active  atomic.Bool
	closed  bool
	points  []Point
	sample  dynamo.Sample
	pace    pacer
}

func NewTUISurface(title string, fps int, opts ...tea.ProgramOption) *TUISurface {
	t := &TUISurface{
		done: make(chan struct{}),
		pace: newPacer(fps),
	}
	t.program = tea.NewProgram(newTUIModel(title), opts...)
	t.active.Store(true)
	go func() {
		_, err := t.program.Run()
		t.err = err
		t.active.Store(false)
		close(t.done)
	}()
	return t
}

func (t *TUISurface) Circle(x, y, radius float64) {
	t.points = append(t.points, Point{X: x, Y: y, Radius: radius})
}

func (t *TUISurface) OnStep(s dynamo.Sample) { t.sample = s }

func (t *TUISurface) Show() error {
	if t.closed {
		return dynamo.ErrSurfaceClosed
	}
	if !t.active.Load() {
		return nil
	}
	t.program.Send(frameMsg{points: t.points, sample: t.sample})
	t.points = nil
	t.pace.wait()
	return nil
}

func (t *TUISurface) Running() bool { return !t.closed && t.active.Load() }

// Close stops the program and waits for it to restore the terminal.
func (t *TUISurface) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.program.Quit()
	<-t.done
	return t.err
}
