package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/springsim/internal/dynamo"
)

func update(t *testing.T, m tuiModel, msg tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	tm, ok := next.(tuiModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return tm, cmd
}

func TestTUIModel_Frame(t *testing.T) {
	m := newTUIModel("spring damper")

	m, _ = update(t, m, frameMsg{
		points: []Point{{X: 0.23, Y: 0.5, Radius: 3}},
		sample: dynamo.Sample{Step: 1, Position: 0.23, Velocity: 0.06, Energy: 0.008},
	})
	m, _ = update(t, m, frameMsg{
		points: []Point{{X: 0.2864, Y: 0.5, Radius: 3}},
		sample: dynamo.Sample{Step: 2, Position: 0.2864, Velocity: 0.1128, Energy: 0.004},
	})

	if m.frames != 2 {
		t.Errorf("expected 2 frames, got %d", m.frames)
	}
	if len(m.trace) != 2 || m.trace[1] != 0.2864 {
		t.Errorf("trace = %v", m.trace)
	}
	if got := m.energyFraction(); got != 0.5 {
		t.Errorf("energy fraction = %v, want 0.5", got)
	}

	view := m.View()
	for _, want := range []string{"SPRING DAMPER", "0.28640", "position"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTUIModel_TraceCapacity(t *testing.T) {
	m := newTUIModel("x")
	for i := 0; i < traceCapacity+10; i++ {
		m, _ = update(t, m, frameMsg{sample: dynamo.Sample{Step: i, Position: float64(i)}})
	}
	if len(m.trace) != traceCapacity {
		t.Errorf("trace length = %d, want %d", len(m.trace), traceCapacity)
	}
	if m.trace[0] != 10 {
		t.Errorf("oldest trace value = %v, want 10", m.trace[0])
	}
}

func TestTUIModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	} {
		_, cmd := update(t, newTUIModel("x"), key)
		if cmd == nil {
			t.Fatalf("key %q: expected quit command", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q: expected tea.QuitMsg", key.String())
		}
	}
}

func TestTUIModel_Resize(t *testing.T) {
	m, _ := update(t, newTUIModel("x"), tea.WindowSizeMsg{Width: 140, Height: 40})
	if m.canvas.Width != 140-statsWidth-8 || m.canvas.Height != 32 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 3})
	if m.canvas.Width != minCanvasW || m.canvas.Height != minCanvasH {
		t.Errorf("canvas = %dx%d, want minimum", m.canvas.Width, m.canvas.Height)
	}
}
