package viz

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shadyrajab/chaos/internal/analysis"
	"github.com/shadyrajab/chaos/internal/pendulum"
)

const (
	canvasWidth  = 64
	canvasHeight = 22
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	canvasStyle = lipgloss.NewStyle().Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model plays back a computed comparison: both pendulums drawn on one
// canvas, with the angular separation tracked below.
type Model struct {
	reach     float64
	baseline  []pendulum.Frame
	perturbed []pendulum.Frame
	times     []float64
	sep       []float64

	canvas  *Canvas
	idx     int
	playing bool
	fps     int
}

func NewModel(cmp *analysis.Comparison, params pendulum.Params, fps int) *Model {
	if fps <= 0 {
		fps = 30
	}
	return &Model{
		reach:     params.Reach() * 1.1,
		baseline:  params.Project(cmp.Baseline),
		perturbed: params.Project(cmp.Perturbed),
		times:     cmp.Baseline.Times,
		sep:       cmp.Separation(pendulum.Theta2),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		playing:   true,
		fps:       fps,
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.idx = 0
			m.playing = true
		}

	case TickMsg:
		if m.playing && len(m.baseline) > 0 {
			m.idx++
			if m.idx >= len(m.baseline) {
				m.idx = 0 // loop
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *Model) View() string {
	if len(m.baseline) == 0 {
		return "no frames"
	}

	m.canvas.Clear()
	m.drawPendulum(m.perturbed[m.idx])
	m.drawPendulum(m.baseline[m.idx])

	sep := m.sep[m.idx]
	sepLine := fmt.Sprintf("%s %s", labelStyle.Render("|Δθ₂|"), valueStyle.Render(fmt.Sprintf("%.3e rad", sep)))
	if sep > 0.1 {
		sepLine = fmt.Sprintf("%s %s", labelStyle.Render("|Δθ₂|"), alertStyle.Render(fmt.Sprintf("%.3e rad  diverged", sep)))
	}

	status := fmt.Sprintf("%s %s   %s",
		labelStyle.Render("t"),
		valueStyle.Render(fmt.Sprintf("%7.2f s", m.times[m.idx])),
		sepLine,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("double pendulum — baseline vs perturbed"),
		canvasStyle.Render(m.canvas.String()),
		canvasStyle.Render(status),
		helpStyle.Render("space pause · r reset · q quit"),
	)
}

// drawPendulum maps world coordinates [-reach, reach] onto the canvas
// sub-pixel grid, pivot centered.
func (m *Model) drawPendulum(f pendulum.Frame) {
	px := canvasWidth * 2
	py := canvasHeight * 4

	toX := func(x float64) int {
		return int(math.Round((x + m.reach) / (2 * m.reach) * float64(px-1)))
	}
	toY := func(y float64) int {
		return int(math.Round((m.reach - y) / (2 * m.reach) * float64(py-1)))
	}

	cx, cy := toX(0), toY(0)
	x1, y1 := toX(f.X1), toY(f.Y1)
	x2, y2 := toX(f.X2), toY(f.Y2)

	m.canvas.DrawLine(cx, cy, x1, y1)
	m.canvas.DrawLine(x1, y1, x2, y2)
	m.canvas.Set(x2, y2)
}

// RunLive starts the interactive playback.
func RunLive(cmp *analysis.Comparison, params pendulum.Params, fps int) error {
	p := tea.NewProgram(NewModel(cmp, params, fps))
	_, err := p.Run()
	return err
}
