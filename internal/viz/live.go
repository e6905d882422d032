package viz

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinbottle/internal/angle"
	"github.com/san-kum/spinbottle/internal/config"
	"github.com/san-kum/spinbottle/internal/engine"
	"github.com/san-kum/spinbottle/internal/gesture"
	"github.com/san-kum/spinbottle/internal/obstacle"
)

const (
	canvasWidth     = 40
	canvasHeight    = 20
	historyCapacity = 120
	logCapacity     = 6

	// canvasStyle padding, in cells
	canvasTop  = 1
	canvasLeft = 2
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(canvasTop, canvasLeft)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// eventLog is shared by every copy of a Model so engine hooks registered
// once keep writing to the visible log.
type eventLog struct {
	lines []string
}

func (l *eventLog) add(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > logCapacity {
		l.lines = l.lines[1:]
	}
}

// Model hosts one disc. Bubble Tea delivers ticks and pointer events through
// Update one at a time, so the engine needs no locking.
type Model struct {
	engine     *engine.Engine
	controller *gesture.Controller
	title      string
	frame      time.Duration
	canvas     *Canvas
	speeds     []float64
	log        *eventLog
	start      time.Time
	now        func() time.Time
	rng        *rand.Rand
}

func NewModel(cfg *config.Config, title string) Model {
	e := engine.New(cfg.Params())
	log := &eventLog{}

	e.OnStart(func(speed float64) { log.add(fmt.Sprintf("spin   %5.1f°/tick", speed)) })
	e.OnStop(func(a float64) { log.add(fmt.Sprintf("stop   %5.1f°", a)) })
	e.OnBounce(func(c obstacle.Contact) { log.add(fmt.Sprintf("bounce %5.1f°", c.Angle)) })

	return Model{
		engine:     e,
		controller: gesture.NewController(e),
		title:      title,
		frame:      time.Duration(cfg.Sim.FrameMillis) * time.Millisecond,
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		speeds:     make([]float64, 0, historyCapacity),
		log:        log,
		start:      time.Now(),
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
}

func (m Model) Engine() *engine.Engine { return m.engine }

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the disc on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.flick()
		case "s":
			m.engine.Stop()
		case "o":
			m.toggleObstacle()
		case "r":
			m.reset()
		case "t":
			NextTheme()
		}
	case tea.MouseMsg:
		m.pointer(msg)
	case TickMsg:
		m.engine.Advance()
		m.speeds = append(m.speeds, math.Abs(m.engine.Step()))
		if len(m.speeds) > historyCapacity {
			m.speeds = m.speeds[1:]
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) pointer(msg tea.MouseMsg) {
	t := m.touch(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.controller.Down(t)
		}
	case tea.MouseActionMotion:
		m.controller.Move(t)
	case tea.MouseActionRelease:
		m.controller.Up(t)
	}
}

// touch maps a terminal cell to canvas sub-pixel coordinates, aiming at the
// middle of the cell.
func (m *Model) touch(col, row int) gesture.Touch {
	w, h := m.canvas.Size()
	return gesture.Touch{
		X:      float64((col-canvasLeft)*2 + 1),
		Y:      float64((row-canvasTop)*4 + 2),
		Millis: m.now().Sub(m.start).Milliseconds(),
		Width:  w,
		Height: h,
	}
}

func (m *Model) flick() {
	p := m.engine.Params()
	v := p.VelocityMax * (0.5 + m.rng.Float64()/2)
	if m.rng.IntN(2) == 0 {
		v = -v
	}
	_ = m.engine.Seed(p.MaxRotationDegrees * v)
}

func (m *Model) toggleObstacle() {
	o := m.engine.Obstacle()
	if o.Present() {
		o.Clear()
		return
	}
	o.Place(m.engine.Angle() + angle.QuarterTurn)
}

func (m *Model) reset() {
	m.engine.Obstacle().Clear()
	_ = m.engine.RotateTo(0)
	m.speeds = m.speeds[:0]
	m.log.lines = m.log.lines[:0]
}

func (m Model) status() string {
	st := m.controller.State()
	return StatusLabel(st == gesture.FollowTop || st == gesture.FollowBottom, m.engine.Rotating())
}

// View renders the disc next to the stats panel.
func (m Model) View() string {
	m.canvas.Clear()
	DrawDisc(m.canvas, m.engine.Snapshot())
	canvasView := canvasStyle.Foreground(CurrentTheme.Bottle).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), CurrentTheme.Title, CurrentTheme.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.speeds) > 1 {
		chart := asciigraph.Plot(m.speeds, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Speed °/tick"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Angle") + valueStyle.Render(fmt.Sprintf("%.1f°", m.engine.Angle())) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%+.1f", m.engine.Step())) + "\n")
	s.WriteString(labelStyle.Render("Gesture") + valueStyle.Render(m.controller.State().String()) + "\n")
	obs := "none"
	if o := m.engine.Obstacle(); o.Present() {
		obs = fmt.Sprintf("%.1f°", o.Angle())
	}
	s.WriteString(labelStyle.Render("Obstacle") + valueStyle.Render(obs) + "\n")

	s.WriteString("\n" + Rule(30) + "\n")
	for _, line := range m.log.lines {
		s.WriteString(Subtle.Render(line) + "\n")
	}

	s.WriteString(helpStyle.Render("drag an end to spin, press elsewhere to block\nSP:Flick S:Stop O:Obstacle R:Reset\nT:Theme Q:Quit"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// Run starts the live view with mouse motion reporting.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
