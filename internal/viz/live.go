package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/pidlab/internal/config"
	"github.com/san-kum/pidlab/internal/metrics"
	"github.com/san-kum/pidlab/internal/regulator"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	graphWidth      = 80
	graphHeight     = 14
	historyCapacity = 600
)

var (
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type param struct {
	name string
	step float64
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"kp", 0.05, func(c *config.Config) float64 { return c.Kp }, func(c *config.Config, v float64) { c.Kp = v }},
	{"ki", 0.005, func(c *config.Config) float64 { return c.Ki }, func(c *config.Config, v float64) { c.Ki = v }},
	{"kd", 0.01, func(c *config.Config) float64 { return c.Kd }, func(c *config.Config, v float64) { c.Kd = v }},
	{"setpoint", 10, func(c *config.Config) float64 { return c.Setpoint }, func(c *config.Config, v float64) { c.Setpoint = v }},
}

// Model drives a Stepper one sample per timer tick and renders the
// trajectory. The tick source lives here, in the presentation layer;
// the simulation core is tick-agnostic.
type Model struct {
	cfg     *config.Config
	reg     *regulator.Regulator
	stepper *sim.Stepper
	log     zerolog.Logger

	times    []float64
	values   []float64
	running  bool
	selected int
	err      error
}

func NewModel(cfg *config.Config, reg *regulator.Regulator, stepper *sim.Stepper, log zerolog.Logger) Model {
	return Model{
		cfg:     cfg,
		reg:     reg,
		stepper: stepper,
		log:     log,
		times:   make([]float64, 0, historyCapacity),
		values:  make([]float64, 0, historyCapacity),
		running: true,
	}
}

func (m Model) tick() tea.Cmd {
	interval := time.Duration(m.cfg.SampleTime * float64(time.Second))
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	m.log.Info().Msg("live session started")
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.log.Info().Msg("live session stopped")
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(params)
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	s := m.stepper.Step()
	m.times = append(m.times, s.Time)
	m.values = append(m.values, s.Value)
	if len(m.values) > historyCapacity {
		m.times = m.times[1:]
		m.values = m.values[1:]
	}
}

func (m *Model) adjustParam(dir float64) {
	p := params[m.selected]
	next := *m.cfg
	p.set(&next, p.get(&next)+dir*p.step)
	if err := applyGains(m.reg, &next); err != nil {
		m.err = err
		return
	}
	*m.cfg = next
	m.err = nil
}

func applyGains(reg *regulator.Regulator, cfg *config.Config) error {
	rc := reg.Config()
	rc.Kp, rc.Ki, rc.Kd, rc.Setpoint = cfg.Kp, cfg.Ki, cfg.Kd, cfg.Setpoint
	return reg.SetConfig(rc)
}

func (m *Model) reset() {
	m.stepper.Restart()
	m.times = m.times[:0]
	m.values = m.values[:0]
	m.err = nil
	m.log.Info().Msg("live session reset")
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("PID LIVE / "+strings.ToUpper(m.cfg.ModelType)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.values) > 1 {
		graph := asciigraph.Plot(m.values,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("process value (setpoint %.1f)", m.cfg.Setpoint)),
		)
		s.WriteString(graphStyle.Render(graph) + "\n")
	} else {
		s.WriteString(graphStyle.Render("collecting samples...") + "\n")
	}

	for i, p := range params {
		line := fmt.Sprintf("%s%s", labelStyle.Render(p.name), valueStyle.Render(fmt.Sprintf("%.3f", p.get(m.cfg))))
		if i == m.selected {
			line = activeParamStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		s.WriteString(line + "\n")
	}

	s.WriteString(fmt.Sprintf("\n%s%s\n",
		labelStyle.Render("t"), valueStyle.Render(fmt.Sprintf("%.2fs", m.stepper.Time()))))
	s.WriteString(fmt.Sprintf("%s%s\n",
		labelStyle.Render("value"), valueStyle.Render(fmt.Sprintf("%.3f", m.stepper.Value()))))
	s.WriteString(fmt.Sprintf("%s%s\n",
		labelStyle.Render("output"), valueStyle.Render(fmt.Sprintf("%.3f", m.reg.LastOutput()))))
	s.WriteString(fmt.Sprintf("%s%s\n",
		labelStyle.Render("integral"), valueStyle.Render(fmt.Sprintf("%.3f", m.reg.Integral()))))

	sr := metrics.Extract(m.times, m.values, m.cfg.Setpoint)
	s.WriteString("\n" + renderMetrics(sr) + "\n")

	if m.err != nil {
		s.WriteString(fmt.Sprintf("\nconfig rejected: %v\n", m.err))
	}

	s.WriteString(helpStyle.Render("space pause | r reset | tab select | up/down adjust | q quit"))
	return s.String()
}

func renderMetrics(sr metrics.StepResponse) string {
	format := func(name string, m metrics.Metric, unit string) string {
		if !m.Valid {
			return fmt.Sprintf("%s%s", labelStyle.Render(name), valueStyle.Render("n/a"))
		}
		return fmt.Sprintf("%s%s", labelStyle.Render(name), valueStyle.Render(fmt.Sprintf("%.2f%s", m.Value, unit)))
	}
	lines := []string{
		format("rise", sr.RiseTime, "s"),
		format("settle", sr.SettlingTime, "s"),
		format("overshoot", sr.Overshoot, ""),
		format("sse", sr.SteadyStateError, ""),
	}
	return strings.Join(lines, "\n")
}
