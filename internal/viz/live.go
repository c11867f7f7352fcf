package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/combustor/internal/sim"
)

const (
	historyCapacity = 600
	graphWidth      = 60
	graphHeight     = 12
	maxStepsPerTick = 1024
)

type TickMsg time.Time

type quantity struct {
	name  string
	unit  string
	value func(sim.Sample) float64
}

var quantities = []quantity{
	{"Pressure", "kPa", func(s sim.Sample) float64 { return s.Pressure() / 1e3 }},
	{"Temperature", "K", sim.Sample.Temperature},
	{"Thrust", "N", func(s sim.Sample) float64 { return s.Thrust }},
	{"Velocity", "m/s", func(s sim.Sample) float64 { return s.Velocity }},
	{"Density", "kg/m³", sim.Sample.Density},
}

// Model steps a network on every tick and keeps a bounded history of each
// plotted quantity.
type Model struct {
	net      *sim.Network
	title    string
	devices  []string
	perTick  int
	running  bool
	selected int
	seen     int
	history  [][]float64
	last     sim.Sample
	theme    Theme
	styles   styles
	showHelp bool
	err      error
}

// NewModel wraps net, which must not be stepped by anyone else while the
// program runs. perTick is the number of integration steps per frame.
func NewModel(net *sim.Network, title string, perTick int) Model {
	devices := net.Chamber().Devices()
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name()
	}

	m := Model{
		net:     net,
		title:   title,
		devices: names,
		perTick: max(1, min(perTick, maxStepsPerTick)),
		running: true,
		history: make([][]float64, len(quantities)),
		theme:   Themes[0],
		styles:  newStyles(Themes[0]),
	}
	for i := range m.history {
		m.history[i] = make([]float64, 0, historyCapacity)
	}
	m.collect()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the network.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "tab":
			m.selected = (m.selected + 1) % len(quantities)
		case "+", "=":
			m.perTick = min(m.perTick*2, maxStepsPerTick)
		case "-", "_":
			m.perTick = max(m.perTick/2, 1)
		case "t":
			m.theme = m.theme.next()
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the network by up to perTick steps.
func (m *Model) step() {
	for i := 0; i < m.perTick && m.net.Status() == sim.Running; i++ {
		if err := m.net.Step(); err != nil {
			m.err = err
			break
		}
	}
	m.collect()
}

// collect appends every sample recorded since the last call.
func (m *Model) collect() {
	series := m.net.Series()
	for ; m.seen < series.Len(); m.seen++ {
		s := series.At(m.seen)
		for i, q := range quantities {
			h := append(m.history[i], q.value(s))
			if len(h) > historyCapacity {
				h = h[1:]
			}
			m.history[i] = h
		}
		m.last = s
	}
}

func (m Model) status() string {
	switch {
	case m.net.Status() == sim.Failed:
		return m.styles.failed.Render("FAILED")
	case m.net.Status() == sim.Completed:
		return m.styles.running.Render("COMPLETED")
	case !m.running:
		return m.styles.paused.Render("PAUSED")
	default:
		return m.styles.running.Render("RUNNING")
	}
}

func (m Model) row(label, value string) string {
	return m.styles.label.Render(label) + m.styles.value.Render(value) + "\n"
}

// View renders the TUI interface.
func (m Model) View() string {
	q := quantities[m.selected]

	var left strings.Builder
	left.WriteString(m.styles.header.Render(strings.ToUpper(m.title)) + "\n")
	left.WriteString(m.status() + "\n")
	if g := Plot(m.history[m.selected], fmt.Sprintf("%s [%s]", q.name, q.unit), graphWidth, graphHeight); g != "" {
		left.WriteString(m.styles.graph.Render(g) + "\n")
	}

	cfg := m.net.Config()
	var right strings.Builder
	right.WriteString(m.row("Time", fmt.Sprintf("%.4f ms", m.last.Time*1e3)))
	right.WriteString(m.row("Progress", ProgressBar(m.last.Time/cfg.Horizon, 20)))
	right.WriteString(m.row("Pressure", fmt.Sprintf("%.1f kPa", m.last.Pressure()/1e3)))
	right.WriteString(m.row("Temperature", fmt.Sprintf("%.1f K", m.last.Temperature())))
	right.WriteString(m.row("Density", fmt.Sprintf("%.3f kg/m³", m.last.Density())))
	right.WriteString(m.row("Velocity", fmt.Sprintf("%.1f m/s", m.last.Velocity)))
	right.WriteString(m.row("Thrust", fmt.Sprintf("%.4g N", m.last.Thrust)))
	right.WriteString(m.row("Steps", fmt.Sprintf("%d (%d/frame)", m.net.Steps(), m.perTick)))
	right.WriteString(m.row("dt", fmt.Sprintf("%.3g s", m.last.Dt)))
	right.WriteString("\n")
	for i, name := range m.devices {
		if i < len(m.last.Flows) {
			right.WriteString(m.row("ṁ "+name, fmt.Sprintf("%.4g kg/s", m.last.Flows[i])))
		}
	}
	if m.err != nil {
		right.WriteString("\n" + m.styles.failed.Render(m.err.Error()) + "\n")
	}
	right.WriteString(m.styles.help.Render("SP:Pause TAB:Plot +/-:Speed T:Theme ?:Help Q:Quit"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, left.String(), m.styles.panel.Render(right.String()))
	if m.showHelp {
		return m.styles.panel.Render(strings.Join([]string{
			"Space  pause or resume stepping",
			"Tab    cycle the plotted quantity",
			"+ / -  double or halve steps per frame",
			"T      cycle color themes (" + strings.Join(ThemeNames(), ", ") + ")",
			"?      toggle this help",
			"Q      quit",
		}, "\n")) + "\n\n" + view
	}
	return view
}
