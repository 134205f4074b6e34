package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// CycleStatus — итог одного завершившегося цикла перезагрузки.
type CycleStatus struct {
	PatchID    uint64
	Committed  bool
	Err        error
	Latency    time.Duration
	Recompiled []string
	FullBuild  bool
	Time       time.Time
}

// Msg — событие для панели: смена фазы и/или итог цикла со свежими
// счётчиками. Адаптер в CLI переливает сюда события движка.
type Msg struct {
	Phase      string
	Cycle      *CycleStatus
	Commits    uint64
	Rollbacks  uint64
	AvgLatency time.Duration
}

const historyRows = 8

type watchModel struct {
	path    string
	events  <-chan Msg
	spinner spinner.Model

	phase      string
	cycles     []CycleStatus
	commits    uint64
	rollbacks  uint64
	avgLatency time.Duration

	width int
	done  bool
}

type eventMsg Msg
type doneMsg struct{}

// NewWatchModel returns a Bubble Tea model that renders live reload status.
func NewWatchModel(path string, events <-chan Msg) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	return &watchModel{
		path:    path,
		events:  events,
		spinner: sp,
		phase:   "idle",
		width:   80,
	}
}

func (m *watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.applyEvent(Msg(msg))
		return m, m.listenForEvent()
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *watchModel) applyEvent(ev Msg) {
	if ev.Phase != "" {
		m.phase = ev.Phase
	}
	if ev.Cycle != nil {
		m.cycles = append(m.cycles, *ev.Cycle)
		if len(m.cycles) > historyRows {
			m.cycles = m.cycles[len(m.cycles)-historyRows:]
		}
		m.commits = ev.Commits
		m.rollbacks = ev.Rollbacks
		m.avgLatency = ev.AvgLatency
	}
}

func (m *watchModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	header := fmt.Sprintf("watching %s (%s)", truncate(m.path, m.width-24), m.phase)
	if m.done {
		header = "stopped: " + m.path
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if len(m.cycles) == 0 {
		b.WriteString(dimStyle.Render("  waiting for changes..."))
		b.WriteString("\n")
	}
	for _, c := range m.cycles {
		b.WriteString("  ")
		b.WriteString(m.cycleLine(c))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  commits %d  rollbacks %d  avg %s",
		m.commits, m.rollbacks, m.avgLatency.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}

func (m *watchModel) cycleLine(c CycleStatus) string {
	stamp := c.Time.Format("15:04:05")
	if !c.Committed {
		line := fmt.Sprintf("%s  rollback  %v", stamp, c.Err)
		return styleStatus("error").Render(truncate(line, m.width-4))
	}
	what := "full build"
	if !c.FullBuild {
		what = fmt.Sprintf("spliced %s", strings.Join(c.Recompiled, ", "))
	}
	line := fmt.Sprintf("%s  patch #%d  %s  %s",
		stamp, c.PatchID, what, c.Latency.Round(time.Millisecond))
	return styleStatus("done").Render(truncate(line, m.width-4))
}

func (m *watchModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
