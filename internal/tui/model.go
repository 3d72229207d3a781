package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folder2pdf/internal/processor"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"|", "/", "-", "\\"}

// Model renders job status received from the conversion worker. It is the
// only place status reaches the terminal; the worker never draws.
type Model struct {
	updates  <-chan processor.Status
	started  time.Time
	width    int
	frame    int
	status   processor.Status
	skipped  int
	quitting bool
}

type doneMsg struct{}

type statusMsg processor.Status

type tickMsg struct{}

func NewModel(updates <-chan processor.Status) Model {
	return Model{updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForUpdates(m.updates), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = processor.Status(msg)
		if msg.Result != nil && msg.Result.Outcome == processor.OutcomeSkipped {
			m.skipped++
		}
		return m, listenForUpdates(m.updates)
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

// Status returns the last status received.
func (m Model) Status() processor.Status {
	return m.status
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	indicator := " "
	if m.status.State.Active() || m.status.State == processor.StateIdle {
		indicator = spinnerFrames[m.frame]
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	lines := []string{
		titleStyle.Render("folder2pdf"),
		accentStyle.Render(indicator) + " " + labelStyle.Render(m.status.Message),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.status.Index, m.status.Total)) +
			dimStyle.Render(fmt.Sprintf("  pages:%d  skipped:%d", m.status.Pages, m.skipped)),
		dimStyle.Render(fmt.Sprintf("State: %s  Elapsed: %s", m.status.State, elapsed)),
		barStyle.Render(renderBar(barWidth, m.status.Progress)),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan processor.Status) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return statusMsg(update)
	}
}

func tick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func renderBar(width int, ratio float64) string {
	if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	accentStyle = lipgloss.NewStyle().Foreground(ColorAccentAlt)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
