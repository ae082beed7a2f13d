package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/timeprojec/internal/model"
	"github.com/Tiliavir/timeprojec/internal/timecalc"
	"github.com/Tiliavir/timeprojec/internal/tracker"
)

// TickMsg advances running timers by one tick.
type TickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live project list driven by the tick.
type Model struct {
	svc      *tracker.Service
	prefs    *tracker.Preferences
	keys     *KeyMap
	help     help.Model
	interval time.Duration

	cursor      int
	preset      int
	showSeconds bool
	theme       string
	status      string
	statusErr   bool
	width       int
}

// New creates the list model. A non-positive interval means one second.
func New(svc *tracker.Service, prefs *tracker.Preferences, interval time.Duration) Model {
	if interval <= 0 {
		interval = tracker.DefaultTickInterval
	}
	return Model{
		svc:         svc,
		prefs:       prefs,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		interval:    interval,
		preset:      timecalc.DefaultPreset,
		showSeconds: prefs.ShowSeconds(),
		theme:       prefs.Theme(),
	}
}

// Init starts the tick.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

// Update handles ticks, window resizes and key presses.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.svc.Store().Tick()
		return m, tickCmd(m.interval)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	projects := m.svc.Store().FilteredProjects()
	m.cursor = min(m.cursor, max(0, len(projects)-1))
	m.status, m.statusErr = "", false

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(projects)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Toggle):
		if p, ok := current(projects, m.cursor); ok {
			m.report(m.svc.ToggleTimer(p.ID))
		}

	case key.Matches(msg, m.keys.Add):
		if p, ok := current(projects, m.cursor); ok {
			m.report(m.svc.AddTime(p.ID, timecalc.Presets[m.preset].Seconds))
		}

	case key.Matches(msg, m.keys.Remove):
		if p, ok := current(projects, m.cursor); ok {
			m.report(m.svc.AddTime(p.ID, -timecalc.Presets[m.preset].Seconds))
		}

	case key.Matches(msg, m.keys.Preset):
		m.preset = (m.preset + 1) % len(timecalc.Presets)

	case key.Matches(msg, m.keys.Tag):
		m.cycleTag()
		m.cursor = 0

	case key.Matches(msg, m.keys.Seconds):
		m.showSeconds = !m.showSeconds
		if err := m.prefs.SetShowSeconds(m.showSeconds); err != nil {
			m.status, m.statusErr = err.Error(), true
		}

	case key.Matches(msg, m.keys.StopAll):
		if n := m.svc.StopAll(); n > 0 {
			m.status = fmt.Sprintf("Stopped %d timer(s)", n)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) report(_ model.Project, err error) {
	if err != nil {
		m.status, m.statusErr = err.Error(), true
	}
}

// cycleTag moves the filter to the next tag, wrapping through "all".
func (m *Model) cycleTag() {
	store := m.svc.Store()
	tags := store.Tags()
	if len(tags) == 0 {
		return
	}
	selected := store.SelectedTag()
	next := tags[0].ID
	for i, t := range tags {
		if t.ID == selected {
			next = ""
			if i+1 < len(tags) {
				next = tags[i+1].ID
			}
			break
		}
	}
	if err := m.svc.SelectTag(next); err != nil {
		m.status, m.statusErr = err.Error(), true
	}
}

func current(projects []model.Project, cursor int) (model.Project, bool) {
	if cursor < 0 || cursor >= len(projects) {
		return model.Project{}, false
	}
	return projects[cursor], true
}

// Cursor returns the index of the highlighted row.
func (m Model) Cursor() int { return m.cursor }

// Preset returns the quick-add preset in use.
func (m Model) Preset() timecalc.Preset { return timecalc.Presets[m.preset] }

// ShowSeconds reports whether times render with seconds.
func (m Model) ShowSeconds() bool { return m.showSeconds }

// View renders the list.
func (m Model) View() string {
	store := m.svc.Store()
	projects := store.FilteredProjects()
	cursor := min(m.cursor, max(0, len(projects)-1))

	var b strings.Builder

	title := "timeprojec"
	if sel := store.SelectedTag(); sel != "" {
		if t, ok := store.Tag(sel); ok {
			title += " · " + t.Name
		}
	}
	b.WriteString(HeaderStyle(m.theme).Render(title))
	b.WriteString("\n\n")

	if len(projects) == 0 {
		b.WriteString(dimStyle.Render("  No projects. Add one with: tp project add <name>"))
		b.WriteString("\n")
	}

	var total int64
	for i, p := range projects {
		total += p.TimeInSeconds
		marker := "  "
		if p.IsRunning {
			marker = runningStyle.Render("▶ ")
		}
		line := fmt.Sprintf("%s%s %-24s %s",
			marker,
			AccentStyle(p.AccentColor).Render("●"),
			p.Name,
			timecalc.FormatTime(p.TimeInSeconds, m.showSeconds),
		)
		if i == cursor {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Total %s · preset %s",
		timecalc.FormatTime(total, m.showSeconds), timecalc.Presets[m.preset].Label)))
	b.WriteString("\n")

	if m.status != "" {
		style := dimStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render("  " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return lipgloss.NewStyle().MaxWidth(max(m.width, 0)).Render(b.String())
}
