// Package ui provides the terminal forecast browser using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-nightwatch/internal/forecast"
	"github.com/litescript/ls-nightwatch/internal/state"
	"github.com/litescript/ls-nightwatch/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewNights ViewMode = iota
	ViewNight
	ViewObject
)

// RefreshFunc reruns the forecast and stores the result in the state manager.
type RefreshFunc func(ctx context.Context) error

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic state polling.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new forecast is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a failed forecast run.
	ErrorMsg struct {
		Error error
	}

	// refreshDoneMsg reports the end of a manual refresh.
	refreshDoneMsg struct {
		err error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	refresh RefreshFunc

	// UI state
	viewMode   ViewMode
	width      int
	height     int
	ready      bool
	statusMsg  string
	animTick   int
	refreshing bool

	// Sub-models
	nights NightsModel
	night  NightModel
	object ObjectModel

	snapshot state.Snapshot
}

// New creates a new root UI model. refresh may be nil when the caller
// drives updates itself.
func New(stateMgr *state.Manager, refresh RefreshFunc) Model {
	return Model{
		state:    stateMgr,
		refresh:  refresh,
		viewMode: ViewNights,
		nights:   NewNightsModel(),
		night:    NewNightModel(),
		object:   NewObjectModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), animTickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewNights
		case "2":
			if m.night.Date() != "" {
				m.viewMode = ViewNight
			}
		case "3":
			if m.object.found {
				m.viewMode = ViewObject
			}
		case "esc", "backspace":
			if m.viewMode > ViewNights {
				m.viewMode--
			}

		case "r":
			if cmd := m.startRefresh(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Title takes 3 lines, footer 2
		contentHeight := msg.Height - 6
		m.nights = m.nights.SetSize(msg.Width, contentHeight)
		m.night = m.night.SetSize(msg.Width, contentHeight)
		m.object = m.object.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		snap := m.state.Snapshot()
		if snap.Result != m.snapshot.Result || snap.LastRun != m.snapshot.LastRun {
			m.applySnapshot(snap)
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.applySnapshot(msg.Snapshot)

	case refreshDoneMsg:
		m.refreshing = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Refresh failed: %v", msg.err)
		} else {
			m.statusMsg = "Forecast refreshed"
		}
		m.applySnapshot(m.state.Snapshot())

	case OpenNightMsg:
		m.night = m.night.SetNight(msg.Date, m.snapshot.Result)
		m.viewMode = ViewNight

	case OpenObjectMsg:
		m.object = m.object.SetObject(msg.Date, msg.ObjectID, m.snapshot.Result)
		m.viewMode = ViewObject

	case ErrorMsg:
		m.statusMsg = "Error: " + msg.Error.Error()

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.nights = m.nights.UpdateData(snap.Result)
	m.night = m.night.UpdateData(snap.Result)
	m.object = m.object.UpdateData(snap.Result)
}

func (m *Model) startRefresh() tea.Cmd {
	if m.refresh == nil || m.refreshing {
		return nil
	}
	m.refreshing = true
	m.statusMsg = ""
	refresh := m.refresh
	return func() tea.Msg {
		return refreshDoneMsg{err: refresh(context.Background())}
	}
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewNights:
		m.nights, cmd = m.nights.Update(msg)
	case ViewNight:
		m.night, cmd = m.night.Update(msg)
	case ViewObject:
		m.object, cmd = m.object.Update(msg)
	}
	return cmd
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewNights:
		content = m.nights.View()
	case ViewNight:
		content = m.night.View()
	case ViewObject:
		content = m.object.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n  ")

	title := []rune("✦ ls-nightwatch")
	for col, r := range title {
		color := gradientColor(col, len(title))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true).Render(string(r)))
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  v%s", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient:
// midnight blue -> indigo -> teal.
func gradientColor(col, width int) string {
	x := 0.0
	if width > 1 {
		x = float64(col) / float64(width-1)
	}

	lerp := func(a, b, t float64) int { return int(a + t*(b-a)) }
	var r, g, b int
	if x < 0.5 {
		t := x / 0.5
		r, g, b = lerp(59, 129, t), lerp(91, 140, t), lerp(219, 248, t)
	} else {
		t := (x - 0.5) / 0.5
		r, g, b = lerp(129, 45, t), lerp(140, 212, t), lerp(248, 191, t)
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Nights", "[2] Night", "[3] Object"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#818CF8")).Bold(true)

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6366F1"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.refreshing:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Computing forecast...")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.Result != nil:
		age := time.Since(m.snapshot.LastRun).Round(time.Second)
		status = dimStyle.Render(fmt.Sprintf("updated %s ago", age))
		if m.snapshot.RunDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.RunDuration.Round(time.Millisecond).String() + ")")
		}
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting for forecast...")
	}

	var help string
	switch m.viewMode {
	case ViewNight:
		help = "↑↓: object | enter: detail | esc: back | r: refresh"
	case ViewObject:
		help = "esc: back | r: refresh"
	default:
		help = "↑↓: night | enter: open | r: refresh | q: quit"
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 160, 180, 230
		case dist <= 3:
			r8, g8, b8 = 120, 140, 200
		case dist <= 5:
			r8, g8, b8 = 90, 110, 170
		default:
			r8, g8, b8 = 70, 80, 130
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render(string(r)))
	}
	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}

// Result returns the forecast currently displayed.
func (m Model) Result() *forecast.Result {
	return m.snapshot.Result
}
