// Package auditfeed provides a live terminal view over the audit trail.
package auditfeed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/oscaar90/escalation-engine/internal/audit"
	"github.com/oscaar90/escalation-engine/internal/resolver"
	"github.com/oscaar90/escalation-engine/internal/style"
)

// Feed styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(style.ColorAccent)

	dimStyle = lipgloss.NewStyle().
			Foreground(style.ColorMuted)

	resolveStyle = lipgloss.NewStyle().
			Foreground(style.ColorAccent)

	whoisStyle = lipgloss.NewStyle().
			Foreground(style.ColorPass)

	levelsStyle = lipgloss.NewStyle().
			Foreground(style.ColorWarn)
)

// actionSymbols mark each audit action in the stream.
var actionSymbols = map[string]string{
	resolver.ActionResolve: "→",
	resolver.ActionWhois:   "●",
}

// KeyMap defines key bindings for the audit feed.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns bindings for the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Bottom, k.Quit}
}

// FullHelp returns bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Help, k.Quit},
	}
}

// Model is the bubbletea model for the audit feed TUI.
type Model struct {
	path    string
	source  *Source
	records []audit.Record
	err     error

	// UI state
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// New creates an audit feed model tailing the log at path.
func New(path string) Model {
	return Model{
		path:   path,
		source: NewSource(path),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// initialRecordsMsg carries the records already in the log at startup.
type initialRecordsMsg struct {
	records []audit.Record
	err     error
}

// newRecordMsg carries one freshly tailed record.
type newRecordMsg struct {
	record audit.Record
}

// sourceClosedMsg signals that the tail source shut down.
type sourceClosedMsg struct{}

// Init starts the initial load and the tail loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadExisting, m.waitForRecord)
}

// loadExisting reads the records already in the log.
func (m Model) loadExisting() tea.Msg {
	records, err := audit.Read(m.path)
	return initialRecordsMsg{records: records, err: err}
}

// waitForRecord blocks until the source delivers the next record.
func (m Model) waitForRecord() tea.Msg {
	rec, ok := <-m.source.Records()
	if !ok {
		return sourceClosedMsg{}
	}
	return newRecordMsg{record: rec}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.viewportHeight())
			m.ready = true
			m.refreshContent()
			m.viewport.GotoBottom()
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.viewportHeight()
		}
		return m, nil

	case initialRecordsMsg:
		m.err = msg.err
		m.records = msg.records
		if m.ready {
			m.refreshContent()
			m.viewport.GotoBottom()
		}
		return m, nil

	case newRecordMsg:
		follow := m.viewport.AtBottom()
		m.records = append(m.records, msg.record)
		if m.ready {
			m.refreshContent()
			if follow {
				m.viewport.GotoBottom()
			}
		}
		return m, m.waitForRecord

	case sourceClosedMsg:
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			_ = m.source.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.viewport.Height = m.viewportHeight()
			return m, nil

		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	// Everything else (arrow keys, page up/down) scrolls the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// viewportHeight returns the room left between header and footer.
func (m Model) viewportHeight() int {
	h := m.height - lipgloss.Height(m.headerView()) - lipgloss.Height(m.footerView())
	if h < 1 {
		h = 1
	}
	return h
}

// refreshContent rebuilds the viewport content from the record list.
func (m *Model) refreshContent() {
	if len(m.records) == 0 {
		m.viewport.SetContent(dimStyle.Render("Waiting for audit records..."))
		return
	}

	lines := make([]string, 0, len(m.records))
	for _, rec := range m.records {
		lines = append(lines, renderRecord(rec))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

// View renders the feed.
func (m Model) View() string {
	if !m.ready {
		return "Loading audit trail..."
	}
	return m.headerView() + m.viewport.View() + "\n" + m.footerView()
}

func (m Model) headerView() string {
	line := fmt.Sprintf("%s %s",
		headerStyle.Render("Audit Trail"),
		dimStyle.Render(fmt.Sprintf("%s · %d records", m.path, len(m.records))))
	if m.err != nil {
		line += "  " + style.Error.Render(m.err.Error())
	}
	return line + "\n\n"
}

func (m Model) footerView() string {
	return m.help.View(m.keys)
}

// renderRecord renders one audit record as a stream line.
func renderRecord(rec audit.Record) string {
	symbol := actionSymbols[rec.Action]
	if symbol == "" {
		symbol = "·"
	}

	levels := "1 level"
	if rec.ResultLevels != 1 {
		levels = fmt.Sprintf("%d levels", rec.ResultLevels)
	}

	return fmt.Sprintf("%s %s %s %s %s",
		dimStyle.Render(rec.Timestamp),
		actionStyle(rec.Action).Render(symbol+" "+fmt.Sprintf("%-7s", rec.Action)),
		rec.Query,
		levelsStyle.Render("("+levels+")"),
		dimStyle.Render(rec.User+"@"+rec.Hostname))
}

// actionStyle picks the stream style for an action.
func actionStyle(action string) lipgloss.Style {
	switch action {
	case resolver.ActionResolve:
		return resolveStyle
	case resolver.ActionWhois:
		return whoisStyle
	default:
		return dimStyle
	}
}
