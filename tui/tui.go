package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/doomcrawl/shell"
	"github.com/nathoo/doomcrawl/types"
)

// mapPanelMinWidth is the terminal width below which the map panel is hidden.
const mapPanelMinWidth = 72

// rawLine stores an unstyled output line with its event kind, so we can
// re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     types.EventKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
	isTrace  bool
}

// Model is the Bubble Tea model for the Dungeon of Doom TUI.
type Model struct {
	ctx     context.Context
	session *shell.Session

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	quitting bool
}

// gameOutputMsg carries narration into the Update loop.
type gameOutputMsg struct {
	input  string   // echoed player input (empty for intro)
	system []string // meta-command output
	events []types.Event
	trace  []string
}

// New creates a TUI model for a session whose game already exists.
func New(ctx context.Context, s *shell.Session) Model {
	ti := textinput.New()
	ti.Prompt = s.Game.Prompt()
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:     ctx,
		session: s,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program. When fresh is true the starting room
// is entered; otherwise the loaded situation is re-narrated.
func Run(ctx context.Context, s *shell.Session, fresh bool) error {
	m := New(ctx, s)
	var evs []types.Event
	if fresh {
		evs = s.Game.StartEvents()
	} else {
		evs = s.Game.ResumeEvents()
	}
	m.rawLines = append(m.rawLines, rawLine{text: "DUNGEON OF DOOM", kind: types.EventLoot}, rawLine{})
	m = m.appendOutput(gameOutputMsg{events: evs})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(1, m.height-2) // 1 status bar + 1 input line
		vpWidth := m.narrativeWidth()

		if !m.ready {
			m.viewport = viewport.New(vpWidth, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = vpWidth
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	if shell.IsMeta(input) {
		rep := m.session.Meta(m.ctx, input)
		m = m.appendOutput(gameOutputMsg{input: input, system: rep.System, events: rep.Events})
		if rep.Quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.session.Game.Over() {
		m = m.appendOutput(gameOutputMsg{input: input, system: []string{"The game is over. Use /load or /quit."}})
		return m, nil
	}

	res, err := m.session.Step(m.ctx, input)
	if err != nil {
		m = m.appendOutput(gameOutputMsg{input: input, system: []string{"Nothing to repeat."}})
		return m, nil
	}
	out := gameOutputMsg{input: input, events: res.Events}
	if m.session.Trace {
		out.trace = m.session.TraceLines(res)
	}
	m = m.appendOutput(out)
	return m, nil
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: m.input.Prompt + msg.input, isInput: true})
	}
	for _, line := range msg.system {
		m.rawLines = append(m.rawLines, rawLine{text: line, isSystem: true})
	}
	for _, e := range msg.events {
		for _, line := range shell.Lines(e) {
			m.rawLines = append(m.rawLines, rawLine{text: line, kind: e.Kind})
		}
	}
	for _, line := range msg.trace {
		m.rawLines = append(m.rawLines, rawLine{text: line, isTrace: true})
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	if m.session.Game != nil {
		m.input.Prompt = m.session.Game.Prompt()
	}
	m.refreshViewport()
	return m
}

func (m Model) showMap() bool {
	return m.width >= mapPanelMinWidth
}

func (m Model) narrativeWidth() int {
	if m.showMap() {
		return m.width - lipgloss.Width(m.renderMapPanel())
	}
	return m.width
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(10, m.viewport.Width)

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		// Map rows and prompt options keep their layout.
		wrapped := rl.text
		if rl.kind != types.EventMap && rl.kind != types.EventPrompt {
			wrapped = wordWrap(rl.text, width)
		}

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		case rl.isTrace:
			styled = append(styled, styleTrace.Render(wrapped))
		default:
			styled = append(styled, renderKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: narrative and map, status bar, input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := m.viewport.View()
	if m.showMap() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderMapPanel())
	}
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// renderMapPanel draws the current floor as the player has seen it.
func (m Model) renderMapPanel() string {
	g := m.session.Game
	title := styleMapTitle.Render(floorTitle(g.Player.Pos.Z))
	rows := strings.Join(g.MapRows(), "\n")
	return styleMapPanel.Render(title + "\n" + rows)
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
