// Package tui provides a Bubble Tea browser for check results.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/questcheck/config"
	"github.com/nathoo/questcheck/engine"
	"github.com/nathoo/questcheck/engine/sanity"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed user input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the results browser.
type Model struct {
	engine *engine.Engine
	cfg    *config.Config
	world  string

	viewport viewport.Model
	input    textinput.Model
	history  *History

	results  []sanity.Result
	filter   string
	rawLines []rawLine // accumulated output lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	checked  bool
	quitting bool
	lastCmd  string
}

// checkDoneMsg carries the results of a full check into the Update loop.
type checkDoneMsg struct {
	results []sanity.Result
}

// outputMsg carries command output into the Update loop.
type outputMsg struct {
	input    string   // echoed user input (empty for automatic output)
	lines    []string // output lines
	isSystem bool     // true for command feedback
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, cfg *config.Config, world string) Model {
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "filter results or /help"
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:  eng,
		cfg:     cfg,
		world:   world,
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, cfg *config.Config, world string) error {
	m := New(eng, cfg, world)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial command that runs the first check.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.runCheck())
}

// runCheck checks the world on the calling goroutine, so the engine is only
// ever used from Init and Update, and delivers the results as a message.
func (m Model) runCheck() tea.Cmd {
	results := append([]sanity.Result(nil), m.engine.CheckAll()...)
	return func() tea.Msg {
		return checkDoneMsg{results: results}
	}
}

// Update handles messages (key presses, window resize, check results).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
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
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case checkDoneMsg:
		m.results = msg.results
		m.checked = true
		m = m.appendOutput(outputMsg{lines: m.reportLines()})

	case outputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line. Plain text sets the
// result filter; lines starting with '/' are commands.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(outputMsg{input: input, lines: []string{"Nothing to repeat."}, isSystem: true})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	if !strings.HasPrefix(input, "/") {
		input = "/filter " + input
	}
	output, cmd := m.handleMeta(input)
	if cmd != nil {
		return m, cmd
	}
	m = m.appendOutput(outputMsg{input: input, lines: output})
	return m, nil
}

// visibleResults applies the configured ignore patterns and the filter.
func (m Model) visibleResults() []sanity.Result {
	results := m.cfg.Filter(m.results)
	if m.filter == "" {
		return results
	}
	needle := strings.ToLower(m.filter)
	var out []sanity.Result
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.String()), needle) {
			out = append(out, r)
		}
	}
	return out
}

// reportLines formats the visible results grouped by kind.
func (m Model) reportLines() []string {
	shown := m.visibleResults()
	var lines []string
	for _, g := range sanity.GroupByKind(shown) {
		lines = append(lines, fmt.Sprintf("%s (%d)", g.Kind.Title(), len(g.Results)))
		for _, r := range g.Results {
			lines = append(lines, "  "+r.String())
		}
	}
	if len(shown) == 0 && m.filter != "" {
		return append(lines, fmt.Sprintf("[No results match %q.]", m.filter))
	}
	return append(lines, sanity.Summary(shown))
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg outputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	// Blank line separator between commands.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}
		wrapped := wordWrap(rl.text, width)
		switch {
		case rl.isInput:
			styled = append(styled, styleUserInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Leading indentation is kept on the first line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " "))]
	var result strings.Builder
	result.WriteString(indent)
	words := strings.Fields(text)
	lineLen := len(indent)

	for i, word := range words {
		wLen := len(word)
		if i == 0 {
			result.WriteString(word)
			lineLen += wLen
			continue
		}
		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(indent)
			result.WriteString(word)
			lineLen = len(indent) + wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}
	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches commands. It returns output lines, or a command
// when the program should quit or re-run the check.
func (m *Model) handleMeta(input string) ([]string, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]
	arg := strings.TrimSpace(strings.TrimPrefix(input, cmd))

	switch cmd {
	case "/quit", "/exit":
		m.quitting = true
		return []string{"Goodbye."}, tea.Quit

	case "/check":
		m.checked = false
		return nil, m.runCheck()

	case "/filter":
		m.filter = arg
		return m.reportLines(), nil

	case "/template":
		tpl, ok := m.engine.Repo.FindTemplate(arg)
		if !ok {
			return []string{fmt.Sprintf("[No template named %q.]", arg)}, nil
		}
		return paramLines(m.engine.Describe(m.engine.TemplateParameters(tpl))), nil

	case "/quest":
		q, ok := m.engine.Repo.FindQuest(arg)
		if !ok {
			return []string{fmt.Sprintf("[No quest named %q.]", arg)}, nil
		}
		return paramLines(m.engine.Describe(m.engine.QuestParameters(q))), nil

	case "/object":
		obj, ok := m.engine.Repo.FindObject(arg)
		if !ok {
			return []string{fmt.Sprintf("[No object named %q.]", arg)}, nil
		}
		return paramLines(m.engine.Describe(m.engine.ObjectParameters(obj))), nil

	case "/kinds":
		return m.kindLines(arg), nil

	case "/suggest":
		m.cfg.Suggest = !m.cfg.Suggest
		m.engine.SetSuggest(m.cfg.Suggest)
		if m.cfg.Suggest {
			return []string{"[Suggestions enabled. /check to refresh.]"}, nil
		}
		return []string{"[Suggestions disabled. /check to refresh.]"}, nil

	case "/help":
		return m.cmdHelp(), nil

	default:
		return []string{fmt.Sprintf("[Unknown command: %s. Type /help for available commands.]", cmd)}, nil
	}
}

func paramLines(rows []engine.ParamRow) []string {
	if len(rows) == 0 {
		return []string{"(no parameters)"}
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, "  "+engine.FormatRow(r))
	}
	return lines
}

func (m *Model) kindLines(family string) []string {
	var lines []string
	current := ""
	for _, k := range m.engine.ListKinds() {
		if family != "" && k.Family != family {
			continue
		}
		if k.Family != current {
			current = k.Family
			lines = append(lines, current+":")
		}
		lines = append(lines, "  "+k.Name)
	}
	if len(lines) == 0 {
		return []string{fmt.Sprintf("[No kinds in family %q.]", family)}
	}
	return lines
}

func (m *Model) cmdHelp() []string {
	return []string{
		"Type text to filter the results, or a command:",
		"  /check            Re-run every check",
		"  /filter [text]    Set or clear the result filter",
		"  /template <name>  Show the parameters a template requires",
		"  /quest <name>     Show the parameters a quest requires",
		"  /object <name>    Show the parameters an object must bind",
		"  /kinds [family]   List trigger, reward and seqop kinds",
		"  /suggest          Toggle 'did you mean' hints",
		"  /quit             Exit",
		"  again (g)         Repeat the last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for history",
	}
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
