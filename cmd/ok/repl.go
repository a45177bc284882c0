package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgomes/okaylib/ok"
	"github.com/mgomes/okaylib/views"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	eventStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

var sequenceCommands = []string{
	"push", "pop", "shift", "unshift", "insert", "remove", "set",
	"sort", "get", "len", "clear", "sample", "show",
}

type historyEntry struct {
	input  string
	output string
	events []string
	isErr  bool
}

// eventLog collects the sequence events fired while one command runs.
type eventLog struct {
	entries []string
}

func (l *eventLog) drain() []string {
	out := l.entries
	l.entries = nil
	return out
}

type replModel struct {
	textInput    textinput.Model
	cfg          cliConfig
	seq          *ok.Items
	list         *ok.Instance
	events       *eventLog
	rng          *rand.Rand
	history      []historyEntry
	historyLimit int
	cmdHistory   []string
	historyIdx   int
	width        int
	height       int
	showHelp     bool
	showHTML     bool
	quitting     bool
	initialized  bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlR key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlR: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "toggle html"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

func newREPLModel(cfg cliConfig, render bool) (replModel, error) {
	ti := textinput.New()
	ti.Placeholder = "push 1 2 3"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "ok> "

	m := replModel{
		textInput:    ti,
		cfg:          cfg,
		events:       &eventLog{},
		history:      make([]historyEntry, 0),
		historyLimit: cfg.HistoryLimit,
		cmdHistory:   make([]string, 0),
		historyIdx:   -1,
		showHTML:     render,
	}
	if cfg.SampleSeed != 0 {
		m.rng = rand.New(rand.NewPCG(cfg.SampleSeed, cfg.SampleSeed))
	}
	if err := m.resetSequence(render); err != nil {
		return replModel{}, err
	}
	return m, nil
}

// resetSequence replaces the sequence, wiring the event log and, when
// render is set, a list view that follows it.
func (m *replModel) resetSequence(render bool) error {
	seq := ok.NewSequence()
	for _, event := range []string{ok.EventAdd, ok.EventRemove, ok.EventSort} {
		seq.On(event, m.recorder(event))
	}
	m.seq = seq
	m.list = nil
	if !render {
		return nil
	}
	f, err := m.cfg.newFactory()
	if err != nil {
		return err
	}
	v, err := views.New(f)
	if err != nil {
		return err
	}
	item, err := v.SimpleView().Extend(ok.NewHash(map[string]ok.Value{
		"tagName": ok.NewString("li"),
		"template": ok.Method("template", func(call *ok.Call, args []ok.Value) (ok.Value, error) {
			if len(args) == 0 {
				return ok.NewString(""), nil
			}
			return ok.NewString(args[0].String()), nil
		}),
	}))
	if err != nil {
		return err
	}
	list, err := v.CollectionView().New(ok.NewHash(map[string]ok.Value{
		"tagName":            ok.NewString("ul"),
		"watch":              seq.Value(),
		"defaultConstructor": item.Value(),
	}))
	if err != nil {
		return err
	}
	if _, err := list.Invoke("render"); err != nil {
		return err
	}
	if _, err := list.Invoke("start"); err != nil {
		return err
	}
	m.list = list
	return nil
}

func (m *replModel) recorder(event string) *ok.Function {
	sink := m.events
	return ok.NewFunc("log:"+event, func(call *ok.Call, args []ok.Value) (ok.Value, error) {
		parts := []string{event}
		for _, arg := range args {
			if arg.Kind() == ok.KindItems {
				parts = append(parts, "<sequence>")
				continue
			}
			parts = append(parts, arg.String())
		}
		sink.entries = append(sink.entries, strings.Join(parts, " "))
		return ok.NewNil(), nil
	})
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlR):
			m.showHTML = !m.showHTML
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, ":") {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				m.textInput.SetValue("")
				m.historyIdx = -1
				return m, cmd
			}

			output, isErr := m.evaluate(input)
			m.appendHistory(historyEntry{
				input:  input,
				output: output,
				events: m.events.drain(),
				isErr:  isErr,
			})
			m.cmdHistory = append(m.cmdHistory, input)
			m.textInput.SetValue("")
			m.historyIdx = -1
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *replModel) appendHistory(entry historyEntry) {
	m.history = append(m.history, entry)
	if m.historyLimit > 0 && len(m.history) > m.historyLimit {
		m.history = m.history[len(m.history)-m.historyLimit:]
	}
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":html":
		m.showHTML = !m.showHTML
	case ":reset", ":r":
		if err := m.resetSequence(m.list != nil); err != nil {
			m.appendHistory(historyEntry{input: input, output: err.Error(), isErr: true})
			return m, nil
		}
		m.appendHistory(historyEntry{input: input, output: "Sequence reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.appendHistory(historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	if input == "" || strings.Contains(input, " ") {
		return m
	}

	var completions []string
	for _, name := range sequenceCommands {
		if strings.HasPrefix(name, input) {
			completions = append(completions, name)
		}
	}

	if len(completions) == 1 {
		m.textInput.SetValue(completions[0] + " ")
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.appendHistory(historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// evaluate runs one sequence command and returns its printed result.
func (m replModel) evaluate(input string) (string, bool) {
	result, err := m.run(strings.Fields(input))
	if err != nil {
		return err.Error(), true
	}
	return result, false
}

func (m replModel) run(fields []string) (string, error) {
	name, rest := fields[0], fields[1:]
	switch name {
	case "push", "unshift", "set":
		values := parseValues(rest)
		var err error
		switch name {
		case "push":
			_, err = m.seq.Push(values...)
		case "unshift":
			_, err = m.seq.Unshift(values...)
		default:
			_, err = m.seq.Set(values...)
		}
		if err != nil {
			return "", err
		}
		return strconv.Itoa(m.seq.Len()), nil
	case "pop", "shift":
		var (
			v   ok.Value
			err error
		)
		if name == "pop" {
			v, err = m.seq.Pop()
		} else {
			v, err = m.seq.Shift()
		}
		if err != nil {
			return "", err
		}
		return formatValue(v), nil
	case "insert":
		if len(rest) == 0 {
			return "", errors.New("usage: insert <index> <value>...")
		}
		index, err := strconv.Atoi(rest[0])
		if err != nil {
			return "", fmt.Errorf("insert: index %q is not an integer", rest[0])
		}
		if _, err := m.seq.Insert(index, parseValues(rest[1:])...); err != nil {
			return "", err
		}
		return strconv.Itoa(m.seq.Len()), nil
	case "remove":
		if len(rest) == 0 {
			return "", errors.New("usage: remove <index> [count]")
		}
		index, err := strconv.Atoi(rest[0])
		if err != nil {
			return "", fmt.Errorf("remove: index %q is not an integer", rest[0])
		}
		count := 1
		if len(rest) > 1 {
			if count, err = strconv.Atoi(rest[1]); err != nil {
				return "", fmt.Errorf("remove: count %q is not an integer", rest[1])
			}
		}
		removed, err := m.seq.Remove(index, count)
		if err != nil {
			return "", err
		}
		return ok.NewArray(removed).String(), nil
	case "clear":
		removed, err := m.seq.Empty()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed %d", len(removed)), nil
	case "sort":
		cmp := ok.Comparator(nil)
		if len(rest) > 0 && rest[0] == "desc" {
			cmp = func(a, b ok.Value) int { return ok.Compare(b, a) }
		}
		if _, err := m.seq.Sort(cmp); err != nil {
			return "", err
		}
		return m.seq.String(), nil
	case "get":
		if len(rest) == 0 {
			return "", errors.New("usage: get <index>")
		}
		index, err := strconv.Atoi(rest[0])
		if err != nil {
			return "", fmt.Errorf("get: index %q is not an integer", rest[0])
		}
		return formatValue(m.seq.At(index)), nil
	case "len":
		return strconv.Itoa(m.seq.Len()), nil
	case "sample":
		if len(rest) == 0 {
			return formatValue(m.seq.Sample(m.rng)), nil
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return "", fmt.Errorf("sample: count %q is not an integer", rest[0])
		}
		return m.seq.SampleN(m.rng, n).String(), nil
	case "show":
		return m.seq.String(), nil
	default:
		return "", fmt.Errorf("unknown command %q", name)
	}
}

// parseValue reads ints, floats, booleans and nil; anything else is a
// string, with surrounding quotes removed.
func parseValue(raw string) ok.Value {
	switch raw {
	case "nil":
		return ok.NewNil()
	case "true":
		return ok.NewBool(true)
	case "false":
		return ok.NewBool(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ok.NewInt(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return ok.NewFloat(f)
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return ok.NewString(unquoted)
	}
	return ok.NewString(raw)
}

func parseValues(raw []string) []ok.Value {
	values := make([]ok.Value, len(raw))
	for i, r := range raw {
		values[i] = parseValue(r)
	}
	return values
}

func formatValue(v ok.Value) string {
	if v.IsNil() {
		return "nil"
	}
	return v.String()
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("ok sequence playground")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(min(m.width-2, 60), 0))) + "\n\n")

	reservedLines := 10
	if m.showHelp {
		reservedLines += 12
	}
	availableHeight := max(m.height-reservedLines, 1)

	var lines []string
	for _, entry := range m.history {
		if entry.input != "" {
			lines = append(lines, mutedStyle.Render("  › ")+entry.input)
		}
		for _, event := range entry.events {
			lines = append(lines, "    "+eventStyle.Render("• "+event))
		}
		if entry.isErr {
			lines = append(lines, "  "+errorStyle.Render("✗ "+entry.output))
		} else {
			lines = append(lines, "  "+resultStyle.Render("→ "+entry.output))
		}
	}
	if len(lines) > availableHeight {
		lines = lines[len(lines)-availableHeight:]
	}
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(borderStyle.Render(m.renderSequence()) + "\n")

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+r") + helpDescStyle.Render(" html  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func (m replModel) renderSequence() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Items")
	body := fmt.Sprintf("%s (%d)", m.seq.String(), m.seq.Len())
	if m.showHTML && m.list != nil {
		markup, err := views.Render(m.list)
		if err != nil {
			markup = errorStyle.Render(err.Error())
		}
		body += "\n" + mutedStyle.Render(markup)
	}
	return title + "\n" + body
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"push v..", "Append values"},
		{"pop/shift", "Remove from the end or the front"},
		{"unshift v..", "Prepend values"},
		{"insert i v..", "Insert values at index i"},
		{"remove i [n]", "Remove n values from index i"},
		{"set v..", "Replace every value"},
		{"sort [desc]", "Sort in natural order"},
		{"get i", "Read index i (negative from the end)"},
		{"sample [n]", "Pick random values"},
		{":reset", "Start a new sequence"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-12s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(cfg cliConfig, render bool) error {
	model, err := newREPLModel(cfg, render)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
