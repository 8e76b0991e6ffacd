package repl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/weft/log"
	"github.com/ardnew/weft/namespace"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help          Print this cruft
  list          List namespaces and the bindings of the current one
  use <name>    Switch to namespace <name>, creating it if needed
  edit          Write a multi-line block in $EDITOR and run it
  save <path>   Write the lines that ran successfully as a runnable script
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type an expression to print its value, or a statement such as x = 1
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config configures a session.
type Config struct {
	// Store holds the namespaces the session can use. A nil store starts
	// empty.
	Store *namespace.Store
	// Namespace is the namespace the session starts in.
	Namespace string
	// CacheDir holds the history file. Empty keeps history in memory.
	CacheDir string
	// Logger receives trace diagnostics.
	Logger log.Logger
}

// editedMsg carries the block saved in the editor.
type editedMsg struct{ src string }

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctx        context.Context
	input      textinput.Model
	store      *namespace.Store
	ns         *namespace.Namespace
	logger     log.Logger
	history    *History
	historyIdx int
	transcript []string // statements that ran successfully, in order

	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int

	width    int
	quitting bool
	mode     inputMode
	drafts   [2]draft // unsent input per mode
}

// Run starts an interactive session and blocks until the user quits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Store == nil {
		cfg.Store = namespace.NewStore()
	}

	if cfg.Logger.Logger == nil {
		cfg.Logger = log.Default()
	}

	var histPath string
	if cfg.CacheDir != "" {
		histPath = filepath.Join(cfg.CacheDir, baseHistory)
	}

	history := NewHistory(histPath)
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("namespace", cfg.Namespace),
		slog.Int("history", history.Len()),
	)

	_, err := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctx:        ctx,
		input:      ti,
		store:      cfg.Store,
		ns:         cfg.Store.Namespace(cfg.Namespace),
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editedMsg:
		if strings.TrimSpace(msg.src) == "" {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		return m.run(msg.src, namespace.ModeBlock)

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hint())
	b.WriteString("\n")

	return b.String()
}

// hint renders the line below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeCtrl {
			return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)")
		}

		return hintStyle.Render(fmt.Sprintf("[%s] Type an expression or press Esc for commands", m.ns.Name()))
	}

	if m.mode == modeEval && !m.tabActive {
		if c, ok := enclosingCall(input, m.input.Position()); ok {
			if params, ok := signature(m.ns, c.name); ok {
				return renderSignature(c.name, params, c.arg)
			}
		}
	}

	return m.renderCandidateBar()
}

// formatCommand formats the echo of an evaluated line.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the echo of a control command.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctx, "repl keypress", slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(+1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1, false), nil

	case tea.KeyDown:
		return m.browse(+1, false), nil

	case tea.KeyShiftUp:
		return m.browse(-1, true), nil

	case tea.KeyShiftDown:
		return m.browse(+1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh(false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchTo(modeCtrl), nil
		}

		return m.switchTo(modeEval), nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	// Deletion and cursor movement never auto-complete.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle steps through the candidates in direction dir. A single candidate is
// accepted at once.
func (m model) cycle(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		m.replaceWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n
	case dir > 0:
		m.tabActive = true
		m.preTabText, m.preTabCursor = m.input.Value(), m.input.Position()
		m.suggIdx = 0
	default:
		m.tabActive = true
		m.preTabText, m.preTabCursor = m.input.Value(), m.input.Position()
		m.suggIdx = n - 1
	}

	m.replaceWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceWord substitutes the word being completed and moves the cursor to
// its end.
func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.wordEnd = m.wordStart + len(s)
	m.input.SetCursor(m.wordEnd)
}

// refresh recomputes the matches. With autoConfirm, a word that already
// equals its only candidate is accepted.
func (m *model) refresh(autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// browse moves through history by dir. With sameMode, entries of the other
// mode are skipped; otherwise the mode follows the entry.
func (m model) browse(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		e, err := m.history.At(i)
		if err != nil || (sameMode && e.Mode != m.mode) {
			continue
		}

		if e.Mode != m.mode {
			m = m.switchTo(e.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(e.Line)
		m.input.SetCursor(len(e.Line))
		m.refresh(false)

		return m
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

// switchTo changes the input mode, keeping each mode's unsent input.
func (m model) switchTo(mode inputMode) model {
	m.drafts[m.mode] = draft{text: m.input.Value(), cursor: m.input.Position()}
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.drafts[mode].text)
	m.input.SetCursor(m.drafts[mode].cursor)
	m.refresh(false)

	return m
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.drafts[m.mode] = draft{}
	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctx, "could not save history", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		return m.command(input)
	}

	echo := tea.Println(formatCommand(input))
	m, cmd := m.run(input, namespace.ModeAuto)

	return m, tea.Sequence(echo, cmd)
}

// run executes src in the current namespace and prints its output.
func (m model) run(src string, mode namespace.Mode) (model, tea.Cmd) {
	out, err := m.evaluate(src, mode)

	var cmds []tea.Cmd
	if out != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(out)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(cmds...)
}

// evaluate executes src and records it in the transcript when it succeeds.
// The output has its final newline removed.
func (m *model) evaluate(src string, mode namespace.Mode) (string, error) {
	out, err := m.ns.Exec(m.ctx, src, mode)

	m.logger.TraceContext(m.ctx, "repl eval",
		slog.String("namespace", m.ns.Name()),
		slog.String("mode", namespace.Classify(src, mode).String()),
		slog.Bool("ok", err == nil),
	)

	if err == nil {
		m.transcript = append(m.transcript, src)
	}

	return strings.TrimSuffix(out, "\n"), err
}

func (m model) command(input string) (model, tea.Cmd) {
	fields := strings.Fields(input)
	echo := tea.Println(formatCtrlCommand(input))

	m.logger.TraceContext(m.ctx, "repl command", slog.Any("args", fields))

	reply := func(s string) (model, tea.Cmd) {
		return m, tea.Sequence(echo, tea.Println(s))
	}

	switch name, args := fields[0], fields[1:]; name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return reply(helpMessage())

	case "l", "list":
		return reply(m.listing())

	case "u", "use":
		if len(args) != 1 {
			return reply(errorStyle.Render("usage: use <namespace>"))
		}

		m.ns = m.store.Namespace(args[0])
		m.refresh(false)

		return reply(hintStyle.Render("using namespace " + m.ns.Name()))

	case "s", "save":
		if len(args) != 1 {
			return reply(errorStyle.Render("usage: save <path>"))
		}

		if err := m.save(args[0]); err != nil {
			return reply(errorStyle.Render("error: " + err.Error()))
		}

		return reply(resultStyle.Render(fmt.Sprintf("saved %d statements to %s", len(m.transcript), args[0])))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		ed := &editCommand{ctx: m.ctx, seed: m.drafts[modeEval].text, logger: m.logger}

		return m, tea.Sequence(echo, tea.Exec(ed, func(err error) tea.Msg {
			if err != nil {
				return editErrorMsg{err: err}
			}

			return editedMsg{src: ed.src}
		}))

	default:
		return m, tea.Println(errorStyle.Render("Unknown command: " + name + " (try 'help')"))
	}
}

// listing shows every namespace, marking the current one, followed by the
// bindings of the current namespace.
func (m model) listing() string {
	var b strings.Builder

	for _, name := range m.store.Names() {
		mark := "  "
		if name == m.ns.Name() {
			mark = "* "
		}

		b.WriteString(mark + name + "\n")
	}

	for _, key := range m.ns.Keys() {
		v, _ := m.ns.Get(key)
		b.WriteString(fmt.Sprintf("    %s %s\n", key, hintStyle.Render(preview(v))))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func preview(v any) string {
	const limit = 40

	s := fmt.Sprintf("%v", v)
	if len(s) > limit {
		s = s[:limit-3] + "..."
	}

	return fmt.Sprintf("= %s (%T)", s, v)
}

// save writes the transcript as a script runnable with "weft run".
func (m model) save(path string) error {
	var b strings.Builder
	for _, src := range m.transcript {
		b.WriteString(src)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return ErrSave.Wrap(err).With(slog.String("path", path))
	}

	return nil
}
