// Package main is a terminal demo host for the inkstorm editing core.
//
// It drives the in-memory surface the way a web host would drive a
// contenteditable region: printable keys become native edits, structural
// keys flow through the lifecycle hooks, and the toolbar prompts are
// rendered from the coordinator's state machine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dshills/inkstorm/editor"
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/host"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	optionsFile := flag.String("options", "", "path to a TOML options file")
	snapshotFile := flag.String("load", "", "snapshot file to load on start")
	logFile := flag.String("log", "", "write diagnostics to this file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("inkstorm-demo %s (%s)\n", version, commit)
		return 0
	}

	// The TUI owns the terminal, so diagnostics go to a file or nowhere.
	logCfg := editor.DefaultLoggerConfig()
	logCfg.Level = editor.ParseLogLevel(*logLevel)
	logger := editor.NewLogger(logCfg)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logger.SetOutput(f)
	} else {
		logger.Disable()
	}

	surface := host.NewDetachedMemorySurface()

	opts := []editor.Option{editor.WithLogger(logger)}
	if *optionsFile != "" {
		opts = append(opts, editor.WithOptionsFile(*optionsFile))
	}
	ed, err := editor.New(surface, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer ed.Close()

	if *optionsFile != "" {
		if err := ed.WatchOptions(*optionsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: options watch unavailable: %v\n", err)
		}
	}

	if *snapshotFile != "" {
		data, err := os.ReadFile(*snapshotFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: reading snapshot: %v\n", err)
			return 1
		}
		if err := ed.LoadSnapshot(string(data)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: loading snapshot: %v\n", err)
			return 1
		}
	}

	p := tea.NewProgram(newModel(ed, surface), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// model is the bubbletea model wrapping one editor instance.
type model struct {
	ed      *editor.Editor
	surface *host.MemorySurface
	toolbar *editor.ToolbarHandle

	prompt       textinput.Model
	showSnapshot bool
	status       string
	width        int
	height       int
}

func newModel(ed *editor.Editor, surface *host.MemorySurface) *model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 48

	surface.PlaceCaret(cursor.NewPosition(ed.Document().First().SectionID(), 0))

	return &model{
		ed:      ed,
		surface: surface,
		toolbar: ed.Toolbar(),
		prompt:  ti,
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.promptActive() {
		return m.handlePromptKey(msg)
	}

	m.status = ""
	switch msg.String() {
	case "left":
		m.moveCaret(-1, false)
	case "right":
		m.moveCaret(1, false)
	case "shift+left":
		m.moveCaret(-1, true)
	case "shift+right":
		m.moveCaret(1, true)
	case "up":
		m.surface.PressKey(event.Named(event.KeyArrowUp))
	case "down":
		m.surface.PressKey(event.Named(event.KeyArrowDown))
	case "home":
		m.jumpInSection(0)
	case "end":
		m.jumpInSection(-1)
	case "backspace":
		m.surface.PressKey(event.Named(event.KeyBackspace))
	case "delete":
		m.surface.PressKey(event.Named(event.KeyDelete))
	case "enter":
		m.surface.PressKey(event.Named(event.KeyEnter))
	case "ctrl+b":
		m.ed.Bold()
	case "ctrl+e":
		m.ed.Italic()
	case "ctrl+h":
		m.ed.Heading()
	case "ctrl+l":
		m.toolbar.ActivateLink()
		if m.promptActive() {
			m.openPrompt("Link URL")
		} else {
			m.status = "select text first"
		}
	case "ctrl+g":
		m.toolbar.ActivateImage()
		if m.promptActive() {
			m.openPrompt("Image URL")
		} else {
			m.status = "place the caret in an empty section first"
		}
	case "ctrl+r":
		m.ed.InsertRule()
	case "ctrl+v":
		m.pasteClipboard()
	case "ctrl+y":
		m.copySnapshot()
	case "ctrl+s":
		m.showSnapshot = !m.showSnapshot
	case "tab":
		m.surface.Type("\t")
	default:
		for _, r := range msg.Runes {
			m.surface.Type(string(r))
		}
	}
	return m, nil
}

// handlePromptKey routes input to the active toolbar prompt.
func (m *model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.toolbar.Cancel()
		m.prompt.Blur()
		return m, nil
	case "enter":
		return m, m.submitPrompt()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *model) submitPrompt() tea.Cmd {
	value := m.prompt.Value()
	switch m.toolbar.State() {
	case editor.ToolbarLinkInput:
		if err := m.toolbar.SubmitLink(value); err != nil {
			m.status = fmt.Sprintf("invalid url: %v", err)
			return nil
		}
		m.prompt.Blur()
	case editor.ToolbarImageURLInput:
		if err := m.toolbar.SubmitImageURL(value); err != nil {
			m.status = fmt.Sprintf("invalid url: %v", err)
			return nil
		}
		m.openPrompt("Alt text")
	case editor.ToolbarImageAltInput:
		m.toolbar.SubmitImageAlt(value)
		m.prompt.Blur()
	}
	return nil
}

func (m *model) promptActive() bool {
	switch m.toolbar.State() {
	case editor.ToolbarLinkInput, editor.ToolbarImageURLInput, editor.ToolbarImageAltInput:
		return true
	}
	return false
}

func (m *model) openPrompt(placeholder string) {
	m.prompt.Placeholder = placeholder
	m.prompt.SetValue("")
	m.prompt.Focus()
}

// moveCaret steps the focus one rune, crossing into the adjacent text
// section at the edges. With extend the anchor stays put.
func (m *model) moveCaret(delta int, extend bool) {
	sel, ok := m.surface.SelectionRange()
	if !ok {
		return
	}
	doc := m.ed.Document()
	focus := sel.Focus

	ts, err := doc.TextByID(focus.SectionID)
	if err != nil {
		return
	}

	next := focus.Offset + delta
	switch {
	case next >= 0 && next <= ts.Len():
		focus = cursor.NewPosition(focus.SectionID, next)
	case delta < 0:
		if prev := adjacentText(doc, focus.SectionID, -1); prev != nil {
			focus = cursor.NewPosition(prev.SectionID(), prev.Len())
		}
	default:
		if nxt := adjacentText(doc, focus.SectionID, 1); nxt != nil {
			focus = cursor.NewPosition(nxt.SectionID(), 0)
		}
	}

	if extend {
		m.surface.SelectRange(cursor.NewSelection(sel.Anchor, focus))
	} else {
		m.surface.PlaceCaret(focus)
	}
}

// jumpInSection collapses the caret at an absolute offset in the focus
// section; -1 means the end.
func (m *model) jumpInSection(offset int) {
	sel, ok := m.surface.SelectionRange()
	if !ok {
		return
	}
	ts, err := m.ed.Document().TextByID(sel.Focus.SectionID)
	if err != nil {
		return
	}
	if offset < 0 {
		offset = ts.Len()
	}
	m.surface.PlaceCaret(cursor.NewPosition(ts.SectionID(), offset))
}

// adjacentText finds the nearest TextSection in the given direction,
// skipping containers.
func adjacentText(doc *section.Document, fromID string, step int) *section.TextSection {
	idx := doc.Index(fromID)
	if idx < 0 {
		return nil
	}
	for i := idx + step; i >= 0 && i < doc.Len(); i += step {
		if ts, ok := doc.At(i).(*section.TextSection); ok {
			return ts
		}
	}
	return nil
}

func (m *model) pasteClipboard() {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		m.status = "clipboard empty"
		return
	}
	m.ed.HandleEvent(event.NewPaste(text, m.ed.ID()))
}

func (m *model) copySnapshot() {
	if err := clipboard.WriteAll(m.ed.Serialize()); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	m.status = "snapshot copied"
}
