package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/inkstorm/editor"
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/section"
)

// styles for the demo renderer.
var (
	headingLargeStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	headingSmallStyle = lipgloss.NewStyle().Bold(true)
	boldStyle         = lipgloss.NewStyle().Bold(true)
	italicStyle       = lipgloss.NewStyle().Italic(true)
	linkStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Underline(true)
	caretStyle        = lipgloss.NewStyle().Reverse(true)
	figureStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	placeholderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	promptStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	snapshotStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("108"))
)

func (m *model) View() string {
	var b strings.Builder

	sel, hasSel := m.surface.SelectionRange()
	doc := m.ed.Document()

	if m.ed.IsEmpty() && !hasFocusIn(doc, sel, hasSel) {
		b.WriteString(placeholderStyle.Render(m.ed.Options().EmptyPlaceholderText))
		b.WriteByte('\n')
	}

	for _, sec := range doc.Sections() {
		switch v := sec.(type) {
		case *section.TextSection:
			b.WriteString(m.renderText(v, sel, hasSel))
		case *section.ContainerSection:
			b.WriteString(m.renderContainer(v))
		}
		b.WriteByte('\n')
	}

	if m.showSnapshot {
		b.WriteByte('\n')
		b.WriteString(snapshotStyle.Render(m.ed.Serialize()))
		b.WriteByte('\n')
	}

	if m.promptActive() {
		b.WriteByte('\n')
		b.WriteString(promptStyle.Render(m.prompt.View()))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

// hasFocusIn reports whether the selection focuses a section of doc.
func hasFocusIn(doc *section.Document, sel cursor.Selection, ok bool) bool {
	return ok && doc.Contains(sel.Focus.SectionID)
}

// renderText renders one text section with its marks, injecting the
// caret at the focus offset.
func (m *model) renderText(ts *section.TextSection, sel cursor.Selection, hasSel bool) string {
	caretAt := -1
	if hasSel && sel.IsCollapsed() && sel.Focus.SectionID == ts.SectionID() {
		caretAt = sel.Focus.Offset
	}

	var b strings.Builder
	pos := 0
	for _, r := range ts.Runs() {
		text := r.Text
		if caretAt >= pos && caretAt < pos+r.Len() {
			local := caretAt - pos
			runes := []rune(text)
			before := string(runes[:local])
			at := string(runes[local])
			after := string(runes[local+1:])
			b.WriteString(markStyle(r.Marks).Render(before))
			b.WriteString(caretStyle.Render(at))
			b.WriteString(markStyle(r.Marks).Render(after))
		} else {
			b.WriteString(markStyle(r.Marks).Render(text))
		}
		pos += r.Len()
	}
	if caretAt == pos {
		b.WriteString(caretStyle.Render(" "))
	}

	line := b.String()
	if line == "" {
		line = " "
	}
	switch ts.Heading() {
	case section.HeadingLarge:
		return headingLargeStyle.Render(line)
	case section.HeadingSmall:
		return headingSmallStyle.Render(line)
	default:
		return line
	}
}

// markStyle maps run marks onto a terminal style.
func markStyle(marks section.Marks) lipgloss.Style {
	s := lipgloss.NewStyle()
	if marks.IsLink() {
		s = linkStyle
	}
	if marks.Bold {
		s = s.Bold(true)
	}
	if marks.Italic {
		s = s.Italic(true)
	}
	return s
}

// renderContainer renders an atomic object placeholder line.
func (m *model) renderContainer(cs *section.ContainerSection) string {
	switch obj := cs.Object().(type) {
	case section.Image:
		label := "[image: " + obj.Src
		if obj.Alt != "" {
			label += " (" + obj.Alt + ")"
		}
		label += "]"
		return figureStyle.Render(label)
	case section.Rule:
		return figureStyle.Render(strings.Repeat("─", 40))
	default:
		return ""
	}
}

// renderStatus renders the toolbar state line and key hints.
func (m *model) renderStatus() string {
	var parts []string

	parts = append(parts, "toolbar: "+m.toolbar.State().String())
	if m.toolbar.State() == editor.ToolbarFormatControls {
		fs := m.toolbar.ActiveFormats()
		var active []string
		if fs.Bold {
			active = append(active, "bold")
		}
		if fs.Italic {
			active = append(active, "italic")
		}
		if fs.Link {
			active = append(active, "link")
		}
		if len(active) > 0 {
			parts = append(parts, "active: "+strings.Join(active, ","))
		}
	}
	if m.status != "" {
		parts = append(parts, errorStyle.Render(m.status))
	}

	hints := "^B bold  ^E italic  ^H heading  ^L link  ^G image  ^R rule  ^V paste  ^Y copy html  ^S html  ^C quit"
	line := strings.Join(parts, "  |  ") + "\n" + hints
	return statusStyle.Render(line)
}
