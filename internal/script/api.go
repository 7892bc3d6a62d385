package script

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/section"
)

// inkModule exposes the editor core to Lua as the global "ink" table.
// Section indices are 1-based, matching Lua convention.
type inkModule struct {
	rt *Runtime
}

func newInkModule(rt *Runtime) *inkModule {
	return &inkModule{rt: rt}
}

// register installs the module into the Lua state.
func (m *inkModule) register(L *lua.LState) {
	mod := L.NewTable()

	// Document inspection
	L.SetField(mod, "section_count", L.NewFunction(m.sectionCount))
	L.SetField(mod, "section_id", L.NewFunction(m.sectionID))
	L.SetField(mod, "section_kind", L.NewFunction(m.sectionKind))
	L.SetField(mod, "section_text", L.NewFunction(m.sectionText))
	L.SetField(mod, "section_heading", L.NewFunction(m.sectionHeading))
	L.SetField(mod, "text", L.NewFunction(m.text))

	// Cursor
	L.SetField(mod, "cursor", L.NewFunction(m.cursorGet))
	L.SetField(mod, "set_cursor", L.NewFunction(m.cursorSet))
	L.SetField(mod, "select_range", L.NewFunction(m.selectRange))

	// Editing operations
	L.SetField(mod, "insert_text", L.NewFunction(m.insertText))
	L.SetField(mod, "toggle_bold", L.NewFunction(m.toggleBold))
	L.SetField(mod, "toggle_italic", L.NewFunction(m.toggleItalic))
	L.SetField(mod, "wrap_heading", L.NewFunction(m.wrapHeading))
	L.SetField(mod, "wrap_link", L.NewFunction(m.wrapLink))
	L.SetField(mod, "remove_link", L.NewFunction(m.removeLink))
	L.SetField(mod, "split", L.NewFunction(m.split))
	L.SetField(mod, "insert_rule", L.NewFunction(m.insertRule))
	L.SetField(mod, "insert_image", L.NewFunction(m.insertImage))

	// Hooks
	L.SetField(mod, "on_change", L.NewFunction(m.onChange))

	L.SetGlobal("ink", mod)
}

// at resolves a 1-based Lua index into a section, raising on range errors.
func (m *inkModule) at(L *lua.LState, luaIdx int) section.Section {
	sec := m.rt.doc.At(luaIdx - 1)
	if sec == nil {
		L.RaiseError("section index %d out of range (1..%d)", luaIdx, m.rt.doc.Len())
	}
	return sec
}

// section_count() -> number
func (m *inkModule) sectionCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.rt.doc.Len()))
	return 1
}

// section_id(i) -> string
func (m *inkModule) sectionID(L *lua.LState) int {
	sec := m.at(L, L.CheckInt(1))
	L.Push(lua.LString(sec.SectionID()))
	return 1
}

// section_kind(i) -> "text" | "image" | "rule"
func (m *inkModule) sectionKind(L *lua.LState) int {
	switch sec := m.at(L, L.CheckInt(1)).(type) {
	case *section.TextSection:
		L.Push(lua.LString("text"))
	case *section.ContainerSection:
		L.Push(lua.LString(sec.Object().Kind()))
	}
	return 1
}

// section_text(i) -> string | nil
// Returns nil for container sections.
func (m *inkModule) sectionText(L *lua.LState) int {
	ts, ok := m.at(L, L.CheckInt(1)).(*section.TextSection)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ts.Text()))
	return 1
}

// section_heading(i) -> "none" | "large" | "small" | nil
func (m *inkModule) sectionHeading(L *lua.LState) int {
	ts, ok := m.at(L, L.CheckInt(1)).(*section.TextSection)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(ts.Heading().String()))
	return 1
}

// text() -> string
// Returns the plain text of every text section, newline-joined.
func (m *inkModule) text(L *lua.LState) int {
	var parts []string
	for _, sec := range m.rt.doc.Sections() {
		if ts, ok := sec.(*section.TextSection); ok {
			parts = append(parts, ts.Text())
		}
	}
	L.Push(lua.LString(strings.Join(parts, "\n")))
	return 1
}

// cursor() -> section_id, offset
func (m *inkModule) cursorGet(L *lua.LState) int {
	focus := m.rt.ctrl.Selection().Focus
	L.Push(lua.LString(focus.SectionID))
	L.Push(lua.LNumber(focus.Offset))
	return 2
}

// set_cursor(section_id, offset)
func (m *inkModule) cursorSet(L *lua.LState) int {
	id := L.CheckString(1)
	off := L.CheckInt(2)
	if !m.rt.doc.Contains(id) {
		L.RaiseError("set_cursor: unknown section %s", id)
		return 0
	}
	m.rt.ctrl.Collapse(cursor.NewPosition(id, off))
	m.rt.ctrl.Repair()
	return 0
}

// select_range(section_id, anchor_offset, focus_offset)
func (m *inkModule) selectRange(L *lua.LState) int {
	id := L.CheckString(1)
	anchor := L.CheckInt(2)
	focus := L.CheckInt(3)
	if !m.rt.doc.Contains(id) {
		L.RaiseError("select_range: unknown section %s", id)
		return 0
	}
	m.rt.ctrl.SetSelection(cursor.NewSelection(
		cursor.NewPosition(id, anchor),
		cursor.NewPosition(id, focus),
	))
	m.rt.ctrl.Repair()
	return 0
}

// insert_text(text)
// Inserts plain text at the caret.
func (m *inkModule) insertText(L *lua.LState) int {
	text := L.CheckString(1)
	ts := m.rt.ctrl.InText()
	if ts == nil {
		L.RaiseError("insert_text: caret is not in a text section")
		return 0
	}
	off := m.rt.ctrl.Selection().Focus.Offset
	ts.InsertText(off, text)
	ts.Normalize()
	m.rt.ctrl.Collapse(cursor.NewPosition(ts.SectionID(), off+len([]rune(text))))
	return 0
}

// toggle_bold()
func (m *inkModule) toggleBold(L *lua.LState) int {
	m.rt.eng.ToggleBold()
	return 0
}

// toggle_italic()
func (m *inkModule) toggleItalic(L *lua.LState) int {
	m.rt.eng.ToggleItalic()
	return 0
}

// wrap_heading()
// Cycles the heading level of the section under the selection.
func (m *inkModule) wrapHeading(L *lua.LState) int {
	m.rt.eng.WrapHeading()
	return 0
}

// wrap_link(url) -> link_id
func (m *inkModule) wrapLink(L *lua.LState) int {
	url := L.CheckString(1)
	linkID, err := m.rt.eng.WrapLink(url)
	if err != nil {
		L.RaiseError("wrap_link: %v", err)
		return 0
	}
	L.Push(lua.LString(linkID))
	return 1
}

// remove_link(link_id)
func (m *inkModule) removeLink(L *lua.LState) int {
	m.rt.eng.RemoveLink(L.CheckString(1))
	return 0
}

// split()
// Splits the section at the caret.
func (m *inkModule) split(L *lua.LState) int {
	m.rt.eng.SplitAtCursor()
	return 0
}

// insert_rule([before_section_id])
// Inserts a horizontal rule before the given section, defaulting to the
// caret's section.
func (m *inkModule) insertRule(L *lua.LState) int {
	beforeID := L.OptString(1, m.rt.ctrl.Selection().Focus.SectionID)
	m.rt.eng.InsertContainer(section.Rule{}, beforeID)
	return 0
}

// insert_image(src [, alt [, before_section_id]])
func (m *inkModule) insertImage(L *lua.LState) int {
	src := L.CheckString(1)
	alt := L.OptString(2, "")
	beforeID := L.OptString(3, m.rt.ctrl.Selection().Focus.SectionID)
	m.rt.eng.InsertContainer(section.Image{Src: src, Alt: alt}, beforeID)
	return 0
}

// on_change(fn)
// Registers a callback invoked after every applied document mutation.
func (m *inkModule) onChange(L *lua.LState) int {
	fn := L.CheckFunction(1)
	m.rt.changeHooks = append(m.rt.changeHooks, fn)
	return 0
}
