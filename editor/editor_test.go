package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inkstorm/internal/config"
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/host"
)

// harness assembles an editor over the in-memory surface. Tests drive
// the surface the way a user would: caret placement, typing, key
// presses, and range selections.
type harness struct {
	ed      *Editor
	surface *host.MemorySurface
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	surface := host.NewDetachedMemorySurface()
	ed, err := New(surface, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ed.Close() })
	return &harness{ed: ed, surface: surface}
}

func (h *harness) firstID() string {
	return h.ed.doc.First().SectionID()
}

func TestEditorScenarioEnterOnEmptyDocument(t *testing.T) {
	h := newHarness(t)

	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.PressKey(event.Named(event.KeyEnter))

	assert.Equal(t, 2, h.ed.SectionCount())
	assert.Equal(t, "\n", h.ed.Text(), "both sections empty")
}

func TestEditorScenarioBoldSelection(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("hello")

	h.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(h.firstID(), 0),
		cursor.NewPosition(h.firstID(), 5),
	))
	require.Equal(t, ToolbarFormatControls, h.ed.Toolbar().State())

	h.ed.Bold()

	assert.True(t, h.ed.Toolbar().ActiveFormats().Bold)
	snapshot := h.ed.Serialize()
	assert.Contains(t, snapshot, "<b>hello</b>")
}

func TestEditorScenarioBackspaceMergesEmptySection(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("a")
	h.surface.PressKey(event.Named(event.KeyEnter))
	require.Equal(t, 2, h.ed.SectionCount())

	h.surface.PressKey(event.Named(event.KeyBackspace))

	assert.Equal(t, 1, h.ed.SectionCount())
	assert.Equal(t, "a", h.ed.Text())
	sel, ok := h.surface.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, 1, sel.Focus.Offset)
}

func TestEditorScenarioDeleteRemovesRule(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.ed.InsertRule()
	require.Equal(t, 2, h.ed.SectionCount())

	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.PressKey(event.Named(event.KeyDelete))

	assert.Equal(t, 1, h.ed.SectionCount())
	assert.Equal(t, "", h.ed.Text())
}

func TestEditorScenarioInvalidLinkKeepsPromptOpen(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("read this")

	h.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(h.firstID(), 5),
		cursor.NewPosition(h.firstID(), 9),
	))
	tb := h.ed.Toolbar()
	tb.ActivateLink()
	require.Equal(t, ToolbarLinkInput, tb.State())

	err := tb.SubmitLink("not a url")

	assert.Error(t, err)
	assert.Equal(t, ToolbarLinkInput, tb.State(), "prompt stays open on invalid url")
	assert.Equal(t, "read this", h.ed.Text())
	assert.NotContains(t, h.ed.Serialize(), "<a ")
}

func TestEditorScenarioImageInsertKeepsTextFirst(t *testing.T) {
	h := newHarness(t)
	firstID := h.firstID()
	h.surface.PlaceCaret(cursor.NewPosition(firstID, 0))

	require.NoError(t, h.ed.InsertImage("example.com/pic.png", "a picture"))

	require.Equal(t, 3, h.ed.SectionCount())
	snapshot := h.ed.Serialize()
	assert.Contains(t, snapshot, `<img src="http://example.com/pic.png"`)
	idx := strings.Index(snapshot, "<figure")
	require.Greater(t, idx, 0)
	head := snapshot[:idx]
	assert.Contains(t, head, "<p", "a text section precedes the image")
}

func TestEditorLinkRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("read the docs here")

	h.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(h.firstID(), 9),
		cursor.NewPosition(h.firstID(), 13),
	))
	linkID, err := h.ed.Link("docs.example.com")
	require.NoError(t, err)
	require.NotEmpty(t, linkID)
	assert.Contains(t, h.ed.Serialize(), `href="http://docs.example.com"`)

	h.ed.Unlink(linkID)
	assert.NotContains(t, h.ed.Serialize(), "<a ")
	assert.Equal(t, "read the docs here", h.ed.Text())
}

func TestEditorSnapshotRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("hello world")
	h.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(h.firstID(), 0),
		cursor.NewPosition(h.firstID(), 5),
	))
	h.ed.Bold()

	snapshot := h.ed.Serialize()

	other := newHarness(t)
	require.NoError(t, other.ed.LoadSnapshot(snapshot))
	assert.Equal(t, "hello world", other.ed.Text())
	assert.Equal(t, snapshot, other.ed.Serialize())
}

func TestEditorSerializeDefaultsReadOnly(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.ed.Serialize(), `data-editable="false"`)

	live := newHarness(t, WithEditable(true))
	assert.Contains(t, live.ed.Serialize(), `data-editable="true"`)
}

func TestEditorLoadSnapshotRestoresEditableFlag(t *testing.T) {
	h := newHarness(t, WithEditable(true))
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("live")

	other := newHarness(t)
	require.NoError(t, other.ed.LoadSnapshot(h.ed.Serialize()))
	assert.Contains(t, other.ed.Serialize(), `data-editable="true"`)
}

func TestEditorLoadSnapshotRejectsForeignMarkup(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("keep me")

	err := h.ed.LoadSnapshot("<div><p>not ours</p></div>")

	require.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.Equal(t, "keep me", h.ed.Text(), "document unchanged after rejected load")
}

func TestEditorHeadingCycle(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("Title")
	h.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(h.firstID(), 0),
		cursor.NewPosition(h.firstID(), 5),
	))

	h.ed.Heading()
	assert.Contains(t, h.ed.Serialize(), "<h1")

	h.ed.Heading()
	snapshot := h.ed.Serialize()
	assert.NotContains(t, snapshot, "<h1")
	assert.NotContains(t, snapshot, "<h2")
}

func TestEditorHeadingStripsMarks(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("Title")
	h.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(h.firstID(), 0),
		cursor.NewPosition(h.firstID(), 5),
	))
	h.ed.Bold()

	h.ed.Heading()

	assert.NotContains(t, h.ed.Serialize(), "<b>", "heading wrap strips inline marks")
}

func TestEditorEmptyDocumentPlaceholder(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.ed.IsEmpty())
	assert.Contains(t, h.ed.Serialize(), `data-placeholder="Tell your story..."`)

	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("x")
	assert.False(t, h.ed.IsEmpty())
	assert.NotContains(t, h.ed.Serialize(), "data-placeholder")
}

func TestEditorOptionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inkstorm.toml")
	data := []byte("block_tag = \"div\"\nempty_placeholder_text = \"Write...\"\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	h := newHarness(t, WithOptionsFile(path))

	assert.Equal(t, "div", h.ed.Options().BlockTag)
	assert.Contains(t, h.ed.Serialize(), `data-placeholder="Write..."`)
	assert.Contains(t, h.ed.Serialize(), "<div")
}

func TestEditorWithOptions(t *testing.T) {
	opts := config.Default()
	opts.SectionClassNames = []string{"graf"}

	h := newHarness(t, WithOptions(opts))
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("styled")

	assert.Contains(t, h.ed.Serialize(), `class="graf"`)
}

func TestEditorScript(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("hi")

	err := h.ed.RunScript(`
		changes = 0
		ink.on_change(function() changes = changes + 1 end)
		assert(ink.text() == "hi")
	`)
	require.NoError(t, err)

	h.surface.Type("!")
	require.NoError(t, h.ed.RunScript(`assert(changes >= 1)`))
	assert.Equal(t, "hi!", h.ed.Text())
}

func TestEditorIgnoresOtherInstanceEvents(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("mine")

	h.ed.HandleEvent(event.NewPaste("theirs", "some-other-editor"))

	assert.Equal(t, "mine", h.ed.Text())
}

func TestEditorDetachAttach(t *testing.T) {
	h := newHarness(t)
	h.surface.PlaceCaret(cursor.NewPosition(h.firstID(), 0))
	h.surface.Type("live")

	h.ed.Detach()
	h.surface.PressKey(event.Named(event.KeyEnter))
	assert.Equal(t, 1, h.ed.SectionCount(), "no structural handling while detached")

	h.ed.Attach()
	h.surface.PressKey(event.Named(event.KeyEnter))
	assert.Equal(t, 2, h.ed.SectionCount())
}

func TestEditorClose(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.ed.Close())

	assert.ErrorIs(t, h.ed.LoadSnapshot("<div></div>"), ErrClosed)
	assert.ErrorIs(t, h.ed.RunScript("return"), ErrClosed)
}
