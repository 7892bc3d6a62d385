package dispatcher

import (
	"testing"

	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/ops"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/host"
	"github.com/dshills/inkstorm/internal/toolbar"
)

type fixture struct {
	doc     *section.Document
	surface *host.MemorySurface
	ctrl    *cursor.Controller
	eng     *ops.Engine
	coord   *toolbar.Coordinator
	pipe    *Pipeline
}

func newFixture(sections ...section.Section) *fixture {
	doc := section.NewDocumentFromSections(sections)
	surface := host.NewMemorySurface(doc)
	ctrl := cursor.NewController(doc)
	eng := ops.New(doc, ctrl, surface)
	coord := toolbar.NewCoordinator(doc, ctrl, eng)
	pipe := NewPipeline(doc, ctrl, eng, surface, coord)
	surface.OnSelectionChange(func(sel cursor.Selection) {
		pipe.HandleEvent(event.NewSelection(event.KindSelectionChange, sel, ""))
	})
	return &fixture{doc: doc, surface: surface, ctrl: ctrl, eng: eng, coord: coord, pipe: pipe}
}

func TestPipelineTyping(t *testing.T) {
	fx := newFixture(section.NewTextSection())
	fx.surface.PlaceCaret(cursor.NewPosition(fx.doc.First().SectionID(), 0))

	fx.surface.Type("hello")

	ts := fx.doc.First()
	if got := ts.Text(); got != "hello" {
		t.Errorf("text = %q, want %q", got, "hello")
	}
	sel := fx.ctrl.Selection()
	if !sel.IsCollapsed() || sel.Focus.Offset != 5 {
		t.Errorf("selection = %v, want collapsed at 5", sel)
	}
}

func TestPipelineEnterSplits(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("hello world"))
	id := fx.doc.First().SectionID()
	fx.surface.PlaceCaret(cursor.NewPosition(id, 5))

	fx.surface.PressKey(event.Named(event.KeyEnter))

	if fx.doc.Len() != 2 {
		t.Fatalf("sections = %d, want 2", fx.doc.Len())
	}
	if got := fx.doc.First().Text(); got != "hello" {
		t.Errorf("head text = %q, want %q", got, "hello")
	}
	tail, ok := fx.doc.At(1).(*section.TextSection)
	if !ok {
		t.Fatalf("second section is %T, want *TextSection", fx.doc.At(1))
	}
	if got := tail.Text(); got != " world" {
		t.Errorf("tail text = %q, want %q", got, " world")
	}
	sel := fx.ctrl.Selection()
	if sel.Focus.SectionID != tail.SectionID() || sel.Focus.Offset != 0 {
		t.Errorf("caret after split = %v, want start of tail", sel)
	}
}

func TestPipelineBackspaceMergesSections(t *testing.T) {
	first := section.NewTextSectionFromString("hello")
	second := section.NewTextSectionFromString("world")
	fx := newFixture(first, second)
	fx.surface.PlaceCaret(cursor.NewPosition(second.SectionID(), 0))

	fx.surface.PressKey(event.Named(event.KeyBackspace))

	if fx.doc.Len() != 1 {
		t.Fatalf("sections = %d, want 1", fx.doc.Len())
	}
	if got := fx.doc.First().Text(); got != "helloworld" {
		t.Errorf("text = %q, want %q", got, "helloworld")
	}
	sel := fx.ctrl.Selection()
	if sel.Focus.Offset != 5 {
		t.Errorf("caret offset = %d, want 5 (merge seam)", sel.Focus.Offset)
	}
}

func TestPipelineBackspaceInsideSectionStaysNative(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("abc"))
	id := fx.doc.First().SectionID()
	fx.surface.PlaceCaret(cursor.NewPosition(id, 2))

	fx.surface.PressKey(event.Named(event.KeyBackspace))

	if got := fx.doc.First().Text(); got != "ac" {
		t.Errorf("text = %q, want %q", got, "ac")
	}
}

func TestPipelineDeleteRemovesAdjacentContainer(t *testing.T) {
	first := section.NewTextSectionFromString("before")
	rule := section.NewContainerSection(section.Rule{})
	last := section.NewTextSectionFromString("after")
	fx := newFixture(first, rule, last)
	fx.surface.PlaceCaret(cursor.NewPosition(first.SectionID(), first.Len()))

	fx.surface.PressKey(event.Named(event.KeyDelete))

	if fx.doc.Contains(rule.SectionID()) {
		t.Fatal("container survived forward deletion at boundary")
	}
	if got := fx.doc.First().Text(); got != "before" {
		t.Errorf("text altered by container deletion: %q", got)
	}
}

func TestPipelineBackspaceAtDocumentStartIsNoOp(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("abc"))
	id := fx.doc.First().SectionID()
	fx.surface.PlaceCaret(cursor.NewPosition(id, 0))

	fx.surface.PressKey(event.Named(event.KeyBackspace))

	if got := fx.doc.First().Text(); got != "abc" {
		t.Errorf("text = %q, want unchanged %q", got, "abc")
	}
	if fx.doc.Len() != 1 {
		t.Errorf("sections = %d, want 1", fx.doc.Len())
	}
}

func TestPipelineNavigationOutOfContainer(t *testing.T) {
	first := section.NewTextSectionFromString("before")
	img := section.NewContainerSection(section.Image{Src: "http://x.test/a.png"})
	last := section.NewTextSectionFromString("after")
	fx := newFixture(first, img, last)
	fx.surface.SetSelectionRange(cursor.NewCursorSelection(cursor.NewPosition(img.SectionID(), 0)))

	fx.surface.PressKey(event.Named(event.KeyArrowRight))

	sel := fx.ctrl.Selection()
	if sel.Focus.SectionID != last.SectionID() || sel.Focus.Offset != 0 {
		t.Errorf("caret = %v, want start of following section", sel)
	}
}

func TestPipelineTypingInContainerRelocatesFirst(t *testing.T) {
	first := section.NewTextSectionFromString("ab")
	img := section.NewContainerSection(section.Image{Src: "http://x.test/a.png"})
	last := section.NewTextSectionFromString("cd")
	fx := newFixture(first, img, last)
	fx.surface.SetSelectionRange(cursor.NewCursorSelection(cursor.NewPosition(img.SectionID(), 0)))

	fx.surface.Type("x")

	if got := last.Text(); got != "xcd" {
		t.Errorf("following section text = %q, want %q", got, "xcd")
	}
	if got := first.Text(); got != "ab" {
		t.Errorf("preceding section text = %q, want untouched %q", got, "ab")
	}
}

func TestPipelinePaste(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("ad"))
	id := fx.doc.First().SectionID()
	fx.surface.PlaceCaret(cursor.NewPosition(id, 1))

	fx.pipe.HandleEvent(event.NewPaste("bc", ""))

	if got := fx.doc.First().Text(); got != "abcd" {
		t.Errorf("text = %q, want %q", got, "abcd")
	}
	sel := fx.ctrl.Selection()
	if !sel.IsCollapsed() || sel.Focus.Offset != 3 {
		t.Errorf("caret after paste = %v, want collapsed at 3", sel)
	}
}

func TestPipelinePasteReplacesSelection(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("hello world"))
	id := fx.doc.First().SectionID()
	fx.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(id, 6),
		cursor.NewPosition(id, 11),
	))

	fx.pipe.HandleEvent(event.NewPaste("go", ""))

	if got := fx.doc.First().Text(); got != "hello go" {
		t.Errorf("text = %q, want %q", got, "hello go")
	}
}

func TestPipelineDirectKeyEvents(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("hello"))
	id := fx.doc.First().SectionID()
	fx.surface.PlaceCaret(cursor.NewPosition(id, 5))

	// Hosts without hook delivery feed key events straight into the
	// pipeline.
	fx.pipe.HandleEvent(event.NewKey(event.KindKeyDown, event.Named(event.KeyEnter), ""))
	fx.pipe.HandleEvent(event.NewKey(event.KindKeyUp, event.Named(event.KeyEnter), ""))

	if fx.doc.Len() != 2 {
		t.Fatalf("sections = %d, want 2", fx.doc.Len())
	}
	sel := fx.ctrl.Selection()
	if sel.Focus.SectionID != fx.doc.At(1).SectionID() || sel.Focus.Offset != 0 {
		t.Errorf("caret after split = %v, want start of tail", sel)
	}
}

func TestPipelinePasteReplacesBackwardSelection(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("hello world"))
	id := fx.doc.First().SectionID()
	fx.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(id, 11),
		cursor.NewPosition(id, 6),
	))

	fx.pipe.HandleEvent(event.NewPaste("go", ""))

	if got := fx.doc.First().Text(); got != "hello go" {
		t.Errorf("text = %q, want %q", got, "hello go")
	}
	if got := fx.ctrl.Selection().Focus.Offset; got != 8 {
		t.Errorf("caret offset = %d, want 8", got)
	}
}

func TestPipelineSelectionDrivesToolbar(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("hello"))
	id := fx.doc.First().SectionID()

	fx.surface.SelectRange(cursor.NewSelection(
		cursor.NewPosition(id, 0),
		cursor.NewPosition(id, 5),
	))
	if got := fx.coord.State(); got != toolbar.ShowingFormatControls {
		t.Errorf("toolbar state = %v, want ShowingFormatControls", got)
	}

	fx.surface.PlaceCaret(cursor.NewPosition(id, 2))
	if got := fx.coord.State(); got != toolbar.Hidden {
		t.Errorf("toolbar state = %v, want Hidden after collapse", got)
	}
}

func TestPipelineRepairsStaleSelection(t *testing.T) {
	fx := newFixture(section.NewTextSectionFromString("hello"))
	id := fx.doc.First().SectionID()

	fx.surface.SelectRange(cursor.NewCursorSelection(cursor.NewPosition("gone", 3)))

	sel := fx.ctrl.Selection()
	if sel.Focus.SectionID != id {
		t.Errorf("repair landed on %q, want %q", sel.Focus.SectionID, id)
	}
	if pushed, ok := fx.surface.SelectionRange(); !ok || pushed != sel {
		t.Errorf("repaired selection not pushed back to surface: %v vs %v", pushed, sel)
	}
}

func TestPipelineIgnoresForeignSource(t *testing.T) {
	doc := section.NewDocumentFromSections([]section.Section{section.NewTextSectionFromString("mine")})
	surface := host.NewMemorySurface(doc)
	ctrl := cursor.NewController(doc)
	eng := ops.New(doc, ctrl, surface)
	coord := toolbar.NewCoordinator(doc, ctrl, eng)
	pipe := NewPipeline(doc, ctrl, eng, surface, coord, WithSource("editor-a"))

	pipe.HandleEvent(event.NewPaste("intruder", "editor-b"))

	if got := doc.First().Text(); got != "mine" {
		t.Errorf("foreign paste applied: %q", got)
	}

	pipe.HandleEvent(event.NewPaste("!", "editor-a"))
	if got := doc.First().Text(); got != "!mine" {
		t.Errorf("own paste not applied: %q", got)
	}
}

func TestPipelineChangeListener(t *testing.T) {
	fx := newFixture(section.NewTextSection())
	fx.surface.PlaceCaret(cursor.NewPosition(fx.doc.First().SectionID(), 0))

	changes := 0
	unreg := fx.pipe.OnChange(func() { changes++ })
	fx.surface.Type("ab")
	if changes == 0 {
		t.Error("change listener not invoked for typing")
	}

	unreg()
	before := changes
	fx.surface.Type("c")
	if changes != before {
		t.Error("change listener invoked after unregister")
	}
}
