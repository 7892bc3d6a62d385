package script

import (
	"errors"
	"testing"

	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/ops"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/host"
)

func newTestRuntime(t *testing.T, sections ...section.Section) (*Runtime, *section.Document) {
	t.Helper()
	doc := section.NewDocumentFromSections(sections)
	surface := host.NewMemorySurface(doc)
	ctrl := cursor.NewController(doc)
	eng := ops.New(doc, ctrl, surface)
	rt := NewRuntime(doc, ctrl, eng)
	t.Cleanup(rt.Close)
	return rt, doc
}

func TestRuntimeInspection(t *testing.T) {
	title := section.NewTextSectionFromString("Title")
	title.SetHeading(section.HeadingLarge)
	rt, _ := newTestRuntime(t,
		title,
		section.NewContainerSection(section.Image{Src: "http://x.test/a.png"}),
		section.NewTextSectionFromString("body"),
	)

	err := rt.Run(`
		assert(ink.section_count() == 3)
		assert(ink.section_kind(1) == "text")
		assert(ink.section_kind(2) == "image")
		assert(ink.section_heading(1) == "large")
		assert(ink.section_text(1) == "Title")
		assert(ink.section_text(2) == nil)
		assert(ink.section_text(3) == "body")
		assert(ink.text() == "Title\nbody")
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRuntimeSectionIndexOutOfRange(t *testing.T) {
	rt, _ := newTestRuntime(t, section.NewTextSectionFromString("only"))

	if err := rt.Run(`ink.section_text(5)`); err == nil {
		t.Error("Run() with out-of-range index did not error")
	}
}

func TestRuntimeInsertText(t *testing.T) {
	rt, doc := newTestRuntime(t, section.NewTextSectionFromString("helloworld"))

	err := rt.Run(`
		local id = ink.section_id(1)
		ink.set_cursor(id, 5)
		ink.insert_text(", ")
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := doc.First().Text(); got != "hello, world" {
		t.Errorf("text = %q, want %q", got, "hello, world")
	}
	err = rt.Run(`
		local sid, off = ink.cursor()
		assert(off == 7)
	`)
	if err != nil {
		t.Errorf("cursor after insert: %v", err)
	}
}

func TestRuntimeWrapLink(t *testing.T) {
	rt, doc := newTestRuntime(t, section.NewTextSectionFromString("read this"))

	err := rt.Run(`
		local id = ink.section_id(1)
		ink.select_range(id, 5, 9)
		local link_id = ink.wrap_link("example.com")
		assert(#link_id > 0)
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	found := false
	for _, r := range doc.First().Runs() {
		if r.Text == "this" && r.Marks.LinkHref == "http://example.com" {
			found = true
		}
	}
	if !found {
		t.Errorf("link run not applied: %v", doc.First().Runs())
	}
}

func TestRuntimeWrapLinkInvalidURL(t *testing.T) {
	rt, _ := newTestRuntime(t, section.NewTextSectionFromString("read this"))

	err := rt.Run(`
		local id = ink.section_id(1)
		ink.select_range(id, 0, 4)
		ink.wrap_link("not a url")
	`)
	if err == nil {
		t.Error("wrap_link with invalid url did not error")
	}
}

func TestRuntimeInsertRule(t *testing.T) {
	rt, doc := newTestRuntime(t,
		section.NewTextSectionFromString("above"),
		section.NewTextSectionFromString("below"),
	)

	err := rt.Run(`
		ink.insert_rule(ink.section_id(2))
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	cs, ok := doc.At(1).(*section.ContainerSection)
	if !ok {
		t.Fatalf("section 1 is %T, want *ContainerSection", doc.At(1))
	}
	if cs.Object().Kind() != "rule" {
		t.Errorf("object kind = %q, want rule", cs.Object().Kind())
	}
}

func TestRuntimeOnChange(t *testing.T) {
	rt, _ := newTestRuntime(t, section.NewTextSectionFromString("x"))

	err := rt.Run(`
		changes = 0
		ink.on_change(function() changes = changes + 1 end)
	`)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := rt.FireChange(); err != nil {
		t.Fatalf("FireChange() error = %v", err)
	}
	if err := rt.FireChange(); err != nil {
		t.Fatalf("FireChange() error = %v", err)
	}

	if err := rt.Run(`assert(changes == 2)`); err != nil {
		t.Errorf("change counter: %v", err)
	}
}

func TestRuntimeOnChangeError(t *testing.T) {
	rt, _ := newTestRuntime(t, section.NewTextSectionFromString("x"))

	if err := rt.Run(`ink.on_change(function() error("boom") end)`); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := rt.FireChange(); err == nil {
		t.Error("FireChange() with failing hook did not error")
	}
}

func TestRuntimeClosed(t *testing.T) {
	rt, _ := newTestRuntime(t, section.NewTextSectionFromString("x"))
	rt.Close()

	if err := rt.Run(`return`); !errors.Is(err, ErrRuntimeClosed) {
		t.Errorf("Run() after Close = %v, want ErrRuntimeClosed", err)
	}
	if err := rt.FireChange(); !errors.Is(err, ErrRuntimeClosed) {
		t.Errorf("FireChange() after Close = %v, want ErrRuntimeClosed", err)
	}
}
