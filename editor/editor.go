package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dshills/inkstorm/internal/config"
	"github.com/dshills/inkstorm/internal/dispatcher"
	"github.com/dshills/inkstorm/internal/engine/cursor"
	"github.com/dshills/inkstorm/internal/engine/ops"
	"github.com/dshills/inkstorm/internal/engine/section"
	"github.com/dshills/inkstorm/internal/event"
	"github.com/dshills/inkstorm/internal/host"
	"github.com/dshills/inkstorm/internal/script"
	"github.com/dshills/inkstorm/internal/serialize"
	"github.com/dshills/inkstorm/internal/toolbar"
)

// selectionNotifier is implemented by surfaces that push their own
// selection moves, such as the in-memory reference surface.
type selectionNotifier interface {
	OnSelectionChange(func(cursor.Selection))
}

// documentAdopter is implemented by surfaces created before the editor
// they serve; the editor hands them its document during New.
type documentAdopter interface {
	AdoptDocument(*section.Document)
}

// Editor is one editor instance bound to one host surface.
type Editor struct {
	id   string
	opts config.Options
	log  *Logger

	doc     *section.Document
	surface host.Surface
	ctrl    *cursor.Controller
	eng     *ops.Engine
	coord   *toolbar.Coordinator
	pipe    *dispatcher.Pipeline
	ser     *serialize.Serializer

	watcher  *config.Watcher
	runtime  *script.Runtime
	editable bool
	detached bool
	closed   bool
}

// Option configures an Editor during New.
type Option func(*Editor) error

// WithOptions applies presentation options.
func WithOptions(opts config.Options) Option {
	return func(e *Editor) error {
		e.opts = opts.Normalize()
		return nil
	}
}

// WithOptionsFile loads presentation options from a TOML file. A missing
// file leaves the defaults in place.
func WithOptionsFile(path string) Option {
	return func(e *Editor) error {
		opts, err := config.Load(path)
		if err != nil {
			return NewOperationError("load-options", path, err)
		}
		e.opts = opts
		return nil
	}
}

// WithLogger sets the diagnostic logger. The default logs warnings and
// above to stderr.
func WithLogger(l *Logger) Option {
	return func(e *Editor) error {
		e.log = l
		return nil
	}
}

// WithEditable sets whether serialized snapshots mark the content
// editable. Defaults to false, so snapshots render read-only unless
// the caller opts in. LoadSnapshot restores the flag recorded in the
// snapshot it parses.
func WithEditable(editable bool) Option {
	return func(e *Editor) error {
		e.editable = editable
		return nil
	}
}

// New creates an editor over the given surface with an empty document
// and binds the event pipeline to the surface's lifecycle hooks.
func New(surface host.Surface, opts ...Option) (*Editor, error) {
	e := &Editor{
		id:       uuid.New().String(),
		opts:     config.Default(),
		surface: surface,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.log == nil {
		e.log = NewLogger(LoggerConfig{Level: LogLevelWarn, Prefix: "inkstorm"})
	}

	e.doc = section.NewDocument()
	if a, ok := surface.(documentAdopter); ok {
		a.AdoptDocument(e.doc)
	}
	e.ctrl = cursor.NewController(e.doc)
	e.eng = ops.New(e.doc, e.ctrl, surface, ops.WithBlockTag(e.opts.BlockTag))
	e.coord = toolbar.NewCoordinator(e.doc, e.ctrl, e.eng)
	e.pipe = dispatcher.NewPipeline(e.doc, e.ctrl, e.eng, surface, e.coord,
		dispatcher.WithSource(e.id),
		dispatcher.WithLogger(e.log.WithComponent("pipeline")),
	)
	e.ser = serialize.New(e.opts)

	if n, ok := surface.(selectionNotifier); ok {
		n.OnSelectionChange(func(sel cursor.Selection) {
			if e.detached {
				return
			}
			e.pipe.HandleEvent(event.NewSelection(event.KindSelectionChange, sel, e.id))
		})
	}

	e.log.Debug("editor %s created", e.id)
	return e, nil
}

// ID returns the instance identity used to filter shared events.
func (e *Editor) ID() string { return e.id }

// Document returns the live document model, for host-side rendering.
// Mutations must go through the editor's operations, not the document.
func (e *Editor) Document() *section.Document { return e.doc }

// Options returns the active presentation options.
func (e *Editor) Options() config.Options { return e.opts }

// HandleEvent feeds one host event into the pipeline.
func (e *Editor) HandleEvent(ev event.Event) {
	if e.closed || e.detached {
		return
	}
	e.pipe.HandleEvent(ev)
}

// Detach unbinds the editor from its surface: native edits and events
// no longer flow through the pipeline. The document stays intact and
// can still be serialized. Attach re-binds.
func (e *Editor) Detach() {
	if e.detached {
		return
	}
	e.detached = true
	e.surface.BindHooks(nil)
}

// Attach re-binds a detached editor to its surface.
func (e *Editor) Attach() {
	if !e.detached {
		return
	}
	e.detached = false
	e.surface.BindHooks(e.pipe)
}

// Document State

// Text returns the plain text of every text section, newline-joined.
func (e *Editor) Text() string {
	var parts []string
	for _, sec := range e.doc.Sections() {
		if ts, ok := sec.(*section.TextSection); ok {
			parts = append(parts, ts.Text())
		}
	}
	return strings.Join(parts, "\n")
}

// SectionCount returns the number of sections in the document.
func (e *Editor) SectionCount() int {
	return e.doc.Len()
}

// IsEmpty reports whether the document holds no visible content.
func (e *Editor) IsEmpty() bool {
	for _, sec := range e.doc.Sections() {
		switch s := sec.(type) {
		case *section.TextSection:
			if !s.IsEmpty() {
				return false
			}
		case *section.ContainerSection:
			return false
		}
	}
	return true
}

// Serialization

// Serialize renders the document as an HTML snapshot carrying the
// editor's fingerprint.
func (e *Editor) Serialize() string {
	return e.ser.Serialize(e.doc, e.editable)
}

// LoadSnapshot replaces the document with the content of a previously
// serialized snapshot. The replacement is atomic: a snapshot that fails
// validation leaves the current document untouched and returns an error
// wrapping ErrInvalidSnapshot.
func (e *Editor) LoadSnapshot(snapshot string) error {
	if e.closed {
		return ErrClosed
	}
	parsed, editable, err := e.ser.Deserialize(snapshot)
	if err != nil {
		if errors.Is(err, serialize.ErrInvalidSnapshot) {
			err = ErrInvalidSnapshot
		}
		return NewOperationError("load-snapshot", "", err).
			WithContext(fmt.Sprintf("%d bytes", len(snapshot)))
	}

	e.doc.ReplaceSections(parsed.Sections())
	e.doc.NormalizeAll()
	e.editable = editable
	e.ctrl.Collapse(cursor.NewPosition(e.doc.First().SectionID(), 0))
	e.surface.SetSelectionRange(e.ctrl.Selection())
	e.coord.DeriveFromSelection()
	e.fireScriptChange()
	e.log.Info("snapshot loaded: %d sections", e.doc.Len())
	return nil
}

// Editing Operations

// Bold toggles bold over the current selection.
func (e *Editor) Bold() { e.eng.ToggleBold() }

// Italic toggles italic over the current selection.
func (e *Editor) Italic() { e.eng.ToggleItalic() }

// Heading cycles the heading level of the section under the selection.
func (e *Editor) Heading() { e.eng.WrapHeading() }

// Link wraps the current selection in a link to url and returns the
// link id. The url is validated and normalized first.
func (e *Editor) Link(url string) (string, error) {
	linkID, err := e.eng.WrapLink(url)
	if err != nil {
		return "", NewOperationError("link", url, err)
	}
	return linkID, nil
}

// Unlink removes the link with the given id wherever it spans.
func (e *Editor) Unlink(linkID string) {
	e.eng.RemoveLink(linkID)
}

// InsertImage inserts an image container before the section holding
// the caret.
func (e *Editor) InsertImage(src, alt string) error {
	normalized, err := ops.NormalizeURL(src)
	if err != nil {
		return NewOperationError("insert-image", src, err)
	}
	e.eng.InsertContainer(section.Image{Src: normalized, Alt: alt}, e.ctrl.Selection().Focus.SectionID)
	e.fireScriptChange()
	return nil
}

// InsertRule inserts a horizontal rule before the section holding the
// caret.
func (e *Editor) InsertRule() {
	e.eng.InsertContainer(section.Rule{}, e.ctrl.Selection().Focus.SectionID)
	e.fireScriptChange()
}

// Toolbar returns the toolbar handle for this instance.
func (e *Editor) Toolbar() *ToolbarHandle {
	return &ToolbarHandle{coord: e.coord}
}

// Options Reload

// WatchOptions reloads presentation options whenever the file at path
// changes. Only one watch may be active per editor.
func (e *Editor) WatchOptions(path string) error {
	if e.closed {
		return ErrClosed
	}
	if e.watcher != nil {
		return ErrWatchActive
	}
	w, err := config.NewWatcher(path, func(opts config.Options) {
		e.applyOptions(opts)
	})
	if err != nil {
		return NewOperationError("watch-options", path, err)
	}
	e.watcher = w
	e.log.Info("watching options file %s", path)
	return nil
}

// applyOptions swaps in reloaded presentation options.
func (e *Editor) applyOptions(opts config.Options) {
	e.opts = opts.Normalize()
	e.ser = serialize.New(e.opts)
	e.eng.SetBlockTag(e.opts.BlockTag)
	e.log.Debug("options reloaded")
}

// Scripting

// RunScript executes a Lua automation snippet against this editor. The
// scripting runtime is created on first use and receives change
// notifications for its on_change hooks.
func (e *Editor) RunScript(source string) error {
	if e.closed {
		return ErrClosed
	}
	if e.runtime == nil {
		e.runtime = script.NewRuntime(e.doc, e.ctrl, e.eng)
		e.pipe.OnChange(func() {
			if err := e.runtime.FireChange(); err != nil {
				e.log.Warn("script change hook: %v", err)
			}
		})
	}
	return e.runtime.Run(source)
}

func (e *Editor) fireScriptChange() {
	if e.runtime == nil {
		return
	}
	if err := e.runtime.FireChange(); err != nil {
		e.log.Warn("script change hook: %v", err)
	}
}

// Close releases the editor's resources: the options watcher and the
// scripting runtime. The editor is unusable afterwards.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.Detach()
	var err error
	if e.watcher != nil {
		err = e.watcher.Close()
		e.watcher = nil
	}
	if e.runtime != nil {
		e.runtime.Close()
		e.runtime = nil
	}
	e.log.Debug("editor %s closed", e.id)
	return err
}
