package serialize

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/inkstorm/internal/config"
	"github.com/dshills/inkstorm/internal/engine/section"
)

// RootClass is the fingerprint class on the snapshot's outermost
// element. Deserialization rejects any snapshot without it.
const RootClass = "inkstorm-root"

// Serializer renders documents into snapshots and parses them back,
// applying the presentation options of one editor instance.
type Serializer struct {
	opts config.Options
}

// New creates a serializer with the given options.
func New(opts config.Options) *Serializer {
	return &Serializer{opts: opts.Normalize()}
}

// Serialize emits the portable snapshot of doc. The editable flag is
// carried in the snapshot and restored by Deserialize.
func (s *Serializer) Serialize(doc *section.Document, editable bool) string {
	var b strings.Builder

	b.WriteString(`<div class="`)
	b.WriteString(RootClass)
	b.WriteString(`" data-editable="`)
	if editable {
		b.WriteString("true")
	} else {
		b.WriteString("false")
	}
	b.WriteByte('"')
	if s.opts.EmptyPlaceholderText != "" && isBlankDocument(doc) {
		writeAttr(&b, "data-placeholder", s.opts.EmptyPlaceholderText)
	}
	b.WriteByte('>')

	for _, sec := range doc.Sections() {
		switch v := sec.(type) {
		case *section.TextSection:
			s.writeText(&b, v)
		case *section.ContainerSection:
			s.writeContainer(&b, v)
		}
	}

	b.WriteString("</div>")
	return b.String()
}

// writeText renders one text section as its block element.
func (s *Serializer) writeText(b *strings.Builder, ts *section.TextSection) {
	tag := s.opts.BlockTag
	style := s.opts.SectionStyle
	switch ts.Heading() {
	case section.HeadingLarge:
		tag = "h1"
		style = s.opts.HeadingStyles.Large
	case section.HeadingSmall:
		tag = "h2"
		style = s.opts.HeadingStyles.Small
	}

	b.WriteByte('<')
	b.WriteString(tag)
	if cls := strings.Join(s.opts.SectionClassNames, " "); cls != "" {
		writeAttr(b, "class", cls)
	}
	if style != "" {
		writeAttr(b, "style", style)
	}
	b.WriteByte('>')

	if ts.IsEmpty() {
		// An empty section still needs a body so the block renders and
		// accepts the caret.
		b.WriteString("<br/>")
	} else {
		for _, r := range ts.Runs() {
			writeRun(b, r)
		}
	}

	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

// writeRun renders one mark run, link outermost.
func writeRun(b *strings.Builder, r section.Run) {
	var closers []string

	if r.Marks.IsLink() {
		b.WriteString("<a")
		writeAttr(b, "href", r.Marks.LinkHref)
		if r.Marks.LinkID != "" {
			writeAttr(b, "data-link-id", r.Marks.LinkID)
		}
		b.WriteByte('>')
		closers = append(closers, "</a>")
	}
	if r.Marks.Bold {
		b.WriteString("<b>")
		closers = append(closers, "</b>")
	}
	if r.Marks.Italic {
		b.WriteString("<i>")
		closers = append(closers, "</i>")
	}

	b.WriteString(html.EscapeString(r.Text))

	for i := len(closers) - 1; i >= 0; i-- {
		b.WriteString(closers[i])
	}
}

// writeContainer renders one container section as a figure.
func (s *Serializer) writeContainer(b *strings.Builder, cs *section.ContainerSection) {
	b.WriteString("<figure")
	writeAttr(b, "contenteditable", "false")
	if cls := strings.Join(s.opts.ContainerClassNames, " "); cls != "" {
		writeAttr(b, "class", cls)
	}
	if s.opts.ContainerStyle != "" {
		writeAttr(b, "style", s.opts.ContainerStyle)
	}
	b.WriteByte('>')

	switch obj := cs.Object().(type) {
	case section.Image:
		b.WriteString("<img")
		writeAttr(b, "src", obj.Src)
		writeAttr(b, "alt", obj.Alt)
		if cls := strings.Join(s.opts.ImageClassNames, " "); cls != "" {
			writeAttr(b, "class", cls)
		}
		if s.opts.ImageStyle != "" {
			writeAttr(b, "style", s.opts.ImageStyle)
		}
		b.WriteString("/>")
	case section.Rule:
		b.WriteString("<hr/>")
	}

	b.WriteString("</figure>")
}

// writeAttr writes one escaped attribute.
func writeAttr(b *strings.Builder, key, val string) {
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(val))
	b.WriteByte('"')
}

// isBlankDocument reports whether doc is a single empty text section.
func isBlankDocument(doc *section.Document) bool {
	return doc.Len() == 1 && doc.First().IsEmpty()
}
