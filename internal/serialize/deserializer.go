package serialize

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/dshills/inkstorm/internal/engine/section"
)

// Errors returned by deserialization.
var (
	// ErrInvalidSnapshot indicates a snapshot without the root
	// fingerprint, or one that cannot be parsed at all.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Deserialize parses a snapshot back into a document. It fails with
// ErrInvalidSnapshot when the root fingerprint is missing; on failure
// nothing is adopted. The returned editable flag is the one the snapshot
// was serialized with.
func (s *Serializer) Deserialize(snapshot string) (*section.Document, bool, error) {
	node, err := html.Parse(strings.NewReader(snapshot))
	if err != nil {
		return nil, false, ErrInvalidSnapshot
	}

	root := findRoot(node)
	if root == nil {
		return nil, false, ErrInvalidSnapshot
	}
	editable := attrValue(root, "data-editable") == "true"

	var sections []section.Section
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if sec := parseSection(c); sec != nil {
			sections = append(sections, sec)
		}
	}

	return section.NewDocumentFromSections(sections), editable, nil
}

// findRoot locates the element carrying the root fingerprint class.
func findRoot(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, RootClass) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findRoot(c); found != nil {
			return found
		}
	}
	return nil
}

// parseSection converts one block element into a section. Unrecognized
// elements are skipped.
func parseSection(n *html.Node) section.Section {
	switch n.Data {
	case "p", "div":
		return textSectionFrom(n, section.HeadingNone)
	case "h1":
		return textSectionFrom(n, section.HeadingLarge)
	case "h2":
		return textSectionFrom(n, section.HeadingSmall)
	case "figure":
		return containerFrom(n)
	}
	return nil
}

// textSectionFrom rebuilds a TextSection from a block element's inline
// content.
func textSectionFrom(n *html.Node, h section.HeadingLevel) *section.TextSection {
	var runs []section.Run
	collectRuns(n, section.Marks{}, &runs)

	ts := section.NewTextSectionFromRuns(runs)
	if h != section.HeadingNone {
		ts.SetHeading(h)
	}
	return ts
}

// collectRuns walks inline nodes, accumulating mark context.
func collectRuns(n *html.Node, marks section.Marks, runs *[]section.Run) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if c.Data != "" {
				*runs = append(*runs, section.Run{Text: c.Data, Marks: marks})
			}
		case html.ElementNode:
			child := marks
			switch c.Data {
			case "b", "strong":
				child.Bold = true
			case "i", "em":
				child.Italic = true
			case "a":
				child.LinkHref = attrValue(c, "href")
				child.LinkID = attrValue(c, "data-link-id")
				if child.LinkHref != "" && child.LinkID == "" {
					child.LinkID = uuid.New().String()
				}
			case "br":
				continue
			}
			collectRuns(c, child, runs)
		}
	}
}

// containerFrom rebuilds a ContainerSection from a figure element.
func containerFrom(n *html.Node) section.Section {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "img":
			return section.NewContainerSection(section.Image{
				Src: attrValue(c, "src"),
				Alt: attrValue(c, "alt"),
			})
		case "hr":
			return section.NewContainerSection(section.Rule{})
		}
	}
	return nil
}

// hasClass reports whether a node's class attribute contains the class.
func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(attrValue(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
