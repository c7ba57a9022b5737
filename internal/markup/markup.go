package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Marker identifies elements by tag name and class set.
// An element matches when its tag equals Tag (any tag if Tag is empty) and
// its class attribute contains every class in Classes, in any order.
type Marker struct {
	// Tag is the element tag name, e.g. "div". Empty matches any tag.
	Tag string

	// Classes is the required class set. May be empty.
	Classes []string
}

// NewMarker creates a marker for the given tag and classes.
func NewMarker(tag string, classes ...string) Marker {
	return Marker{Tag: tag, Classes: classes}
}

// selector renders the marker as a CSS selector, e.g. "div.list-item.row".
func (m Marker) selector() string {
	var b strings.Builder
	b.WriteString(m.Tag)
	for _, c := range m.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// String returns a human-readable form of the marker for error messages.
func (m Marker) String() string {
	return m.selector()
}

// Document is one parsed listing-page markup tree.
type Document struct {
	doc *goquery.Document
}

// Parse parses rendered HTML into a Document.
// The parser is lenient the way browsers are; an error here means the input
// was unreadable, not merely malformed.
func Parse(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return &Document{doc: doc}, nil
}

// FindAll returns every fragment matching the marker, in document order.
func (d *Document) FindAll(m Marker) []*Fragment {
	return collect(d.doc.Find(m.selector()))
}

// FindFirst returns the first fragment matching the marker.
// The second return value is false when no element matches.
func (d *Document) FindFirst(m Marker) (*Fragment, bool) {
	return first(d.doc.Find(m.selector()))
}

// Fragment is one structural unit of the markup tree. It is read-only.
type Fragment struct {
	sel *goquery.Selection
}

// FindAll returns every descendant fragment matching the marker,
// in document order.
func (f *Fragment) FindAll(m Marker) []*Fragment {
	return collect(f.sel.Find(m.selector()))
}

// FindFirst returns the first descendant fragment matching the marker.
func (f *Fragment) FindFirst(m Marker) (*Fragment, bool) {
	return first(f.sel.Find(m.selector()))
}

// Attr returns the named attribute value.
// The second return value is false when the attribute is absent; an absent
// attribute is distinct from one whose value is "".
func (f *Fragment) Attr(name string) (string, bool) {
	return f.sel.Attr(name)
}

// Text returns the concatenated text content of the fragment.
func (f *Fragment) Text() string {
	return f.sel.Text()
}

// OuterHTML renders the fragment back to HTML, including the element itself.
// Used for markup-hint matching (e.g. icon class names inside a link).
func (f *Fragment) OuterHTML() string {
	if len(f.sel.Nodes) == 0 {
		return ""
	}
	var b strings.Builder
	if err := html.Render(&b, f.sel.Nodes[0]); err != nil {
		return ""
	}
	return b.String()
}

func collect(sel *goquery.Selection) []*Fragment {
	frags := make([]*Fragment, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		frags = append(frags, &Fragment{sel: s})
	})
	return frags
}

func first(sel *goquery.Selection) (*Fragment, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return &Fragment{sel: sel.First()}, true
}
