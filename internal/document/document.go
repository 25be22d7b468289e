// Package document walks structured source documents (HTML, PDF, plain text,
// image OCR and video transcripts, already converted to JSON) and numbers
// their structural units the way citations address them.
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/flashcite/internal/citation"
)

// ErrMalformed is returned when a document has none of the expected shapes.
var ErrMalformed = errors.New("document: malformed structure")

// Kind names the processor that produced a document.
type Kind string

const (
	KindHTML       Kind = "html"
	KindPDF        Kind = "pdf"
	KindText       Kind = "text"
	KindImage      Kind = "image"
	KindTranscript Kind = "transcript"
)

// Numbering declares how lists and tables are numbered.
type Numbering string

const (
	// NumberingGlobal counts lists and tables across the whole document,
	// honouring explicit markers when the document carries them.
	NumberingGlobal Numbering = "global"
	// NumberingSection restarts list and table counters in every section.
	NumberingSection Numbering = "section"
	// NumberingParagraph numbers lists and tables with the paragraph counter.
	NumberingParagraph Numbering = "paragraph"
)

// ParseNumbering validates a configured numbering. The empty string selects
// the adapter default.
func ParseNumbering(raw string) (Numbering, error) {
	switch n := Numbering(raw); n {
	case "", NumberingGlobal, NumberingSection, NumberingParagraph:
		return n, nil
	default:
		return "", fmt.Errorf("document: unknown numbering %q", raw)
	}
}

func defaultNumbering(k Kind) Numbering {
	if k == KindPDF {
		return NumberingParagraph
	}
	return NumberingGlobal
}

type Sentence struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type Paragraph struct {
	Number    int        `json:"number"`
	Sentences []Sentence `json:"sentences"`
	// Text is set when the source paragraph carried its own text.
	Text string `json:"text,omitempty"`
}

// Body returns the paragraph text, joining sentences when needed.
func (p Paragraph) Body() string {
	if p.Text != "" {
		return p.Text
	}
	return joinSentences(p.Sentences, " ")
}

type Item struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type List struct {
	Number int    `json:"number"`
	Marker string `json:"marker,omitempty"`
	Items  []Item `json:"items"`
}

type Table struct {
	Number int      `json:"number"`
	Rows   []string `json:"rows"`
}

// Segment is one transcript span in seconds.
type Segment struct {
	Number  int     `json:"number"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Chapter string  `json:"chapter,omitempty"`
}

// Element is one unit in document order inside a group.
type Element struct {
	Type   citation.Type `json:"type"`
	Number int           `json:"number"`
}

// Group is a section or an OCR block. Text and transcript documents get one
// implicit group that is not citable.
type Group struct {
	Type       citation.Type `json:"type"`
	Number     int           `json:"number"`
	Heading    string        `json:"heading,omitempty"`
	Level      int           `json:"level,omitempty"`
	Implicit   bool          `json:"implicit,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Elements   []Element     `json:"elements"`
	Paragraphs citation.Span `json:"paragraphs"`
	Sentences  citation.Span `json:"sentences"`
}

// Document is the walked structure of one source. It implements
// citation.Layout.
type Document struct {
	Kind       Kind        `json:"kind"`
	Title      string      `json:"title,omitempty"`
	Numbering  Numbering   `json:"numbering"`
	Groups     []Group     `json:"groups"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
	Lists      []List      `json:"lists,omitempty"`
	Tables     []Table     `json:"tables,omitempty"`
	Segments   []Segment   `json:"segments,omitempty"`

	paragraphAt map[int]int
	listAt      map[int]int
	tableAt     map[int]int
}

type options struct {
	numbering Numbering
}

// Option configures Parse.
type Option func(*options)

// WithNumbering overrides the adapter's list and table numbering. An empty
// value keeps the default.
func WithNumbering(n Numbering) Option {
	return func(o *options) {
		o.numbering = n
	}
}

// shapeKeys holds the top-level keys used to detect the document shape.
type shapeKeys struct {
	Sections   []json.RawMessage `json:"sections"`
	Paragraphs json.RawMessage   `json:"paragraphs"`
	Blocks     json.RawMessage   `json:"blocks"`
	Segments   json.RawMessage   `json:"segments"`
}

// Parse detects the document shape and walks it.
func Parse(data []byte, opts ...Option) (*Document, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var p shapeKeys
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var (
		kind Kind
		walk func([]byte, *walker) error
	)
	switch {
	case len(p.Segments) > 0:
		kind, walk = KindTranscript, walkTranscript
	case len(p.Blocks) > 0:
		kind, walk = KindImage, walkImage
	case len(p.Sections) > 0:
		kind, walk = KindHTML, walkHTML
		if sectionsHaveContent(p.Sections) {
			kind, walk = KindPDF, walkPDF
		}
	case len(p.Paragraphs) > 0:
		kind, walk = KindText, walkText
	default:
		return nil, ErrMalformed
	}

	numbering := o.numbering
	if numbering == "" {
		numbering = defaultNumbering(kind)
	}
	w := newWalker(kind, numbering)
	if err := walk(data, w); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, kind, err)
	}
	return w.finish(), nil
}

func sectionsHaveContent(sections []json.RawMessage) bool {
	for _, raw := range sections {
		var keys map[string]json.RawMessage
		if json.Unmarshal(raw, &keys) != nil {
			continue
		}
		if _, ok := keys["content"]; ok {
			return true
		}
		if _, ok := keys["paragraphs"]; ok {
			return false
		}
	}
	return false
}

// Valid reports whether the document was walked. A nil document is invalid.
func (d *Document) Valid() bool {
	return d != nil
}

// Extents returns the highest number of every unit type in the document.
func (d *Document) Extents() map[citation.Type]int {
	if d == nil {
		return nil
	}
	ext := map[citation.Type]int{
		citation.TypeSentenceRange: 0,
		citation.TypeParagraph:     0,
		citation.TypeSection:       0,
		citation.TypeList:          0,
		citation.TypeTable:         0,
		citation.TypeBlock:         0,
		citation.TypeListItem:      0,
	}
	bump := func(t citation.Type, n int) {
		if n > ext[t] {
			ext[t] = n
		}
	}
	for _, g := range d.Groups {
		if !g.Implicit {
			bump(g.Type, g.Number)
		}
	}
	for _, p := range d.Paragraphs {
		bump(citation.TypeParagraph, p.Number)
		for _, s := range p.Sentences {
			bump(citation.TypeSentenceRange, s.Number)
		}
	}
	for _, l := range d.Lists {
		bump(citation.TypeList, l.Number)
		for _, it := range l.Items {
			bump(citation.TypeListItem, it.Number)
		}
	}
	for _, t := range d.Tables {
		bump(citation.TypeTable, t.Number)
	}
	return ext
}

// Containment maps parent unit numbers to the child units they hold. Groups
// sharing a number (nested HTML sections) merge their spans.
func (d *Document) Containment(parent, child citation.Type) map[int]citation.Span {
	if d == nil {
		return nil
	}
	out := make(map[int]citation.Span)
	switch {
	case parent == citation.TypeParagraph && child == citation.TypeSentenceRange:
		for _, p := range d.Paragraphs {
			span := emptySpan()
			for _, sn := range p.Sentences {
				span = extend(span, sn.Number)
			}
			if !span.Empty() {
				out[p.Number] = span
			}
		}
	case parent == citation.TypeList && child == citation.TypeListItem:
		for _, l := range d.Lists {
			if len(l.Items) > 0 {
				out[l.Number] = citation.Span{First: l.Items[0].Number, Last: l.Items[len(l.Items)-1].Number}
			}
		}
	case parent == citation.TypeSection || parent == citation.TypeBlock:
		for _, g := range d.Groups {
			if g.Implicit || g.Type != parent {
				continue
			}
			var span citation.Span
			switch child {
			case citation.TypeParagraph:
				span = g.Paragraphs
			case citation.TypeSentenceRange:
				span = g.Sentences
			default:
				continue
			}
			if span.Empty() {
				continue
			}
			if have, ok := out[g.Number]; ok {
				span = merge(have, span)
			}
			out[g.Number] = span
		}
	}
	return out
}

func merge(a, b citation.Span) citation.Span {
	if b.First < a.First {
		a.First = b.First
	}
	if b.Last > a.Last {
		a.Last = b.Last
	}
	return a
}

// Paragraph returns the paragraph numbered n.
func (d *Document) Paragraph(n int) (Paragraph, bool) {
	if d == nil {
		return Paragraph{}, false
	}
	i, ok := d.paragraphAt[n]
	if !ok {
		return Paragraph{}, false
	}
	return d.Paragraphs[i], true
}

// List returns the list numbered n.
func (d *Document) List(n int) (List, bool) {
	if d == nil {
		return List{}, false
	}
	i, ok := d.listAt[n]
	if !ok {
		return List{}, false
	}
	return d.Lists[i], true
}

// Table returns the table numbered n.
func (d *Document) Table(n int) (Table, bool) {
	if d == nil {
		return Table{}, false
	}
	i, ok := d.tableAt[n]
	if !ok {
		return Table{}, false
	}
	return d.Tables[i], true
}
