package highlight

import (
	"context"
	"sort"
	"strings"

	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/document"
	"github.com/starford/flashcite/internal/models"
)

// Unit is one rendered unit with the cards that highlight it.
type Unit struct {
	Type     citation.Type `json:"type"`
	Number   int           `json:"number"`
	Text     string        `json:"text,omitempty"`
	Cards    []int64       `json:"cards"`
	Children []Unit        `json:"children,omitempty"`
}

// GroupView is a rendered section or OCR block.
type GroupView struct {
	Type     citation.Type `json:"type"`
	Number   int           `json:"number"`
	Heading  string        `json:"heading,omitempty"`
	Level    int           `json:"level,omitempty"`
	Implicit bool          `json:"implicit,omitempty"`
	Cards    []int64       `json:"cards"`
	Units    []Unit        `json:"units"`
}

// SegmentView is a rendered transcript segment.
type SegmentView struct {
	Number  int     `json:"number"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Label   string  `json:"label"`
	Text    string  `json:"text,omitempty"`
	Chapter string  `json:"chapter,omitempty"`
	Cards   []int64 `json:"cards"`
}

// Snapshot is a full render pass over one source. Fallback is set when the
// document could not be walked; the views are then empty and only the card
// list is populated.
type Snapshot struct {
	Source   models.Source      `json:"source"`
	Kind     document.Kind      `json:"kind,omitempty"`
	Fallback bool               `json:"fallback"`
	Groups   []GroupView        `json:"groups"`
	Segments []SegmentView      `json:"segments,omitempty"`
	Cards    []citation.CardRef `json:"cards"`
	Stats    citation.Stats     `json:"stats"`
}

// Snapshot renders every unit of path with its collapsed citing cards.
func (s *Service) Snapshot(_ context.Context, path string) (*Snapshot, error) {
	src, f, err := s.facade(path)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Source: *src,
		Groups: []GroupView{},
		Stats:  f.Stats(),
	}
	doc := documentOf(f)
	snap.Cards = orderCards(doc, f)
	if !f.Valid() || doc == nil {
		snap.Fallback = true
		return snap, nil
	}

	snap.Kind = doc.Kind
	for _, g := range doc.Groups {
		view := GroupView{
			Type:     g.Type,
			Number:   g.Number,
			Heading:  g.Heading,
			Level:    g.Level,
			Implicit: g.Implicit,
			Cards:    []int64{},
			Units:    make([]Unit, 0, len(g.Elements)),
		}
		if !g.Implicit {
			view.Cards = nonNilSlice(f.Lookup(g.Type, g.Number))
		}
		for _, el := range g.Elements {
			view.Units = append(view.Units, renderElement(doc, f, el))
		}
		snap.Groups = append(snap.Groups, view)
	}

	for _, seg := range doc.Segments {
		snap.Segments = append(snap.Segments, SegmentView{
			Number:  seg.Number,
			Start:   seg.Start,
			End:     seg.End,
			Label:   document.FormatTimestamp(seg.Start) + "-" + document.FormatTimestamp(seg.End),
			Text:    seg.Text,
			Chapter: seg.Chapter,
			Cards:   nonNilSlice(f.LookupSegment(seg.Start, seg.End)),
		})
	}
	return snap, nil
}

func renderElement(doc *document.Document, f *citation.Facade, el document.Element) Unit {
	u := Unit{
		Type:   el.Type,
		Number: el.Number,
		Cards:  nonNilSlice(f.Lookup(el.Type, el.Number)),
	}
	switch el.Type {
	case citation.TypeParagraph:
		p, ok := doc.Paragraph(el.Number)
		if !ok {
			break
		}
		u.Text = p.Text
		for _, sen := range p.Sentences {
			u.Children = append(u.Children, Unit{
				Type:   citation.TypeSentenceRange,
				Number: sen.Number,
				Text:   sen.Text,
				Cards:  nonNilSlice(f.Lookup(citation.TypeSentenceRange, sen.Number)),
			})
		}
	case citation.TypeList:
		l, ok := doc.List(el.Number)
		if !ok {
			break
		}
		for _, it := range l.Items {
			u.Children = append(u.Children, Unit{
				Type:   citation.TypeListItem,
				Number: it.Number,
				Text:   it.Text,
				Cards:  nonNilSlice(f.LookupItem(el.Number, it.Number)),
			})
		}
	case citation.TypeTable:
		if t, ok := doc.Table(el.Number); ok {
			u.Text = strings.Join(t.Rows, "\n")
		}
	}
	return u
}

// orderCards returns one payload per card, ordered by the earliest document
// position any of the card's citations reaches. Cards without a known
// position follow in citation order.
func orderCards(doc *document.Document, f *citation.Facade) []citation.CardRef {
	type rank struct {
		card     int64
		pos      int
		known    bool
		citation int64
	}
	ranks := make(map[int64]*rank)
	for _, c := range f.Citations() {
		t, ok := c.Resolve()
		if !ok {
			continue
		}
		r, seen := ranks[c.CardID]
		if !seen {
			r = &rank{card: c.CardID, citation: c.ID}
			ranks[c.CardID] = r
		}
		if c.ID < r.citation {
			r.citation = c.ID
		}
		for _, rg := range c.Data {
			pos, ok := doc.Position(t, rg.Start)
			if !ok {
				continue
			}
			if !r.known || pos < r.pos {
				r.pos, r.known = pos, true
			}
		}
	}

	ordered := make([]*rank, 0, len(ranks))
	for _, r := range ranks {
		ordered = append(ordered, r)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.known != b.known {
			return a.known
		}
		if a.known && a.pos != b.pos {
			return a.pos < b.pos
		}
		if a.citation != b.citation {
			return a.citation < b.citation
		}
		return a.card < b.card
	})

	ids := make([]int64, len(ordered))
	for i, r := range ordered {
		ids[i] = r.card
	}
	return nonNilSlice(f.Cards(ids))
}
