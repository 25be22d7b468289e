package citation

// Layout is the structure a document walk derives: unit extents and which
// child units each parent unit contains.
type Layout interface {
	// Valid is false when the document could not be walked.
	Valid() bool
	// Extents returns the highest unit number per type.
	Extents() map[Type]int
	// Containment maps each parent unit number to its span of child units.
	Containment(parent, child Type) map[int]Span
}

// Policy holds the display decisions applied on top of the raw index.
type Policy struct {
	// HighlightSections enables direct section highlights and section-level
	// collapse. When off, section lookups are always empty.
	HighlightSections bool
	// MaxRangeWidth bounds expansion of types the layout has no extent for.
	MaxRangeWidth int
}

// CardRef is the tooltip payload for one card, taken from its earliest citation.
type CardRef struct {
	CardID     int64  `json:"card_id"`
	CitationID int64  `json:"citation_id"`
	Front      string `json:"card_front,omitempty"`
	Back       string `json:"card_back,omitempty"`
	Preview    string `json:"preview_text,omitempty"`
	Index      int    `json:"card_index,omitempty"`
}

// Rules returns the collapse rules for layout under policy, in application order.
func Rules(layout Layout, policy Policy) []Rule {
	pairs := [][2]Type{
		{TypeParagraph, TypeSentenceRange},
		{TypeBlock, TypeParagraph},
		{TypeBlock, TypeSentenceRange},
	}
	if policy.HighlightSections {
		pairs = append(pairs,
			[2]Type{TypeSection, TypeParagraph},
			[2]Type{TypeSection, TypeSentenceRange},
		)
	}

	rules := make([]Rule, 0, len(pairs))
	for _, p := range pairs {
		spans := layout.Containment(p[0], p[1])
		if len(spans) == 0 {
			continue
		}
		rules = append(rules, Rule{Parent: p[0], Child: p[1], Spans: spans})
	}
	return rules
}

// Facade answers per-unit queries for one document and one citation list.
// All derived structures are built once by NewFacade; a Facade is safe for
// concurrent readers.
type Facade struct {
	layout   Layout
	policy   Policy
	valid    bool
	input    []Citation
	raw      *Index
	resolved *Index
	timeline *Timeline
	cards    map[int64]CardRef
	items    map[int]Span
}

// NewFacade indexes citations against layout. A nil or invalid layout yields
// a facade whose lookups are all empty.
func NewFacade(layout Layout, citations []Citation, policy Policy) *Facade {
	f := &Facade{
		layout: layout,
		policy: policy,
		valid:  layout != nil && layout.Valid(),
		input:  citations,
		cards:  make(map[int64]CardRef),
	}

	opts := []BuildOption{WithMaxRangeWidth(policy.MaxRangeWidth)}
	if f.valid {
		opts = append(opts, WithBounds(layout.Extents()))
	}
	f.raw = Build(citations, opts...)
	f.timeline = NewTimeline(f.raw.spans)
	if f.valid {
		f.resolved = Collapse(f.raw, Rules(layout, policy)...)
		f.items = layout.Containment(TypeList, TypeListItem)
	} else {
		f.resolved = f.raw
	}

	for _, c := range citations {
		if _, ok := c.Resolve(); !ok {
			continue
		}
		if have, ok := f.cards[c.CardID]; ok && have.CitationID <= c.ID {
			continue
		}
		f.cards[c.CardID] = CardRef{
			CardID:     c.CardID,
			CitationID: c.ID,
			Front:      c.CardFront,
			Back:       c.CardBack,
			Preview:    c.PreviewText,
			Index:      c.CardIndex,
		}
	}
	return f
}

// Valid reports whether the document layout could be walked.
func (f *Facade) Valid() bool {
	return f != nil && f.valid
}

// Layout returns the layout the facade was built against.
func (f *Facade) Layout() Layout {
	return f.layout
}

// Policy returns the display policy in effect.
func (f *Facade) Policy() Policy {
	return f.policy
}

// Lookup returns the cards highlighting unit n of type t after collapse.
func (f *Facade) Lookup(t Type, n int) []int64 {
	if !f.Valid() || t.Continuous() {
		return nil
	}
	if t == TypeSection && !f.policy.HighlightSections {
		return nil
	}
	return f.resolved.Lookup(t, n)
}

// LookupSegment returns the cards whose video_timestamp ranges overlap
// [start, end].
func (f *Facade) LookupSegment(start, end float64) []int64 {
	if !f.Valid() {
		return nil
	}
	return f.timeline.Overlapping(start, end)
}

// LookupItem returns the cards of the list containing item. Items have no
// citations of their own.
func (f *Facade) LookupItem(list, item int) []int64 {
	if !f.Valid() {
		return nil
	}
	span, ok := f.items[list]
	if !ok || !span.Contains(item) {
		return nil
	}
	return f.resolved.Lookup(TypeList, list)
}

// Cards returns tooltip payloads for ids, in the order given. Unknown ids are
// skipped.
func (f *Facade) Cards(ids []int64) []CardRef {
	if f == nil {
		return nil
	}
	out := make([]CardRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := f.cards[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}

// Stats reports the raw index build counts.
func (f *Facade) Stats() Stats {
	if f == nil {
		return Stats{}
	}
	return f.raw.Stats()
}

// Citations returns the citation list the facade was built from.
func (f *Facade) Citations() []Citation {
	if f == nil {
		return nil
	}
	return f.input
}

// Raw returns the uncollapsed index.
func (f *Facade) Raw() *Index {
	return f.raw
}
