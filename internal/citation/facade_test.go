package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLayout struct {
	valid   bool
	extents map[Type]int
	spans   map[[2]Type]map[int]Span
}

func (l fakeLayout) Valid() bool           { return l.valid }
func (l fakeLayout) Extents() map[Type]int { return l.extents }
func (l fakeLayout) Containment(parent, child Type) map[int]Span {
	return l.spans[[2]Type{parent, child}]
}

// Two sections: section 1 holds paragraphs 1-2 (sentences 1-5), section 2
// holds paragraph 3 (sentences 6-7) and list 1 with items 1-3.
func sampleLayout() fakeLayout {
	return fakeLayout{
		valid: true,
		extents: map[Type]int{
			TypeSection:       2,
			TypeParagraph:     3,
			TypeSentenceRange: 7,
			TypeList:          1,
			TypeTable:         0,
		},
		spans: map[[2]Type]map[int]Span{
			{TypeParagraph, TypeSentenceRange}: {1: {1, 2}, 2: {3, 5}, 3: {6, 7}},
			{TypeSection, TypeParagraph}:       {1: {1, 2}, 2: {3, 3}},
			{TypeSection, TypeSentenceRange}:   {1: {1, 5}, 2: {6, 7}},
			{TypeList, TypeListItem}:           {1: {1, 3}},
		},
	}
}

func sampleCitations() []Citation {
	return []Citation{
		{ID: 1, Type: "paragraph", Data: Ranges{{2, 2}}, CardID: 100, CardFront: "front 100", CardBack: "back 100"},
		{ID: 2, Type: "sentence_range", Data: Ranges{{4, 4}}, CardID: 101, PreviewText: "s4"},
		{ID: 3, Type: "sentence_range", Data: Ranges{{6, 6}}, CardID: 102},
		{ID: 4, Type: "section", Data: Ranges{{2, 2}}, CardID: 103},
		{ID: 5, Type: "html_list", Data: Ranges{{1, 1}}, CardID: 104},
		{ID: 6, Type: "video_timestamp", Data: Ranges{{10, 20}}, CardID: 105},
		{ID: 7, Type: "bogus", Data: Ranges{{1, 1}}, CardID: 106},
		{ID: 8, Type: "paragraph", Data: Ranges{{2, 2}}, CardID: 100, CardFront: "later"},
		{ID: 9, Type: "table", Data: Ranges{{1, 1}}, CardID: 107},
	}
}

func TestFacadeDefaultPolicy(t *testing.T) {
	f := NewFacade(sampleLayout(), sampleCitations(), Policy{})
	require.True(t, f.Valid())

	assert.Equal(t, []int64{100, 101}, f.Lookup(TypeParagraph, 2))
	assert.Empty(t, f.Lookup(TypeSentenceRange, 4))
	assert.Equal(t, []int64{102}, f.Lookup(TypeSentenceRange, 6))
	assert.Empty(t, f.Lookup(TypeParagraph, 3))
	assert.Empty(t, f.Lookup(TypeSection, 2), "sections are not highlighted by default")
	assert.Empty(t, f.Lookup(TypeParagraph, 99))
	assert.Empty(t, f.Lookup(TypeTable, 1), "table extent is zero")
	assert.Equal(t, Stats{Indexed: 8, Skipped: 1}, f.Stats())
}

func TestFacadeSectionPolicy(t *testing.T) {
	f := NewFacade(sampleLayout(), sampleCitations(), Policy{HighlightSections: true})

	assert.Equal(t, []int64{102, 103}, f.Lookup(TypeSection, 2))
	assert.Empty(t, f.Lookup(TypeSentenceRange, 6))
	assert.Equal(t, []int64{100, 101}, f.Lookup(TypeParagraph, 2), "section 1 is not cited")
}

func TestFacadeItemsInheritList(t *testing.T) {
	f := NewFacade(sampleLayout(), sampleCitations(), Policy{})

	assert.Equal(t, []int64{104}, f.LookupItem(1, 2))
	assert.Empty(t, f.LookupItem(1, 4))
	assert.Empty(t, f.LookupItem(2, 1))
}

func TestFacadeSegments(t *testing.T) {
	f := NewFacade(sampleLayout(), sampleCitations(), Policy{})

	assert.Equal(t, []int64{105}, f.LookupSegment(20, 30))
	assert.Empty(t, f.LookupSegment(21, 30))
	assert.Empty(t, f.Lookup(TypeVideoTimestamp, 15))
}

func TestFacadeCards(t *testing.T) {
	f := NewFacade(sampleLayout(), sampleCitations(), Policy{})

	refs := f.Cards([]int64{101, 100, 999})
	require.Len(t, refs, 2)
	assert.Equal(t, CardRef{CardID: 101, CitationID: 2, Preview: "s4"}, refs[0])
	assert.Equal(t, "front 100", refs[1].Front, "earliest citation supplies the payload")
	assert.Empty(t, f.Cards([]int64{106}), "malformed citations carry no payload")
}

func TestFacadeInvalidLayout(t *testing.T) {
	for name, layout := range map[string]Layout{
		"nil":     nil,
		"invalid": fakeLayout{valid: false},
	} {
		t.Run(name, func(t *testing.T) {
			f := NewFacade(layout, sampleCitations(), Policy{})
			assert.False(t, f.Valid())
			assert.Empty(t, f.Lookup(TypeParagraph, 2))
			assert.Empty(t, f.LookupSegment(0, 100))
			assert.Empty(t, f.LookupItem(1, 1))
			assert.Len(t, f.Cards([]int64{100}), 1)
		})
	}
}

func TestRulesSkipMissingContainment(t *testing.T) {
	rules := Rules(fakeLayout{valid: true}, Policy{HighlightSections: true})
	assert.Empty(t, rules)

	rules = Rules(sampleLayout(), Policy{})
	require.Len(t, rules, 1)
	assert.Equal(t, TypeParagraph, rules[0].Parent)
}
