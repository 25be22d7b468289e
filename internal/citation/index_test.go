package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cite(id int64, typ string, card int64, ranges ...Range) Citation {
	return Citation{ID: id, Type: typ, CardID: card, Data: ranges}
}

func TestBuildIdempotent(t *testing.T) {
	citations := []Citation{
		cite(3, "sentence_range", 7, Range{2, 4}),
		cite(1, "paragraph", 5, Range{1, 1}, Range{3, 3}),
		cite(2, "sentence_range", 6, Range{3, 3}),
		cite(4, "video_timestamp", 8, Range{1.5, 3}),
	}

	a, b := Build(citations), Build(citations)
	for _, typ := range DiscreteTypes {
		for n := 0; n <= 6; n++ {
			assert.Equal(t, a.Lookup(typ, n), b.Lookup(typ, n), "%s %d", typ, n)
		}
	}
	assert.Equal(t, a.Spans(), b.Spans())
	assert.Equal(t, a.Stats(), b.Stats())
}

func TestBuildRangeInclusive(t *testing.T) {
	ix := Build([]Citation{cite(1, "sentence_range", 42, Range{5, 8})})

	assert.Empty(t, ix.Lookup(TypeSentenceRange, 4))
	assert.Equal(t, []int64{42}, ix.Lookup(TypeSentenceRange, 5))
	assert.Equal(t, []int64{42}, ix.Lookup(TypeSentenceRange, 6))
	assert.Equal(t, []int64{42}, ix.Lookup(TypeSentenceRange, 8))
	assert.Empty(t, ix.Lookup(TypeSentenceRange, 9))
}

func TestBuildDeduplicatesCards(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "paragraph", 9, Range{1, 3}),
		cite(2, "paragraph", 9, Range{2, 5}, Range{3, 3}),
	})
	assert.Equal(t, []int64{9}, ix.Lookup(TypeParagraph, 3))
	assert.Equal(t, []int64{9}, ix.Lookup(TypeParagraph, 5))
}

func TestBuildDisplayOrderFollowsCitationID(t *testing.T) {
	ix := Build([]Citation{
		cite(30, "list", 3, Range{1, 1}),
		cite(10, "list", 1, Range{1, 1}),
		cite(20, "list", 2, Range{1, 1}),
	})
	assert.Equal(t, []int64{1, 2, 3}, ix.Lookup(TypeList, 1))
}

func TestBuildSkipsMalformed(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "bogus", 1, Range{1, 1}),
		cite(2, "paragraph", 2),
		cite(3, "paragraph", 3, Range{4, 2}),
		cite(4, "table", 4, Range{2, 2}),
	})

	assert.Equal(t, []int64{4}, ix.Lookup(TypeTable, 2))
	assert.Empty(t, ix.Lookup(TypeParagraph, 3))
	assert.Equal(t, Stats{Indexed: 1, Skipped: 3}, ix.Stats())
	assert.Equal(t, []Type{TypeTable}, ix.Types())
}

func TestBuildAliasesShareUnitSpace(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "html_paragraph", 1, Range{2, 2}),
		cite(2, "paragraph", 2, Range{2, 2}),
	})
	assert.Equal(t, []int64{1, 2}, ix.Lookup(TypeParagraph, 2))
}

func TestBuildVideoSpansNotExpanded(t *testing.T) {
	ix := Build([]Citation{cite(1, "video_timestamp", 5, Range{10, 20})})

	assert.Empty(t, ix.Lookup(TypeVideoTimestamp, 15))
	require.Len(t, ix.Spans(), 1)
	assert.Equal(t, TimeSpan{Start: 10, End: 20, CardID: 5, CitationID: 1}, ix.Spans()[0])
	assert.Equal(t, []Type{TypeVideoTimestamp}, ix.Types())
}

func TestBuildBounds(t *testing.T) {
	ix := Build(
		[]Citation{cite(1, "sentence_range", 1, Range{-5, 1e9})},
		WithBounds(map[Type]int{TypeSentenceRange: 4}),
	)
	assert.Equal(t, []int{1, 2, 3, 4}, ix.Units(TypeSentenceRange))
	assert.Zero(t, ix.Stats().Truncated)
}

func TestBuildWidthCeiling(t *testing.T) {
	ix := Build(
		[]Citation{cite(1, "paragraph", 1, Range{1, 1e12}), cite(2, "paragraph", 2, Range{2, 3})},
		WithMaxRangeWidth(10),
	)
	assert.Equal(t, []int64{1}, ix.Lookup(TypeParagraph, 10))
	assert.Empty(t, ix.Lookup(TypeParagraph, 11))
	assert.Equal(t, 1, ix.Stats().Truncated)
}

func TestBuildFractionalDiscreteBounds(t *testing.T) {
	ix := Build([]Citation{cite(1, "paragraph", 1, Range{1.5, 3.2})})
	assert.Equal(t, []int{2, 3}, ix.Units(TypeParagraph))
}

func TestLookupReturnsFreshSlice(t *testing.T) {
	ix := Build([]Citation{cite(1, "paragraph", 1, Range{1, 1})})
	got := ix.Lookup(TypeParagraph, 1)
	got[0] = 99
	assert.Equal(t, []int64{1}, ix.Lookup(TypeParagraph, 1))

	var empty *Index
	assert.Nil(t, empty.Lookup(TypeParagraph, 1))
}
