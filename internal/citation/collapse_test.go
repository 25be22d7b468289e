package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func paragraphRule(spans map[int]Span) Rule {
	return Rule{Parent: TypeParagraph, Child: TypeSentenceRange, Spans: spans}
}

func TestCollapseSubsumesSentences(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "paragraph", 10, Range{3, 3}),
		cite(2, "sentence_range", 11, Range{8, 8}),
	})
	out := Collapse(ix, paragraphRule(map[int]Span{3: {First: 7, Last: 9}}))

	assert.Equal(t, []int64{10, 11}, out.Lookup(TypeParagraph, 3))
	assert.Empty(t, out.Lookup(TypeSentenceRange, 8))
}

func TestCollapseUncitedParagraphKeepsSentences(t *testing.T) {
	ix := Build([]Citation{cite(1, "sentence_range", 20, Range{12, 12})})
	out := Collapse(ix, paragraphRule(map[int]Span{4: {First: 10, Last: 14}}))

	assert.Equal(t, []int64{20}, out.Lookup(TypeSentenceRange, 12))
	assert.Empty(t, out.Lookup(TypeParagraph, 4))
}

func TestCollapseLeavesInputUntouched(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "paragraph", 10, Range{1, 1}),
		cite(2, "sentence_range", 11, Range{1, 2}),
	})
	_ = Collapse(ix, paragraphRule(map[int]Span{1: {First: 1, Last: 2}}))

	assert.Equal(t, []int64{10}, ix.Lookup(TypeParagraph, 1))
	assert.Equal(t, []int64{11}, ix.Lookup(TypeSentenceRange, 1))
	assert.Equal(t, []int64{11}, ix.Lookup(TypeSentenceRange, 2))
}

func TestCollapseOrdersByEarliestCitation(t *testing.T) {
	ix := Build([]Citation{
		cite(5, "paragraph", 50, Range{1, 1}),
		cite(2, "sentence_range", 20, Range{1, 1}),
		cite(9, "sentence_range", 50, Range{2, 2}),
		cite(7, "sentence_range", 70, Range{2, 2}),
	})
	out := Collapse(ix, paragraphRule(map[int]Span{1: {First: 1, Last: 2}}))

	assert.Equal(t, []int64{20, 50, 70}, out.Lookup(TypeParagraph, 1))
}

func TestCollapseOnlyWithinSpan(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "paragraph", 1, Range{1, 1}),
		cite(2, "sentence_range", 2, Range{1, 5}),
	})
	out := Collapse(ix, paragraphRule(map[int]Span{1: {First: 1, Last: 2}, 2: {First: 3, Last: 5}}))

	assert.Empty(t, out.Lookup(TypeSentenceRange, 2))
	assert.Equal(t, []int64{2}, out.Lookup(TypeSentenceRange, 3))
	assert.Empty(t, out.Lookup(TypeParagraph, 2))
}

func TestCollapseRulesChain(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "section", 1, Range{1, 1}),
		cite(2, "paragraph", 2, Range{2, 2}),
		cite(3, "sentence_range", 3, Range{4, 4}),
	})
	out := Collapse(ix,
		paragraphRule(map[int]Span{2: {First: 3, Last: 4}}),
		Rule{Parent: TypeSection, Child: TypeParagraph, Spans: map[int]Span{1: {First: 1, Last: 2}}},
		Rule{Parent: TypeSection, Child: TypeSentenceRange, Spans: map[int]Span{1: {First: 1, Last: 4}}},
	)

	assert.Equal(t, []int64{1, 2, 3}, out.Lookup(TypeSection, 1))
	assert.Empty(t, out.Lookup(TypeParagraph, 2))
	assert.Empty(t, out.Lookup(TypeSentenceRange, 4))
}

func TestCollapseEmptySpanIgnored(t *testing.T) {
	ix := Build([]Citation{
		cite(1, "paragraph", 1, Range{1, 1}),
		cite(2, "sentence_range", 2, Range{1, 1}),
	})
	out := Collapse(ix, paragraphRule(map[int]Span{1: {First: 1, Last: 0}}))

	assert.Equal(t, []int64{1}, out.Lookup(TypeParagraph, 1))
	assert.Equal(t, []int64{2}, out.Lookup(TypeSentenceRange, 1))
	assert.Nil(t, Collapse(nil))
}
