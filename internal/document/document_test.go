package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/flashcite/internal/citation"
)

const htmlJSON = `{
  "title": "Cells",
  "sections": [
    {"level": 1, "heading": "[Section 1] Cells", "paragraphs": [
      "[Paragraph 1] Cells are small. They divide often.",
      "[List 1]",
      "• nucleus",
      "• membrane",
      "[Paragraph 2] Membranes hold things in."
    ]},
    {"level": 2, "heading": "[Section 1.1] Organelles", "paragraphs": [
      "[Table 1]",
      "Name: Ribosome | Role: protein",
      "Name: Golgi | Role: packaging",
      "[Paragraph 3] Mitochondria make energy. They have DNA! Really?"
    ]},
    {"level": 1, "heading": "[Section 2] Tissues", "paragraphs": [
      "[Paragraph 4] Tissues are groups of cells."
    ]}
  ]
}`

const pdfJSON = `{
  "title": "Paper",
  "sections": [
    {"header": "Intro", "content": [
      {"sentences": ["One.", "Two."]},
      {"items": [{"text": "a", "continuation_texts": ["more"]}, {"text": "b"}], "marker_type": "bullet"},
      {"sentences": ["Three."]}
    ]},
    {"header": "Method", "content": [
      {"text": "lone item", "marker_type": "number"},
      {"sentences": ["Four.", "Five.", "Six."]}
    ]}
  ]
}`

const textJSON = `{
  "paragraphs": [
    {"number": 1, "sentences": ["Alpha.", "Beta."], "sentence_numbers": [1, 2]},
    {"number": 2, "sentences": ["Gamma."], "sentence_numbers": [3]}
  ]
}`

const imageJSON = `{
  "type": "image",
  "blocks": [
    {"id": 2, "confidence": 91.5, "paragraphs": [{"sentences": ["First line.", "Second line."]}]},
    {"id": 5, "confidence": 80, "paragraphs": [], "metadata": {"original_text": "Loose text. More text."}}
  ]
}`

const transcriptJSON = `{
  "title": "Lecture",
  "segments": [
    {"text": "hello", "start": 0, "duration": 4.5, "chapter": "Intro"},
    {"text": "world", "start": 4.5, "duration": 5, "chapter": "Intro"},
    {"text": "later", "start_time": 65.25, "end_time": 70, "chapter": "Body"}
  ]
}`

func TestParseHTML(t *testing.T) {
	d, err := Parse([]byte(htmlJSON))
	require.NoError(t, err)

	assert.Equal(t, KindHTML, d.Kind)
	assert.Equal(t, NumberingGlobal, d.Numbering)
	require.Len(t, d.Groups, 3)
	assert.Equal(t, 1, d.Groups[1].Number, "subsections keep their top-level number")
	assert.Equal(t, "Organelles", d.Groups[1].Heading)
	assert.Equal(t, 2, d.Groups[1].Level)

	p3, ok := d.Paragraph(3)
	require.True(t, ok)
	assert.Equal(t, []Sentence{
		{Number: 4, Text: "Mitochondria make energy."},
		{Number: 5, Text: "They have DNA!"},
		{Number: 6, Text: "Really?"},
	}, p3.Sentences)

	l, ok := d.List(1)
	require.True(t, ok)
	assert.Equal(t, []Item{{Number: 1, Text: "• nucleus"}, {Number: 2, Text: "• membrane"}}, l.Items)

	tb, ok := d.Table(1)
	require.True(t, ok)
	assert.Len(t, tb.Rows, 2)

	assert.Equal(t, map[int]citation.Span{1: {First: 1, Last: 3}, 2: {First: 4, Last: 4}},
		d.Containment(citation.TypeSection, citation.TypeParagraph))
	assert.Equal(t, map[int]citation.Span{1: {First: 1, Last: 6}, 2: {First: 7, Last: 7}},
		d.Containment(citation.TypeSection, citation.TypeSentenceRange))

	ext := d.Extents()
	assert.Equal(t, 2, ext[citation.TypeSection])
	assert.Equal(t, 4, ext[citation.TypeParagraph])
	assert.Equal(t, 7, ext[citation.TypeSentenceRange])
	assert.Equal(t, 1, ext[citation.TypeTable])
}

func TestParsePDFListsUseParagraphCounter(t *testing.T) {
	d, err := Parse([]byte(pdfJSON))
	require.NoError(t, err)

	assert.Equal(t, KindPDF, d.Kind)
	assert.Equal(t, NumberingParagraph, d.Numbering)

	var paragraphs []int
	for _, p := range d.Paragraphs {
		paragraphs = append(paragraphs, p.Number)
	}
	assert.Equal(t, []int{1, 3, 5}, paragraphs)

	require.Len(t, d.Lists, 2)
	assert.Equal(t, 2, d.Lists[0].Number)
	assert.Equal(t, "a more", d.Lists[0].Items[0].Text)
	assert.Equal(t, 4, d.Lists[1].Number)

	p5, _ := d.Paragraph(5)
	assert.Equal(t, 4, p5.Sentences[0].Number, "sentences never reset per paragraph")
	assert.Equal(t, map[int]citation.Span{1: {First: 1, Last: 2}, 3: {First: 3, Last: 3}, 5: {First: 4, Last: 6}},
		d.Containment(citation.TypeParagraph, citation.TypeSentenceRange))
	assert.Equal(t, []Element{{citation.TypeList, 4}, {citation.TypeParagraph, 5}}, d.Groups[1].Elements)
}

func TestParseNumberingOverride(t *testing.T) {
	tests := []struct {
		numbering Numbering
		want      []int
	}{
		{NumberingGlobal, []int{1, 2}},
		{NumberingSection, []int{1, 1}},
		{NumberingParagraph, []int{2, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.numbering), func(t *testing.T) {
			d, err := Parse([]byte(pdfJSON), WithNumbering(tt.numbering))
			require.NoError(t, err)
			got := []int{d.Lists[0].Number, d.Lists[1].Number}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseText(t *testing.T) {
	d, err := Parse([]byte(textJSON))
	require.NoError(t, err)

	assert.Equal(t, KindText, d.Kind)
	require.Len(t, d.Groups, 1)
	assert.True(t, d.Groups[0].Implicit)
	assert.Empty(t, d.Containment(citation.TypeSection, citation.TypeParagraph))
	assert.Equal(t, 0, d.Extents()[citation.TypeSection])
	assert.Equal(t, map[int]citation.Span{1: {First: 1, Last: 2}, 2: {First: 3, Last: 3}},
		d.Containment(citation.TypeParagraph, citation.TypeSentenceRange))
}

func TestParseImage(t *testing.T) {
	d, err := Parse([]byte(imageJSON))
	require.NoError(t, err)

	assert.Equal(t, KindImage, d.Kind)
	require.Len(t, d.Groups, 2)
	assert.Equal(t, citation.TypeBlock, d.Groups[1].Type)
	assert.Equal(t, 5, d.Groups[1].Number)
	assert.Equal(t, 91.5, d.Groups[0].Confidence)

	assert.Equal(t, map[int]citation.Span{2: {First: 1, Last: 1}, 5: {First: 2, Last: 2}},
		d.Containment(citation.TypeBlock, citation.TypeParagraph))
	assert.Equal(t, map[int]citation.Span{2: {First: 1, Last: 2}, 5: {First: 3, Last: 4}},
		d.Containment(citation.TypeBlock, citation.TypeSentenceRange))
	assert.Equal(t, 5, d.Extents()[citation.TypeBlock])
}

func TestParseTranscript(t *testing.T) {
	d, err := Parse([]byte(transcriptJSON))
	require.NoError(t, err)

	assert.Equal(t, KindTranscript, d.Kind)
	require.Len(t, d.Segments, 3)
	assert.Equal(t, Segment{Number: 2, Start: 4.5, End: 9.5, Text: "world", Chapter: "Intro"}, d.Segments[1])
	assert.Equal(t, 70.0, d.Segments[2].End)
}

func TestParseMalformed(t *testing.T) {
	inputs := map[string]string{
		"not json":        `nope`,
		"no known keys":   `{"title": "x"}`,
		"empty sections":  `{"sections": []}`,
		"bad paragraphs":  `{"sections": [{"heading": "x", "paragraphs": 4}]}`,
		"segment no time": `{"segments": [{"text": "x"}]}`,
		"reversed time":   `{"segments": [{"text": "x", "start_time": 5, "end_time": 1}]}`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			d, err := Parse([]byte(in))
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
			assert.Nil(t, d)
		})
	}

	var d *Document
	assert.False(t, d.Valid())
	assert.Nil(t, d.Extents())
}

func TestParseNumbering(t *testing.T) {
	n, err := ParseNumbering("section")
	require.NoError(t, err)
	assert.Equal(t, NumberingSection, n)

	_, err = ParseNumbering("diagonal")
	assert.Error(t, err)
}

func TestDocumentDrivesFacade(t *testing.T) {
	d, err := Parse([]byte(pdfJSON))
	require.NoError(t, err)

	f := citation.NewFacade(d, []citation.Citation{
		{ID: 1, Type: "paragraph", Data: citation.Ranges{{Start: 5, End: 5}}, CardID: 10},
		{ID: 2, Type: "sentence_range", Data: citation.Ranges{{Start: 5, End: 5}}, CardID: 11},
		{ID: 3, Type: "sentence_range", Data: citation.Ranges{{Start: 2, End: 2}}, CardID: 12},
		{ID: 4, Type: "list", Data: citation.Ranges{{Start: 2, End: 2}}, CardID: 13},
	}, citation.Policy{})

	assert.Equal(t, []int64{10, 11}, f.Lookup(citation.TypeParagraph, 5))
	assert.Empty(t, f.Lookup(citation.TypeSentenceRange, 5))
	assert.Equal(t, []int64{12}, f.Lookup(citation.TypeSentenceRange, 2))
	assert.Equal(t, []int64{13}, f.LookupItem(2, 2))
}

func TestPDFParagraphNumbersSkipLists(t *testing.T) {
	d, err := Parse([]byte(`{"sections": [{"header": "Only", "content": [
	  {"sentences": ["First."]},
	  {"items": [{"text": "x"}], "marker_type": "bullet"},
	  {"sentences": ["Second."]}
	]}]}`))
	require.NoError(t, err)

	require.Len(t, d.Paragraphs, 2)
	assert.Equal(t, 1, d.Paragraphs[0].Number)
	assert.Equal(t, 3, d.Paragraphs[1].Number)
	require.Len(t, d.Lists, 1)
	assert.Equal(t, 2, d.Lists[0].Number)

	f := citation.NewFacade(d, []citation.Citation{
		{ID: 1, Type: "paragraph", Data: citation.Ranges{{Start: 3, End: 3}}, CardID: 7},
	}, citation.Policy{})
	assert.Equal(t, []int64{7}, f.Lookup(citation.TypeParagraph, 3))
	assert.Empty(t, f.Lookup(citation.TypeParagraph, 2))
}

func TestParseHTMLUnmarkedLineKeepsNumbersUnique(t *testing.T) {
	d, err := Parse([]byte(`{"sections": [{"heading": "[Section 1] S", "paragraphs": [
	  "Loose line.",
	  "[Paragraph 1] Marked one.",
	  "[Paragraph 3] Marked three."
	]}]}`))
	require.NoError(t, err)

	var numbers []int
	for _, p := range d.Paragraphs {
		numbers = append(numbers, p.Number)
	}
	assert.Equal(t, []int{1, 2, 3}, numbers)

	spans := d.Containment(citation.TypeParagraph, citation.TypeSentenceRange)
	assert.Equal(t, map[int]citation.Span{1: {First: 1, Last: 1}, 2: {First: 2, Last: 2}, 3: {First: 3, Last: 3}}, spans)
}

func TestParseTextOutOfOrderSentenceNumbers(t *testing.T) {
	d, err := Parse([]byte(`{"paragraphs": [
	  {"number": 1, "sentences": ["Late.", "Early.", "Middle."], "sentence_numbers": [3, 1, 2]}
	]}`))
	require.NoError(t, err)

	assert.Equal(t, map[int]citation.Span{1: {First: 1, Last: 3}},
		d.Containment(citation.TypeParagraph, citation.TypeSentenceRange))
}
