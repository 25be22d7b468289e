package citation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		raw  string
		want Type
		ok   bool
	}{
		{"sentence_range", TypeSentenceRange, true},
		{"sentence", TypeSentenceRange, true},
		{"html_paragraph", TypeParagraph, true},
		{" HTML_Section ", TypeSection, true},
		{"html_list", TypeList, true},
		{"html_table", TypeTable, true},
		{"image_block", TypeBlock, true},
		{"video_timestamp", TypeVideoTimestamp, true},
		{"list_item", "", false},
		{"bogus", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseType(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRangesUnmarshal(t *testing.T) {
	var nested Ranges
	require.NoError(t, json.Unmarshal([]byte(`[[1,3],[7,7]]`), &nested))
	assert.Equal(t, Ranges{{1, 3}, {7, 7}}, nested)

	var flat Ranges
	require.NoError(t, json.Unmarshal([]byte(`[12.5, 30]`), &flat))
	assert.Equal(t, Ranges{{12.5, 30}}, flat)

	var objects Ranges
	require.NoError(t, json.Unmarshal([]byte(`[{"range": [1, 2]}, {"range": [5, 6]}]`), &objects))
	assert.Equal(t, Ranges{{1, 2}, {5, 6}}, objects)

	var bare Ranges
	require.NoError(t, json.Unmarshal([]byte(` {"range": [3, 4]}`), &bare))
	assert.Equal(t, Ranges{{3, 4}}, bare)

	var bad Ranges
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`"x"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"range": [1]}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"start": 1}`), &bad))
}

func TestDecodeList_RangeObjects(t *testing.T) {
	got, err := DecodeList([]byte(`[
		{"citation_id": 1, "citation_type": "paragraph", "citation_data": {"range": [1, 2]}, "card_id": 10},
		{"citation_id": 2, "citation_type": "sentence", "citation_data": [{"range": [3, 3]}], "card_id": 11}
	]`))
	require.NoError(t, err)
	assert.Empty(t, got.Rejected)
	require.Len(t, got.Citations, 2)
	assert.Equal(t, Ranges{{1, 2}}, got.Citations[0].Data)
	assert.Equal(t, Ranges{{3, 3}}, got.Citations[1].Data)
}

func TestRangeValid(t *testing.T) {
	assert.True(t, Range{1, 1}.Valid())
	assert.False(t, Range{5, 4}.Valid())
	assert.False(t, Range{math.NaN(), 4}.Valid())
	assert.False(t, Range{1, math.Inf(1)}.Valid())
}

func TestDecodeList(t *testing.T) {
	data := []byte(`[
		{"citation_id": 1, "citation_type": "paragraph", "citation_data": [[1,2]], "card_id": 10},
		{"citation_id": 2, "citation_type": "sentence_range", "citation_data": "oops", "card_id": 11},
		{"citation_id": 3, "citation_type": "video_timestamp", "citation_data": [4.5, 9], "card_id": 12,
		 "card_front": "Q", "card_back": "A"}
	]`)

	got, err := DecodeList(data)
	require.NoError(t, err)
	require.Len(t, got.Citations, 2)
	assert.Len(t, got.Rejected, 1)
	assert.Equal(t, int64(10), got.Citations[0].CardID)
	assert.Equal(t, Ranges{{4.5, 9}}, got.Citations[1].Data)
	assert.Equal(t, "Q", got.Citations[1].CardFront)

	env, err := DecodeList([]byte(`{"citations": [{"citation_id": 1, "citation_type": "list", "citation_data": [[2,2]], "card_id": 3}]}`))
	require.NoError(t, err)
	assert.Len(t, env.Citations, 1)

	_, err = DecodeList([]byte(`not json`))
	assert.Error(t, err)
}
