// Package citation indexes flashcard citations against the structural units of a
// source document and answers which cards cite a given unit.
//
// The package is pure and synchronous: an Index is read-only once built, Collapse
// derives a new Index instead of editing one, and a Facade bundles both with the
// transcript Timeline for a single document and citation list.
package citation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Type identifies the unit-numbering space a citation's ranges apply to.
type Type string

const (
	TypeSentenceRange  Type = "sentence_range"
	TypeParagraph      Type = "paragraph"
	TypeSection        Type = "section"
	TypeList           Type = "list"
	TypeTable          Type = "table"
	TypeVideoTimestamp Type = "video_timestamp"
	TypeBlock          Type = "block"

	// TypeListItem is a structural unit only. No citation carries it; items are
	// reachable through the list that contains them.
	TypeListItem Type = "list_item"
)

var typeAliases = map[string]Type{
	"sentence_range":  TypeSentenceRange,
	"sentence":        TypeSentenceRange,
	"paragraph":       TypeParagraph,
	"html_paragraph":  TypeParagraph,
	"section":         TypeSection,
	"html_section":    TypeSection,
	"list":            TypeList,
	"html_list":       TypeList,
	"table":           TypeTable,
	"html_table":      TypeTable,
	"video_timestamp": TypeVideoTimestamp,
	"block":           TypeBlock,
	"image_block":     TypeBlock,
}

// DiscreteTypes lists the citable types whose ranges are expanded per unit.
var DiscreteTypes = []Type{
	TypeSentenceRange,
	TypeParagraph,
	TypeSection,
	TypeList,
	TypeTable,
	TypeBlock,
}

// ParseType resolves a raw citation_type, including legacy aliases.
func ParseType(raw string) (Type, bool) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return t, ok
}

// Continuous reports whether ranges of t are real-valued seconds.
func (t Type) Continuous() bool {
	return t == TypeVideoTimestamp
}

// Range is a closed interval [Start, End].
type Range struct {
	Start float64
	End   float64
}

// Valid reports whether both bounds are finite and Start <= End.
func (r Range) Valid() bool {
	if math.IsNaN(r.Start) || math.IsNaN(r.End) || math.IsInf(r.Start, 0) || math.IsInf(r.End, 0) {
		return false
	}
	return r.Start <= r.End
}

// Contains reports whether v lies inside the range, endpoints included.
func (r Range) Contains(v float64) bool {
	return r.Start <= v && v <= r.End
}

// Overlaps reports whether [start, end] shares at least one point with r.
func (r Range) Overlaps(start, end float64) bool {
	return !(r.End < start || r.Start > end)
}

// UnmarshalJSON decodes a two-element [start, end] array or the object form
// {"range": [start, end]}.
func (r *Range) UnmarshalJSON(b []byte) error {
	var pair []float64
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Range []float64 `json:"range"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("citation: range: %w", err)
		}
		pair = obj.Range
	} else if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("citation: range: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("citation: range needs 2 bounds, got %d", len(pair))
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// MarshalJSON encodes the range as [start, end].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Start, r.End})
}

// Ranges is the citation_data payload. [[s, e], ...], [{"range": [s, e]}, ...],
// a bare {"range": [s, e]} and the legacy flat [s, e] form all decode.
type Ranges []Range

// UnmarshalJSON accepts nested and flat range encodings.
func (rs *Ranges) UnmarshalJSON(b []byte) error {
	var nested []Range
	if err := json.Unmarshal(b, &nested); err == nil {
		*rs = nested
		return nil
	}
	var flat Range
	if err := json.Unmarshal(b, &flat); err != nil {
		return fmt.Errorf("citation: citation_data: %w", err)
	}
	*rs = Ranges{flat}
	return nil
}

// Citation links one flashcard to ranges of a source document.
type Citation struct {
	ID     int64  `json:"citation_id"`
	Type   string `json:"citation_type"`
	Data   Ranges `json:"citation_data"`
	CardID int64  `json:"card_id"`

	PreviewText string `json:"preview_text,omitempty"`
	CardFront   string `json:"card_front,omitempty"`
	CardBack    string `json:"card_back,omitempty"`
	CardIndex   int    `json:"card_index,omitempty"`
}

// Resolve returns the citation's canonical type and reports whether the
// citation can be indexed at all.
func (c Citation) Resolve() (Type, bool) {
	t, ok := ParseType(c.Type)
	if !ok || len(c.Data) == 0 {
		return "", false
	}
	for _, r := range c.Data {
		if !r.Valid() {
			return "", false
		}
	}
	return t, true
}

// Decoded is the result of DecodeList.
type Decoded struct {
	Citations []Citation
	Rejected  []error
}

// DecodeList decodes a citation list, either a bare JSON array or an object
// with a "citations" array. Entries that fail to decode are reported in
// Rejected and skipped; only an unreadable envelope is an error.
func DecodeList(data []byte) (*Decoded, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var envelope struct {
			Citations []json.RawMessage `json:"citations"`
		}
		if envErr := json.Unmarshal(data, &envelope); envErr != nil {
			return nil, fmt.Errorf("citation: decode list: %w", err)
		}
		raw = envelope.Citations
	}

	out := &Decoded{Citations: make([]Citation, 0, len(raw))}
	for i, item := range raw {
		var c Citation
		if err := json.Unmarshal(item, &c); err != nil {
			out.Rejected = append(out.Rejected, fmt.Errorf("citation %d: %w", i, err))
			continue
		}
		out.Citations = append(out.Citations, c)
	}
	return out, nil
}
