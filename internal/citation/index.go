package citation

import (
	"math"
	"sort"
)

// DefaultMaxRangeWidth caps how many units a single range may expand to when
// the document extent for its type is unknown.
const DefaultMaxRangeWidth = 100000

type entry struct {
	card     int64
	citation int64
}

// TimeSpan is a video_timestamp range kept unexpanded for overlap queries.
type TimeSpan struct {
	Start      float64
	End        float64
	CardID     int64
	CitationID int64
}

// Stats summarizes one index build.
type Stats struct {
	Indexed   int `json:"indexed"`
	Skipped   int `json:"skipped"`
	Truncated int `json:"truncated"`
}

// Index maps a citation type and unit number to the cards citing that unit.
// It is read-only after Build returns.
type Index struct {
	units map[Type]map[int][]entry
	spans []TimeSpan
	stats Stats
}

type buildOptions struct {
	bounds   map[Type]int
	maxWidth int
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithBounds clamps expansion of each listed type to [1, max].
func WithBounds(bounds map[Type]int) BuildOption {
	return func(o *buildOptions) {
		o.bounds = bounds
	}
}

// WithMaxRangeWidth overrides DefaultMaxRangeWidth. Non-positive values are ignored.
func WithMaxRangeWidth(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.maxWidth = n
		}
	}
}

// Build expands citations into a unit index. Citations are applied in
// ascending citation_id order so every unit lists its cards in display order.
// Citations that cannot be indexed are skipped and counted.
func Build(citations []Citation, opts ...BuildOption) *Index {
	o := buildOptions{maxWidth: DefaultMaxRangeWidth}
	for _, opt := range opts {
		opt(&o)
	}

	ordered := make([]Citation, len(citations))
	copy(ordered, citations)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	ix := &Index{units: make(map[Type]map[int][]entry)}
	for _, c := range ordered {
		t, ok := c.Resolve()
		if !ok {
			ix.stats.Skipped++
			continue
		}
		ix.stats.Indexed++

		if t.Continuous() {
			for _, r := range c.Data {
				ix.spans = append(ix.spans, TimeSpan{Start: r.Start, End: r.End, CardID: c.CardID, CitationID: c.ID})
			}
			continue
		}

		truncated := false
		for _, r := range c.Data {
			lo, hi, cut := o.expand(t, r)
			truncated = truncated || cut
			for n := lo; n <= hi; n++ {
				ix.add(t, n, entry{card: c.CardID, citation: c.ID})
			}
		}
		if truncated {
			ix.stats.Truncated++
		}
	}
	return ix
}

// expand returns the integer units covered by r, and whether the width
// ceiling cut it short.
func (o buildOptions) expand(t Type, r Range) (lo, hi int, truncated bool) {
	start, end := math.Ceil(r.Start), math.Floor(r.End)
	if limit, ok := o.bounds[t]; ok {
		start = math.Max(start, 1)
		end = math.Min(end, float64(limit))
		if start > end {
			return 1, 0, false
		}
		return int(start), int(end), false
	}

	if start > end {
		return 1, 0, false
	}
	width := float64(o.maxWidth)
	if end-start+1 > width {
		end = start + width - 1
		truncated = true
	}
	// Keep the conversion inside int range for absurd bounds.
	start = math.Min(math.Max(start, math.MinInt32), math.MaxInt32)
	end = math.Min(math.Max(end, math.MinInt32), math.MaxInt32)
	return int(start), int(end), truncated
}

func (ix *Index) add(t Type, n int, e entry) {
	byUnit, ok := ix.units[t]
	if !ok {
		byUnit = make(map[int][]entry)
		ix.units[t] = byUnit
	}
	for _, have := range byUnit[n] {
		if have.card == e.card {
			return
		}
	}
	byUnit[n] = append(byUnit[n], e)
}

// Lookup returns the cards citing unit n of type t in display order. The
// result is a fresh slice and is nil when nothing cites the unit.
func (ix *Index) Lookup(t Type, n int) []int64 {
	if ix == nil {
		return nil
	}
	entries := ix.units[t][n]
	if len(entries) == 0 {
		return nil
	}
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.card
	}
	return out
}

// Units returns the cited unit numbers of type t in ascending order.
func (ix *Index) Units(t Type) []int {
	if ix == nil {
		return nil
	}
	out := make([]int, 0, len(ix.units[t]))
	for n, entries := range ix.units[t] {
		if len(entries) > 0 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// Types lists the types with at least one indexed unit, in a stable order.
func (ix *Index) Types() []Type {
	if ix == nil {
		return nil
	}
	var out []Type
	for _, t := range DiscreteTypes {
		if len(ix.units[t]) > 0 {
			out = append(out, t)
		}
	}
	if len(ix.spans) > 0 {
		out = append(out, TypeVideoTimestamp)
	}
	return out
}

// Spans returns a copy of the retained video_timestamp spans.
func (ix *Index) Spans() []TimeSpan {
	if ix == nil {
		return nil
	}
	out := make([]TimeSpan, len(ix.spans))
	copy(out, ix.spans)
	return out
}

// Stats reports how many citations were indexed, skipped and truncated.
func (ix *Index) Stats() Stats {
	if ix == nil {
		return Stats{}
	}
	return ix.stats
}

// clone copies the unit maps. Entry slices are shared and must be replaced,
// never appended to, by the owner of the copy.
func (ix *Index) clone() *Index {
	out := &Index{
		units: make(map[Type]map[int][]entry, len(ix.units)),
		spans: ix.spans,
		stats: ix.stats,
	}
	for t, byUnit := range ix.units {
		cp := make(map[int][]entry, len(byUnit))
		for n, entries := range byUnit {
			cp[n] = entries
		}
		out.units[t] = cp
	}
	return out
}
