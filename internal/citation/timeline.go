package citation

import (
	"math"
	"sort"
)

// Timeline answers overlap queries over video_timestamp spans.
type Timeline struct {
	spans  []TimeSpan
	maxEnd []float64 // maxEnd[i] is the largest End among spans[0..i]
}

// NewTimeline sorts spans by (Start, End). The input slice is not modified.
func NewTimeline(spans []TimeSpan) *Timeline {
	sorted := make([]TimeSpan, 0, len(spans))
	for _, s := range spans {
		if (Range{Start: s.Start, End: s.End}).Valid() {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	maxEnd := make([]float64, len(sorted))
	for i, s := range sorted {
		maxEnd[i] = s.End
		if i > 0 && maxEnd[i-1] > s.End {
			maxEnd[i] = maxEnd[i-1]
		}
	}
	return &Timeline{spans: sorted, maxEnd: maxEnd}
}

// Len returns the number of retained spans.
func (tl *Timeline) Len() int {
	if tl == nil {
		return 0
	}
	return len(tl.spans)
}

// Overlapping returns the cards whose span shares at least one point with
// [segStart, segEnd], touching endpoints included. Cards appear once, ordered
// by their earliest overlapping citation id.
func (tl *Timeline) Overlapping(segStart, segEnd float64) []int64 {
	if tl == nil || len(tl.spans) == 0 || math.IsNaN(segStart) || math.IsNaN(segEnd) {
		return nil
	}
	if segStart > segEnd {
		segStart, segEnd = segEnd, segStart
	}

	// Spans at or past hi start after the segment ends.
	hi := sort.Search(len(tl.spans), func(i int) bool { return tl.spans[i].Start > segEnd })

	var hits []TimeSpan
	for i := hi - 1; i >= 0 && tl.maxEnd[i] >= segStart; i-- {
		if tl.spans[i].End >= segStart {
			hits = append(hits, tl.spans[i])
		}
	}
	return cardsOf(hits)
}

// cardsOf dedupes spans by card, keeping each card's smallest citation id,
// and orders the cards by that id.
func cardsOf(hits []TimeSpan) []int64 {
	if len(hits) == 0 {
		return nil
	}
	first := make(map[int64]int64, len(hits))
	for _, h := range hits {
		if id, ok := first[h.CardID]; !ok || h.CitationID < id {
			first[h.CardID] = h.CitationID
		}
	}
	out := make([]int64, 0, len(first))
	for card := range first {
		out = append(out, card)
	}
	sort.Slice(out, func(i, j int) bool {
		if first[out[i]] != first[out[j]] {
			return first[out[i]] < first[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
