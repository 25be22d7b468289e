package highlight

import (
	"context"
	"fmt"
	"math"

	"github.com/starford/flashcite/internal/apperr"
	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/document"
)

// UnitResult answers a single-unit query.
type UnitResult struct {
	Type     citation.Type      `json:"type"`
	Number   int                `json:"number"`
	List     int                `json:"list,omitempty"`
	Preview  string             `json:"preview,omitempty"`
	Fallback bool               `json:"fallback"`
	Cards    []citation.CardRef `json:"cards"`
}

// SegmentResult answers a transcript segment query.
type SegmentResult struct {
	Start    float64            `json:"start"`
	End      float64            `json:"end"`
	Label    string             `json:"label"`
	Preview  string             `json:"preview,omitempty"`
	Fallback bool               `json:"fallback"`
	Cards    []citation.CardRef `json:"cards"`
}

// LookupUnit returns the cards highlighting unit n of type t in path.
func (s *Service) LookupUnit(_ context.Context, path string, t citation.Type, n int) (*UnitResult, error) {
	if t.Continuous() || t == citation.TypeListItem {
		return nil, fmt.Errorf("%w: %s is not addressable by number", apperr.ErrInvalid, t)
	}
	_, f, err := s.facade(path)
	if err != nil {
		return nil, err
	}
	res := &UnitResult{
		Type:     t,
		Number:   n,
		Fallback: !f.Valid(),
		Cards:    nonNilSlice(f.Cards(f.Lookup(t, n))),
	}
	if doc := documentOf(f); doc != nil {
		res.Preview = doc.Preview(t, float64(n), float64(n))
	}
	return res, nil
}

// LookupItem returns the cards of the list holding item. Items are never
// cited directly, so this is the list's own highlight.
func (s *Service) LookupItem(_ context.Context, path string, list, item int) (*UnitResult, error) {
	_, f, err := s.facade(path)
	if err != nil {
		return nil, err
	}
	res := &UnitResult{
		Type:     citation.TypeListItem,
		Number:   item,
		List:     list,
		Fallback: !f.Valid(),
		Cards:    nonNilSlice(f.Cards(f.LookupItem(list, item))),
	}
	if doc := documentOf(f); doc != nil {
		if l, ok := doc.List(list); ok {
			for _, it := range l.Items {
				if it.Number == item {
					res.Preview = it.Text
					break
				}
			}
		}
	}
	return res, nil
}

// LookupSegment returns the cards whose video_timestamp ranges overlap
// [start, end] in path.
func (s *Service) LookupSegment(_ context.Context, path string, start, end float64) (*SegmentResult, error) {
	if math.IsNaN(start) || math.IsNaN(end) {
		return nil, fmt.Errorf("%w: segment bounds must be numbers", apperr.ErrInvalid)
	}
	if start > end {
		start, end = end, start
	}
	_, f, err := s.facade(path)
	if err != nil {
		return nil, err
	}
	res := &SegmentResult{
		Start:    start,
		End:      end,
		Label:    document.FormatTimestamp(start) + "-" + document.FormatTimestamp(end),
		Fallback: !f.Valid(),
		Cards:    nonNilSlice(f.Cards(f.LookupSegment(start, end))),
	}
	if doc := documentOf(f); doc != nil {
		res.Preview = doc.Preview(citation.TypeVideoTimestamp, start, end)
	}
	return res, nil
}
