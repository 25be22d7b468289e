package citation

import "sort"

// Span is an inclusive run of child unit numbers. An empty span has Last < First.
type Span struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Empty reports whether the span covers no units.
func (s Span) Empty() bool {
	return s.Last < s.First
}

// Contains reports whether n lies in the span.
func (s Span) Contains(n int) bool {
	return s.First <= n && n <= s.Last
}

// Rule subsumes Child citations into a directly cited Parent. Spans maps each
// parent number to the child units it contains.
type Rule struct {
	Parent Type
	Child  Type
	Spans  map[int]Span
}

// Collapse applies rules in order and returns a derived index; ix is left
// untouched. For every parent unit with at least one direct citation, the
// cards of each child unit inside its span are merged into the parent and the
// child entries are dropped. Parents without a direct citation keep their
// children independent.
func Collapse(ix *Index, rules ...Rule) *Index {
	if ix == nil {
		return nil
	}
	out := ix.clone()
	for _, rule := range rules {
		out.apply(rule)
	}
	return out
}

func (ix *Index) apply(rule Rule) {
	parents := ix.units[rule.Parent]
	children := ix.units[rule.Child]
	if len(parents) == 0 || len(children) == 0 {
		return
	}

	numbers := make([]int, 0, len(rule.Spans))
	for n := range rule.Spans {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, p := range numbers {
		direct := parents[p]
		if len(direct) == 0 {
			continue
		}
		span := rule.Spans[p]
		if span.Empty() {
			continue
		}

		merged := direct
		for c := span.First; c <= span.Last; c++ {
			if sub, ok := children[c]; ok {
				merged = union(merged, sub)
				delete(children, c)
			}
		}
		parents[p] = merged
	}
}

// union merges two entry lists into a new slice ordered by citation id, one
// entry per card.
func union(a, b []entry) []entry {
	out := make([]entry, 0, len(a)+len(b))
	seen := make(map[int64]int, len(a)+len(b))
	for _, list := range [][]entry{a, b} {
		for _, e := range list {
			if i, ok := seen[e.card]; ok {
				if e.citation < out[i].citation {
					out[i].citation = e.citation
				}
				continue
			}
			seen[e.card] = len(out)
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].citation != out[j].citation {
			return out[i].citation < out[j].citation
		}
		return out[i].card < out[j].card
	})
	return out
}
