package document

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/starford/flashcite/internal/citation"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+(?:[.!?]+["'”’)\]]*|$)`)

// splitSentences breaks text at terminal punctuation.
func splitSentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinSentences(sentences []Sentence, sep string) string {
	parts := make([]string, len(sentences))
	for i, s := range sentences {
		parts[i] = s.Text
	}
	return strings.Join(parts, sep)
}

// Preview returns the document text covered by units start..end of type t.
// For video_timestamp the bounds are seconds and the text is prefixed with
// the covered time range.
func (d *Document) Preview(t citation.Type, start, end float64) string {
	if d == nil || !(citation.Range{Start: start, End: end}).Valid() {
		return ""
	}
	if t == citation.TypeVideoTimestamp {
		return d.segmentPreview(start, end)
	}

	lo, hi := int(math.Ceil(start)), int(math.Floor(end))
	in := func(n int) bool { return lo <= n && n <= hi }

	var parts []string
	switch t {
	case citation.TypeSentenceRange:
		var sentences []string
		for _, p := range d.Paragraphs {
			for _, s := range p.Sentences {
				if in(s.Number) {
					sentences = append(sentences, s.Text)
				}
			}
		}
		return strings.Join(sentences, " ")
	case citation.TypeParagraph:
		for _, p := range d.Paragraphs {
			if in(p.Number) {
				parts = append(parts, p.Body())
			}
		}
		return strings.Join(parts, "\n\n")
	case citation.TypeList:
		for _, l := range d.Lists {
			if in(l.Number) {
				for _, it := range l.Items {
					parts = append(parts, it.Text)
				}
			}
		}
	case citation.TypeTable:
		for _, tb := range d.Tables {
			if in(tb.Number) {
				parts = append(parts, tb.Rows...)
			}
		}
	case citation.TypeSection, citation.TypeBlock:
		for _, g := range d.Groups {
			if g.Implicit || g.Type != t || !in(g.Number) {
				continue
			}
			if g.Heading != "" {
				parts = append(parts, g.Heading)
			}
			parts = append(parts, d.groupText(g)...)
		}
		if t == citation.TypeBlock {
			return strings.Join(parts, ". ")
		}
	}
	return strings.Join(parts, "\n")
}

func (d *Document) groupText(g Group) []string {
	var out []string
	for _, el := range g.Elements {
		switch el.Type {
		case citation.TypeParagraph:
			if p, ok := d.Paragraph(el.Number); ok {
				out = append(out, p.Body())
			}
		case citation.TypeList:
			if l, ok := d.List(el.Number); ok {
				for _, it := range l.Items {
					out = append(out, it.Text)
				}
			}
		case citation.TypeTable:
			if t, ok := d.Table(el.Number); ok {
				out = append(out, t.Rows...)
			}
		}
	}
	return out
}

func (d *Document) segmentPreview(start, end float64) string {
	var (
		parts    []string
		chapter  string
		from, to = math.Inf(1), math.Inf(-1)
	)
	for _, s := range d.Segments {
		if s.End < start || s.Start > end {
			continue
		}
		from, to = math.Min(from, s.Start), math.Max(to, s.End)
		if s.Chapter != "" && s.Chapter != chapter {
			chapter = s.Chapter
			parts = append(parts, "[Chapter: "+chapter+"]")
		}
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("[%s-%s] %s", FormatTimestamp(from), FormatTimestamp(to), strings.Join(parts, " "))
}

// FormatTimestamp renders seconds as MM:SS.ss, or HH:MM:SS.ss past an hour.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	secs := math.Mod(seconds, 60)
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%05.2f", minutes, secs)
}

// Position returns the document-order rank of unit at of type t: its index
// among all elements, or among segments for video_timestamp. Cards are
// sorted by the smallest position any of their citations reaches.
func (d *Document) Position(t citation.Type, at float64) (int, bool) {
	if d == nil {
		return 0, false
	}
	if t == citation.TypeVideoTimestamp {
		for i, s := range d.Segments {
			if s.End >= at {
				return i, true
			}
		}
		return 0, false
	}

	n := int(math.Ceil(at))
	pos := 0
	for _, g := range d.Groups {
		if !g.Implicit && g.Type == t && g.Number == n {
			return pos, true
		}
		pos++
		for _, el := range g.Elements {
			if el.Type == t && el.Number == n {
				return pos, true
			}
			if el.Type == citation.TypeParagraph && t == citation.TypeSentenceRange {
				if p, ok := d.Paragraph(el.Number); ok && len(p.Sentences) > 0 &&
					p.Sentences[0].Number <= n && n <= p.Sentences[len(p.Sentences)-1].Number {
					return pos, true
				}
			}
			pos++
		}
	}
	return 0, false
}
