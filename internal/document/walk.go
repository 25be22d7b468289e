package document

import (
	"strings"

	"github.com/starford/flashcite/internal/citation"
)

// walker numbers units as adapters feed it the document top to bottom.
// Paragraph and sentence counters are global and never reset.
type walker struct {
	doc       *Document
	numbering Numbering

	paragraph int
	sentence  int
	item      int
	list      int
	table     int
	section   int
	segment   int

	sectionList  int
	sectionTable int

	// usedParagraphs holds every number the paragraph counter handed out or a
	// marker claimed.
	usedParagraphs map[int]bool

	cur *Group
}

func newWalker(kind Kind, numbering Numbering) *walker {
	return &walker{
		doc:            &Document{Kind: kind, Numbering: numbering},
		numbering:      numbering,
		usedParagraphs: make(map[int]bool),
	}
}

func emptySpan() citation.Span {
	return citation.Span{First: 1, Last: 0}
}

// openGroup starts a section or block. A non-positive number takes the next
// value of the section counter.
func (w *walker) openGroup(t citation.Type, number int, heading string, level int, implicit bool) *Group {
	if number <= 0 {
		w.section++
		number = w.section
	} else if number > w.section {
		w.section = number
	}
	w.doc.Groups = append(w.doc.Groups, Group{
		Type:       t,
		Number:     number,
		Heading:    heading,
		Level:      level,
		Implicit:   implicit,
		Paragraphs: emptySpan(),
		Sentences:  emptySpan(),
	})
	w.cur = &w.doc.Groups[len(w.doc.Groups)-1]
	w.sectionList, w.sectionTable = 0, 0
	return w.cur
}

func (w *walker) group() *Group {
	if w.cur == nil {
		w.openGroup(citation.TypeSection, 0, "", 0, true)
	}
	return w.cur
}

// addParagraph appends a paragraph. marker, when positive, is the number the
// source assigned; numbers, when aligned with sentences, are explicit
// sentence numbers.
func (w *walker) addParagraph(marker int, text string, sentences []string, numbers []int) {
	g := w.group()
	if marker > 0 && !w.usedParagraphs[marker] {
		w.usedParagraphs[marker] = true
		if marker > w.paragraph {
			w.paragraph = marker
		}
	} else {
		marker = w.nextParagraph()
	}

	p := Paragraph{Number: marker, Text: strings.TrimSpace(text)}
	explicit := len(numbers) == len(sentences)
	for i, s := range sentences {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n := 0
		if explicit && numbers[i] > 0 {
			n = numbers[i]
			if n > w.sentence {
				w.sentence = n
			}
		} else {
			w.sentence++
			n = w.sentence
		}
		p.Sentences = append(p.Sentences, Sentence{Number: n, Text: s})
	}

	w.doc.Paragraphs = append(w.doc.Paragraphs, p)
	g.Elements = append(g.Elements, Element{Type: citation.TypeParagraph, Number: p.Number})
	g.Paragraphs = extend(g.Paragraphs, p.Number)
	for _, s := range p.Sentences {
		g.Sentences = extend(g.Sentences, s.Number)
	}
}

// nextParagraph advances the paragraph counter past numbers markers already
// claimed.
func (w *walker) nextParagraph() int {
	w.paragraph++
	for w.usedParagraphs[w.paragraph] {
		w.paragraph++
	}
	w.usedParagraphs[w.paragraph] = true
	return w.paragraph
}

func extend(s citation.Span, n int) citation.Span {
	if s.Empty() {
		return citation.Span{First: n, Last: n}
	}
	if n < s.First {
		s.First = n
	}
	if n > s.Last {
		s.Last = n
	}
	return s
}

// number assigns a list or table number under the declared numbering.
func (w *walker) number(marker int, global, local *int) int {
	switch w.numbering {
	case NumberingParagraph:
		return w.nextParagraph()
	case NumberingSection:
		*local++
		return *local
	default:
		if marker > 0 {
			if marker > *global {
				*global = marker
			}
			return marker
		}
		*global++
		return *global
	}
}

func (w *walker) addList(marker int, kind string, items []string) {
	g := w.group()
	l := List{Number: w.number(marker, &w.list, &w.sectionList), Marker: kind}
	for _, text := range items {
		w.item++
		l.Items = append(l.Items, Item{Number: w.item, Text: strings.TrimSpace(text)})
	}
	w.doc.Lists = append(w.doc.Lists, l)
	g.Elements = append(g.Elements, Element{Type: citation.TypeList, Number: l.Number})
}

func (w *walker) addTable(marker int, rows []string) {
	g := w.group()
	t := Table{Number: w.number(marker, &w.table, &w.sectionTable), Rows: rows}
	w.doc.Tables = append(w.doc.Tables, t)
	g.Elements = append(g.Elements, Element{Type: citation.TypeTable, Number: t.Number})
}

func (w *walker) addSegment(start, end float64, text, chapter string) {
	w.segment++
	w.doc.Segments = append(w.doc.Segments, Segment{
		Number:  w.segment,
		Start:   start,
		End:     end,
		Text:    strings.TrimSpace(text),
		Chapter: chapter,
	})
}

func (w *walker) finish() *Document {
	d := w.doc
	d.paragraphAt = make(map[int]int, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		if _, dup := d.paragraphAt[p.Number]; !dup {
			d.paragraphAt[p.Number] = i
		}
	}
	d.listAt = make(map[int]int, len(d.Lists))
	for i, l := range d.Lists {
		if _, dup := d.listAt[l.Number]; !dup {
			d.listAt[l.Number] = i
		}
	}
	d.tableAt = make(map[int]int, len(d.Tables))
	for i, t := range d.Tables {
		if _, dup := d.tableAt[t.Number]; !dup {
			d.tableAt[t.Number] = i
		}
	}
	return d
}
