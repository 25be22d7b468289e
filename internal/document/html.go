package document

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/starford/flashcite/internal/citation"
)

var (
	sectionMarkerRe = regexp.MustCompile(`^\[Section (\d+)((?:\.\d+)*)\]\s*`)
	elementMarkerRe = regexp.MustCompile(`^\[(Paragraph|List|Table) (\d+)[^\]]*\]\s*`)
)

type htmlDoc struct {
	Title    string        `json:"title"`
	Sections []htmlSection `json:"sections"`
}

type htmlSection struct {
	Level      int           `json:"level"`
	Heading    string        `json:"heading"`
	Paragraphs []string      `json:"paragraphs"`
	Sections   []htmlSection `json:"sections"`
}

// walkHTML reads sections whose paragraphs are marker-prefixed strings:
// "[Paragraph n] text", "[List n]" and "[Table n]" followed by one line per
// item or row.
func walkHTML(data []byte, w *walker) error {
	var doc htmlDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	w.doc.Title = doc.Title
	for _, s := range doc.Sections {
		w.htmlSection(s, 1)
	}
	return nil
}

func (w *walker) htmlSection(s htmlSection, depth int) {
	number, level := 0, s.Level
	heading := strings.TrimSpace(s.Heading)
	if m := sectionMarkerRe.FindStringSubmatch(heading); m != nil {
		number, _ = strconv.Atoi(m[1])
		if level == 0 {
			level = 1 + strings.Count(m[2], ".")
		}
		heading = heading[len(m[0]):]
	}
	if level == 0 {
		level = depth
	}
	w.openGroup(citation.TypeSection, number, heading, level, false)

	var (
		pendingType   string
		pendingMarker int
		pending       []string
	)
	flush := func() {
		switch pendingType {
		case "List":
			w.addList(pendingMarker, "", pending)
		case "Table":
			w.addTable(pendingMarker, pending)
		}
		pendingType, pendingMarker, pending = "", 0, nil
	}

	for _, line := range s.Paragraphs {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := elementMarkerRe.FindStringSubmatch(line)
		if m == nil {
			if pendingType != "" {
				pending = append(pending, line)
				continue
			}
			w.addParagraph(0, line, splitSentences(line), nil)
			continue
		}

		flush()
		n, _ := strconv.Atoi(m[2])
		text := line[len(m[0]):]
		switch m[1] {
		case "Paragraph":
			w.addParagraph(n, text, splitSentences(text), nil)
		default:
			pendingType, pendingMarker = m[1], n
		}
	}
	flush()

	for _, sub := range s.Sections {
		w.htmlSection(sub, depth+1)
	}
}
