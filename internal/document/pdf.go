package document

import (
	"encoding/json"
	"strings"

	"github.com/starford/flashcite/internal/citation"
)

type pdfDoc struct {
	Title    string       `json:"title"`
	Sections []pdfSection `json:"sections"`
}

type pdfSection struct {
	Header  string       `json:"header"`
	Content []pdfContent `json:"content"`
}

// pdfContent is a paragraph ({sentences}), a list ({items}) or a lone list
// item ({text}).
type pdfContent struct {
	Sentences         []string  `json:"sentences"`
	Items             []pdfItem `json:"items"`
	Text              *string   `json:"text"`
	ContinuationTexts []string  `json:"continuation_texts"`
	MarkerType        string    `json:"marker_type"`
}

type pdfItem struct {
	Text              string   `json:"text"`
	ContinuationTexts []string `json:"continuation_texts"`
}

func (it pdfItem) joined() string {
	if len(it.ContinuationTexts) == 0 {
		return it.Text
	}
	return it.Text + " " + strings.Join(it.ContinuationTexts, " ")
}

// walkPDF numbers sections from 1 in order.
func walkPDF(data []byte, w *walker) error {
	var doc pdfDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	w.doc.Title = doc.Title
	for i, s := range doc.Sections {
		w.openGroup(citation.TypeSection, i+1, strings.TrimSpace(s.Header), 1, false)
		for _, c := range s.Content {
			switch {
			case c.Sentences != nil:
				w.addParagraph(0, "", c.Sentences, nil)
			case c.Items != nil:
				items := make([]string, len(c.Items))
				for j, it := range c.Items {
					items[j] = it.joined()
				}
				w.addList(0, c.MarkerType, items)
			case c.Text != nil:
				w.addList(0, c.MarkerType, []string{pdfItem{Text: *c.Text, ContinuationTexts: c.ContinuationTexts}.joined()})
			}
		}
	}
	return nil
}
