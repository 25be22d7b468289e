package document

import (
	"encoding/json"

	"github.com/starford/flashcite/internal/citation"
)

type textDoc struct {
	Title      string          `json:"title"`
	Paragraphs []textParagraph `json:"paragraphs"`
}

type textParagraph struct {
	Number          int      `json:"number"`
	Sentences       []string `json:"sentences"`
	SentenceNumbers []int    `json:"sentence_numbers"`
}

// walkText keeps the paragraph and sentence numbers the text processor wrote.
func walkText(data []byte, w *walker) error {
	var doc textDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	w.doc.Title = doc.Title
	w.openGroup(citation.TypeSection, 0, doc.Title, 0, true)
	for _, p := range doc.Paragraphs {
		w.addParagraph(p.Number, "", p.Sentences, p.SentenceNumbers)
	}
	return nil
}
