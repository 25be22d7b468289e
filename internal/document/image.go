package document

import (
	"encoding/json"

	"github.com/starford/flashcite/internal/citation"
)

type imageDoc struct {
	Title  string       `json:"title"`
	Blocks []imageBlock `json:"blocks"`
}

type imageBlock struct {
	ID         int     `json:"id"`
	Confidence float64 `json:"confidence"`
	Paragraphs []struct {
		Sentences []string `json:"sentences"`
	} `json:"paragraphs"`
	Metadata struct {
		OriginalText string `json:"original_text"`
	} `json:"metadata"`
}

// walkImage numbers blocks by their OCR id. Paragraphs and sentences continue
// across blocks. A block without paragraphs becomes one paragraph split from
// its original text.
func walkImage(data []byte, w *walker) error {
	var doc imageDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	w.doc.Title = doc.Title
	for _, b := range doc.Blocks {
		g := w.openGroup(citation.TypeBlock, b.ID, "", 0, false)
		g.Confidence = b.Confidence
		if len(b.Paragraphs) == 0 {
			if sentences := splitSentences(b.Metadata.OriginalText); len(sentences) > 0 {
				w.addParagraph(0, "", sentences, nil)
			}
			continue
		}
		for _, p := range b.Paragraphs {
			w.addParagraph(0, "", p.Sentences, nil)
		}
	}
	return nil
}
