//go:build !sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"

	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; card search uses LIKE over the citations table.
	return nil
}

func ftsReplace(_ *sql.Tx, _ string, _ []citation.Citation) error {
	// Card text is already stored in the citations table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// SearchCards performs a LIKE-based search over card text (fallback when
// FTS5 is not compiled in). Each card appears once per source.
func (db *DB) SearchCards(query string, limit int) ([]models.CardHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT source_path, card_id, MIN(citation_id), citation_type, card_front, card_back, preview_text
		FROM citations
		WHERE card_front LIKE ? OR card_back LIKE ? OR preview_text LIKE ?
		GROUP BY source_path, card_id
		ORDER BY source_path, MIN(citation_id)
		LIMIT ?
	`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search cards: %w", err)
	}
	defer rows.Close()

	var out []models.CardHit
	for rows.Next() {
		var h models.CardHit
		if err := rows.Scan(&h.SourcePath, &h.CardID, &h.CitationID, &h.CitationType, &h.Front, &h.Back, &h.Preview); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
