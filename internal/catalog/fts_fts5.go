//go:build sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"

	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS cards_fts USING fts5(
			source_path UNINDEXED,
			card_id UNINDEXED,
			citation_id UNINDEXED,
			citation_type UNINDEXED,
			card_front,
			card_back,
			preview_text,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsReplace(tx *sql.Tx, path string, citations []citation.Citation) error {
	ftsDelete(tx, path)
	for _, c := range citations {
		if c.CardFront == "" && c.CardBack == "" && c.PreviewText == "" {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO cards_fts (source_path, card_id, citation_id, citation_type, card_front, card_back, preview_text)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, path, c.CardID, c.ID, c.Type, c.CardFront, c.CardBack, c.PreviewText)
		if err != nil {
			return fmt.Errorf("catalog: upsert fts: %w", err)
		}
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM cards_fts WHERE source_path = ?`, path)
}

// SearchCards performs an FTS5 full-text search over card text. Each card
// appears once per source, best match first.
func (db *DB) SearchCards(query string, limit int) ([]models.CardHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT source_path, card_id, citation_id, citation_type, card_front, card_back,
		       snippet(cards_fts, 6, '<b>', '</b>', '...', 32)
		FROM cards_fts
		WHERE cards_fts MATCH ?
		ORDER BY rank
	`, query)
	if err != nil {
		return nil, fmt.Errorf("catalog: search cards: %w", err)
	}
	defer rows.Close()

	type cardKey struct {
		path string
		card int64
	}
	seen := make(map[cardKey]struct{})
	var out []models.CardHit
	for rows.Next() && len(out) < limit {
		var h models.CardHit
		if err := rows.Scan(&h.SourcePath, &h.CardID, &h.CitationID, &h.CitationType, &h.Front, &h.Back, &h.Preview); err != nil {
			return nil, err
		}
		k := cardKey{h.SourcePath, h.CardID}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	return out, rows.Err()
}
