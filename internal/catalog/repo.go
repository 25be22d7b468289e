package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/starford/flashcite/internal/apperr"
	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/models"
)

// UpsertSource inserts or replaces a source and all of its citation rows
// within a transaction. An existing source keeps its id.
func (db *DB) UpsertSource(src models.Source, citations []citation.Citation) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO sources (path, id, kind, title, checksum, citations_checksum, citation_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind               = excluded.kind,
			title              = excluded.title,
			checksum           = excluded.checksum,
			citations_checksum = excluded.citations_checksum,
			citation_count     = excluded.citation_count,
			updated_at         = excluded.updated_at
	`, src.Path, uuid.NewString(), src.Kind, src.Title, src.Checksum, src.CitationsChecksum, len(citations), src.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert source: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM citations WHERE source_path = ?`, src.Path); err != nil {
		return fmt.Errorf("catalog: clear citations: %w", err)
	}
	if len(citations) > 0 {
		stmt, err := tx.Prepare(`
			INSERT OR REPLACE INTO citations
				(source_path, citation_id, card_id, citation_type, citation_data, preview_text, card_front, card_back, card_index)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("catalog: prepare citation insert: %w", err)
		}
		defer stmt.Close()
		for _, c := range citations {
			data, err := json.Marshal(c.Data)
			if err != nil {
				return fmt.Errorf("catalog: encode citation %d: %w", c.ID, err)
			}
			if _, err := stmt.Exec(src.Path, c.ID, c.CardID, c.Type, string(data), c.PreviewText, c.CardFront, c.CardBack, c.CardIndex); err != nil {
				return fmt.Errorf("catalog: insert citation: %w", err)
			}
		}
	}

	// FTS replace (no-op when FTS5 tag is absent).
	if err := ftsReplace(tx, src.Path, citations); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSource removes a source, its citations and its FTS rows.
func (db *DB) DeleteSource(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM citations WHERE source_path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM sources WHERE path = ?`, path)

	return tx.Commit()
}

const sourceColumns = `id, path, kind, title, checksum, citations_checksum, citation_count, updated_at`

func scanSource(row interface{ Scan(...any) error }) (*models.Source, error) {
	var s models.Source
	if err := row.Scan(&s.ID, &s.Path, &s.Kind, &s.Title, &s.Checksum, &s.CitationsChecksum, &s.CitationCount, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSource returns the catalog record for path, or apperr.ErrNotFound.
func (db *DB) GetSource(path string) (*models.Source, error) {
	s, err := scanSource(db.conn.QueryRow(`SELECT `+sourceColumns+` FROM sources WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: source %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get source: %w", err)
	}
	return s, nil
}

// ListSources returns one page of sources ordered by path plus the total
// count. An empty kind matches every kind.
func (db *DB) ListSources(limit, offset int, kind string) ([]models.Source, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM sources WHERE ? = '' OR kind = ?`, kind, kind).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count sources: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT `+sourceColumns+`
		FROM sources
		WHERE ? = '' OR kind = ?
		ORDER BY path
		LIMIT ? OFFSET ?
	`, kind, kind, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list sources: %w", err)
	}
	defer rows.Close()

	out := []models.Source{}
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

// Citations returns the stored citations of a source in citation_id order.
func (db *DB) Citations(path string) ([]citation.Citation, error) {
	rows, err := db.conn.Query(`
		SELECT citation_id, card_id, citation_type, citation_data, preview_text, card_front, card_back, card_index
		FROM citations
		WHERE source_path = ?
		ORDER BY citation_id
	`, path)
	if err != nil {
		return nil, fmt.Errorf("catalog: citations: %w", err)
	}
	defer rows.Close()

	var out []citation.Citation
	for rows.Next() {
		var (
			c    citation.Citation
			data string
		)
		if err := rows.Scan(&c.ID, &c.CardID, &c.Type, &data, &c.PreviewText, &c.CardFront, &c.CardBack, &c.CardIndex); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &c.Data); err != nil {
			return nil, fmt.Errorf("catalog: decode citation %d: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllChecksums returns the stored fingerprints of every catalogued source.
func (db *DB) AllChecksums() (map[string]Checksums, error) {
	rows, err := db.conn.Query(`SELECT path, checksum, citations_checksum FROM sources`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Checksums)
	for rows.Next() {
		var (
			p  string
			cs Checksums
		)
		if err := rows.Scan(&p, &cs.Source, &cs.Citations); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
