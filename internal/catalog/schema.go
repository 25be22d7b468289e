// Package catalog provides the SQLite-backed catalog of library sources and
// their citation rows, with optional FTS5 search over card text.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
	path               TEXT PRIMARY KEY,
	id                 TEXT NOT NULL UNIQUE,
	kind               TEXT NOT NULL DEFAULT '',
	title              TEXT NOT NULL DEFAULT '',
	checksum           TEXT NOT NULL DEFAULT '',
	citations_checksum TEXT NOT NULL DEFAULT '',
	citation_count     INTEGER NOT NULL DEFAULT 0,
	updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS citations (
	source_path   TEXT NOT NULL REFERENCES sources(path) ON DELETE CASCADE,
	citation_id   INTEGER NOT NULL,
	card_id       INTEGER NOT NULL,
	citation_type TEXT NOT NULL,
	citation_data TEXT NOT NULL DEFAULT '[]',
	preview_text  TEXT NOT NULL DEFAULT '',
	card_front    TEXT NOT NULL DEFAULT '',
	card_back     TEXT NOT NULL DEFAULT '',
	card_index    INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (source_path, citation_id)
);

CREATE INDEX IF NOT EXISTS idx_sources_kind ON sources(kind);
CREATE INDEX IF NOT EXISTS idx_citations_card ON citations(card_id);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
