// Package models defines the domain types for flashcite.
package models

import "time"

// Source is a catalogued source document in the library.
type Source struct {
	ID                string    `json:"id"`
	Path              string    `json:"path"`
	Kind              string    `json:"kind"`
	Title             string    `json:"title,omitempty"`
	Checksum          string    `json:"checksum"`
	CitationsChecksum string    `json:"citations_checksum,omitempty"`
	CitationCount     int       `json:"citation_count"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SourceMetadata is a lightweight representation returned by list operations.
// CitationsChecksum is empty when the source has no citation sidecar.
type SourceMetadata struct {
	Path              string    `json:"path"`
	Checksum          string    `json:"checksum"`
	CitationsChecksum string    `json:"citations_checksum,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CardHit is one card matched by a catalog search.
type CardHit struct {
	SourcePath   string `json:"source_path"`
	CardID       int64  `json:"card_id"`
	CitationID   int64  `json:"citation_id"`
	CitationType string `json:"citation_type"`
	Front        string `json:"card_front,omitempty"`
	Back         string `json:"card_back,omitempty"`
	Preview      string `json:"preview_text,omitempty"`
}
