package api

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/flashcite/internal/citation"
	"github.com/starford/flashcite/internal/highlight"
	"github.com/starford/flashcite/internal/models"
)

// ReplaceCitationsRequest is the decoded body of PUT /citations/*. The wire
// form is either a bare citation array or {"citations": [...]}.
type ReplaceCitationsRequest struct {
	Citations []citation.Citation `json:"citations"`
}

// Validate checks every citation against the closed type set and range rules.
func (r ReplaceCitationsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Citations, validation.Each(validation.By(validCitation))),
	)
}

func validCitation(value any) error {
	c, ok := value.(citation.Citation)
	if !ok {
		return errors.New("must be a citation")
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Min(int64(0))),
		validation.Field(&c.Type, validation.Required, validation.By(knownType)),
		validation.Field(&c.Data, validation.Required, validation.Each(validation.By(validRange))),
		validation.Field(&c.CardID, validation.Min(int64(0))),
	)
}

func knownType(value any) error {
	s, _ := value.(string)
	if _, ok := citation.ParseType(s); !ok {
		return errors.New("unknown citation type")
	}
	return nil
}

func validRange(value any) error {
	r, ok := value.(citation.Range)
	if !ok || !r.Valid() {
		return errors.New("must be a finite [start, end] pair with start <= end")
	}
	return nil
}

// MoveSourceRequest is the body of POST /sources/move.
type MoveSourceRequest struct {
	From string `json:"from" example:"bio/cells.json"`
	To   string `json:"to" example:"biology/cells.json"`
}

// Validate checks that both paths are present and distinct.
func (r MoveSourceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.From, validation.Required),
		validation.Field(&r.To, validation.Required, validation.NotIn(r.From).Error("must differ from 'from'")),
	)
}

// SourceListResponse wraps paginated source listings.
type SourceListResponse struct {
	Sources []models.Source `json:"sources" validate:"required"`
	Total   int             `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps card search results.
type SearchResponse struct {
	Results []models.CardHit `json:"results" validate:"required"`
}

// Snapshot is the highlight render response (aliased from the domain layer).
type Snapshot = highlight.Snapshot

// UnitResult is the single-unit lookup response (aliased from the domain layer).
type UnitResult = highlight.UnitResult

// SegmentResult is the segment lookup response (aliased from the domain layer).
type SegmentResult = highlight.SegmentResult
