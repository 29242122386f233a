package domain

import (
	"errors"
	"time"
)

var (
	ErrJobPostNotFound = errors.New("job post not found")
	ErrInvalidCursor   = errors.New("invalid cursor")
)

// JobPost is a scraped posting. IDs are assigned by a bigserial column, so
// ordering by ID is append-only and safe for cursor pagination.
type JobPost struct {
	ID        int64
	Title     string
	Snippet   string
	Link      string
	Tag       string
	CreatedAt time.Time
}
