package repository

import (
	"context"

	"github.com/jobboard/backend/internal/domain"
)

type ListJobPostsInput struct {
	Tag      string // empty = all tags
	CursorID int64  // 0 = first page; otherwise only rows with id > CursorID
	Limit    int
}

// UseCase depends on interface, not concrete implementation.
// This way we get: 1) can swap DB later without touching usecase 2) We can pass a mock implementation of interface in tests
type JobPostRepository interface {
	List(ctx context.Context, input ListJobPostsInput) ([]*domain.JobPost, error)
	Tags(ctx context.Context) ([]string, error)

	// BulkUpsert is used by the scrape worker only. Posts are keyed by link;
	// re-scraped links update in place. Returns the number of rows written.
	BulkUpsert(ctx context.Context, posts []*domain.JobPost) (int, error)
}
