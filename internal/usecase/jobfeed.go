package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/repository"
)

type JobFeedUsecase struct {
	repo   repository.JobPostRepository
	usage  repository.UsageCounter
	logger *slog.Logger
}

func NewJobFeedUsecase(repo repository.JobPostRepository, usage repository.UsageCounter, logger *slog.Logger) *JobFeedUsecase {
	return &JobFeedUsecase{
		repo:   repo,
		usage:  usage,
		logger: logger.With("component", "job_feed"),
	}
}

type FetchJobsInput struct {
	Tag    string
	Cursor string // opaque, from a previous NextCursor
	Limit  int    // already tier-enforced by the caller
	Quota  domain.Quota
}

type FetchJobsResult struct {
	Jobs       []*domain.JobPost
	NextCursor *string
}

// Fetch clamps the page size to what is left of the caller's quota, reads one
// cursor page, and accounts for the rows actually served. A zero-row page
// never touches the counter.
func (u *JobFeedUsecase) Fetch(ctx context.Context, input FetchJobsInput) (FetchJobsResult, error) {
	remaining := input.Quota.Ceiling - input.Quota.Usage
	limit := input.Limit
	if limit > remaining {
		limit = remaining
	}
	if limit <= 0 {
		// The gate passed this request, but a concurrent fetch drained the
		// quota in between.
		return FetchJobsResult{}, domain.ErrQuotaExceeded
	}

	var cursorID int64
	if input.Cursor != "" {
		id, err := decodeJobCursor(input.Cursor)
		if err != nil {
			return FetchJobsResult{}, domain.ErrInvalidCursor
		}
		cursorID = id
	}

	posts, err := u.repo.List(ctx, repository.ListJobPostsInput{
		Tag:      input.Tag,
		CursorID: cursorID,
		Limit:    limit,
	})
	if err != nil {
		return FetchJobsResult{}, fmt.Errorf("list job posts: %w", err)
	}

	result := FetchJobsResult{Jobs: posts}
	if len(posts) == 0 {
		return result, nil
	}

	next := encodeJobCursor(posts[len(posts)-1].ID)
	result.NextCursor = &next

	// The fetch already succeeded; a counter failure is logged, not surfaced.
	if err := u.usage.Add(ctx, input.Quota.Key, len(posts), domain.UsageWindow); err != nil {
		u.logger.ErrorContext(ctx, "increment usage", "key", input.Quota.Key, "error", err)
	}

	return result, nil
}

func (u *JobFeedUsecase) Tags(ctx context.Context) ([]string, error) {
	tags, err := u.repo.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func encodeJobCursor(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

func decodeJobCursor(s string) (int64, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, fmt.Errorf("decode cursor: %w", err)
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cursor: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("parse cursor: non-positive id %d", id)
	}
	return id, nil
}
