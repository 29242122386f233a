package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/metrics"
	"github.com/jobboard/backend/internal/transport/http/middleware"
	"github.com/jobboard/backend/internal/usecase"
)

type jobFeedUsecaser interface {
	Fetch(ctx context.Context, input usecase.FetchJobsInput) (usecase.FetchJobsResult, error)
	Tags(ctx context.Context) ([]string, error)
}

type JobHandler struct {
	feed   jobFeedUsecaser
	logger *slog.Logger
}

func NewJobHandler(feed jobFeedUsecaser, logger *slog.Logger) *JobHandler {
	return &JobHandler{feed: feed, logger: logger.With("component", "job_handler")}
}

type fetchJobsQuery struct {
	Tag    string `form:"tag"`
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

type jobResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Link      string    `json:"link"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

type fetchJobsResponse struct {
	Jobs []jobResponse `json:"jobs"`
	Next *string       `json:"next,omitempty"`
}

// GET /jobs
// Page size is tier-enforced: anonymous and FREE callers get their tier's
// fixed size, PAID callers choose up to MaxPageSize. Only PAID callers get
// the pagination cursor back.
func (h *JobHandler) List(c *gin.Context) {
	var q fetchJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := middleware.IdentityFrom(c)
	quota, ok := middleware.QuotaFrom(c)
	if !ok {
		h.logger.ErrorContext(c.Request.Context(), "quota missing from context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	var limit int
	canReturnCursor := false
	switch id.Tier {
	case domain.TierPaid:
		limit = q.Limit
		if limit == 0 {
			limit = domain.MaxPageSize
		}
		if limit > domain.MaxPageSize {
			limit = domain.MaxPageSize
		}
		canReturnCursor = true
	case domain.TierFree:
		limit = quota.Ceiling
	default:
		limit = quota.Ceiling
	}

	res, err := h.feed.Fetch(c.Request.Context(), usecase.FetchJobsInput{
		Tag:    q.Tag,
		Cursor: q.Cursor,
		Limit:  limit,
		Quota:  quota,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			c.JSON(http.StatusForbidden, gin.H{"error": "Rate limit exceeded. Please try again tomorrow."})
		case errors.Is(err, domain.ErrInvalidCursor):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		default:
			h.logger.ErrorContext(c.Request.Context(), "fetch jobs", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.JobsServedTotal.WithLabelValues(string(id.Tier)).Add(float64(len(res.Jobs)))

	resp := fetchJobsResponse{Jobs: make([]jobResponse, 0, len(res.Jobs))}
	for _, p := range res.Jobs {
		resp.Jobs = append(resp.Jobs, jobResponse{
			ID:        p.ID,
			Title:     p.Title,
			Snippet:   p.Snippet,
			Link:      p.Link,
			Tag:       p.Tag,
			CreatedAt: p.CreatedAt,
		})
	}
	if canReturnCursor {
		resp.Next = res.NextCursor
	}

	c.JSON(http.StatusOK, resp)
}

// GET /jobs/tags
func (h *JobHandler) Tags(c *gin.Context) {
	tags, err := h.feed.Tags(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "fetch tags", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	if tags == nil {
		tags = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
