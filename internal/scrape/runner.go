package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/jobboard/backend/internal/metrics"
	"github.com/jobboard/backend/internal/repository"
)

// freshness window passed to the SERP API: results from the past month.
const defaultTBS = "qdr:m1"

type searcher interface {
	Search(ctx context.Context, query, tbs string) ([]OrganicResult, error)
}

// Runner executes one scrape pass over the tracked job titles, writing
// everything found into the job-post store. One failed title does not stop
// the rest of the run.
type Runner struct {
	serp   searcher
	repo   repository.JobPostRepository
	titles []string
	logger *slog.Logger
}

func NewRunner(serp searcher, repo repository.JobPostRepository, titles []string, logger *slog.Logger) *Runner {
	return &Runner{
		serp:   serp,
		repo:   repo,
		titles: titles,
		logger: logger.With("component", "scrape_runner"),
	}
}

func (r *Runner) Run(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.ScrapeRunDuration.Observe(time.Since(start).Seconds())
	}()

	r.logger.Info("scrape run started", "titles", len(r.titles))

	total := 0
	for _, title := range r.titles {
		results, err := r.serp.Search(ctx, BuildQuery(title), defaultTBS)
		if err != nil {
			metrics.ScrapeErrorsTotal.WithLabelValues("search").Inc()
			r.logger.Error("serp search", "title", title, "error", err)
			continue
		}

		posts := ToJobPosts(results, title)
		if len(posts) == 0 {
			r.logger.Info("no results", "title", title)
			continue
		}

		written, err := r.repo.BulkUpsert(ctx, posts)
		if err != nil {
			metrics.ScrapeErrorsTotal.WithLabelValues("upsert").Inc()
			r.logger.Error("bulk upsert", "title", title, "error", err)
			continue
		}

		metrics.ScrapePostsUpsertedTotal.Add(float64(written))
		total += written
		r.logger.Info("title scraped", "title", title, "results", len(results), "written", written)
	}

	r.logger.Info("scrape run finished", "written", total, "duration", time.Since(start))
}
