package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/repository"
)

type JobPostRepository struct {
	pool *pgxpool.Pool
}

func NewJobPostRepository(pool *pgxpool.Pool) *JobPostRepository {
	return &JobPostRepository{pool: pool}
}

func (r *JobPostRepository) List(ctx context.Context, input repository.ListJobPostsInput) ([]*domain.JobPost, error) {
	args := []any{}
	where := []string{}

	if input.Tag != "" {
		args = append(args, input.Tag)
		where = append(where, fmt.Sprintf("tag = $%d", len(args)))
	}
	if input.CursorID > 0 {
		args = append(args, input.CursorID)
		where = append(where, fmt.Sprintf("id > $%d", len(args)))
	}
	args = append(args, input.Limit)

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, title, snippet, link, tag, created_at
		FROM job_posts
		%s
		ORDER BY id ASC
		LIMIT $%d`,
		whereClause, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list job posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.JobPost
	for rows.Next() {
		p, err := scanJobPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *JobPostRepository) Tags(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT tag FROM job_posts ORDER BY tag ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// BulkUpsert writes scraped posts keyed by link inside one transaction.
// Re-scraped links refresh title/snippet/tag but keep their id, so cursor
// ordering stays append-only.
func (r *JobPostRepository) BulkUpsert(ctx context.Context, posts []*domain.JobPost) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range posts {
		batch.Queue(`
			INSERT INTO job_posts (title, snippet, link, tag)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (link) DO UPDATE
			SET title = EXCLUDED.title,
			    snippet = EXCLUDED.snippet,
			    tag = EXCLUDED.tag`,
			p.Title, p.Snippet, p.Link, p.Tag,
		)
	}

	br := tx.SendBatch(ctx, batch)
	written := 0
	for range posts {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return written, fmt.Errorf("upsert job post: %w", err)
		}
		written += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return written, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return written, fmt.Errorf("commit upsert: %w", err)
	}
	return written, nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobPost(row rowScanner) (*domain.JobPost, error) {
	var p domain.JobPost
	err := row.Scan(&p.ID, &p.Title, &p.Snippet, &p.Link, &p.Tag, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobPostNotFound
		}
		return nil, fmt.Errorf("scan job post: %w", err)
	}
	return &p, nil
}
