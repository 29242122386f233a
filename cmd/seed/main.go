// seed inserts 20 job posts into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/infrastructure/postgres"
	"github.com/joho/godotenv"
)

type seedPost struct {
	title   string
	snippet string
	link    string
	tag     string
}

var posts = []seedPost{
	{"Senior Backend Engineer", "Build and scale our core APIs.", "https://careers.acme.com/jobs/backend-1", "backend engineer"},
	{"Backend Engineer (Go)", "Services, queues, and Postgres.", "https://careers.acme.com/jobs/backend-2", "backend engineer"},
	{"Staff Backend Engineer", "Own the platform roadmap.", "https://boards.initech.com/careers/backend-3", "backend engineer"},
	{"Backend Engineer, Payments", "Money movement at scale.", "https://jobs.globex.com/careers/backend-4", "backend engineer"},
	{"Junior Backend Engineer", "Learn from a senior team.", "https://careers.umbrella.com/jobs/backend-5", "backend engineer"},
	{"Frontend Engineer", "React and design systems.", "https://careers.acme.com/jobs/frontend-1", "frontend engineer"},
	{"Senior Frontend Engineer", "Lead our web platform.", "https://boards.initech.com/careers/frontend-2", "frontend engineer"},
	{"Frontend Engineer, Growth", "Experiments and funnels.", "https://jobs.globex.com/careers/frontend-3", "frontend engineer"},
	{"Fullstack Engineer", "TypeScript end to end.", "https://careers.umbrella.com/jobs/fullstack-1", "fullstack engineer"},
	{"Senior Fullstack Engineer", "Product engineering role.", "https://careers.acme.com/jobs/fullstack-2", "fullstack engineer"},
	{"Data Engineer", "Pipelines and warehouses.", "https://boards.initech.com/careers/data-1", "data engineer"},
	{"Senior Data Engineer", "Own our lakehouse.", "https://jobs.globex.com/careers/data-2", "data engineer"},
	{"Data Engineer, Analytics", "dbt and Airflow.", "https://careers.umbrella.com/jobs/data-3", "data engineer"},
	{"DevOps Engineer", "Kubernetes and Terraform.", "https://careers.acme.com/jobs/devops-1", "devops engineer"},
	{"Senior DevOps Engineer", "Platform reliability.", "https://boards.initech.com/careers/devops-2", "devops engineer"},
	{"Site Reliability Engineer", "SLOs and incident response.", "https://jobs.globex.com/careers/sre-1", "devops engineer"},
	{"Machine Learning Engineer", "Ship models to production.", "https://careers.umbrella.com/jobs/ml-1", "ml engineer"},
	{"Senior ML Engineer", "Recommendation systems.", "https://careers.acme.com/jobs/ml-2", "ml engineer"},
	{"ML Engineer, NLP", "Search and extraction.", "https://boards.initech.com/careers/ml-3", "ml engineer"},
	{"Research Engineer", "Prototype to production.", "https://jobs.globex.com/careers/ml-4", "ml engineer"},
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewJobPostRepository(pool)

	batch := make([]*domain.JobPost, 0, len(posts))
	for _, p := range posts {
		batch = append(batch, &domain.JobPost{
			Title:   p.title,
			Snippet: p.snippet,
			Link:    p.link,
			Tag:     p.tag,
		})
	}

	written, err := repo.BulkUpsert(ctx, batch)
	if err != nil {
		log.Fatalf("seed job posts: %v", err)
	}

	fmt.Printf("seeded %d job posts\n", written)
}
