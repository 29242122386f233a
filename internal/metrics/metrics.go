package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Feed metrics

	JobsServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "jobs_served_total",
		Help:      "Total job posts served, by tier.",
	}, []string{"tier"})

	QuotaRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "quota_rejections_total",
		Help:      "Requests rejected at the rate-limit gate, by tier.",
	}, []string{"tier"})

	// Magic-link metrics

	MagicLinksIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "magic_links_issued_total",
		Help:      "Magic-link tokens issued.",
	})

	MagicLinkVerificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "magic_link_verifications_total",
		Help:      "Magic-link verification attempts, by outcome.",
	}, []string{"outcome"})

	// Scraper metrics

	ScrapeRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "jobboard",
		Name:      "scrape_run_duration_seconds",
		Help:      "Time taken for one full scrape run.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	ScrapePostsUpsertedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "scrape_posts_upserted_total",
		Help:      "Job posts written by the scrape worker.",
	})

	ScrapeErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "scrape_errors_total",
		Help:      "Scrape failures, by stage.",
	}, []string{"stage"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jobboard",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jobboard",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		JobsServedTotal,
		QuotaRejectionsTotal,
		MagicLinksIssuedTotal,
		MagicLinkVerificationsTotal,
		ScrapeRunDuration,
		ScrapePostsUpsertedTotal,
		ScrapeErrorsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}
