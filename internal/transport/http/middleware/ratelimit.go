package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/metrics"
	"github.com/jobboard/backend/internal/repository"
)

const quotaKey = "quota"

// RateLimit reads the caller's current usage and rejects the request once the
// tier ceiling is reached. On pass it attaches the quota snapshot for the
// paginator. The read here and the increment after the fetch are not atomic;
// concurrent requests may briefly overshoot the ceiling.
func RateLimit(counter repository.UsageCounter, limits domain.Limits, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		key := id.UsageKey()
		ceiling := limits.Ceiling(id.Tier)

		usage, err := counter.Peek(c.Request.Context(), key)
		if err != nil {
			logger.ErrorContext(c.Request.Context(), "peek usage", "key", key, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if usage >= ceiling {
			metrics.QuotaRejectionsTotal.WithLabelValues(string(id.Tier)).Inc()
			logger.InfoContext(c.Request.Context(), "quota exceeded", "key", key, "usage", usage, "ceiling", ceiling)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": fmt.Sprintf(
					"Rate limit exceeded. You have already fetched %d/%d jobs today. Please try again tomorrow.",
					usage, ceiling,
				),
			})
			return
		}

		c.Set(quotaKey, domain.Quota{Key: key, Usage: usage, Ceiling: ceiling})
		c.Next()
	}
}

// QuotaFrom returns the snapshot attached by RateLimit. The second return is
// false if the gate did not run.
func QuotaFrom(c *gin.Context) (domain.Quota, bool) {
	v, ok := c.Get(quotaKey)
	if !ok {
		return domain.Quota{}, false
	}
	q, ok := v.(domain.Quota)
	return q, ok
}
