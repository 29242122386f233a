package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/repository"
	"github.com/jobboard/backend/internal/transport/http/handler"
	"github.com/jobboard/backend/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	jobHandler *handler.JobHandler,
	counter repository.UsageCounter,
	limits domain.Limits,
	jwtKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	// Admin magic-link auth
	adminAuth := r.Group("/admin/auth")
	adminAuth.POST("", authHandler.RequestMagicLink)
	adminAuth.GET("/verify", authHandler.Verify)

	// Public job feed, rate-limited per identity
	jobs := r.Group("/jobs")
	jobs.GET("/tags", jobHandler.Tags)
	jobs.GET("",
		middleware.OptionalAuth(jwtKey),
		middleware.RateLimit(counter, limits, logger),
		jobHandler.List,
	)

	return r
}
