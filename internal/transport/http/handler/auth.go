package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/metrics"
)

// adminAuthUsecaser is the subset of AdminAuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type adminAuthUsecaser interface {
	RequestMagicLink(ctx context.Context, email string) error
	VerifyMagicLink(ctx context.Context, token string) (string, error)
}

type AuthHandler struct {
	authUsecase adminAuthUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase adminAuthUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type magicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// POST /admin/auth
// Issues a magic link for the configured admin email. The acknowledgment is
// generic and never carries the token. A non-admin email gets a 401; there is
// nothing to hide about which address is the admin's.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req magicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.authUsecase.RequestMagicLink(c.Request.Context(), email); err != nil {
		if errors.Is(err, domain.ErrUnauthorizedEmail) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorizedEmail})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "request magic link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.MagicLinksIssuedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Authentication link has been sent to your email address"})
}

// GET /admin/auth/verify?token=<raw>
// Exchanges a magic token for a signed admin session credential. Invalid and
// expired tokens both map to 401 with distinct reason strings.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		return
	}

	accessToken, err := h.authUsecase.VerifyMagicLink(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.MagicLinkVerificationsTotal.WithLabelValues("expired").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenExpired})
		case errors.Is(err, domain.ErrTokenInvalid):
			metrics.MagicLinkVerificationsTotal.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errTokenInvalid})
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify magic link", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.MagicLinkVerificationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, gin.H{
		"message":      "Authentication Successful",
		"access_token": accessToken,
	})
}
