package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/email"
	"github.com/jobboard/backend/internal/requestid"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// tokenStore is the subset of authtoken.Store the usecase needs.
type tokenStore interface {
	Put(token, emailAddr string)
	TakeIfValid(token string) (string, error)
}

// mailQueue is satisfied by *email.Dispatcher.
type mailQueue interface {
	Enqueue(t email.Task) bool
}

type AdminAuthUsecase struct {
	tokens        tokenStore
	mail          mailQueue
	adminEmail    string
	jwtKey        []byte
	sessionTTL    time.Duration
	magicLinkBase string
	logger        *slog.Logger
}

func NewAdminAuthUsecase(tokens tokenStore, mail mailQueue, adminEmail string, jwtKey []byte, magicLinkBase string, logger *slog.Logger) *AdminAuthUsecase {
	return &AdminAuthUsecase{
		tokens:        tokens,
		mail:          mail,
		adminEmail:    adminEmail,
		jwtKey:        jwtKey,
		sessionTTL:    defaultSessionTTL,
		magicLinkBase: magicLinkBase,
		logger:        logger.With("component", "admin_auth"),
	}
}

// RequestMagicLink gates the email against the configured admin address,
// stores a fresh token, and queues the delivery email. The token is persisted
// before the mail task is enqueued, so a delivery failure never strands a
// verifiable token.
func (u *AdminAuthUsecase) RequestMagicLink(ctx context.Context, emailAddr string) error {
	if emailAddr != u.adminEmail {
		u.logger.InfoContext(ctx, "admin login attempt rejected", "email", emailAddr)
		return domain.ErrUnauthorizedEmail
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	u.tokens.Put(token, emailAddr)
	u.logger.InfoContext(ctx, "magic token issued", "email", emailAddr)

	link := u.magicLinkBase + "/admin/auth/verify?token=" + token
	body := fmt.Sprintf(
		`<h2>Verify Authentication</h2>
<p>Click the link below to login to your admin dashboard (expires in 15 minutes):</p>
<p><a href="%s">Login to Admin Dashboard</a></p>
<p>If you didn't request this, please ignore this email.</p>`,
		link,
	)

	if ok := u.mail.Enqueue(email.Task{
		To:        emailAddr,
		Subject:   "Verify Authentication",
		Body:      body,
		RequestID: requestIDFrom(ctx),
	}); !ok {
		// Best effort: the token is already live, the caller is not told.
		u.logger.WarnContext(ctx, "mail queue full, magic link email dropped", "email", emailAddr)
	}

	return nil
}

// VerifyMagicLink claims the token and exchanges it for a signed admin
// session credential. Invalid and expired tokens get distinct log lines but
// the same outward classification.
func (u *AdminAuthUsecase) VerifyMagicLink(ctx context.Context, token string) (string, error) {
	emailAddr, err := u.tokens.TakeIfValid(token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			u.logger.InfoContext(ctx, "magic token expired")
		default:
			u.logger.InfoContext(ctx, "magic token invalid")
		}
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"email": emailAddr,
		"role":  "admin",
		"iat":   now.Unix(),
		"exp":   now.Add(u.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}

	u.logger.InfoContext(ctx, "admin session issued", "email", emailAddr)
	return signed, nil
}

// requestIDFrom pulls the correlation id for handoffs that outlive the
// request context. "N/A" is the sentinel for callers without one.
func requestIDFrom(ctx context.Context) string {
	if id := requestid.FromContext(ctx); id != "" {
		return id
	}
	return "N/A"
}
