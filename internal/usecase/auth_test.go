package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobboard/backend/internal/authtoken"
	"github.com/jobboard/backend/internal/domain"
	"github.com/jobboard/backend/internal/email"
	"github.com/jobboard/backend/internal/usecase"
)

// ---- fakes ----

type fakeMailQueue struct {
	tasks []email.Task
	full  bool
}

func (q *fakeMailQueue) Enqueue(t email.Task) bool {
	if q.full {
		return false
	}
	q.tasks = append(q.tasks, t)
	return true
}

// ---- helpers ----

const (
	testAdminEmail    = "admin@example.com"
	testJWTKey        = "test-jwt-secret-at-least-32-chars!!"
	testMagicLinkBase = "http://localhost:8080"
)

func newAuthUsecase(tokens *authtoken.Store, mail *fakeMailQueue) *usecase.AdminAuthUsecase {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return usecase.NewAdminAuthUsecase(tokens, mail, testAdminEmail, []byte(testJWTKey), testMagicLinkBase, logger)
}

// tokenFromTask extracts the raw token from the link embedded in the email body.
func tokenFromTask(t *testing.T, task email.Task) string {
	t.Helper()
	idx := strings.Index(task.Body, "?token=")
	if idx == -1 {
		t.Fatal("email body does not contain ?token=")
	}
	return strings.SplitN(task.Body[idx+len("?token="):], `"`, 2)[0]
}

// ---- RequestMagicLink ----

func TestRequestMagicLink_WrongEmail_NoTokenNoMail(t *testing.T) {
	tokens := authtoken.NewStore()
	mail := &fakeMailQueue{}

	err := newAuthUsecase(tokens, mail).RequestMagicLink(context.Background(), "eve@example.com")
	if !errors.Is(err, domain.ErrUnauthorizedEmail) {
		t.Fatalf("want ErrUnauthorizedEmail, got %v", err)
	}
	if tokens.Len() != 0 {
		t.Errorf("token store has %d entries, want 0", tokens.Len())
	}
	if len(mail.tasks) != 0 {
		t.Errorf("mail queue has %d tasks, want 0", len(mail.tasks))
	}
}

func TestRequestMagicLink_AdminEmail_StoresEmailedToken(t *testing.T) {
	tokens := authtoken.NewStore()
	mail := &fakeMailQueue{}

	if err := newAuthUsecase(tokens, mail).RequestMagicLink(context.Background(), testAdminEmail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mail.tasks) != 1 {
		t.Fatalf("mail queue has %d tasks, want 1", len(mail.tasks))
	}
	task := mail.tasks[0]
	if task.To != testAdminEmail {
		t.Errorf("task.To = %q, want %q", task.To, testAdminEmail)
	}

	raw := tokenFromTask(t, task)
	if len(raw) != 64 { // 32 random bytes, hex-encoded
		t.Errorf("token length = %d, want 64", len(raw))
	}

	emailAddr, err := tokens.TakeIfValid(raw)
	if err != nil {
		t.Fatalf("emailed token not in store: %v", err)
	}
	if emailAddr != testAdminEmail {
		t.Errorf("stored email = %q, want %q", emailAddr, testAdminEmail)
	}
}

func TestRequestMagicLink_FullMailQueue_TokenStillVerifiable(t *testing.T) {
	tokens := authtoken.NewStore()
	mail := &fakeMailQueue{full: true}

	if err := newAuthUsecase(tokens, mail).RequestMagicLink(context.Background(), testAdminEmail); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.Len() != 1 {
		t.Errorf("token store has %d entries, want 1 (token must outlive delivery failure)", tokens.Len())
	}
}

// ---- VerifyMagicLink ----

func TestVerifyMagicLink_ReturnsSignedAdminJWT(t *testing.T) {
	tokens := authtoken.NewStore()
	mail := &fakeMailQueue{}
	uc := newAuthUsecase(tokens, mail)

	if err := uc.RequestMagicLink(context.Background(), testAdminEmail); err != nil {
		t.Fatalf("request: %v", err)
	}
	raw := tokenFromTask(t, mail.tasks[0])

	signed, err := uc.VerifyMagicLink(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, parseErr := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected method")
		}
		return []byte(testJWTKey), nil
	})
	if parseErr != nil || !token.Valid {
		t.Fatalf("returned JWT is invalid: %v", parseErr)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("could not cast claims")
	}
	if claims["email"] != testAdminEmail {
		t.Errorf("email = %v, want %q", claims["email"], testAdminEmail)
	}
	if claims["role"] != "admin" {
		t.Errorf("role = %v, want admin", claims["role"])
	}

	exp, iat := int64(claims["exp"].(float64)), int64(claims["iat"].(float64))
	if got := time.Duration(exp-iat) * time.Second; got != 7*24*time.Hour {
		t.Errorf("session validity = %v, want 168h", got)
	}
}

func TestVerifyMagicLink_SecondUse_Fails(t *testing.T) {
	tokens := authtoken.NewStore()
	mail := &fakeMailQueue{}
	uc := newAuthUsecase(tokens, mail)

	if err := uc.RequestMagicLink(context.Background(), testAdminEmail); err != nil {
		t.Fatalf("request: %v", err)
	}
	raw := tokenFromTask(t, mail.tasks[0])

	if _, err := uc.VerifyMagicLink(context.Background(), raw); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := uc.VerifyMagicLink(context.Background(), raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("second verify: want ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyMagicLink_ExpiredToken_Fails(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := authtoken.NewStore(authtoken.WithClock(func() time.Time { return now }))
	mail := &fakeMailQueue{}
	uc := newAuthUsecase(tokens, mail)

	if err := uc.RequestMagicLink(context.Background(), testAdminEmail); err != nil {
		t.Fatalf("request: %v", err)
	}
	raw := tokenFromTask(t, mail.tasks[0])

	now = now.Add(15*time.Minute + time.Second)
	if _, err := uc.VerifyMagicLink(context.Background(), raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMagicLink_UnknownToken_Fails(t *testing.T) {
	uc := newAuthUsecase(authtoken.NewStore(), &fakeMailQueue{})

	if _, err := uc.VerifyMagicLink(context.Background(), "never-issued"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}
