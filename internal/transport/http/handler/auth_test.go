package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/backend/internal/domain"
)

type fakeAuthUsecase struct {
	requestFn func(ctx context.Context, email string) error
	verifyFn  func(ctx context.Context, token string) (string, error)
}

func (f *fakeAuthUsecase) RequestMagicLink(ctx context.Context, email string) error {
	return f.requestFn(ctx, email)
}

func (f *fakeAuthUsecase) VerifyMagicLink(ctx context.Context, token string) (string, error) {
	return f.verifyFn(ctx, token)
}

func newAuthRouter(t *testing.T, u adminAuthUsecaser) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(u, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	r.POST("/admin/auth", h.RequestMagicLink)
	r.GET("/admin/auth/verify", h.Verify)
	return r
}

func TestRequestMagicLink_MalformedBody(t *testing.T) {
	called := false
	r := newAuthRouter(t, &fakeAuthUsecase{
		requestFn: func(context.Context, string) error { called = true; return nil },
	})

	for _, body := range []string{`not json`, `{}`, `{"email":"not-an-email"}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/auth", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
	if called {
		t.Error("usecase called for malformed request")
	}
}

func TestRequestMagicLink_NormalizesEmail(t *testing.T) {
	var got string
	r := newAuthRouter(t, &fakeAuthUsecase{
		requestFn: func(_ context.Context, email string) error {
			got = email
			return nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth", strings.NewReader(`{"email":"  Admin@Example.COM  "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if got != "admin@example.com" {
		t.Errorf("usecase received %q, want lowercased trimmed email", got)
	}
}

func TestRequestMagicLink_UnauthorizedEmail(t *testing.T) {
	r := newAuthRouter(t, &fakeAuthUsecase{
		requestFn: func(context.Context, string) error { return domain.ErrUnauthorizedEmail },
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth", strings.NewReader(`{"email":"someone@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), errUnauthorizedEmail) {
		t.Errorf("body = %s, want %q", w.Body.String(), errUnauthorizedEmail)
	}
}

func TestRequestMagicLink_AckNeverLeaksToken(t *testing.T) {
	r := newAuthRouter(t, &fakeAuthUsecase{
		requestFn: func(context.Context, string) error { return nil },
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/auth", strings.NewReader(`{"email":"admin@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Authentication link has been sent") {
		t.Errorf("body = %s, want generic acknowledgment", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "token") {
		t.Errorf("acknowledgment must not mention the token: %s", w.Body.String())
	}
}

func TestVerify_MissingToken(t *testing.T) {
	called := false
	r := newAuthRouter(t, &fakeAuthUsecase{
		verifyFn: func(context.Context, string) (string, error) { called = true; return "", nil },
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/auth/verify", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if called {
		t.Error("usecase called with empty token")
	}
}

func TestVerify_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"expired", domain.ErrTokenExpired, http.StatusUnauthorized, errTokenExpired},
		{"invalid", domain.ErrTokenInvalid, http.StatusUnauthorized, errTokenInvalid},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError, errInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(t, &fakeAuthUsecase{
				verifyFn: func(context.Context, string) (string, error) { return "", tt.err },
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/auth/verify?token=abc", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestVerify_Success(t *testing.T) {
	var got string
	r := newAuthRouter(t, &fakeAuthUsecase{
		verifyFn: func(_ context.Context, token string) (string, error) {
			got = token
			return "signed.jwt.value", nil
		},
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/auth/verify?token=deadbeef", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got != "deadbeef" {
		t.Errorf("usecase received token %q, want raw query value", got)
	}
	if !strings.Contains(w.Body.String(), "signed.jwt.value") {
		t.Errorf("body = %s, want access_token in response", w.Body.String())
	}
}
