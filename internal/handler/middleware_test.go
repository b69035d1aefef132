package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/handler"
	"github.com/msomdec/staybook/internal/service"
	"github.com/msomdec/staybook/internal/session"
)

type stubAuthAPI struct {
	statusFn func(ctx context.Context, token string) (*domain.StatusResult, error)
}

func (s *stubAuthAPI) Status(ctx context.Context, token string) (*domain.StatusResult, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, token)
	}
	return &domain.StatusResult{}, nil
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return nil, &domain.AuthError{Message: "Login failed"}
}

func (s *stubAuthAPI) Logout(ctx context.Context) error { return nil }

func (s *stubAuthAPI) Signup(ctx context.Context, reg domain.Registration) (json.RawMessage, error) {
	return nil, &domain.AuthError{Message: "Signup failed"}
}

func newTestLoader(t *testing.T, api domain.AuthAPI, token string) *handler.SessionLoader {
	t.Helper()
	keys, err := service.DeriveKeys(testSecret)
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	slots := func(browserID string) domain.TokenStore {
		return session.NewMemorySlot(token)
	}
	return handler.NewSessionLoader(api, service.NewBrowserSessions(keys.Cookie, time.Hour), slots, true)
}

func TestRequireSession_NoStoreDefers(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	w := httptest.NewRecorder()

	handler.RequireSession(inner).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatal("expected empty body while unresolved")
	}
}

func TestRequireSession_Authenticated(t *testing.T) {
	api := &stubAuthAPI{
		statusFn: func(ctx context.Context, token string) (*domain.StatusResult, error) {
			return &domain.StatusResult{LoggedIn: true, User: &domain.User{ID: "u1", FirstName: "Ada"}}, nil
		},
	}

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := handler.SessionFromContext(r.Context()).Snapshot().User; u != nil {
			gotUser = u.FirstName
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	w := httptest.NewRecorder()

	newTestLoader(t, api, "abc").Load(handler.RequireSession(inner)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "Ada" {
		t.Fatalf("expected user Ada, got %q", gotUser)
	}
}

func TestRequireSession_UnauthenticatedRedirects(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	w := httptest.NewRecorder()

	newTestLoader(t, &stubAuthAPI{}, "").Load(handler.RequireSession(inner)).ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %s", loc)
	}
}

func TestSessionLoader_IssuesSecureCookie(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler.SessionFromContext(r.Context()) == nil {
			t.Fatal("expected session in context")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	newTestLoader(t, &stubAuthAPI{}, "").Load(inner).ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != handler.BrowserCookie {
		t.Fatalf("expected one %s cookie, got %v", handler.BrowserCookie, cookies)
	}
	c := cookies[0]
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", c)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	handler.SecurityHeaders(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := w.Header().Get(header); got != want {
			t.Fatalf("%s: expected %q, got %q", header, want, got)
		}
	}
}

func TestRateLimit_KeysByClientIP(t *testing.T) {
	limiter := service.NewTokenBucket(t.Context(), 0, 1)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := handler.RateLimit(limiter, inner)

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("10.0.0.1:1111"); code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", code)
	}
	if code := send("10.0.0.1:2222"); code != http.StatusTooManyRequests {
		t.Fatalf("same IP, other port: expected 429, got %d", code)
	}
	if code := send("10.0.0.2:1111"); code != http.StatusOK {
		t.Fatalf("other IP: expected 200, got %d", code)
	}
}
