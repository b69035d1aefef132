package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/handler"
	"github.com/msomdec/staybook/internal/remote"
	"github.com/msomdec/staybook/internal/repository/sqlite"
	"github.com/msomdec/staybook/internal/service"
)

const testSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	srv      *httptest.Server
	api      *fakeAPI
	apiSrv   *httptest.Server
	tokens   *sqlite.TokenRepository
	browsers *service.BrowserSessions
}

type envOption func(*handler.Deps)

func withLimiter(rate, burst float64) envOption {
	return func(d *handler.Deps) {
		d.Limiter = service.NewTokenBucket(context.Background(), rate, burst)
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	api := newFakeAPI()
	apiSrv := httptest.NewServer(api.handler())
	t.Cleanup(apiSrv.Close)

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	keys, err := service.DeriveKeys(testSecret)
	if err != nil {
		t.Fatalf("DeriveKeys: %v", err)
	}
	tokens := db.Tokens()
	vault, err := service.NewTokenVault(tokens, keys.Vault)
	if err != nil {
		t.Fatalf("NewTokenVault: %v", err)
	}

	client := remote.New(apiSrv.URL, remote.WithTimeout(5*time.Second))
	deps := handler.Deps{
		Auth:     client,
		Listings: client,
		AssetURL: client.AssetURL,
		Browsers: service.NewBrowserSessions(keys.Cookie, time.Hour),
		Slots: func(browserID string) domain.TokenStore {
			return vault.Slot(browserID)
		},
		Limiter: service.NewTokenBucket(t.Context(), 100, 100),
		Ready:   db,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, deps)
	srv := httptest.NewServer(handler.SecurityHeaders(mux))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, api: api, apiSrv: apiSrv, tokens: tokens, browsers: deps.Browsers}
}

// browserID returns the id inside the browser's session cookie.
func (e *testEnv) browserID(t *testing.T, c *http.Client) string {
	t.Helper()
	srvURL, _ := url.Parse(e.srv.URL)
	for _, cookie := range c.Jar.Cookies(srvURL) {
		if cookie.Name != handler.BrowserCookie {
			continue
		}
		id, err := e.browsers.Parse(cookie.Value)
		if err != nil {
			t.Fatalf("parse browser cookie: %v", err)
		}
		return id
	}
	t.Fatal("no browser cookie")
	return ""
}

// newBrowser returns a client with its own cookie jar that does not follow
// redirects.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// readBody reads and closes the response body.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func (e *testEnv) get(t *testing.T, c *http.Client, path string) *http.Response {
	t.Helper()
	resp, err := c.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) post(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(e.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// datastarPost sends a POST the way the datastar client does.
func (e *testEnv) datastarPost(t *testing.T, c *http.Client, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// signupAndLogin registers email on the fake API and logs the browser in.
func (e *testEnv) signupAndLogin(t *testing.T, c *http.Client, email string) {
	t.Helper()
	resp := e.post(t, c, "/signup", url.Values{
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
		"email":           {email},
		"password":        {"password123"},
		"confirmPassword": {"password123"},
		"userType":        {"guest"},
		"terms":           {"on"},
	})
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("signup: expected 303, got %d", resp.StatusCode)
	}

	resp = e.post(t, c, "/login", url.Values{"email": {email}, "password": {"password123"}})
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	readBody(t, resp)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}
