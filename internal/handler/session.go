package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/service"
	"github.com/msomdec/staybook/internal/session"
	"github.com/msomdec/staybook/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

type contextKey string

const sessionContextKey contextKey = "session"

// BrowserCookie names the cookie carrying the signed browser id.
const BrowserCookie = "sid"

// SlotFunc resolves the durable token slot of a browser.
type SlotFunc func(browserID string) domain.TokenStore

// SessionFromContext returns the request's session store, or nil when the
// request did not pass through SessionLoader.
func SessionFromContext(ctx context.Context) *session.Store {
	store, _ := ctx.Value(sessionContextKey).(*session.Store)
	return store
}

// snapshotFrom returns the session snapshot of the request. Requests
// without a store read as unresolved.
func snapshotFrom(r *http.Request) session.Snapshot {
	if store := SessionFromContext(r.Context()); store != nil {
		return store.Snapshot()
	}
	return session.Snapshot{Status: session.StatusUnresolved, Loading: true}
}

func navFor(snap session.Snapshot) view.Nav {
	if !snap.LoggedIn() {
		return view.Nav{}
	}
	return view.Nav{
		LoggedIn:  true,
		FirstName: snap.User.FirstName,
		IsHost:    snap.User.IsHost(),
	}
}

// SessionLoader attaches a resolved session.Store to each request.
type SessionLoader struct {
	api          domain.AuthAPI
	browsers     *service.BrowserSessions
	slots        SlotFunc
	cookieSecure bool
}

// NewSessionLoader creates a new SessionLoader.
func NewSessionLoader(api domain.AuthAPI, browsers *service.BrowserSessions, slots SlotFunc, cookieSecure bool) *SessionLoader {
	return &SessionLoader{
		api:          api,
		browsers:     browsers,
		slots:        slots,
		cookieSecure: cookieSecure,
	}
}

// Load identifies the browser, issuing a new id when the cookie is missing
// or invalid, then builds its Store and runs CheckAuth before calling next.
func (l *SessionLoader) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		browserID, err := l.browserID(w, r)
		if err != nil {
			slog.Error("issue browser id", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		store := session.New(l.api, l.slots(browserID))
		store.CheckAuth(r.Context())

		ctx := context.WithValue(r.Context(), sessionContextKey, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (l *SessionLoader) browserID(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(BrowserCookie); err == nil {
		if id, err := l.browsers.Parse(c.Value); err == nil {
			return id, nil
		}
	}

	id, signed, err := l.browsers.Issue()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     BrowserCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   l.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(l.browsers.TTL().Seconds()),
	})
	return id, nil
}

// RequireSession gates next behind an authenticated session. Unresolved
// sessions get an empty 204 so nothing protected flashes; unauthenticated
// ones are sent to /login.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch session.Guard(snapshotFrom(r).Status) {
		case session.AccessAllow:
			next.ServeHTTP(w, r)
		case session.AccessRedirect:
			redirectToLogin(w, r)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

// redirectToLogin replaces the current page with /login. Datastar requests
// get the redirect as an SSE event since fetch would follow a 303 silently.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Datastar-Request") == "true" {
		sse := datastar.NewSSE(w, r)
		if err := sse.Redirect("/login"); err != nil {
			slog.Error("send login redirect", "error", err)
		}
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
