package handler

import (
	"net/http"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/service"
)

// Deps are the collaborators the routes need.
type Deps struct {
	Auth         domain.AuthAPI
	Listings     domain.ListingAPI
	AssetURL     func(photo string) string
	Browsers     *service.BrowserSessions
	Slots        SlotFunc
	Limiter      *service.TokenBucket
	Ready        Pinger
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, deps Deps) {
	loader := NewSessionLoader(deps.Auth, deps.Browsers, deps.Slots, deps.CookieSecure)
	authHandler := NewAuthHandler()
	listingHandler := NewListingHandler(deps.Listings, deps.AssetURL)

	withSession := func(h http.HandlerFunc) http.Handler {
		return loader.Load(h)
	}
	guarded := func(h http.HandlerFunc) http.Handler {
		return loader.Load(RequireSession(h))
	}
	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimit(deps.Limiter, loader.Load(h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)
	if deps.Ready != nil {
		mux.HandleFunc("GET /readyz", HandleReadyz(deps.Ready))
	}

	mux.Handle("GET /{$}", withSession(listingHandler.HandleHome))
	mux.Handle("GET /homes", withSession(listingHandler.HandleHomes))
	mux.Handle("GET /homes/{homeID}", withSession(listingHandler.HandleHomeDetail))

	mux.Handle("GET /login", withSession(authHandler.HandleLoginPage))
	mux.Handle("POST /login", limited(authHandler.HandleLogin))
	mux.Handle("GET /signup", withSession(authHandler.HandleSignupPage))
	mux.Handle("POST /signup", limited(authHandler.HandleSignup))
	mux.Handle("POST /logout", withSession(authHandler.HandleLogout))

	mux.Handle("GET /favourites", guarded(listingHandler.HandleFavourites))
	mux.Handle("POST /favourites/{homeID}/toggle", guarded(listingHandler.HandleToggleFavourite))
	mux.Handle("GET /bookings", guarded(listingHandler.HandleBookings))
}
