// Package session holds the per-browser authentication state and the route
// guard that reads it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/msomdec/staybook/internal/domain"
)

// Status is the resolved authentication state of a Store.
type Status int

const (
	StatusUnresolved Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unresolved"
	}
}

// Snapshot is a point-in-time copy of a Store's state.
type Snapshot struct {
	Status  Status
	Token   string
	User    *domain.User
	Loading bool
}

// LoggedIn reports whether the snapshot is authenticated.
func (s Snapshot) LoggedIn() bool {
	return s.Status == StatusAuthenticated
}

// Store is the authority on who is signed in for one browser. The bearer
// token lives in a durable slot; the user record is re-derived from the
// remote API and never persisted.
//
// Operations do not exclude each other. State changes are single
// assignments, so overlapping calls resolve last-write-wins.
type Store struct {
	api  domain.AuthAPI
	slot domain.TokenStore

	mu      sync.Mutex
	status  Status
	token   string
	user    *domain.User
	loading bool
}

// New creates an unresolved Store. Call CheckAuth to resolve it.
func New(api domain.AuthAPI, slot domain.TokenStore) *Store {
	return &Store{
		api:     api,
		slot:    slot,
		status:  StatusUnresolved,
		loading: true,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Status:  s.status,
		Token:   s.token,
		User:    s.user.Clone(),
		Loading: s.loading,
	}
}

// CheckAuth validates the persisted token against the remote API.
// Failures are not returned: an unusable token is a normal logged-out state.
func (s *Store) CheckAuth(ctx context.Context) {
	defer s.finishLoading()

	token, err := s.slot.Load(ctx)
	if err != nil {
		slog.Error("load persisted token", "error", err)
		s.reset()
		return
	}
	if token == "" {
		s.reset()
		return
	}

	res, err := s.api.Status(ctx, token)
	if err != nil {
		slog.Warn("check auth status", "error", err)
		s.forget(ctx)
		return
	}
	if !res.LoggedIn || res.User == nil {
		s.forget(ctx)
		return
	}

	s.authenticate(token, res.User)
}

// Login posts credentials to the remote API. On failure the state is left
// untouched and the error is a *domain.AuthError or *domain.TransportError.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.slot.Save(ctx, res.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	s.authenticate(res.Token, res.User)
	return res, nil
}

// Logout ends the session. The remote call is best effort; the local state
// is cleared on every path.
func (s *Store) Logout(ctx context.Context) {
	defer s.forget(ctx)

	if err := s.api.Logout(ctx); err != nil {
		slog.Warn("remote logout failed", "error", err)
	}
}

// Signup registers an account. It never changes the Store; callers log in
// separately afterwards.
func (s *Store) Signup(ctx context.Context, reg domain.Registration) (json.RawMessage, error) {
	return s.api.Signup(ctx, reg)
}

// UpdateUserFavorites patches the loaded user's favourites after the matching
// remote mutation has succeeded. It is a no-op when no user is loaded.
// Adding an id that is already present does nothing.
func (s *Store) UpdateUserFavorites(listingID string, isAdding bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return
	}

	u := s.user.Clone()
	if isAdding {
		if !slices.Contains(u.Favourites, listingID) {
			u.Favourites = append(u.Favourites, listingID)
		}
	} else {
		u.Favourites = slices.DeleteFunc(u.Favourites, func(id string) bool {
			return id == listingID
		})
	}
	s.user = u
}

func (s *Store) authenticate(token string, user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user.Clone()
	s.status = StatusAuthenticated
}

// forget clears the persisted slot and resets the in-memory state.
func (s *Store) forget(ctx context.Context) {
	if err := s.slot.Clear(context.WithoutCancel(ctx)); err != nil {
		slog.Error("clear persisted token", "error", err)
	}
	s.reset()
}

func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.status = StatusUnauthenticated
}

func (s *Store) finishLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}
