package handler_test

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// fakeAPI is an in-memory stand-in for the remote listings API.
type fakeAPI struct {
	mu         sync.Mutex
	passwords  map[string]string   // email -> password
	users      map[string]apiUser  // email -> user
	tokens     map[string]string   // token -> email
	favourites map[string][]string // email -> home ids
	homes      []apiHome
	logouts    int
	// refuseFavourites makes GET /favourites answer 403.
	refuseFavourites bool
}

type apiUser struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	UserType  string `json:"userType"`
}

type apiHome struct {
	ID        string  `json:"_id"`
	HouseName string  `json:"houseName"`
	Price     float64 `json:"price"`
	Location  string  `json:"location"`
	Rating    float64 `json:"rating"`
	Photo     string  `json:"photo"`
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		passwords:  make(map[string]string),
		users:      make(map[string]apiUser),
		tokens:     make(map[string]string),
		favourites: make(map[string][]string),
		homes: []apiHome{
			{ID: "h1", HouseName: "Harbour Loft", Price: 120, Location: "Goa", Rating: 4.5, Photo: "uploads/h1.jpg"},
			{ID: "h2", HouseName: "Hill Cabin", Price: 80, Location: "Manali", Rating: 4.8, Photo: "https://cdn.test/h2.jpg"},
		},
	}
}

// revoke invalidates every token issued for email.
func (f *fakeAPI) revoke(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, e := range f.tokens {
		if e == email {
			delete(f.tokens, tok)
		}
	}
}

func (f *fakeAPI) logoutCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts
}

func (f *fakeAPI) setRefuseFavourites(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refuseFavourites = v
}

func (f *fakeAPI) favouritesOf(email string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.favourites[email])
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", f.handleHomes)
	mux.HandleFunc("GET /homes/{id}", f.handleHome)
	mux.HandleFunc("GET /status", f.handleStatus)
	mux.HandleFunc("POST /login", f.handleLogin)
	mux.HandleFunc("POST /logout", f.handleLogout)
	mux.HandleFunc("POST /signup", f.handleSignup)
	mux.HandleFunc("GET /favourites", f.handleListFavourites)
	mux.HandleFunc("POST /favourites", f.handleAddFavourite)
	mux.HandleFunc("POST /favourites/delete/{id}", f.handleRemoveFavourite)
	return mux
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// caller resolves the bearer token. Callers hold f.mu.
func (f *fakeAPI) caller(r *http.Request) (string, bool) {
	tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	email, ok := f.tokens[tok]
	return email, ok
}

func (f *fakeAPI) userJSON(email string) map[string]any {
	u := f.users[email]
	favs := make([]any, 0, len(f.favourites[email]))
	for i, id := range f.favourites[email] {
		// Mix both wire shapes the API is known to send.
		if i%2 == 0 {
			favs = append(favs, id)
		} else {
			favs = append(favs, map[string]string{"_id": id})
		}
	}
	return map[string]any{
		"_id":        u.ID,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"email":      u.Email,
		"userType":   u.UserType,
		"favourites": favs,
	}
}

func (f *fakeAPI) handleHomes(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reply(w, http.StatusOK, map[string]any{"homes": f.homes})
}

func (f *fakeAPI) handleHome(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.homes {
		if h.ID == r.PathValue("id") {
			reply(w, http.StatusOK, map[string]any{"home": h})
			return
		}
	}
	reply(w, http.StatusNotFound, map[string]string{"error": "Home not found"})
}

func (f *fakeAPI) handleStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.caller(r)
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]any{"isLoggedIn": false})
		return
	}
	reply(w, http.StatusOK, map[string]any{"isLoggedIn": true, "user": f.userJSON(email)})
}

func (f *fakeAPI) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.passwords[req.Email]; !ok || pw != req.Password {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
		return
	}
	tok := "tok-" + req.Email
	f.tokens[tok] = req.Email
	reply(w, http.StatusOK, map[string]any{"token": tok, "user": f.userJSON(req.Email)})
}

func (f *fakeAPI) handleLogout(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	reply(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (f *fakeAPI) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		UserType        string `json:"userType"`
		Terms           bool   `json:"terms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		reply(w, http.StatusBadRequest, map[string]string{"error": "bad body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var details []map[string]string
	if _, taken := f.users[req.Email]; taken {
		details = append(details, map[string]string{"path": "email", "msg": "Email is already registered"})
	}
	if req.Password != req.ConfirmPassword {
		details = append(details, map[string]string{"path": "confirmPassword", "msg": "Passwords do not match"})
	}
	if !req.Terms {
		details = append(details, map[string]string{"path": "terms", "msg": "You must accept the terms"})
	}
	if len(details) > 0 {
		reply(w, http.StatusUnprocessableEntity, map[string]any{"error": "Validation failed", "errors": details})
		return
	}

	f.passwords[req.Email] = req.Password
	f.users[req.Email] = apiUser{
		ID:        "u-" + req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		UserType:  req.UserType,
	}
	reply(w, http.StatusCreated, map[string]string{"message": "User created"})
}

func (f *fakeAPI) handleListFavourites(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuseFavourites {
		reply(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		return
	}
	email, ok := f.caller(r)
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	var out []apiHome
	for _, h := range f.homes {
		if slices.Contains(f.favourites[email], h.ID) {
			out = append(out, h)
		}
	}
	reply(w, http.StatusOK, map[string]any{"favouriteHomes": out})
}

func (f *fakeAPI) handleAddFavourite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		HomeID string `json:"homeId"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.caller(r)
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	if !slices.Contains(f.favourites[email], req.HomeID) {
		f.favourites[email] = append(f.favourites[email], req.HomeID)
	}
	reply(w, http.StatusOK, map[string]string{"message": "Added"})
}

func (f *fakeAPI) handleRemoveFavourite(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.caller(r)
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	id := r.PathValue("id")
	f.favourites[email] = slices.DeleteFunc(f.favourites[email], func(s string) bool { return s == id })
	reply(w, http.StatusOK, map[string]string{"message": "Removed"})
}
