package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/staybook/internal/domain"
	"github.com/msomdec/staybook/internal/view"
)

const unavailableMessage = "The service is unavailable right now. Please try again."

// AuthHandler serves the login, signup and logout forms. All state changes
// go through the request's session.Store.
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// HandleLoginPage renders the login form. Signed-in users go home.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	if snap.LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, view.LoginPage(navFor(snap), view.LoginForm{}))
}

// HandleLogin posts the credentials to the remote API.
// POST /login
// Success: 303 to /. Rejected credentials: 401 with the form re-rendered.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	store := SessionFromContext(r.Context())
	if store == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if _, err := store.Login(r.Context(), email, password); err != nil {
		form := view.LoginForm{Email: email}
		status := http.StatusUnauthorized

		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			form.Error = authErr.Message
		} else {
			slog.Error("login", "error", err)
			form.Error = unavailableMessage
			status = http.StatusBadGateway
		}

		render(w, r, status, view.LoginPage(navFor(store.Snapshot()), form))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSignupPage renders the registration form.
// GET /signup
func (h *AuthHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	snap := snapshotFrom(r)
	if snap.LoggedIn() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, view.SignupPage(navFor(snap), view.SignupForm{UserType: string(domain.UserTypeGuest)}))
}

// HandleSignup registers an account with the remote API. Signup never logs
// the user in.
// POST /signup
// Success: 303 to /login. Rejected: 422 with field errors from the API.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	store := SessionFromContext(r.Context())
	if store == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	reg := domain.Registration{
		FirstName:       strings.TrimSpace(r.FormValue("firstName")),
		LastName:        strings.TrimSpace(r.FormValue("lastName")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		UserType:        domain.UserType(r.FormValue("userType")),
		Terms:           r.FormValue("terms") == "on",
	}

	if _, err := store.Signup(r.Context(), reg); err != nil {
		form := view.SignupForm{
			FirstName: reg.FirstName,
			LastName:  reg.LastName,
			Email:     reg.Email,
			UserType:  string(reg.UserType),
			Terms:     reg.Terms,
		}
		status := http.StatusUnprocessableEntity

		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			form.Error = authErr.Message
			form.FieldErrors = authErr.FieldMessages()
		} else {
			slog.Error("signup", "error", err)
			form.Error = unavailableMessage
			status = http.StatusBadGateway
		}

		render(w, r, status, view.SignupPage(navFor(store.Snapshot()), form))
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleLogout ends the session. It always succeeds locally.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if store := SessionFromContext(r.Context()); store != nil {
		store.Logout(r.Context())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
