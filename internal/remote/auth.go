package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/msomdec/staybook/internal/domain"
)

const (
	defaultLoginError  = "Login failed"
	defaultSignupError = "Signup failed"
)

// Status asks the API whether token belongs to a live session.
// GET /status with a bearer token.
//
// The body is decoded regardless of the status code; the API answers an
// expired token with {"isLoggedIn": false}.
func (c *Client) Status(ctx context.Context, token string) (*domain.StatusResult, error) {
	resp, err := c.do(ctx, c.bearer(ctx, token), "status", http.MethodGet, "/status", nil)
	if err != nil {
		return nil, err
	}

	var result domain.StatusResult
	if err := resp.decode("status", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges credentials for a token and user record.
// POST /login {"email","password"}
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, nil, "login", http.MethodPost, "/login", payload)
	if err != nil {
		return nil, err
	}

	if !resp.ok() {
		eb := parseErrorBody(resp.body)
		msg := eb.Message
		if msg == "" {
			msg = defaultLoginError
		}
		return nil, &domain.AuthError{Message: msg}
	}

	var result domain.LoginResult
	if err := resp.decode("login", &result); err != nil {
		return nil, err
	}
	if result.Token == "" || result.User == nil {
		return nil, transportErr("login", errors.New("response carried no token or user"))
	}
	return &result, nil
}

// Logout tells the API to end the session. POST /logout
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, nil, "logout", http.MethodPost, "/logout", nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return transportErr("logout", fmt.Errorf("unexpected status %d", resp.status))
	}
	return nil
}

// Signup registers a new account and returns the raw response payload.
// POST /signup with the registration fields.
func (c *Client) Signup(ctx context.Context, reg domain.Registration) (json.RawMessage, error) {
	resp, err := c.do(ctx, nil, "signup", http.MethodPost, "/signup", reg)
	if err != nil {
		return nil, err
	}

	if !resp.ok() {
		eb := parseErrorBody(resp.body)
		msg := eb.Message
		if msg == "" {
			msg = defaultSignupError
		}
		return nil, &domain.AuthError{Message: msg, Details: eb.Details}
	}

	if !json.Valid(resp.body) {
		return nil, transportErr("signup", fmt.Errorf("invalid JSON response (status %d)", resp.status))
	}
	return json.RawMessage(resp.body), nil
}
