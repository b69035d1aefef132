// Package remote is the HTTP client for the listings REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/msomdec/staybook/internal/domain"
	"golang.org/x/oauth2"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// Client talks to the remote API rooted at a base URL.
// It implements domain.AuthAPI and domain.ListingAPI.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AssetURL resolves a listing photo path against the API base URL.
// Absolute URLs are returned unchanged.
func (c *Client) AssetURL(photo string) string {
	if photo == "" {
		return ""
	}
	if u, err := url.Parse(photo); err == nil && u.IsAbs() {
		return photo
	}
	return c.baseURL + "/" + strings.TrimLeft(photo, "/")
}

// bearer returns an HTTP client that attaches token as a bearer credential.
func (c *Client) bearer(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.http.Timeout
	return hc
}

// response is a fully read API response.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// decode unmarshals the body into dst, reporting failures as transport errors.
func (r *response) decode(op string, dst any) error {
	if err := json.Unmarshal(r.body, dst); err != nil {
		return transportErr(op, fmt.Errorf("decode response (status %d): %w", r.status, err))
	}
	return nil
}

// do sends a request with an optional JSON payload and reads the full response.
func (c *Client) do(ctx context.Context, hc *http.Client, op, method, path string, payload any) (*response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, transportErr(op, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, transportErr(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if hc == nil {
		hc = c.http
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, transportErr(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, transportErr(op, fmt.Errorf("read response: %w", err))
	}
	return &response{status: resp.StatusCode, body: data}, nil
}

// errorBody is the error envelope used by the remote API.
type errorBody struct {
	Message string
	Details []domain.FieldError
}

// parseErrorBody extracts the server's error envelope. Fields that are missing
// or of an unexpected shape are left empty.
func parseErrorBody(body []byte) errorBody {
	var eb errorBody

	var msg struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &msg) == nil {
		eb.Message = msg.Error
	}

	var list struct {
		Errors []domain.FieldError `json:"errors"`
	}
	if json.Unmarshal(body, &list) == nil && list.Errors != nil {
		eb.Details = list.Errors
	}
	return eb
}

func transportErr(op string, err error) error {
	return &domain.TransportError{Op: op, Err: err}
}
