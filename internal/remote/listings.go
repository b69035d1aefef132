package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/msomdec/staybook/internal/domain"
)

// Homes lists every published home. GET /
func (c *Client) Homes(ctx context.Context) ([]domain.Home, error) {
	resp, err := c.do(ctx, nil, "list homes", http.MethodGet, "/", nil)
	if err != nil {
		return nil, err
	}
	if err := expectOK("list homes", resp); err != nil {
		return nil, err
	}

	var body struct {
		Homes []domain.Home `json:"homes"`
	}
	if err := resp.decode("list homes", &body); err != nil {
		return nil, err
	}
	return body.Homes, nil
}

// Home fetches a single home. GET /homes/:id
// Returns domain.ErrNotFound when the API answers 404.
func (c *Client) Home(ctx context.Context, id string) (*domain.Home, error) {
	resp, err := c.do(ctx, nil, "get home", http.MethodGet, "/homes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if err := expectOK("get home", resp); err != nil {
		return nil, err
	}

	var body struct {
		Home *domain.Home `json:"home"`
	}
	if err := resp.decode("get home", &body); err != nil {
		return nil, err
	}
	if body.Home == nil {
		return nil, domain.ErrNotFound
	}
	return body.Home, nil
}

// Favourites lists the signed-in user's favourite homes. GET /favourites
func (c *Client) Favourites(ctx context.Context, token string) ([]domain.Home, error) {
	resp, err := c.do(ctx, c.bearer(ctx, token), "list favourites", http.MethodGet, "/favourites", nil)
	if err != nil {
		return nil, err
	}
	if err := expectOK("list favourites", resp); err != nil {
		return nil, err
	}

	var body struct {
		FavouriteHomes []domain.Home `json:"favouriteHomes"`
	}
	if err := resp.decode("list favourites", &body); err != nil {
		return nil, err
	}
	return body.FavouriteHomes, nil
}

// AddFavourite marks a home as favourite. POST /favourites {"homeId"}
func (c *Client) AddFavourite(ctx context.Context, token, homeID string) error {
	payload := map[string]string{"homeId": homeID}
	resp, err := c.do(ctx, c.bearer(ctx, token), "add favourite", http.MethodPost, "/favourites", payload)
	if err != nil {
		return err
	}
	return expectOK("add favourite", resp)
}

// RemoveFavourite unmarks a home. POST /favourites/delete/:homeId
func (c *Client) RemoveFavourite(ctx context.Context, token, homeID string) error {
	path := "/favourites/delete/" + url.PathEscape(homeID)
	resp, err := c.do(ctx, c.bearer(ctx, token), "remove favourite", http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	return expectOK("remove favourite", resp)
}

// expectOK maps a non-2xx response to an error. 401 and 403 become
// domain.ErrUnauthorized; anything else carries the server's message.
func expectOK(op string, resp *response) error {
	if resp.ok() {
		return nil
	}
	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}
	msg := parseErrorBody(resp.body).Message
	if msg == "" {
		msg = http.StatusText(resp.status)
	}
	return fmt.Errorf("%s: status %d: %s", op, resp.status, msg)
}
