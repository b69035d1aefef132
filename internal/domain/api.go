package domain

import (
	"context"
	"encoding/json"
)

// StatusResult is the remote answer to a session status check.
type StatusResult struct {
	LoggedIn bool  `json:"isLoggedIn"`
	User     *User `json:"user"`
}

// LoginResult is the full payload of a successful login.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// AuthAPI is the authentication surface of the remote API.
type AuthAPI interface {
	Status(ctx context.Context, token string) (*StatusResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	Signup(ctx context.Context, reg Registration) (json.RawMessage, error)
}

// ListingAPI is the listing and favourites surface of the remote API.
type ListingAPI interface {
	Homes(ctx context.Context) ([]Home, error)
	Home(ctx context.Context, id string) (*Home, error)
	Favourites(ctx context.Context, token string) ([]Home, error)
	AddFavourite(ctx context.Context, token, homeID string) error
	RemoveFavourite(ctx context.Context, token, homeID string) error
}
