package domain

import (
	"encoding/json"
	"fmt"
	"slices"
)

// UserType distinguishes guests from hosts.
type UserType string

const (
	UserTypeGuest UserType = "guest"
	UserTypeHost  UserType = "host"
)

// User is the account record returned by the remote API for the signed-in browser.
type User struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	UserType   UserType
	Favourites Favourites
}

type userJSON struct {
	ID         string     `json:"_id,omitempty"`
	AltID      string     `json:"id,omitempty"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email"`
	UserType   UserType   `json:"userType"`
	Favourites Favourites `json:"favourites"`
}

// UnmarshalJSON accepts either "_id" or "id" as the user identifier.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw userJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.ID
	if id == "" {
		id = raw.AltID
	}
	*u = User{
		ID:         id,
		FirstName:  raw.FirstName,
		LastName:   raw.LastName,
		Email:      raw.Email,
		UserType:   raw.UserType,
		Favourites: raw.Favourites,
	}
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		UserType:   u.UserType,
		Favourites: u.Favourites,
	})
}

// IsHost reports whether the user may manage listings.
func (u *User) IsHost() bool {
	return u != nil && u.UserType == UserTypeHost
}

// HasFavourite reports whether homeID is among the user's favourites.
func (u *User) HasFavourite(homeID string) bool {
	if u == nil {
		return false
	}
	return slices.Contains(u.Favourites, homeID)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Favourites = slices.Clone(u.Favourites)
	return &c
}

// Favourites holds normalised listing identifiers.
//
// The remote API sends either bare ids or populated listing objects; both
// decode to the listing id.
type Favourites []string

func (f *Favourites) UnmarshalJSON(data []byte) error {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("favourites: %w", err)
	}
	if entries == nil {
		*f = nil
		return nil
	}

	ids := make(Favourites, 0, len(entries))
	for _, entry := range entries {
		id, err := favouriteID(entry)
		if err != nil {
			return err
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	*f = ids
	return nil
}

func favouriteID(entry json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(entry, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(entry, &n); err == nil {
		return n.String(), nil
	}

	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(entry, &obj); err != nil {
		return "", fmt.Errorf("favourite entry: %w", err)
	}
	if obj.ID != "" {
		return obj.ID, nil
	}
	return obj.AltID, nil
}

// Registration is the signup form forwarded to the remote API.
type Registration struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	UserType        UserType `json:"userType"`
	Terms           bool     `json:"terms"`
}
