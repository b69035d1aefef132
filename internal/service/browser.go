package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/msomdec/staybook/internal/domain"
)

// BrowserSessions issues and validates the signed cookie value that
// identifies a browser. The cookie carries no credentials; it only names
// the server-side token slot.
type BrowserSessions struct {
	key []byte
	ttl time.Duration
}

// NewBrowserSessions creates a BrowserSessions signing with key. Issued ids
// expire after ttl.
func NewBrowserSessions(key []byte, ttl time.Duration) *BrowserSessions {
	return &BrowserSessions{key: key, ttl: ttl}
}

// TTL reports how long an issued id stays valid.
func (b *BrowserSessions) TTL() time.Duration {
	return b.ttl
}

// Issue creates a fresh browser id and its signed cookie value.
func (b *BrowserSessions) Issue() (id, signed string, err error) {
	id = uuid.NewString()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": id,
		"iat": now.Unix(),
		"exp": now.Add(b.ttl).Unix(),
	}

	signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.key)
	if err != nil {
		return "", "", fmt.Errorf("sign browser id: %w", err)
	}
	return id, signed, nil
}

// Parse validates a signed cookie value and returns the browser id.
// Any failure is reported as domain.ErrUnauthorized.
func (b *BrowserSessions) Parse(signed string) (string, error) {
	token, err := jwt.Parse(signed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return b.key, nil
	})
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return id.String(), nil
}
