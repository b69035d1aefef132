package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/msomdec/staybook/internal/domain"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest SESSION_SECRET accepted.
const MinSecretLength = 32

const (
	vaultKeyLabel  = "staybook token vault v1"
	cookieKeyLabel = "staybook browser cookie v1"
	cookieKeySize  = 32
)

// Keys holds the subkeys derived from the server secret. Each purpose gets
// its own key.
type Keys struct {
	Vault  []byte
	Cookie []byte
}

// DeriveKeys expands secret into purpose-bound subkeys with HKDF-SHA256.
func DeriveKeys(secret string) (*Keys, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: session secret must be at least %d characters", domain.ErrInvalidInput, MinSecretLength)
	}

	vault, err := deriveKey([]byte(secret), vaultKeyLabel, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	cookie, err := deriveKey([]byte(secret), cookieKeyLabel, cookieKeySize)
	if err != nil {
		return nil, err
	}
	return &Keys{Vault: vault, Cookie: cookie}, nil
}

func deriveKey(secret []byte, label string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(label)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", label, err)
	}
	return key, nil
}
