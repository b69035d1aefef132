package service

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"github.com/msomdec/staybook/internal/domain"
	"golang.org/x/crypto/chacha20poly1305"
)

// TokenVault stores bearer tokens encrypted at rest. Each sealed blob is
// bound to its browser id, so a blob copied to another id will not open.
type TokenVault struct {
	repo domain.TokenRepository
	aead cipher.AEAD
}

// NewTokenVault creates a TokenVault sealing with XChaCha20-Poly1305 under key.
func NewTokenVault(repo domain.TokenRepository, key []byte) (*TokenVault, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create token cipher: %w", err)
	}
	return &TokenVault{repo: repo, aead: aead}, nil
}

// Seal encrypts token for browserID. The output is nonce || ciphertext.
func (v *TokenVault) Seal(browserID, token string) ([]byte, error) {
	nonce := make([]byte, v.aead.NonceSize(), v.aead.NonceSize()+len(token)+v.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return v.aead.Seal(nonce, nonce, []byte(token), []byte(browserID)), nil
}

// Open reverses Seal.
func (v *TokenVault) Open(browserID string, blob []byte) (string, error) {
	if len(blob) < v.aead.NonceSize() {
		return "", errors.New("sealed token too short")
	}
	nonce, ciphertext := blob[:v.aead.NonceSize()], blob[v.aead.NonceSize():]
	plain, err := v.aead.Open(nil, nonce, ciphertext, []byte(browserID))
	if err != nil {
		return "", fmt.Errorf("open sealed token: %w", err)
	}
	return string(plain), nil
}

// Slot returns the durable token slot for one browser.
func (v *TokenVault) Slot(browserID string) *VaultSlot {
	return &VaultSlot{vault: v, browserID: browserID}
}

// VaultSlot implements domain.TokenStore for a single browser id.
type VaultSlot struct {
	vault     *TokenVault
	browserID string
}

// Load returns the stored token, or "" when the slot is empty. A blob that
// no longer opens (for example after a secret rotation) is discarded.
func (s *VaultSlot) Load(ctx context.Context) (string, error) {
	blob, err := s.vault.repo.Get(ctx, s.browserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get sealed token: %w", err)
	}

	token, err := s.vault.Open(s.browserID, blob)
	if err != nil {
		slog.Warn("discarding unreadable token", "browser_id", s.browserID, "error", err)
		if err := s.vault.repo.Delete(ctx, s.browserID); err != nil {
			return "", fmt.Errorf("delete sealed token: %w", err)
		}
		return "", nil
	}
	return token, nil
}

func (s *VaultSlot) Save(ctx context.Context, token string) error {
	blob, err := s.vault.Seal(s.browserID, token)
	if err != nil {
		return err
	}
	if err := s.vault.repo.Put(ctx, s.browserID, blob); err != nil {
		return fmt.Errorf("put sealed token: %w", err)
	}
	return nil
}

func (s *VaultSlot) Clear(ctx context.Context) error {
	if err := s.vault.repo.Delete(ctx, s.browserID); err != nil {
		return fmt.Errorf("delete sealed token: %w", err)
	}
	return nil
}
