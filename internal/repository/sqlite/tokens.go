package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/msomdec/staybook/internal/domain"
)

// TokenRepository implements domain.TokenRepository using SQLite.
// Rows past their expiry read as missing and are swept by Purge.
type TokenRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewTokenRepository creates a SQLite-backed TokenRepository with a 30 day
// expiry. Use WithTTL to change it.
func NewTokenRepository(db *DB) *TokenRepository {
	return &TokenRepository{db: db.SqlDB, ttl: 30 * 24 * time.Hour}
}

// WithTTL returns a copy of the repository using ttl for new rows.
func (r *TokenRepository) WithTTL(ttl time.Duration) *TokenRepository {
	return &TokenRepository{db: r.db, ttl: ttl}
}

func (r *TokenRepository) Get(ctx context.Context, browserID string) ([]byte, error) {
	var blob []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT blob FROM browser_tokens WHERE id = ? AND expires_at > ?`,
		browserID, time.Now().Unix(),
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query browser token: %w", err)
	}
	return blob, nil
}

func (r *TokenRepository) Put(ctx context.Context, browserID string, blob []byte) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO browser_tokens (id, blob, updated_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   blob = excluded.blob,
		   updated_at = excluded.updated_at,
		   expires_at = excluded.expires_at`,
		browserID, blob, now.Unix(), now.Add(r.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert browser token: %w", err)
	}
	return nil
}

// Delete removes the row for browserID. Deleting a missing row is not an error.
func (r *TokenRepository) Delete(ctx context.Context, browserID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM browser_tokens WHERE id = ?`, browserID); err != nil {
		return fmt.Errorf("delete browser token: %w", err)
	}
	return nil
}

// Purge removes expired rows and reports how many were deleted.
func (r *TokenRepository) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM browser_tokens WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("purge browser tokens: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// RunPurger calls Purge every interval until ctx is cancelled.
func (r *TokenRepository) RunPurger(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.Purge(ctx)
			if err != nil {
				slog.Error("purge browser tokens", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired browser tokens", "count", n)
			}
		}
	}
}
