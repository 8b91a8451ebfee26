package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists/validates auth tokens (single 'token_hash' column).
// Tokens carry a hard expiry plus a last_seen_at timestamp: non-admin
// sessions additionally die when idle longer than the configured TTL, and
// every authenticated use touches last_seen_at to keep them alive.
type TokenRepo struct{ DB *sql.DB }

// NewTokenRepo constructs a TokenRepo with the given DB handle.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a token hash row.  last_seen_at starts at now.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth_tokens (user_id, token_hash, expires_at, last_seen_at) VALUES (?,?,?,NOW())",
		userID, tokenHash, exp)
	return err
}

// Validate returns the owning user ID and last-seen time of a non-revoked,
// non-expired token.  Idle-expiry policy is applied by the caller, which
// knows the user's role; sql.ErrNoRows signals an unusable token.
func (r *TokenRepo) Validate(ctx context.Context, tokenHash string) (uint64, time.Time, error) {
	var (
		userID    uint64
		expiresAt time.Time
		lastSeen  time.Time
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, expires_at, last_seen_at, revoked_at FROM auth_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&userID, &expiresAt, &lastSeen, &revokedAt)
	if err != nil {
		return 0, time.Time{}, err
	}
	if revokedAt.Valid {
		return 0, time.Time{}, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return 0, time.Time{}, sql.ErrNoRows
	}
	return userID, lastSeen, nil
}

// Touch refreshes last_seen_at, resetting the idle-expiry clock.
func (r *TokenRepo) Touch(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auth_tokens SET last_seen_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auth_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes all user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auth_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
