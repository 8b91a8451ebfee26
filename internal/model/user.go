package model

import "time"

// Role names stored in users.role and carried in the JWT "role" claim.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// User represents an application user record as stored in the `users` table.
// WalletCents is the spendable balance debited when tickets are bought; the
// purchase transaction locks the row so the balance can never go negative.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – RoleAdmin or RoleCustomer.
//  WalletCents  – spendable balance in cents.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	WalletCents  int64     // users.wallet_cents
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// AuthToken models an entry in the `auth_tokens` table.  Only the SHA-256
// hash of the raw token is stored.  LastSeenAt implements the sliding idle
// expiry applied to non-admin sessions: every authenticated call refreshes
// it, and tokens idle longer than the configured TTL are rejected.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the token.
//  TokenHash  – SHA-256 hex digest of the token value.
//  ExpiresAt  – hard expiration timestamp of the token.
//  LastSeenAt – last authenticated use; drives idle expiry for customers.
//  RevokedAt  – when the token was revoked (null if still active).
//  CreatedAt  – timestamp of creation.
type AuthToken struct {
	ID         uint64     // auth_tokens.id
	UserID     uint64     // auth_tokens.user_id
	TokenHash  string     // auth_tokens.token_hash
	ExpiresAt  time.Time  // auth_tokens.expires_at
	LastSeenAt time.Time  // auth_tokens.last_seen_at
	RevokedAt  *time.Time // auth_tokens.revoked_at (nullable)
	CreatedAt  time.Time  // auth_tokens.created_at
}
