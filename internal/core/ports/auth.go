package ports

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
)

// PasswordHasher turns plain passwords into storable hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns an Unauthenticated error when password does not match hash.
	Compare(hash, password string) error
}

// Claims is what a verified bearer credential says about its holder.
type Claims struct {
	TokenID   string
	Subject   kernel.UUID
	Role      user.Role
	ExpiresAt time.Time
}

// Token is a freshly signed credential.
type Token struct {
	Value     string
	Claims    Claims
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies bearer credentials.
type TokenIssuer interface {
	Issue(subject kernel.UUID, role user.Role) (Token, error)
	// Verify returns an Unauthenticated error for malformed, forged or expired tokens.
	Verify(token string) (Claims, error)
}

// TokenDenylist remembers revoked tokens until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
