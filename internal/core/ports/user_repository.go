package ports

import (
	"context"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user accounts.
type UserRepository interface {
	// Add persists a new account. Duplicate phone or email is a Conflict error.
	Add(ctx context.Context, aggregate *user.User) error

	// Update persists profile, credential and role changes.
	Update(ctx context.Context, aggregate *user.User) error

	// Get returns the account or an ObjectNotFound error.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// FindByPhone returns the account registered with phone or an ObjectNotFound error.
	FindByPhone(ctx context.Context, phone kernel.Phone) (*user.User, error)

	// FindByEmail returns the account registered with a normalized email or an ObjectNotFound error.
	FindByEmail(ctx context.Context, email string) (*user.User, error)

	// Delete removes the account. Orders keep their (now dangling) references.
	Delete(ctx context.Context, id kernel.UUID) error
}
