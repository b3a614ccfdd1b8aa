package commands

import (
	"context"
	"errors"
	"fmt"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

const (
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

func validatePassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return errs.NewValueIsOutOfRangeError("password length", len(password), minPasswordLength, maxPasswordLength)
	}
	return nil
}

// ensureContactAvailable rejects a phone or email that belongs to an account other than self.
// Pass the zero UUID as self for new accounts.
func ensureContactAvailable(
	ctx context.Context,
	repo ports.UserRepository,
	phone kernel.Phone,
	email string,
	self kernel.UUID,
) error {
	existing, err := repo.FindByPhone(ctx, phone)
	switch {
	case err == nil && !existing.ID().IsEqual(self):
		return errs.NewConflictError("phone", phone)
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("lookup by phone: %w", err)
	}

	if email == "" {
		return nil
	}

	existing, err = repo.FindByEmail(ctx, email)
	switch {
	case err == nil && !existing.ID().IsEqual(self):
		return errs.NewConflictError("email", email)
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Errorf("lookup by email: %w", err)
	}

	return nil
}
