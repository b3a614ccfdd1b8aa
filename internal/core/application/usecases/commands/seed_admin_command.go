package commands

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrSeedAdminCommandIsNotConstructed = errors.New("SeedAdminCommand must be created via NewSeedAdminCommand constructor")
)

// SeedAdminCommand provisions the bootstrap administrator from configuration.
type SeedAdminCommand struct { //nolint:recvcheck //using for validation
	name     string
	phone    kernel.Phone
	email    string
	password string
	address  string

	guard guard.ConstructorGuard
}

// NewSeedAdminCommand validates the phone and the password policy.
func NewSeedAdminCommand(name string, phone kernel.Phone, email, password, address string) (SeedAdminCommand, error) {
	if err := errors.Join(phone.Validate(), validatePassword(password)); err != nil {
		return SeedAdminCommand{}, err
	}
	return SeedAdminCommand{
		name:     name,
		phone:    phone,
		email:    email,
		password: password,
		address:  address,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SeedAdminCommand) Validate() error {
	return c.guard.Validate(ErrSeedAdminCommandIsNotConstructed)
}

// SeedAdminResult reports whether the admin was created or refreshed.
type SeedAdminResult struct {
	User    *user.User
	Created bool
}

// SeedAdminCommandHandler creates the admin account, or refreshes it when the
// phone is already registered: profile, password and role are overwritten.
type SeedAdminCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
}

// NewSeedAdminCommandHandler creates a handler for admin provisioning.
func NewSeedAdminCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher) SeedAdminCommandHandler {
	return SeedAdminCommandHandler{uowFactory: uowFactory, hasher: hasher}
}

// Handle upserts the admin account.
func (h SeedAdminCommandHandler) Handle(ctx context.Context, cmd SeedAdminCommand) (SeedAdminResult, error) {
	if err := cmd.Validate(); err != nil {
		return SeedAdminResult{}, err
	}

	hash, err := h.hasher.Hash(cmd.password)
	if err != nil {
		return SeedAdminResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return SeedAdminResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	now := time.Now()

	account, err := userRepo.FindByPhone(ctx, cmd.phone)
	created := errors.Is(err, errs.ErrObjectNotFound)
	switch {
	case created:
		account, err = user.NewUser(kernel.NewUUID(), cmd.name, cmd.phone, cmd.email, hash, cmd.address, now)
	case err == nil:
		err = errors.Join(
			account.UpdateProfile(cmd.name, cmd.phone, cmd.email, cmd.address, now),
			account.SetPasswordHash(hash, now),
		)
	}
	if err != nil {
		return SeedAdminResult{}, err
	}

	if err = account.ChangeRole(user.RoleAdmin, now); err != nil {
		return SeedAdminResult{}, err
	}

	if err = ensureContactAvailable(ctx, userRepo, account.Phone(), account.Email(), account.ID()); err != nil {
		return SeedAdminResult{}, err
	}

	if created {
		err = userRepo.Add(ctx, account)
	} else {
		err = userRepo.Update(ctx, account)
	}
	if err != nil {
		return SeedAdminResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SeedAdminResult{}, err
	}

	return SeedAdminResult{User: account, Created: created}, nil
}
