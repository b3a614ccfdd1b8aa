package commands

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
)

// LoginResult is a signed token and the account it was issued for.
type LoginResult struct {
	Token ports.Token
	User  *user.User
}

// LoginCommandHandler verifies credentials and issues tokens.
// Unknown identifiers and wrong passwords produce the same Unauthenticated error.
type LoginCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	issuer     ports.TokenIssuer
}

// NewLoginCommandHandler creates a handler for logins.
func NewLoginCommandHandler(
	uowFactory UserUoWFactory,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
) LoginCommandHandler {
	return LoginCommandHandler{uowFactory: uowFactory, hasher: hasher, issuer: issuer}
}

// Handle returns a token for valid credentials.
func (h LoginCommandHandler) Handle(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return LoginResult{}, err
	}

	account, err := h.find(ctx, cmd)
	if errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange) {
		return LoginResult{}, errs.NewUnauthenticatedError("invalid credentials")
	}
	if err != nil {
		return LoginResult{}, err
	}

	if err = h.hasher.Compare(account.PasswordHash(), cmd.Password()); err != nil {
		return LoginResult{}, errs.NewUnauthenticatedErrorWithCause("invalid credentials", err)
	}

	token, err := h.issuer.Issue(account.ID(), account.Role())
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: account}, nil
}

func (h LoginCommandHandler) find(ctx context.Context, cmd LoginCommand) (*user.User, error) {
	repo := h.uowFactory.Create().UserRepository()

	if cmd.IsEmail() {
		email, err := user.NormalizeEmail(cmd.Identifier())
		if err != nil {
			return nil, err
		}
		return repo.FindByEmail(ctx, email)
	}

	phone, err := kernel.NewPhone(cmd.Identifier())
	if err != nil {
		return nil, err
	}
	return repo.FindByPhone(ctx, phone)
}
