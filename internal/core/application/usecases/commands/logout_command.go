package commands

import (
	"context"
	"errors"
	"time"

	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrLogoutCommandIsNotConstructed = errors.New("LogoutCommand must be created via NewLogoutCommand constructor")
)

// LogoutCommand revokes the token identified by tokenID until it expires.
type LogoutCommand struct { //nolint:recvcheck //using for validation
	tokenID   string
	expiresAt time.Time

	guard guard.ConstructorGuard
}

// NewLogoutCommand builds the command from verified claims.
func NewLogoutCommand(claims ports.Claims) (LogoutCommand, error) {
	if claims.TokenID == "" {
		return LogoutCommand{}, errs.NewValueIsRequiredError("token id")
	}
	return LogoutCommand{tokenID: claims.TokenID, expiresAt: claims.ExpiresAt, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c LogoutCommand) Validate() error {
	return c.guard.Validate(ErrLogoutCommandIsNotConstructed)
}

func (c LogoutCommand) TokenID() string      { return c.tokenID }
func (c LogoutCommand) ExpiresAt() time.Time { return c.expiresAt }

// LogoutCommandHandler adds tokens to the denylist.
type LogoutCommandHandler struct {
	denylist ports.TokenDenylist
}

// NewLogoutCommandHandler creates a handler for logouts.
func NewLogoutCommandHandler(denylist ports.TokenDenylist) LogoutCommandHandler {
	return LogoutCommandHandler{denylist: denylist}
}

// Handle revokes the token. Already expired tokens need no entry.
func (h LogoutCommandHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.ExpiresAt().After(time.Now()) {
		return nil
	}
	return h.denylist.Revoke(ctx, cmd.TokenID(), cmd.ExpiresAt())
}
