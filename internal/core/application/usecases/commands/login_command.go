package commands

import (
	"errors"
	"strings"

	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"
)

var (
	ErrLoginCommandIsNotConstructed = errors.New("LoginCommand must be created via NewLoginCommand constructor")
)

// LoginCommand exchanges credentials for a signed token.
// The identifier is either an email address or a phone number.
type LoginCommand struct { //nolint:recvcheck //using for validation
	identifier string
	password   string

	guard guard.ConstructorGuard
}

// NewLoginCommand requires both values to be present.
func NewLoginCommand(emailOrPhone string, password string) (LoginCommand, error) {
	identifier := strings.TrimSpace(emailOrPhone)

	var identifierErr, passwordErr error
	if identifier == "" {
		identifierErr = errs.NewValueIsRequiredError("emailOrPhone")
	}
	if password == "" {
		passwordErr = errs.NewValueIsRequiredError("password")
	}
	if err := errors.Join(identifierErr, passwordErr); err != nil {
		return LoginCommand{}, err
	}

	return LoginCommand{identifier: identifier, password: password, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

func (c LoginCommand) Identifier() string { return c.identifier }
func (c LoginCommand) Password() string   { return c.password }

// IsEmail reports whether the identifier should be looked up as an email.
func (c LoginCommand) IsEmail() bool { return strings.Contains(c.identifier, "@") }
