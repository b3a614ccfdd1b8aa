package commands

import (
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/guard"
)

var (
	ErrRegisterUserCommandIsNotConstructed = errors.New(
		"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
	)
)

// RegisterUserCommand creates a new account with the default user role.
// There is no way to request another role here; admins are provisioned by SeedAdmin.
type RegisterUserCommand struct { //nolint:recvcheck //using for validation
	name     string
	phone    kernel.Phone
	email    string
	password string
	address  string
	image    *ports.Upload

	guard guard.ConstructorGuard
}

// NewRegisterUserCommand checks the phone and the password policy. Name, email and
// address are checked by the User aggregate.
func NewRegisterUserCommand(
	name string,
	phone kernel.Phone,
	email string,
	password string,
	address string,
	image *ports.Upload,
) (RegisterUserCommand, error) {
	if err := errors.Join(phone.Validate(), validatePassword(password)); err != nil {
		return RegisterUserCommand{}, err
	}

	return RegisterUserCommand{
		name:     name,
		phone:    phone,
		email:    email,
		password: password,
		address:  address,
		image:    image,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) Name() string         { return c.name }
func (c RegisterUserCommand) Phone() kernel.Phone  { return c.phone }
func (c RegisterUserCommand) Email() string        { return c.email }
func (c RegisterUserCommand) Password() string     { return c.password }
func (c RegisterUserCommand) Address() string      { return c.address }
func (c RegisterUserCommand) Image() *ports.Upload { return c.image }
