package order

import (
	"errors"
	"fmt"
	"strings"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

const maxContactNameLength = 100

// Contact is the name and phone of a sender or receiver.
type Contact struct {
	name  string
	phone kernel.Phone
}

// NewContact validates both parts. role is used in error messages ("sender", "receiver").
func NewContact(role, name string, phone kernel.Phone) (Contact, error) {
	name = strings.TrimSpace(name)

	var nameErr error
	switch {
	case name == "":
		nameErr = errs.NewValueIsRequiredError(role + " name")
	case len([]rune(name)) > maxContactNameLength:
		nameErr = errs.NewValueIsInvalidErrorWithCause(
			role+" name",
			fmt.Errorf("longer than %d characters", maxContactNameLength),
		)
	}

	var phoneErr error
	if err := phone.Validate(); err != nil {
		phoneErr = fmt.Errorf("%s phone: %w", role, err)
	}

	if err := errors.Join(nameErr, phoneErr); err != nil {
		return Contact{}, err
	}
	return Contact{name: name, phone: phone}, nil
}

func (c Contact) Name() string        { return c.name }
func (c Contact) Phone() kernel.Phone { return c.phone }

// Validate rejects the zero value.
func (c Contact) Validate() error {
	if c.name == "" {
		return errs.NewValueIsRequiredError("contact")
	}
	return c.phone.Validate()
}

// Collection describes cash-on-delivery: when enabled the receiver pays Price.
//
// The invariant is that Price is present and positive exactly when the
// collection is enabled. The zero value means "no collection".
type Collection struct {
	enabled bool
	price   kernel.Money
}

// NoCollection is an order paid up front.
func NoCollection() Collection {
	return Collection{}
}

// NewCollection builds a Collection from request fields.
// A price without isCollection, or isCollection without a positive price, is rejected.
func NewCollection(isCollection bool, price *kernel.Money) (Collection, error) {
	if !isCollection {
		if price != nil && price.IsPositive() {
			return Collection{}, errs.NewValueIsInvalidErrorWithCause(
				"collection price",
				errors.New("price given for an order without collection"),
			)
		}
		return NoCollection(), nil
	}

	if price == nil {
		return Collection{}, errs.NewValueIsRequiredError("collection price")
	}
	if !price.IsPositive() {
		return Collection{}, errs.NewValueIsInvalidErrorWithCause(
			"collection price",
			fmt.Errorf("%s is not greater than 0", price),
		)
	}
	return Collection{enabled: true, price: *price}, nil
}

func (c Collection) IsCollection() bool { return c.enabled }

// Price returns the amount to collect, or nil when collection is disabled.
func (c Collection) Price() *kernel.Money {
	if !c.enabled {
		return nil
	}
	price := c.price
	return &price
}
