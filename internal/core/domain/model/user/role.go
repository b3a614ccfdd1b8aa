package user

import (
	"fmt"
	"strings"

	"shipping/internal/pkg/errs"
)

// Role is the closed set of permission levels a user account can hold.
//
//	User     - creates orders and manages their own orders
//	Delivery - updates the delivery status of orders assigned to them
//	Admin    - assigns orders, overrides statuses, manages accounts
type Role int

const (
	// UnknownRole is the zero value and never valid.
	UnknownRole Role = iota
	RoleUser
	RoleDelivery
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUser:     "user",
		RoleDelivery: "delivery",
		RoleAdmin:    "admin",
	}
}

// ParseRole maps the persisted/wire form onto a Role. Matching is case-insensitive.
func ParseRole(raw string) (Role, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for role, str := range getRoleStrings() {
		if str == normalized {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause(
		"role",
		fmt.Errorf("%q is not one of user, delivery, admin", raw),
	)
}

// Validate rejects UnknownRole and out-of-range values.
func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

// MarshalText encodes the role as its lower-case name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// IsAdmin is a convenience used by authorization checks.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsDelivery reports whether the role is Delivery.
func (r Role) IsDelivery() bool {
	return r == RoleDelivery
}
