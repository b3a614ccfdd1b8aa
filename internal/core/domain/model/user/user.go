package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/pkg/errs"
)

var (
	// ErrUserIsNotConstructed is returned when a User was not created through NewUser or RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")
)

// User is the account aggregate. It owns the credential hash, contact data,
// role and a reference to an optional profile image.
//
// Invariants:
//   - name, phone, address and password hash are always present
//   - email is either empty or a normalized address
//   - role is always a valid Role (new accounts start as RoleUser)
//
// Role changes are an administrative operation; promotion to admin happens
// through the bootstrap seed or through ChangeRole, never during registration.
type User struct {
	id           kernel.UUID
	name         string
	phone        kernel.Phone
	email        string
	passwordHash string
	address      string
	role         Role
	profileImage string
	createdAt    time.Time
	updatedAt    time.Time

	isConstructed bool
}

// NewUser registers a new account with RoleUser.
//
// Example:
//
//	phone, _ := kernel.NewPhone("01000000000")
//	u, err := user.NewUser(kernel.NewUUID(), "Mona", phone, "", hash, "12 Nile St", time.Now())
func NewUser(
	id kernel.UUID,
	name string,
	phone kernel.Phone,
	email string,
	passwordHash string,
	address string,
	now time.Time,
) (*User, error) {
	u := &User{
		role:          RoleUser,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setPhone(phone),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
		u.setAddress(address),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a persisted account. It applies the same validation as NewUser.
func RestoreUser(
	id kernel.UUID,
	name string,
	phone kernel.Phone,
	email string,
	passwordHash string,
	address string,
	role Role,
	profileImage string,
	createdAt time.Time,
	updatedAt time.Time,
) (*User, error) {
	u, err := NewUser(id, name, phone, email, passwordHash, address, createdAt)
	if err != nil {
		return nil, err
	}
	if err = role.Validate(); err != nil {
		return nil, err
	}
	u.role = role
	u.profileImage = profileImage
	u.updatedAt = updatedAt.UTC()
	return u, nil
}

// Validate ensures the User instance was properly constructed.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID       { return u.id }
func (u *User) Name() string          { return u.name }
func (u *User) Phone() kernel.Phone   { return u.phone }
func (u *User) Email() string         { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) Address() string       { return u.address }
func (u *User) Role() Role            { return u.role }
func (u *User) ProfileImage() string  { return u.profileImage }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) HasProfileImage() bool { return u.profileImage != "" }

// ChangeRole assigns a new role. It does not revalidate orders already assigned to the user.
func (u *User) ChangeRole(role Role, now time.Time) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	u.updatedAt = now.UTC()
	return nil
}

// UpdateProfile replaces the contact data. Nothing is written unless every value is valid.
func (u *User) UpdateProfile(name string, phone kernel.Phone, email string, address string, now time.Time) error {
	draft := *u
	if err := errors.Join(
		draft.setName(name),
		draft.setPhone(phone),
		draft.setEmail(email),
		draft.setAddress(address),
	); err != nil {
		return err
	}

	draft.updatedAt = now.UTC()
	*u = draft
	return nil
}

// SetPasswordHash stores a new credential hash.
func (u *User) SetPasswordHash(hash string, now time.Time) error {
	if err := u.setPasswordHash(hash); err != nil {
		return err
	}
	u.updatedAt = now.UTC()
	return nil
}

// SetProfileImage stores a new image reference and returns the previous one,
// so the caller can delete the old file once the change is committed.
func (u *User) SetProfileImage(ref string, now time.Time) string {
	previous := u.profileImage
	u.profileImage = ref
	u.updatedAt = now.UTC()
	return previous
}

// NormalizeEmail trims and lower-cases an optional email. An empty input yields "".
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}

	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" || domain == "" || strings.Contains(domain, "@") || strings.ContainsAny(email, " \t") {
		return "", errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not an email address", raw))
	}
	return email, nil
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	u.name = name
	return nil
}

func (u *User) setPhone(phone kernel.Phone) error {
	if err := phone.Validate(); err != nil {
		return err
	}
	u.phone = phone
	return nil
}

func (u *User) setEmail(raw string) error {
	email, err := NormalizeEmail(raw)
	if err != nil {
		return err
	}
	u.email = email
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password")
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	u.address = address
	return nil
}
