package userrepo

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add inserts the account. Unique index violations become Conflict errors.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return translateWriteError(err, dto)
	}
	return nil
}

// Update overwrites the account row.
func (r *GormUserRepository) Update(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return translateWriteError(result.Error, dto)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", aggregate.ID().String())
	}
	return nil
}

// Get retrieves an account by ID.
func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "user", id.String(), "id = ?", id.Bytes())
}

// FindByPhone looks an account up by its normalized phone.
func (r *GormUserRepository) FindByPhone(ctx context.Context, phone kernel.Phone) (*user.User, error) {
	if err := phone.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, "user", phone.String(), "phone = ?", phone.String())
}

// FindByEmail looks an account up by its normalized email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if email == "" {
		return nil, errs.NewValueIsRequiredError("email")
	}
	return r.first(ctx, "user", email, "email = ?", email)
}

// Delete removes the account row.
func (r *GormUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&UserDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", id.String())
	}
	return nil
}

func (r *GormUserRepository) first(ctx context.Context, param string, id any, query string, args ...any) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).Where(query, args...).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}
	return toDomain(dto)
}

// translateWriteError maps unique index violations to Conflict errors.
// The driver does not say which index fired, and inside a failed transaction
// the row cannot be probed, so both contact columns are named.
func translateWriteError(err error, dto UserDTO) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}

	value := dto.Phone
	if dto.Email != nil {
		value += " / " + *dto.Email
	}
	return errs.NewConflictErrorWithCause("phone or email", value, err)
}
