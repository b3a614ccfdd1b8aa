// Package userrepo persists user accounts with GORM.
package userrepo

import (
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO is the users table row. Email is nullable so that any number of
// accounts can go without one while present addresses stay unique.
type UserDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	Phone        string    `gorm:"size:25;not null;uniqueIndex"`
	Email        *string   `gorm:"size:254;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Address      string    `gorm:"not null"`
	Role         string    `gorm:"size:20;not null;index"`
	ProfileImage string
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName pins the table to "users".
func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(aggregate *user.User) UserDTO {
	var email *string
	if e := aggregate.Email(); e != "" {
		email = &e
	}

	return UserDTO{
		ID:           aggregate.ID().Bytes(),
		Name:         aggregate.Name(),
		Phone:        aggregate.Phone().String(),
		Email:        email,
		PasswordHash: aggregate.PasswordHash(),
		Address:      aggregate.Address(),
		Role:         aggregate.Role().String(),
		ProfileImage: aggregate.ProfileImage(),
		CreatedAt:    aggregate.CreatedAt(),
		UpdatedAt:    aggregate.UpdatedAt(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return nil, err
	}
	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var email string
	if dto.Email != nil {
		email = *dto.Email
	}

	return user.RestoreUser(
		id,
		dto.Name,
		phone,
		email,
		dto.PasswordHash,
		dto.Address,
		role,
		dto.ProfileImage,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
	)
}
