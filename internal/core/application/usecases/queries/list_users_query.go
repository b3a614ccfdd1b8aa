package queries

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrListUsersQueryIsNotConstructed = errors.New(
		"ListUsersQuery must be created via NewListUsersQuery or NewListDeliveryUsersQuery constructor",
	)
)

// ListUsersQuery lists accounts for administration, ordered by name.
type ListUsersQuery struct { //nolint:recvcheck //using for validation
	actor services.Actor
	role  *user.Role

	guard guard.ConstructorGuard
}

// NewListUsersQuery lists every account.
func NewListUsersQuery(actor services.Actor) (ListUsersQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListUsersQuery{}, err
	}
	return ListUsersQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

// NewListDeliveryUsersQuery lists the accounts orders can be assigned to.
func NewListDeliveryUsersQuery(actor services.Actor) (ListUsersQuery, error) {
	q, err := NewListUsersQuery(actor)
	if err != nil {
		return ListUsersQuery{}, err
	}
	role := user.RoleDelivery
	q.role = &role
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ListUsersQuery) Validate() error {
	return q.guard.Validate(ErrListUsersQueryIsNotConstructed)
}

type ListUsersQueryHandler struct {
	db *gorm.DB
}

func NewListUsersQueryHandler(db *gorm.DB) ListUsersQueryHandler {
	return ListUsersQueryHandler{db: db}
}

// Handle is admin only.
func (h ListUsersQueryHandler) Handle(ctx context.Context, query ListUsersQuery) ([]UserView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := services.RequireAdmin(query.actor, "list users"); err != nil {
		return nil, err
	}

	db := h.db.WithContext(ctx).Table("users")
	if query.role != nil {
		db = db.Where("role = ?", query.role.String())
	}

	var rows []userRow
	if err := db.Order("name").Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}

	users := make([]UserView, 0, len(rows))
	for _, row := range rows {
		view, err := row.toView()
		if err != nil {
			return nil, err
		}
		users = append(users, view)
	}
	return users, nil
}
