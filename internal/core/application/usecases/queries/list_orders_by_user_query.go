package queries

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrListOrdersByUserQueryIsNotConstructed = errors.New(
		"ListOrdersByUserQuery must be created via NewListOrdersByUserQuery constructor",
	)
)

// ListOrdersByUserQuery lists the orders a user placed. Users read their own, admins anyone's.
type ListOrdersByUserQuery struct { //nolint:recvcheck //using for validation
	actor  services.Actor
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListOrdersByUserQuery(actor services.Actor, userID kernel.UUID) (ListOrdersByUserQuery, error) {
	if err := errors.Join(actor.Validate(), userID.Validate()); err != nil {
		return ListOrdersByUserQuery{}, err
	}
	return ListOrdersByUserQuery{actor: actor, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersByUserQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersByUserQueryIsNotConstructed)
}

type ListOrdersByUserQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersByUserQueryHandler(db *gorm.DB) ListOrdersByUserQueryHandler {
	return ListOrdersByUserQueryHandler{db: db}
}

// Handle returns the user's orders newest first.
func (h ListOrdersByUserQueryHandler) Handle(ctx context.Context, query ListOrdersByUserQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := services.CanAccessAccount(query.actor, query.userID); err != nil {
		return nil, err
	}

	return findOrders(ctx, h.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("creator_id = ?", query.userID.Bytes())
	})
}
