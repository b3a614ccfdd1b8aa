package queries

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New("ListOrdersQuery must be created via NewListOrdersQuery constructor")
)

// ListOrdersQuery lists the orders visible to the actor:
// admins see every order, delivery users the orders assigned to them and
// everybody else the orders they placed.
//
// Example:
//
//	status := order.Submitted
//	query, err := NewListOrdersQuery(actor, &status)
//	orders, err := NewListOrdersQueryHandler(db).Handle(ctx, query)
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	actor  services.Actor
	status *order.Status

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates the query. status is an optional filter.
func NewListOrdersQuery(actor services.Actor, status *order.Status) (ListOrdersQuery, error) {
	var statusErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if err := errors.Join(actor.Validate(), statusErr); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, status: status, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// ListOrdersQueryHandler reads orders newest first.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order listings.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns the visible orders; an empty slice when there are none.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return findOrders(ctx, h.db, func(db *gorm.DB) *gorm.DB {
		switch query.actor.Role {
		case user.RoleAdmin:
		case user.RoleDelivery:
			db = db.Where("delivery_user_id = ?", query.actor.ID.Bytes())
		default:
			db = db.Where("creator_id = ?", query.actor.ID.Bytes())
		}
		if query.status != nil {
			db = db.Where("status = ?", query.status.String())
		}
		return db
	})
}
