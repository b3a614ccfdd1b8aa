package queries

import (
	"context"
	"errors"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/errs"
	"shipping/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")
)

// GetOrderQuery reads one order with its participants.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	actor   services.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(actor services.Actor, orderID kernel.UUID) (GetOrderQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// GetOrderQueryHandler answers NotFound for unknown or deleted orders and
// Forbidden for orders the actor neither placed nor was assigned.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	views, err := findOrders(ctx, h.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", query.orderID.Bytes()).Limit(1)
	})
	if err != nil {
		return OrderView{}, err
	}
	if len(views) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.orderID.String())
	}

	view := views[0]
	var deliveryUserID *kernel.UUID
	if view.DeliveryUser != nil {
		deliveryUserID = &view.DeliveryUser.ID
	}
	if err = services.CanViewOrder(query.actor, view.Number, view.Creator.ID, deliveryUserID); err != nil {
		return OrderView{}, err
	}

	return view, nil
}
