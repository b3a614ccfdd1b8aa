package queries

import (
	"context"
	"errors"
	"fmt"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/pkg/guard"

	"gorm.io/gorm"
)

var (
	ErrCountOrdersByStatusQueryIsNotConstructed = errors.New(
		"CountOrdersByStatusQuery must be created via NewCountOrdersByStatusQuery constructor",
	)
)

// CountOrdersByStatusQuery counts live orders per status for monitoring.
// It is issued by the system, not by a user, so it carries no actor.
type CountOrdersByStatusQuery struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

func NewCountOrdersByStatusQuery() CountOrdersByStatusQuery {
	return CountOrdersByStatusQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q CountOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrCountOrdersByStatusQueryIsNotConstructed)
}

type CountOrdersByStatusQueryHandler struct {
	db *gorm.DB
}

func NewCountOrdersByStatusQueryHandler(db *gorm.DB) CountOrdersByStatusQueryHandler {
	return CountOrdersByStatusQueryHandler{db: db}
}

// Handle returns a count for every canonical status, zero included.
func (h CountOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query CountOrdersByStatusQuery,
) (map[order.Status]int64, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Total  int64
	}
	err := liveOrders(h.db.WithContext(ctx)).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}

	counts := make(map[order.Status]int64, len(order.AllStatuses()))
	for _, status := range order.AllStatuses() {
		counts[status] = 0
	}
	for _, row := range rows {
		status, parseErr := order.ParseStatus(row.Status)
		if parseErr != nil {
			return nil, parseErr
		}
		counts[status] = row.Total
	}
	return counts, nil
}
