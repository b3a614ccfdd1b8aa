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
	ErrGetUserQueryIsNotConstructed = errors.New("GetUserQuery must be created via NewGetUserQuery constructor")
)

// GetUserQuery reads an account profile. Users read themselves, admins anyone.
type GetUserQuery struct { //nolint:recvcheck //using for validation
	actor  services.Actor
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetUserQuery(actor services.Actor, userID kernel.UUID) (GetUserQuery, error) {
	if err := errors.Join(actor.Validate(), userID.Validate()); err != nil {
		return GetUserQuery{}, err
	}
	return GetUserQuery{actor: actor, userID: userID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUserQuery) Validate() error {
	return q.guard.Validate(ErrGetUserQueryIsNotConstructed)
}

type GetUserQueryHandler struct {
	db *gorm.DB
}

func NewGetUserQueryHandler(db *gorm.DB) GetUserQueryHandler {
	return GetUserQueryHandler{db: db}
}

func (h GetUserQueryHandler) Handle(ctx context.Context, query GetUserQuery) (UserView, error) {
	if err := query.Validate(); err != nil {
		return UserView{}, err
	}
	if err := services.CanAccessAccount(query.actor, query.userID); err != nil {
		return UserView{}, err
	}

	var rows []userRow
	err := h.db.WithContext(ctx).Table("users").Where("id = ?", query.userID.Bytes()).Limit(1).Find(&rows).Error
	if err != nil {
		return UserView{}, err
	}
	if len(rows) == 0 {
		return UserView{}, errs.NewObjectNotFoundError("user", query.userID.String())
	}

	return rows[0].toView()
}
