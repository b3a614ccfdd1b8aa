// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries read rows straight from the database into read models and never
// load aggregates; soft-deleted orders are invisible to every query.
package queries

import (
	"context"
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnknownUserName stands in for accounts that were deleted after they placed
// or were assigned an order.
const UnknownUserName = "unknown user"

// ContactView is a sender or receiver.
type ContactView struct {
	Name  string
	Phone string
}

// UserSummary is the part of an account shown next to an order.
type UserSummary struct {
	ID           kernel.UUID
	Name         string
	ProfileImage string
	// Known is false when the account no longer exists.
	Known bool
}

// OrderView is the read model of an order.
type OrderView struct {
	ID                 kernel.UUID
	Number             string
	Sender             ContactView
	Receiver           ContactView
	Address            string
	PackageType        string
	Weight             float64
	Notes              string
	IsCollection       bool
	CollectionPrice    *kernel.Money
	PackageImage       string
	Status             order.Status
	ShippingFee        *kernel.Money
	DeliveryNotes      string
	ActualDeliveryDate *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Creator      UserSummary
	DeliveryUser *UserSummary
}

// UserView is the read model of an account. It never carries the password hash.
type UserView struct {
	ID           kernel.UUID
	Name         string
	Phone        string
	Email        string
	Address      string
	Role         user.Role
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type orderRow struct {
	ID                   uuid.UUID
	Number               string
	CreatorID            uuid.UUID
	SenderName           string
	SenderPhone          string
	ReceiverName         string
	ReceiverPhone        string
	Address              string
	PackageType          string
	Weight               float64
	Notes                string
	IsCollection         bool
	CollectionPriceCents *int64
	PackageImage         string
	Status               string
	DeliveryUserID       *uuid.UUID
	ShippingFeeCents     *int64
	DeliveryNotes        string
	ActualDeliveryDate   *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type userRow struct {
	ID           uuid.UUID
	Name         string
	Phone        string
	Email        *string
	Address      string
	Role         string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// liveOrders scopes a query to orders that were not soft-deleted.
func liveOrders(db *gorm.DB) *gorm.DB {
	return db.Table("orders").Where("deleted_at IS NULL")
}

// findOrders runs the scoped query newest first and attaches participant summaries.
func findOrders(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB) ([]OrderView, error) {
	var rows []orderRow
	err := scope(liveOrders(db.WithContext(ctx))).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	userIDs := make([]uuid.UUID, 0, len(rows)*2)
	for _, row := range rows {
		view, convErr := row.toView()
		if convErr != nil {
			return nil, convErr
		}
		views = append(views, view)

		userIDs = append(userIDs, row.CreatorID)
		if row.DeliveryUserID != nil {
			userIDs = append(userIDs, *row.DeliveryUserID)
		}
	}

	summaries, err := loadSummaries(ctx, db, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Creator = summaries.resolve(views[i].Creator.ID)
		if views[i].DeliveryUser != nil {
			assignee := summaries.resolve(views[i].DeliveryUser.ID)
			views[i].DeliveryUser = &assignee
		}
	}

	return views, nil
}

type summaryIndex map[uuid.UUID]UserSummary

func (s summaryIndex) resolve(id kernel.UUID) UserSummary {
	if summary, ok := s[id.Bytes()]; ok {
		return summary
	}
	return UserSummary{ID: id, Name: UnknownUserName}
}

func loadSummaries(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (summaryIndex, error) {
	index := make(summaryIndex, len(ids))
	if len(ids) == 0 {
		return index, nil
	}

	var rows []userRow
	if err := db.WithContext(ctx).Table("users").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		index[row.ID] = UserSummary{ID: id, Name: row.Name, ProfileImage: row.ProfileImage, Known: true}
	}
	return index, nil
}

func (r orderRow) toView() (OrderView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderView{}, err
	}
	creatorID, err := kernel.UUIDFromBytes(r.CreatorID[:])
	if err != nil {
		return OrderView{}, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return OrderView{}, err
	}
	price, err := centsToMoney(r.CollectionPriceCents)
	if err != nil {
		return OrderView{}, err
	}
	fee, err := centsToMoney(r.ShippingFeeCents)
	if err != nil {
		return OrderView{}, err
	}

	view := OrderView{
		ID:                 id,
		Number:             r.Number,
		Sender:             ContactView{Name: r.SenderName, Phone: r.SenderPhone},
		Receiver:           ContactView{Name: r.ReceiverName, Phone: r.ReceiverPhone},
		Address:            r.Address,
		PackageType:        r.PackageType,
		Weight:             r.Weight,
		Notes:              r.Notes,
		IsCollection:       r.IsCollection,
		CollectionPrice:    price,
		PackageImage:       r.PackageImage,
		Status:             status,
		ShippingFee:        fee,
		DeliveryNotes:      r.DeliveryNotes,
		ActualDeliveryDate: r.ActualDeliveryDate,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
		Creator:            UserSummary{ID: creatorID, Name: UnknownUserName},
	}

	if r.DeliveryUserID != nil {
		deliveryUserID, idErr := kernel.UUIDFromBytes((*r.DeliveryUserID)[:])
		if idErr != nil {
			return OrderView{}, idErr
		}
		view.DeliveryUser = &UserSummary{ID: deliveryUserID, Name: UnknownUserName}
	}

	return view, nil
}

func (r userRow) toView() (UserView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return UserView{}, err
	}
	role, err := user.ParseRole(r.Role)
	if err != nil {
		return UserView{}, err
	}

	var email string
	if r.Email != nil {
		email = *r.Email
	}

	return UserView{
		ID:           id,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        email,
		Address:      r.Address,
		Role:         role,
		ProfileImage: r.ProfileImage,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}, nil
}

func centsToMoney(cents *int64) (*kernel.Money, error) {
	if cents == nil {
		return nil, nil
	}
	m, err := kernel.NewMoneyFromCents(*cents)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
