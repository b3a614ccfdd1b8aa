// Package orderrepo persists order aggregates with GORM.
// Rows are soft-deleted through deleted_at and written with an optimistic
// version check, so every read hides deleted rows and every update is conditional.
package orderrepo

import (
	"time"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders table row.
type OrderDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number    string     `gorm:"size:40;not null;uniqueIndex"`
	CreatorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Sender    ContactDTO `gorm:"embedded;embeddedPrefix:sender_"`
	Receiver  ContactDTO `gorm:"embedded;embeddedPrefix:receiver_"`

	Address     string  `gorm:"not null"`
	PackageType string  `gorm:"size:100;not null"`
	Weight      float64 `gorm:"not null"`
	Notes       string

	IsCollection         bool
	CollectionPriceCents *int64

	PackageImage string

	Status             string     `gorm:"size:20;not null;index"`
	DeliveryUserID     *uuid.UUID `gorm:"type:uuid;index"`
	ShippingFeeCents   *int64
	DeliveryNotes      string
	ActualDeliveryDate *time.Time

	CreatedAt time.Time  `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime:false"`
	DeletedAt *time.Time `gorm:"index"`
	Version   int        `gorm:"not null;default:0"`
}

// TableName pins the table to "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ContactDTO is the embedded sender or receiver.
type ContactDTO struct {
	Name  string `gorm:"size:100;not null"`
	Phone string `gorm:"size:25;not null"`
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		Number:             aggregate.Number(),
		CreatorID:          aggregate.CreatorID().Bytes(),
		Sender:             ContactDTO{Name: aggregate.Sender().Name(), Phone: aggregate.Sender().Phone().String()},
		Receiver:           ContactDTO{Name: aggregate.Receiver().Name(), Phone: aggregate.Receiver().Phone().String()},
		Address:            aggregate.Address(),
		PackageType:        aggregate.PackageType(),
		Weight:             aggregate.Weight(),
		Notes:              aggregate.Notes(),
		IsCollection:       aggregate.Collection().IsCollection(),
		PackageImage:       aggregate.PackageImage(),
		Status:             aggregate.Status().String(),
		DeliveryNotes:      aggregate.DeliveryNotes(),
		ActualDeliveryDate: aggregate.ActualDeliveryDate(),
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
		DeletedAt:          aggregate.DeletedAt(),
		Version:            aggregate.Version(),
	}

	if price := aggregate.Collection().Price(); price != nil {
		cents := price.Cents()
		dto.CollectionPriceCents = &cents
	}
	if id := aggregate.DeliveryUserID(); id != nil {
		raw := id.Bytes()
		dto.DeliveryUserID = &raw
	}
	if fee := aggregate.ShippingFee(); fee != nil {
		cents := fee.Cents()
		dto.ShippingFeeCents = &cents
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	creatorID, err := kernel.UUIDFromBytes(dto.CreatorID[:])
	if err != nil {
		return nil, err
	}

	sender, err := contactToDomain("sender", dto.Sender)
	if err != nil {
		return nil, err
	}
	receiver, err := contactToDomain("receiver", dto.Receiver)
	if err != nil {
		return nil, err
	}

	var price *kernel.Money
	if dto.CollectionPriceCents != nil {
		m, moneyErr := kernel.NewMoneyFromCents(*dto.CollectionPriceCents)
		if moneyErr != nil {
			return nil, moneyErr
		}
		price = &m
	}
	collection, err := order.NewCollection(dto.IsCollection, price)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var deliveryUserID *kernel.UUID
	if dto.DeliveryUserID != nil {
		dID, idErr := kernel.UUIDFromBytes((*dto.DeliveryUserID)[:])
		if idErr != nil {
			return nil, idErr
		}
		deliveryUserID = &dID
	}

	var fee *kernel.Money
	if dto.ShippingFeeCents != nil {
		m, moneyErr := kernel.NewMoneyFromCents(*dto.ShippingFeeCents)
		if moneyErr != nil {
			return nil, moneyErr
		}
		fee = &m
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		Number:             dto.Number,
		CreatorID:          creatorID,
		Sender:             sender,
		Receiver:           receiver,
		Address:            dto.Address,
		PackageType:        dto.PackageType,
		Weight:             dto.Weight,
		Notes:              dto.Notes,
		Collection:         collection,
		PackageImage:       dto.PackageImage,
		Status:             status,
		DeliveryUserID:     deliveryUserID,
		ShippingFee:        fee,
		DeliveryNotes:      dto.DeliveryNotes,
		ActualDeliveryDate: utcOrNil(dto.ActualDeliveryDate),
		CreatedAt:          dto.CreatedAt.UTC(),
		UpdatedAt:          dto.UpdatedAt.UTC(),
		DeletedAt:          utcOrNil(dto.DeletedAt),
		Version:            dto.Version,
	})
}

func contactToDomain(role string, dto ContactDTO) (order.Contact, error) {
	phone, err := kernel.NewPhone(dto.Phone)
	if err != nil {
		return order.Contact{}, err
	}
	return order.NewContact(role, dto.Name, phone)
}

func utcOrNil(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
