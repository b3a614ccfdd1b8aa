package http

import (
	"time"

	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/user"
)

// UploadsPrefix is the URL under which stored images are served.
const UploadsPrefix = "/uploads"

// OrderDTO is the JSON form of an order.
type OrderDTO struct {
	ID                 string          `json:"id"`
	OrderNumber        string          `json:"orderNumber"`
	CreatorID          string          `json:"userId"`
	SenderName         string          `json:"senderName"`
	SenderPhone        string          `json:"senderPhone"`
	ReceiverName       string          `json:"receiverName"`
	ReceiverPhone      string          `json:"receiverPhone"`
	Address            string          `json:"address"`
	PackageType        string          `json:"packageType"`
	Weight             float64         `json:"weight"`
	Notes              string          `json:"notes,omitempty"`
	IsCollection       bool            `json:"isCollection"`
	CollectionPrice    *float64        `json:"collectionPrice"`
	PackageImageURL    string          `json:"packageImageUrl,omitempty"`
	Status             string          `json:"status"`
	DeliveryUserID     *string         `json:"deliveryUserId"`
	ShippingFee        *float64        `json:"shippingFee"`
	DeliveryNotes      string          `json:"deliveryNotes,omitempty"`
	ActualDeliveryDate *time.Time      `json:"actualDeliveryDate"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	Creator            *UserSummaryDTO `json:"user,omitempty"`
	DeliveryUser       *UserSummaryDTO `json:"deliveryUser,omitempty"`
}

// UserSummaryDTO is the account shown next to an order.
type UserSummaryDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// UserDTO is the JSON form of an account. The password hash never leaves the service.
type UserDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email,omitempty"`
	Address         string    `json:"address"`
	Role            string    `json:"role"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type orderResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Order   OrderDTO `json:"order"`
}

type ordersResponse struct {
	Success bool       `json:"success"`
	Orders  []OrderDTO `json:"orders"`
}

type userResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	User    UserDTO `json:"user"`
}

type usersResponse struct {
	Success bool      `json:"success"`
	Users   []UserDTO `json:"users"`
}

type loginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserDTO   `json:"user"`
}

func imageURL(ref string) string {
	if ref == "" {
		return ""
	}
	return UploadsPrefix + "/" + ref
}

func moneyPtr(m *kernel.Money) *float64 {
	if m == nil {
		return nil
	}
	v := m.Float()
	return &v
}

func idPtr(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func orderFromAggregate(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:                 o.ID().String(),
		OrderNumber:        o.Number(),
		CreatorID:          o.CreatorID().String(),
		SenderName:         o.Sender().Name(),
		SenderPhone:        o.Sender().Phone().String(),
		ReceiverName:       o.Receiver().Name(),
		ReceiverPhone:      o.Receiver().Phone().String(),
		Address:            o.Address(),
		PackageType:        o.PackageType(),
		Weight:             o.Weight(),
		Notes:              o.Notes(),
		IsCollection:       o.Collection().IsCollection(),
		CollectionPrice:    moneyPtr(o.Collection().Price()),
		PackageImageURL:    imageURL(o.PackageImage()),
		Status:             o.Status().String(),
		DeliveryUserID:     idPtr(o.DeliveryUserID()),
		ShippingFee:        moneyPtr(o.ShippingFee()),
		DeliveryNotes:      o.DeliveryNotes(),
		ActualDeliveryDate: o.ActualDeliveryDate(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
	}
}

func orderFromView(v queries.OrderView) OrderDTO {
	dto := OrderDTO{
		ID:                 v.ID.String(),
		OrderNumber:        v.Number,
		CreatorID:          v.Creator.ID.String(),
		SenderName:         v.Sender.Name,
		SenderPhone:        v.Sender.Phone,
		ReceiverName:       v.Receiver.Name,
		ReceiverPhone:      v.Receiver.Phone,
		Address:            v.Address,
		PackageType:        v.PackageType,
		Weight:             v.Weight,
		Notes:              v.Notes,
		IsCollection:       v.IsCollection,
		CollectionPrice:    moneyPtr(v.CollectionPrice),
		PackageImageURL:    imageURL(v.PackageImage),
		Status:             v.Status.String(),
		ShippingFee:        moneyPtr(v.ShippingFee),
		DeliveryNotes:      v.DeliveryNotes,
		ActualDeliveryDate: v.ActualDeliveryDate,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}

	creator := summaryFromView(v.Creator)
	dto.Creator = &creator
	if v.DeliveryUser != nil {
		assignee := summaryFromView(*v.DeliveryUser)
		dto.DeliveryUser = &assignee
		dto.DeliveryUserID = &assignee.ID
	}
	return dto
}

func ordersFromViews(views []queries.OrderView) []OrderDTO {
	out := make([]OrderDTO, 0, len(views))
	for _, v := range views {
		out = append(out, orderFromView(v))
	}
	return out
}

func summaryFromView(s queries.UserSummary) UserSummaryDTO {
	return UserSummaryDTO{ID: s.ID.String(), Name: s.Name, ProfileImageURL: imageURL(s.ProfileImage)}
}

func userFromAggregate(u *user.User) UserDTO {
	return UserDTO{
		ID:              u.ID().String(),
		Name:            u.Name(),
		Phone:           u.Phone().String(),
		Email:           u.Email(),
		Address:         u.Address(),
		Role:            u.Role().String(),
		ProfileImageURL: imageURL(u.ProfileImage()),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
	}
}

func userFromView(v queries.UserView) UserDTO {
	return UserDTO{
		ID:              v.ID.String(),
		Name:            v.Name,
		Phone:           v.Phone,
		Email:           v.Email,
		Address:         v.Address,
		Role:            v.Role.String(),
		ProfileImageURL: imageURL(v.ProfileImage),
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func usersFromViews(views []queries.UserView) []UserDTO {
	out := make([]UserDTO, 0, len(views))
	for _, v := range views {
		out = append(out, userFromView(v))
	}
	return out
}
