package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

type createOrderRequest struct {
	SenderName      string      `json:"senderName" form:"senderName"`
	SenderPhone     string      `json:"senderPhone" form:"senderPhone"`
	ReceiverName    string      `json:"receiverName" form:"receiverName"`
	ReceiverPhone   string      `json:"receiverPhone" form:"receiverPhone"`
	Address         string      `json:"address" form:"address"`
	PackageType     string      `json:"packageType" form:"packageType"`
	Weight          json.Number `json:"weight" form:"weight"`
	Notes           string      `json:"notes" form:"notes"`
	IsCollection    bool        `json:"isCollection" form:"isCollection"`
	CollectionPrice json.Number `json:"collectionPrice" form:"collectionPrice"`
}

type updateStatusRequest struct {
	Status        string `json:"status" form:"status"`
	DeliveryNotes string `json:"deliveryNotes" form:"deliveryNotes"`
	Notes         string `json:"notes" form:"notes"`
}

func (r updateStatusRequest) notes() string {
	if r.DeliveryNotes != "" {
		return r.DeliveryNotes
	}
	return r.Notes
}

type assignDeliveryRequest struct {
	DeliveryUserID string      `json:"deliveryUserId" form:"deliveryUserId"`
	ShippingFee    json.Number `json:"shippingFee" form:"shippingFee"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason" form:"reason"`
}

// CreateOrder handles POST /orders/new. The body is multipart with an optional packageImage.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	var req createOrderRequest
	if err = bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	image, closeImage, err := upload(ctx, "packageImage")
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	defer closeImage()

	sender, senderErr := contactFrom("sender", req.SenderName, req.SenderPhone)
	receiver, receiverErr := contactFrom("receiver", req.ReceiverName, req.ReceiverPhone)
	weight, weightErr := parseWeight(req.Weight.String())
	collection, collectionErr := collectionFrom(req.IsCollection, req.CollectionPrice.String())
	if err = errors.Join(senderErr, receiverErr, weightErr, collectionErr); err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		actor, kernel.NewUUID(), sender, receiver,
		req.Address, req.PackageType, weight, req.Notes, collection, image,
	)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return s.respondOrder(ctx, http.StatusCreated, actor, created, "Order created successfully")
}

// ListOrders handles GET /orders with an optional ?status= filter.
func (s *Server) ListOrders(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	status, err := statusQuery(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	query, err := queries.NewListOrdersQuery(actor, status)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	views, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, ordersResponse{Success: true, Orders: ordersFromViews(views)})
}

// ListOrdersByUser handles GET /orders/user/:userId.
func (s *Server) ListOrdersByUser(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	userID, err := pathUUID(ctx, "userId")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	query, err := queries.NewListOrdersByUserQuery(actor, userID)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	views, err := s.handlers.ListOrdersByUser.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, ordersResponse{Success: true, Orders: ordersFromViews(views)})
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	query, err := queries.NewGetOrderQuery(actor, orderID)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, orderResponse{Success: true, Order: orderFromView(view)})
}

// UpdateOrderStatus handles PUT /orders/:id/status and PUT /orders/:id/delivery-status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	var req updateStatusRequest
	if err = bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actor, orderID, status, req.notes())
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	updated, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return s.respondOrder(ctx, http.StatusOK, actor, updated, "Order status updated to "+updated.Status().String())
}

// AssignDelivery handles PUT /orders/:id/assign-delivery.
func (s *Server) AssignDelivery(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	var req assignDeliveryRequest
	if err = bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	deliveryUserID, idErr := kernel.UUIDFromString(req.DeliveryUserID)
	if idErr != nil {
		idErr = errInvalid("deliveryUserId", idErr)
	}
	fee, feeErr := kernel.ParseMoney(req.ShippingFee.String())
	if err = errors.Join(idErr, feeErr); err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewAssignDeliveryCommand(actor, orderID, deliveryUserID, fee)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	assigned, err := s.handlers.AssignDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return s.respondOrder(ctx, http.StatusOK, actor, assigned, "Order assigned to delivery")
}

// CancelOrder handles PUT /orders/:id/cancel with an optional reason.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	var req cancelOrderRequest
	if err = bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewCancelOrderCommand(actor, orderID, req.Reason)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cancelled, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return s.respondOrder(ctx, http.StatusOK, actor, cancelled, "Order cancelled")
}

// DeleteOrder handles DELETE /orders/:id.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(actor, orderID)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	if err = s.handlers.DeleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, messageResponse{Success: true, Message: "Order deleted"})
}

// respondOrder re-reads a changed order so the response carries participant
// names. When that fails the aggregate itself is returned.
func (s *Server) respondOrder(ctx echo.Context, status int, actor services.Actor, o *order.Order, message string) error {
	dto := orderFromAggregate(o)

	query, err := queries.NewGetOrderQuery(actor, o.ID())
	if err == nil {
		var view queries.OrderView
		view, err = s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
		if err == nil {
			dto = orderFromView(view)
		}
	}
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "failed to reload order", "order_id", o.ID().String(), "error", err)
	}

	return ctx.JSON(status, orderResponse{Success: true, Message: message, Order: dto})
}

func contactFrom(role, name, rawPhone string) (order.Contact, error) {
	phone, err := kernel.NewPhone(rawPhone)
	if err != nil {
		return order.Contact{}, fmt.Errorf("%s phone: %w", role, err)
	}
	return order.NewContact(role, name, phone)
}

func collectionFrom(isCollection bool, rawPrice string) (order.Collection, error) {
	price, err := optionalMoney(rawPrice)
	if err != nil {
		return order.Collection{}, err
	}
	return order.NewCollection(isCollection, price)
}
