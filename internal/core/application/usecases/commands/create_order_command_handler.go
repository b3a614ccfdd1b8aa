package commands

import (
	"context"
	"log/slog"
	"time"

	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
//
// The optional package image is stored before the transaction starts. If the
// order cannot be persisted afterwards the image is deleted again, so no
// upload outlives a failed request.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	storage    ports.ImageStorage
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	storage ports.ImageStorage,
	lifecycle services.OrderLifecycle,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		storage:    storage,
		lifecycle:  lifecycle,
		logger:     loggerOrDefault(logger),
	}
}

// Handle validates the actor and the order, stores the image and persists the order in Pending.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.lifecycle.CanCreate(cmd.Actor()); err != nil {
		return nil, err
	}

	created, err := order.NewOrder(
		cmd.OrderID(),
		cmd.Actor().ID,
		cmd.Sender(),
		cmd.Receiver(),
		cmd.Address(),
		cmd.PackageType(),
		cmd.Weight(),
		cmd.Notes(),
		cmd.Collection(),
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	if cmd.Image() != nil {
		ref, storeErr := h.storage.Store(ctx, ports.PackageImage, *cmd.Image())
		if storeErr != nil {
			return nil, storeErr
		}
		created.AttachPackageImage(ref)
	}

	if err = h.persist(ctx, created); err != nil {
		discardImage(ctx, h.storage, h.logger, created.PackageImage())
		return nil, err
	}

	return created, nil
}

func (h CreateOrderCommandHandler) persist(ctx context.Context, created *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, created); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
