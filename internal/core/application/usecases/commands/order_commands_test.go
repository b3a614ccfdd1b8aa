package commands_test

import (
	"bytes"
	"errors"
	"testing"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateOrderCommand(t *testing.T, actorRole user.Role, image *ports.Upload) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(
		newActor(t, actorRole),
		kernel.NewUUID(),
		newContact(t, "sender", "01000000001"),
		newContact(t, "receiver", "01000000002"),
		"12 Nile St",
		"documents",
		2.5,
		"",
		order.NoCollection(),
		image,
	)
	require.NoError(t, err)
	return cmd
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		newActor(t, user.RoleUser), kernel.UUID{}, order.Contact{}, order.Contact{},
		"", "", 0, "", order.NoCollection(), nil,
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t, user.RoleUser, nil)

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, new(MockImageStorage), lifecycle, nil)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.True(t, created.IsCreatedBy(cmd.Actor().ID))
	assert.Empty(t, created.PackageImage())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewCreateOrderCommandHandler(new(MockOrderUoWFactory), new(MockImageStorage), lifecycle, nil)

	_, err := h.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_DeliveryUserIsForbidden(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	storage := new(MockImageStorage)
	h := commands.NewCreateOrderCommandHandler(factory, storage, lifecycle, nil)

	_, err := h.Handle(t.Context(), newCreateOrderCommand(t, user.RoleDelivery, nil))

	require.ErrorIs(t, err, errs.ErrForbidden)
	factory.AssertNotCalled(t, "Create")
	storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_StoresImage(t *testing.T) {
	ctx := t.Context()
	upload := &ports.Upload{Filename: "box.png", ContentType: "image/png", Size: 3, Content: bytes.NewReader([]byte("png"))}
	cmd := newCreateOrderCommand(t, user.RoleUser, upload)

	storage := new(MockImageStorage)
	storage.On("Store", ctx, ports.PackageImage, *upload).Return("package/box-1.png", nil).Once()

	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow := new(MockUoW)
	expectTx(ctx, uow, nil)
	uow.On("OrderRepository").Return(repo).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, storage, lifecycle, nil)
	created, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "package/box-1.png", created.PackageImage())
	storage.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddErrorDeletesImage(t *testing.T) {
	ctx := t.Context()
	upload := &ports.Upload{Filename: "box.png", ContentType: "image/png", Size: 3, Content: bytes.NewReader([]byte("png"))}
	cmd := newCreateOrderCommand(t, user.RoleAdmin, upload)

	storage := new(MockImageStorage)
	storage.On("Store", ctx, ports.PackageImage, *upload).Return("package/box-1.png", nil).Once()
	storage.On("Delete", ctx, "package/box-1.png").Return(errors.New("disk gone")).Once()

	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(errors.New("add error")).Once()
	uow := new(MockUoW)
	expectTx(ctx, uow, nil)
	uow.On("OrderRepository").Return(repo).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, storage, lifecycle, nil)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	storage.AssertExpectations(t)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()

	uow := new(MockUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(factory, new(MockImageStorage), lifecycle, nil)
	_, err := h.Handle(ctx, newCreateOrderCommand(t, user.RoleUser, nil))

	require.Error(t, err)
}

func TestAssignDeliveryCommandHandler_Handle(t *testing.T) {
	admin := newActor(t, user.RoleAdmin)

	setup := func(t *testing.T, o *order.Order, candidate *user.User, candidateErr error) (*MockUoWFactory, *MockUoW, *MockOrderRepository) {
		ctx := t.Context()
		orderRepo := new(MockOrderRepository)
		orderRepo.On("Get", ctx, o.ID()).Return(o, nil).Once()
		userRepo := new(MockUserRepository)
		userRepo.On("Get", ctx, mock.Anything).Return(candidate, candidateErr).Once()

		uow := new(MockUoW)
		expectTx(ctx, uow, nil)
		uow.On("OrderRepository").Return(orderRepo).Once()
		uow.On("UserRepository").Return(userRepo).Once()
		factory := new(MockUoWFactory)
		factory.On("Create").Return(uow).Once()
		return factory, uow, orderRepo
	}

	t.Run("should assign delivery user", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, kernel.NewUUID())
		courier := newAccount(t, user.RoleDelivery, "01000000010")
		factory, uow, orderRepo := setup(t, o, courier, nil)
		orderRepo.On("Update", ctx, o).Return(nil).Once()

		cmd, err := commands.NewAssignDeliveryCommand(admin, o.ID(), courier.ID(), newMoney(t, "10"))
		require.NoError(t, err)

		result, err := commands.NewAssignDeliveryCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Submitted, result.Status())
		assert.True(t, result.IsAssignedTo(courier.ID()))
		assert.Equal(t, int64(1000), result.ShippingFee().Cents())
		uow.AssertCalled(t, "Commit", ctx)
		orderRepo.AssertExpectations(t)
	})

	t.Run("should reject non delivery user without writing", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, kernel.NewUUID())
		plain := newAccount(t, user.RoleUser, "01000000011")
		factory, uow, orderRepo := setup(t, o, plain, nil)

		cmd, err := commands.NewAssignDeliveryCommand(admin, o.ID(), plain.ID(), newMoney(t, "10"))
		require.NoError(t, err)

		_, err = commands.NewAssignDeliveryCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Pending, o.Status())
		orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", ctx)
	})

	t.Run("should report unknown delivery user as not found", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, kernel.NewUUID())
		missing := kernel.NewUUID()
		factory, _, _ := setup(t, o, nil, errs.NewObjectNotFoundError("user", missing))

		cmd, err := commands.NewAssignDeliveryCommand(admin, o.ID(), missing, newMoney(t, "10"))
		require.NoError(t, err)

		_, err = commands.NewAssignDeliveryCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should pass through user lookup failures", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, kernel.NewUUID())
		dbErr := errors.New("connection reset by peer")
		factory, uow, orderRepo := setup(t, o, nil, dbErr)

		cmd, err := commands.NewAssignDeliveryCommand(admin, o.ID(), kernel.NewUUID(), newMoney(t, "10"))
		require.NoError(t, err)

		_, err = commands.NewAssignDeliveryCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
		orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", ctx)
	})

	t.Run("should forbid non admins before any lookup", func(t *testing.T) {
		factory := new(MockUoWFactory)
		cmd, err := commands.NewAssignDeliveryCommand(newActor(t, user.RoleUser), kernel.NewUUID(), kernel.NewUUID(), newMoney(t, "1"))
		require.NoError(t, err)

		_, err = commands.NewAssignDeliveryCommandHandler(factory, lifecycle).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		factory.AssertNotCalled(t, "Create")
	})
}

func orderUoW(t *testing.T, o *order.Order, getErr error) (*MockOrderUoWFactory, *MockUoW, *MockOrderRepository) {
	t.Helper()
	ctx := t.Context()
	repo := new(MockOrderRepository)
	if getErr != nil {
		repo.On("Get", ctx, mock.Anything).Return(nil, getErr).Once()
	} else {
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	}
	uow := new(MockUoW)
	expectTx(ctx, uow, nil)
	uow.On("OrderRepository").Return(repo).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow, repo
}

func TestUpdateOrderStatusCommandHandler_Handle(t *testing.T) {
	courier := newActor(t, user.RoleDelivery)

	submitted := func(t *testing.T) *order.Order {
		o := newOrder(t, kernel.NewUUID())
		require.NoError(t, o.Assign(courier.ID, newMoney(t, "5"), o.CreatedAt()))
		return o
	}

	t.Run("assigned delivery user confirms", func(t *testing.T) {
		ctx := t.Context()
		o := submitted(t)
		factory, uow, repo := orderUoW(t, o, nil)
		repo.On("Update", ctx, o).Return(nil).Once()

		cmd, err := commands.NewUpdateOrderStatusCommand(courier, o.ID(), order.Confirmed, "")
		require.NoError(t, err)

		result, err := commands.NewUpdateOrderStatusCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, result.Status())
		uow.AssertCalled(t, "Commit", ctx)
	})

	t.Run("version conflict is returned unchanged", func(t *testing.T) {
		ctx := t.Context()
		o := submitted(t)
		factory, uow, repo := orderUoW(t, o, nil)
		repo.On("Update", ctx, o).Return(errs.NewVersionConflictError("order", o.ID(), o.Version())).Once()

		cmd, err := commands.NewUpdateOrderStatusCommand(courier, o.ID(), order.Confirmed, "")
		require.NoError(t, err)

		_, err = commands.NewUpdateOrderStatusCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrVersionConflict)
		uow.AssertNotCalled(t, "Commit", ctx)
	})

	t.Run("other delivery user is forbidden", func(t *testing.T) {
		ctx := t.Context()
		o := submitted(t)
		factory, _, repo := orderUoW(t, o, nil)

		cmd, err := commands.NewUpdateOrderStatusCommand(newActor(t, user.RoleDelivery), o.ID(), order.Confirmed, "")
		require.NoError(t, err)

		_, err = commands.NewUpdateOrderStatusCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.Submitted, o.Status())
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		id := kernel.NewUUID()
		factory, _, _ := orderUoW(t, nil, errs.NewObjectNotFoundError("order", id))

		cmd, err := commands.NewUpdateOrderStatusCommand(courier, id, order.Confirmed, "")
		require.NoError(t, err)

		_, err = commands.NewUpdateOrderStatusCommandHandler(factory, lifecycle).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("unknown status is rejected by the constructor", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(courier, kernel.NewUUID(), order.Unknown, "")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestCancelOrderCommandHandler_Handle(t *testing.T) {
	creator := newActor(t, user.RoleUser)

	t.Run("creator cancels with reason", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, creator.ID)
		factory, _, repo := orderUoW(t, o, nil)
		repo.On("Update", ctx, o).Return(nil).Once()

		cmd, err := commands.NewCancelOrderCommand(creator, o.ID(), "wrong address")
		require.NoError(t, err)

		result, err := commands.NewCancelOrderCommandHandler(factory, lifecycle).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.Cancelled, result.Status())
		assert.Equal(t, "wrong address", result.DeliveryNotes())
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		o := newOrder(t, creator.ID)
		factory, _, repo := orderUoW(t, o, nil)

		cmd, err := commands.NewCancelOrderCommand(newActor(t, user.RoleUser), o.ID(), "")
		require.NoError(t, err)

		_, err = commands.NewCancelOrderCommandHandler(factory, lifecycle).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.Pending, o.Status())
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDeleteOrderCommandHandler_Handle(t *testing.T) {
	t.Run("admin soft deletes", func(t *testing.T) {
		ctx := t.Context()
		o := newOrder(t, kernel.NewUUID())
		factory, uow, repo := orderUoW(t, o, nil)
		repo.On("Update", ctx, o).Return(nil).Once()

		cmd, err := commands.NewDeleteOrderCommand(newActor(t, user.RoleAdmin), o.ID())
		require.NoError(t, err)

		require.NoError(t, commands.NewDeleteOrderCommandHandler(factory).Handle(ctx, cmd))
		assert.True(t, o.IsDeleted())
		uow.AssertCalled(t, "Commit", ctx)
	})

	t.Run("creator may not delete", func(t *testing.T) {
		creator := newActor(t, user.RoleUser)
		factory := new(MockOrderUoWFactory)

		cmd, err := commands.NewDeleteOrderCommand(creator, kernel.NewUUID())
		require.NoError(t, err)

		err = commands.NewDeleteOrderCommandHandler(factory).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		factory.AssertNotCalled(t, "Create")
	})
}
