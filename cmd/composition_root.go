package cmd

import (
	"log/slog"
	"time"

	httpin "shipping/internal/adapters/in/http"
	"shipping/internal/adapters/out/postgres"
	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"

	"gorm.io/gorm"
)

// Adapters are the outbound implementations chosen at startup.
type Adapters struct {
	Storage   ports.ImageStorage
	Hasher    ports.PasswordHasher
	Issuer    ports.TokenIssuer
	Denylist  ports.TokenDenylist
	Publisher ports.EventPublisher
}

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	adapters   Adapters
	lifecycle  services.OrderLifecycle
	logger     *slog.Logger
}

func NewCompositionRoot(gormDB *gorm.DB, adapters Adapters, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, adapters.Publisher, logger),
		adapters:   adapters,
		lifecycle:  services.NewOrderLifecycle(time.Now),
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uowFactoryForAll() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.adapters.Storage, c.lifecycle, c.logger)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(c.uowFactoryForAll(), c.lifecycle)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.lifecycle)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.lifecycle)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRegisterUserCommandHandler() commands.RegisterUserCommandHandler {
	return commands.NewRegisterUserCommandHandler(c.userUoWFactory(), c.adapters.Hasher, c.adapters.Storage, c.logger)
}

func (c *CompositionRoot) CreateLoginCommandHandler() commands.LoginCommandHandler {
	return commands.NewLoginCommandHandler(c.userUoWFactory(), c.adapters.Hasher, c.adapters.Issuer)
}

func (c *CompositionRoot) CreateLogoutCommandHandler() commands.LogoutCommandHandler {
	return commands.NewLogoutCommandHandler(c.adapters.Denylist)
}

func (c *CompositionRoot) CreateUpdateProfileCommandHandler() commands.UpdateProfileCommandHandler {
	return commands.NewUpdateProfileCommandHandler(c.userUoWFactory(), c.adapters.Hasher, c.adapters.Storage, c.logger)
}

func (c *CompositionRoot) CreateChangeUserRoleCommandHandler() commands.ChangeUserRoleCommandHandler {
	return commands.NewChangeUserRoleCommandHandler(c.userUoWFactory())
}

func (c *CompositionRoot) CreateDeleteUserCommandHandler() commands.DeleteUserCommandHandler {
	return commands.NewDeleteUserCommandHandler(c.userUoWFactory(), c.adapters.Storage, c.logger)
}

func (c *CompositionRoot) CreateSeedAdminCommandHandler() commands.SeedAdminCommandHandler {
	return commands.NewSeedAdminCommandHandler(c.userUoWFactory(), c.adapters.Hasher)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersByUserQueryHandler() queries.ListOrdersByUserQueryHandler {
	return queries.NewListOrdersByUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUserQueryHandler() queries.GetUserQueryHandler {
	return queries.NewGetUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListUsersQueryHandler() queries.ListUsersQueryHandler {
	return queries.NewListUsersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCountOrdersByStatusQueryHandler() queries.CountOrdersByStatusQueryHandler {
	return queries.NewCountOrdersByStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateReferencedImagesQueryHandler() queries.ReferencedImagesQueryHandler {
	return queries.NewReferencedImagesQueryHandler(c.gormDB)
}

// HTTPHandlers wires every use case the HTTP server dispatches to.
func (c *CompositionRoot) HTTPHandlers() httpin.Handlers {
	return httpin.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		AssignDelivery:    c.CreateAssignDeliveryCommandHandler(),
		UpdateOrderStatus: c.CreateUpdateOrderStatusCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		DeleteOrder:       c.CreateDeleteOrderCommandHandler(),
		RegisterUser:      c.CreateRegisterUserCommandHandler(),
		Login:             c.CreateLoginCommandHandler(),
		Logout:            c.CreateLogoutCommandHandler(),
		UpdateProfile:     c.CreateUpdateProfileCommandHandler(),
		ChangeUserRole:    c.CreateChangeUserRoleCommandHandler(),
		DeleteUser:        c.CreateDeleteUserCommandHandler(),
		ListOrders:        c.CreateListOrdersQueryHandler(),
		ListOrdersByUser:  c.CreateListOrdersByUserQueryHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),
		GetUser:           c.CreateGetUserQueryHandler(),
		ListUsers:         c.CreateListUsersQueryHandler(),
	}
}

// NewHTTPServer builds the HTTP adapter on top of the wired handlers.
func (c *CompositionRoot) NewHTTPServer() *httpin.Server {
	return httpin.NewServer(c.HTTPHandlers(), c.adapters.Issuer, c.adapters.Denylist, c.logger)
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
