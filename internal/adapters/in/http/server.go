// Package http is the echo adapter exposing the shipping API.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateOrder       commands.CreateOrderCommandHandler
	AssignDelivery    commands.AssignDeliveryCommandHandler
	UpdateOrderStatus commands.UpdateOrderStatusCommandHandler
	CancelOrder       commands.CancelOrderCommandHandler
	DeleteOrder       commands.DeleteOrderCommandHandler

	RegisterUser   commands.RegisterUserCommandHandler
	Login          commands.LoginCommandHandler
	Logout         commands.LogoutCommandHandler
	UpdateProfile  commands.UpdateProfileCommandHandler
	ChangeUserRole commands.ChangeUserRoleCommandHandler
	DeleteUser     commands.DeleteUserCommandHandler

	ListOrders       queries.ListOrdersQueryHandler
	ListOrdersByUser queries.ListOrdersByUserQueryHandler
	GetOrder         queries.GetOrderQueryHandler
	GetUser          queries.GetUserQueryHandler
	ListUsers        queries.ListUsersQueryHandler
}

// Server handles HTTP requests by mapping them onto commands and queries.
type Server struct {
	handlers Handlers
	issuer   ports.TokenIssuer
	denylist ports.TokenDenylist
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, issuer ports.TokenIssuer, denylist ports.TokenDenylist, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		issuer:   issuer,
		denylist: denylist,
		logger:   logger.With("component", "http"),
		now:      time.Now,
	}
}

// RegisterRoutes mounts the API on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/", s.Banner)
	e.GET("/health", s.Health)

	auth := Authenticate(s.issuer, s.denylist, s.logger)
	admin := RequireRoles(s.logger, user.RoleAdmin)

	users := e.Group("/users")
	users.POST("/new", s.RegisterUser)
	users.POST("/register", s.RegisterUser)
	users.POST("/login", s.Login)
	users.POST("/logout", s.Logout, auth)
	users.GET("/getall", s.ListUsers, auth, admin)
	users.GET("/delivery", s.ListDeliveryUsers, auth, admin)
	users.GET("/:id", s.GetUser, auth)
	users.PUT("/:id/editprofile", s.UpdateProfile, auth)
	users.PUT("/:id/role", s.ChangeUserRole, auth, admin)
	users.DELETE("/delete/:id", s.DeleteUser, auth, admin)

	orders := e.Group("/orders", auth)
	orders.POST("/new", s.CreateOrder)
	orders.GET("", s.ListOrders)
	orders.GET("/getall", s.ListOrders)
	orders.GET("/user/:userId", s.ListOrdersByUser)
	orders.GET("/:id", s.GetOrder)
	orders.PUT("/:id/status", s.UpdateOrderStatus)
	orders.PUT("/:id/assign-delivery", s.AssignDelivery, admin)
	orders.PUT("/:id/delivery-status", s.UpdateOrderStatus, RequireRoles(s.logger, user.RoleDelivery, user.RoleAdmin))
	orders.PUT("/:id/cancel", s.CancelOrder)
	orders.DELETE("/:id", s.DeleteOrder, admin)
}

type bannerResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Banner handles GET /.
func (s *Server) Banner(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, bannerResponse{
		Message: "Shipping Management API",
		Version: APIVersion,
		Status:  "running",
	})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "Server is running",
		Timestamp: s.now().UTC(),
	})
}
