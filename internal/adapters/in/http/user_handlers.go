package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Phone    string `json:"phone" form:"phone"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Address  string `json:"address" form:"address"`
}

type loginRequest struct {
	EmailOrPhone string `json:"emailOrPhone" form:"emailOrPhone"`
	Password     string `json:"password" form:"password"`
}

type changeRoleRequest struct {
	Role string `json:"role" form:"role"`
}

// profileFields are the editable account fields. Absent means unchanged.
var profileFields = []string{"name", "phone", "email", "address", "password"}

// RegisterUser handles POST /users/new. The body is multipart with an optional profileImage.
func (s *Server) RegisterUser(ctx echo.Context) error {
	var req registerRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	image, closeImage, err := upload(ctx, "profileImage")
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	defer closeImage()

	phone, err := kernel.NewPhone(req.Phone)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewRegisterUserCommand(req.Name, phone, req.Email, req.Password, req.Address, image)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	created, err := s.handlers.RegisterUser.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusCreated, userResponse{
		Success: true,
		Message: "Account created successfully",
		User:    userFromAggregate(created),
	})
}

// Login handles POST /users/login.
func (s *Server) Login(ctx echo.Context) error {
	var req loginRequest
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewLoginCommand(req.EmailOrPhone, req.Password)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	result, err := s.handlers.Login.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Message:   "logged in successfully",
		Token:     result.Token.Value,
		ExpiresAt: result.Token.ExpiresAt,
		User:      userFromAggregate(result.User),
	})
}

// Logout handles POST /users/logout by revoking the presented token.
func (s *Server) Logout(ctx echo.Context) error {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return fail(ctx, s.logger, errs.NewUnauthenticatedError("access denied, token is required"))
	}

	cmd, err := commands.NewLogoutCommand(claims)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	if err = s.handlers.Logout.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, messageResponse{Success: true, Message: "logged out"})
}

// ListUsers handles GET /users/getall.
func (s *Server) ListUsers(ctx echo.Context) error {
	return s.listUsers(ctx, queries.NewListUsersQuery)
}

// ListDeliveryUsers handles GET /users/delivery.
func (s *Server) ListDeliveryUsers(ctx echo.Context) error {
	return s.listUsers(ctx, queries.NewListDeliveryUsersQuery)
}

func (s *Server) listUsers(
	ctx echo.Context,
	newQuery func(actor services.Actor) (queries.ListUsersQuery, error),
) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	query, err := newQuery(actor)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	views, err := s.handlers.ListUsers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, usersResponse{Success: true, Users: usersFromViews(views)})
}

// GetUser handles GET /users/:id.
func (s *Server) GetUser(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	userID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	query, err := queries.NewGetUserQuery(actor, userID)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	view, err := s.handlers.GetUser.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, userResponse{Success: true, User: userFromView(view)})
}

// UpdateProfile handles PUT /users/:id/editprofile. Only the fields present in the
// body are changed; a profileImage file replaces the current image.
func (s *Server) UpdateProfile(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	userID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	fields, err := presentFields(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	image, closeImage, err := upload(ctx, "profileImage")
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	defer closeImage()

	changes, err := profileChanges(fields)
	if err != nil {
		return fail(ctx, s.logger, err)
	}
	changes.Image = image

	cmd, err := commands.NewUpdateProfileCommand(actor, userID, changes)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	updated, err := s.handlers.UpdateProfile.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, userResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    userFromAggregate(updated),
	})
}

// ChangeUserRole handles PUT /users/:id/role.
func (s *Server) ChangeUserRole(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	userID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	var req changeRoleRequest
	if err = bind(ctx, &req); err != nil {
		return fail(ctx, s.logger, err)
	}

	role, err := user.ParseRole(req.Role)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewChangeUserRoleCommand(actor, userID, role)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	updated, err := s.handlers.ChangeUserRole.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, userResponse{Success: true, Message: "Role updated", User: userFromAggregate(updated)})
}

// DeleteUser handles DELETE /users/delete/:id.
func (s *Server) DeleteUser(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	userID, err := pathUUID(ctx, "id")
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	cmd, err := commands.NewDeleteUserCommand(actor, userID)
	if err != nil {
		return fail(ctx, s.logger, err)
	}

	if err = s.handlers.DeleteUser.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, s.logger, err)
	}

	return ctx.JSON(http.StatusOK, messageResponse{Success: true, Message: "User deleted"})
}

// presentFields collects the profile fields sent by the client, from a JSON
// object or from form values.
func presentFields(ctx echo.Context) (map[string]string, error) {
	fields := make(map[string]string, len(profileFields))

	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var body map[string]*string
		if err := json.NewDecoder(ctx.Request().Body).Decode(&body); err != nil {
			return nil, errInvalid("request body", err)
		}
		for _, name := range profileFields {
			if v, ok := body[name]; ok && v != nil {
				fields[name] = *v
			}
		}
		return fields, nil
	}

	form, err := ctx.FormParams()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, errInvalid("request body", err)
	}
	for _, name := range profileFields {
		if values, ok := form[name]; ok && len(values) > 0 {
			fields[name] = values[0]
		}
	}
	return fields, nil
}

func profileChanges(fields map[string]string) (commands.ProfileChanges, error) {
	var changes commands.ProfileChanges

	if v, ok := fields["name"]; ok {
		changes.Name = &v
	}
	if v, ok := fields["email"]; ok {
		changes.Email = &v
	}
	if v, ok := fields["address"]; ok {
		changes.Address = &v
	}
	// An empty password field means "keep the current password".
	if v, ok := fields["password"]; ok && v != "" {
		changes.Password = &v
	}
	if v, ok := fields["phone"]; ok {
		phone, err := kernel.NewPhone(v)
		if err != nil {
			return commands.ProfileChanges{}, err
		}
		changes.Phone = &phone
	}

	return changes, nil
}
