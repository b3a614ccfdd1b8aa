package http

import (
	"log/slog"
	"strings"

	"shipping/internal/core/domain/model/user"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const claimsKey = "auth.claims"

// Authenticate verifies the bearer token and rejects revoked ones.
// The verified claims are stored on the echo context.
func Authenticate(issuer ports.TokenIssuer, denylist ports.TokenDenylist, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, ok := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return fail(ctx, logger, errs.NewUnauthenticatedError("access denied, token is required"))
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				return fail(ctx, logger, err)
			}

			revoked, err := denylist.IsRevoked(ctx.Request().Context(), claims.TokenID)
			if err != nil {
				return fail(ctx, logger, err)
			}
			if revoked {
				return fail(ctx, logger, errs.NewUnauthenticatedError("token revoked"))
			}

			ctx.Set(claimsKey, claims)
			return next(ctx)
		}
	}
}

// RequireRoles lets only the listed roles through. It must run after Authenticate.
func RequireRoles(logger *slog.Logger, roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, ok := claimsFrom(ctx)
			if !ok {
				return fail(ctx, logger, errs.NewUnauthenticatedError("access denied, token is required"))
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(ctx)
				}
			}
			return fail(ctx, logger, errs.NewForbiddenError(ctx.Request().Method+" "+ctx.Path()))
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func claimsFrom(ctx echo.Context) (ports.Claims, bool) {
	claims, ok := ctx.Get(claimsKey).(ports.Claims)
	return claims, ok
}

// actorFrom builds the caller identity from the verified claims.
func actorFrom(ctx echo.Context) (services.Actor, error) {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return services.Actor{}, errs.NewUnauthenticatedError("access denied, token is required")
	}
	return services.NewActor(claims.Subject, claims.Role)
}

