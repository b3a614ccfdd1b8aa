package http

import (
	"context"
	"log/slog"
	"net/http"

	"shipping/internal/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// bodyLimit leaves room for one image plus the form fields.
const bodyLimit = "8M"

// RouterOptions are the optional surfaces mounted next to the API.
type RouterOptions struct {
	// UploadsDir is served read-only under /uploads when set.
	UploadsDir  string
	CORSOrigins []string
	Metrics     *metrics.Metrics
	APIDocument *openapi3.T
}

// NewRouter builds the echo instance with the base middleware and every route.
func NewRouter(server *Server, opts RouterOptions) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(server.logger)

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(server.logger))
	e.Use(middleware.Recover())
	if len(opts.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.Secure())

	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}
	if opts.UploadsDir != "" {
		e.Static(UploadsPrefix, opts.UploadsDir)
	}
	if opts.APIDocument != nil {
		if err := RegisterDocs(e, opts.APIDocument); err != nil {
			return nil, err
		}
	}

	server.RegisterRoutes(e)
	return e, nil
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			switch {
			case v.Status >= http.StatusInternalServerError:
				level = slog.LevelError
			case v.Status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.String("route", v.RoutePath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(requestContext(ctx), level, "http request", attrs...)
			return nil
		},
	})
}

func requestContext(ctx echo.Context) context.Context {
	if ctx.Request() == nil {
		return context.Background()
	}
	return ctx.Request().Context()
}
