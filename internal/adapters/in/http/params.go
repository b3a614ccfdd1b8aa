package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/model/order"
	"shipping/internal/core/ports"
	"shipping/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pathUUID binds a path parameter declared as a uuid in the API document.
func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// statusQuery reads the optional ?status= filter.
func statusQuery(ctx echo.Context) (*order.Status, error) {
	var raw *string
	if err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &raw); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	status, err := order.ParseStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// bind decodes a JSON, form or multipart body into req.
func bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return nil
}

// upload opens an optional file field. The returned closer is never nil.
func upload(ctx echo.Context, field string) (*ports.Upload, func(), error) {
	noop := func() {}

	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errs.NewValueIsInvalidErrorWithCause(field, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, noop, errs.NewValueIsInvalidErrorWithCause(field, err)
	}

	return uploadFromHeader(header, file), func() { _ = file.Close() }, nil
}

func uploadFromHeader(header *multipart.FileHeader, file multipart.File) *ports.Upload {
	return &ports.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Content:     file,
	}
}

func parseWeight(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errs.NewValueIsRequiredError("weight")
	}
	weight, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("weight", err)
	}
	return weight, nil
}

func optionalMoney(raw string) (*kernel.Money, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	m, err := kernel.ParseMoney(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func errInvalid(field string, err error) error {
	return errs.NewValueIsInvalidErrorWithCause(field, err)
}
