package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// APIVersion is reported by the banner endpoint and the API document.
const APIVersion = "1.0.0"

//go:embed openapi.yaml
var apiDocument []byte

var registerDocOnce sync.Once

// LoadAPIDocument parses and validates the embedded OpenAPI document.
func LoadAPIDocument(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(apiDocument)
	if err != nil {
		return nil, fmt.Errorf("load api document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate api document: %w", err)
	}
	return doc, nil
}

// apiDoc serves the document to echo-swagger through the swag registry.
type apiDoc struct {
	json string
}

func (d apiDoc) ReadDoc() string { return d.json }

// RegisterDocs publishes doc under /openapi.json and the Swagger UI under /swagger/*.
func RegisterDocs(e *echo.Echo, doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode api document: %w", err)
	}

	// swag panics on a second registration under the same name.
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, apiDoc{json: string(raw)})
	})

	e.GET("/openapi.json", func(ctx echo.Context) error {
		return ctx.JSONBlob(http.StatusOK, raw)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
