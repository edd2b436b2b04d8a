package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"canistertransfer/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// RequestValidator checks path parameters and JSON bodies against the OpenAPI
// document before a handler runs. Invalid requests are answered with 400.
// Requests the document does not describe, such as /health, pass through.
func RequestValidator(swagger *openapi3.T) (echo.MiddlewareFunc, error) {
	// Routes are matched on the path alone.
	swagger.Servers = nil

	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return c.JSON(http.StatusBadRequest, servers.Error{
					Code:    http.StatusBadRequest,
					Message: validationMessage(err),
				})
			}
			return next(c)
		}
	}, nil
}

// validationMessage names the offending parameter or body field without the
// schema dump kin-openapi puts into its error text.
func validationMessage(err error) string {
	detail := ""
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		detail = schemaErr.Reason
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			detail = strings.Join(pointer, ".") + ": " + detail
		}
	}

	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return err.Error()
	}

	message := "Invalid request body"
	if reqErr.Parameter != nil {
		message = fmt.Sprintf("Invalid %s parameter %s", reqErr.Parameter.In, reqErr.Parameter.Name)
	}
	if detail == "" {
		detail = reqErr.Reason
	}
	if detail != "" {
		message += ": " + detail
	}
	return message
}
