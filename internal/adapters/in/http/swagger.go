package http

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// openAPIDoc hands the embedded OpenAPI document to the Swagger UI, which
// reads it from the swag registry as doc.json.
type openAPIDoc struct {
	json string
}

func (d openAPIDoc) ReadDoc() string {
	return d.json
}

var registerDoc sync.Once

// registerSwaggerDoc publishes swagger under swag.Name. The registry accepts
// one document per name, so only the first call registers.
func registerSwaggerDoc(swagger *openapi3.T) error {
	raw, err := swagger.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}
	registerDoc.Do(func() {
		swag.Register(swag.Name, openAPIDoc{json: string(raw)})
	})
	return nil
}

// swaggerUI serves the UI under /swagger/index.html.
var swaggerUI = echoSwagger.WrapHandler
