// Package api embeds the OpenAPI document served by the Swagger UI.
package api

import _ "embed"

// SwaggerJSON is the OpenAPI 2.0 description of the users REST API.
//
//go:embed users.swagger.json
var SwaggerJSON []byte
