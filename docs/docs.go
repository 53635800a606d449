// Package docs embeds the OpenAPI description served under /swagger.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
