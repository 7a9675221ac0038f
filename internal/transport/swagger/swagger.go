package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// The UI loads the OpenAPI document the router serves at root.
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}
