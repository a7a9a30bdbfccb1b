package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de documentación (Swagger UI + OpenAPI YAML).
// Rutas planas: un Route("/docs") taparía el redirect de /docs.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})
	r.Get("/docs/", SwaggerUIHandler())
	r.Get("/docs/openapi.yaml", OpenAPIHandler())
}
