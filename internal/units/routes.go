package units

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra las rutas de unidades de medida (solo lectura).
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/units", func(route chi.Router) {
		route.Get("/", handler.List)
		route.Get("/{id}", handler.GetByID)
	})
}
