package products

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de productos y servicios en el router.
// Los alias /products/name y /products/services se mantienen para clientes viejos.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/products", func(route chi.Router) {
		route.Get("/", handler.List)
		route.Post("/", handler.Create)
		route.Delete("/", handler.DeleteByName)
		route.Get("/detailed", handler.ListDetailed)
		route.Delete("/name", handler.DeleteByName)
		route.Post("/services", handler.CreateServiceItem)
		route.Get("/{id}", handler.GetByID)
		route.Put("/{id}", handler.Update)
		route.Delete("/{id}", handler.Delete)
	})

	route.Route("/services", func(route chi.Router) {
		route.Post("/", handler.CreateServiceItem)
		route.Put("/{id}", handler.UpdateServiceItem)
	})
}
