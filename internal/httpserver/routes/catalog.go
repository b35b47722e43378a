package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/refdeck/refdeck/internal/httpserver/deps"
	"github.com/refdeck/refdeck/internal/httpserver/handlers"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", handlers.ListCategories(d))
		r.Post("/", handlers.AddCategory(d))

		r.Route("/{categoryID}", func(r chi.Router) {
			r.Patch("/", handlers.UpdateCategory(d))
			r.Delete("/", handlers.DeleteCategory(d))

			r.Post("/links", handlers.AddLink(d))
			r.Patch("/links/{linkID}", handlers.UpdateLink(d))
			r.Delete("/links/{linkID}", handlers.DeleteLink(d))
		})
	})
}
