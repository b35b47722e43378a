package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/refdeck/refdeck/internal/httpserver/deps"
	"github.com/refdeck/refdeck/internal/httpserver/handlers"
)

func init() { Register(registerNotifications) }

func registerNotifications(r chi.Router, d deps.Deps) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", handlers.ListNotifications(d))
		r.Post("/read-all", handlers.MarkAllNotificationsRead(d))
		r.Post("/{notificationID}/read", handlers.MarkNotificationRead(d))
		r.Post("/{notificationID}/dismiss", handlers.DismissNotification(d))
	})
}
