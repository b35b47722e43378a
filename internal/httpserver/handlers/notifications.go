package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/refdeck/refdeck/internal/httpserver/deps"
	"github.com/refdeck/refdeck/internal/logger"
)

type feedResponse struct {
	Notifications []apiNotification `json:"notifications"`
	UnreadCount   int               `json:"unreadCount"`
	Error         string            `json:"error,omitempty"`
}

// ListNotifications serves the live feed: dismissed records are already
// filtered out of the state.
func ListNotifications(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := d.Feed.Current()

		resp := feedResponse{
			Notifications: make([]apiNotification, 0, len(state.Notifications)),
			UnreadCount:   state.UnreadCount,
		}
		for _, n := range state.Notifications {
			resp.Notifications = append(resp.Notifications, toAPINotification(n))
		}

		status := http.StatusOK
		if state.Err != nil {
			resp.Error = state.Err.Error()
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func MarkNotificationRead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "notificationID")
		if err := d.Feed.MarkAsRead(r.Context(), id); err != nil {
			d.Logger.Error("failed to mark notification read",
				logger.String("notification", id), logger.Error(err))
			writeJSON(w, http.StatusUnprocessableEntity, okResponse{OK: false})
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

func MarkAllNotificationsRead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Feed.MarkAllAsRead(r.Context()); err != nil {
			d.Logger.Error("failed to mark all notifications read", logger.Error(err))
			writeJSON(w, http.StatusUnprocessableEntity, okResponse{OK: false})
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}

func DismissNotification(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "notificationID")
		if err := d.Feed.Dismiss(r.Context(), id); err != nil {
			d.Logger.Error("failed to dismiss notification",
				logger.String("notification", id), logger.Error(err))
			writeJSON(w, http.StatusUnprocessableEntity, okResponse{OK: false})
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	}
}
