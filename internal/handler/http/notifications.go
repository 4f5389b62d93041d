package http

import (
	"net/http"

	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) selectNotifications(w http.ResponseWriter, r *http.Request) {
	query, err := models.ParseTableQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err, "select notifications")
		return
	}

	items, err := h.services.NotificationService.SelectNotifications(r.Context(), userID(r), query)
	if err != nil {
		writeServiceError(w, r, err, "select notifications")
		return
	}

	_, _ = utils.WriteJSON(w, items, http.StatusOK)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.services.NotificationService.MarkRead(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.services.NotificationService.MarkAllRead(r.Context(), userID(r)); err != nil {
		writeServiceError(w, r, err, "mark all notifications read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.services.NotificationService.Delete(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err, "delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteAllNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.services.NotificationService.DeleteAll(r.Context(), userID(r)); err != nil {
		writeServiceError(w, r, err, "delete all notifications")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
