package handlers

import (
	"net/http"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler manages the notification endpoints.
type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ListNotificationsHandler handles GET /notifications.
func (h *NotificationHandler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	page, limit := parsePage(r)
	notifications, total, err := h.Service.GetNotifications(r.Context(), userID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	writeList(w, notifications, page, limit, total)
}

// MarkReadHandler handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.Service.MarkAsRead(r.Context(), notifID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification marked as read")
}

// MarkAllReadHandler handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.Service.MarkAllRead(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "All notifications marked as read")
}

// DeleteNotificationHandler handles DELETE /notifications/{id}.
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	notifID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := h.Service.DeleteNotification(r.Context(), notifID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Notification deleted")
}
