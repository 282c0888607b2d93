package handlers

import (
	"net/http"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/infrastructure/realtime"
	"github.com/fullstackyodha/wechat-backend/pkg/common"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// NotificationHandler serves the notification routes. Notifications are read
// from the durable store; mark-read and delete are queued writes.
type NotificationHandler struct {
	base
	notifications ports.NotificationRepository
	broadcaster   ports.Broadcaster
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(
	notifications ports.NotificationRepository,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		base:          base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		notifications: notifications,
		broadcaster:   broadcaster,
	}
}

// List serves the caller's notifications, most recent first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.notifications.ListForUser(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// MarkRead queues flipping one notification to read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	notificationID := chi.URLParam(r, "notificationId")
	if !social.ValidID(notificationID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid notification id"))
		return
	}

	ctx := r.Context()
	h.enqueue(ctx, queue.TypeUpdateNotification, queue.UpdateNotificationPayload{NotificationID: notificationID})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelNotifications, realtime.Event{Name: "update notification", Data: notificationID})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// Delete queues removing one notification.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	notificationID := chi.URLParam(r, "notificationId")
	if !social.ValidID(notificationID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid notification id"))
		return
	}

	ctx := r.Context()
	h.enqueue(ctx, queue.TypeDeleteNotification, queue.DeleteNotificationPayload{NotificationID: notificationID})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelNotifications, realtime.Event{Name: "delete notification", Data: notificationID})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
