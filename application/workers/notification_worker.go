package workers

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationWorker applies read/delete mutations to notification records.
type NotificationWorker struct {
	notifications ports.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationWorker creates a notification worker.
func NewNotificationWorker(notifications ports.NotificationRepository, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{notifications: notifications, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *NotificationWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeUpdateNotification, w.HandleUpdateNotification)
	mux.HandleFunc(queue.TypeDeleteNotification, w.HandleDeleteNotification)
}

func (w *NotificationWorker) HandleUpdateNotification(ctx context.Context, task *asynq.Task) error {
	var p queue.UpdateNotificationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.notifications.MarkRead(ctx, p.NotificationID)
}

func (w *NotificationWorker) HandleDeleteNotification(ctx context.Context, task *asynq.Task) error {
	var p queue.DeleteNotificationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.notifications.Delete(ctx, p.NotificationID)
}
