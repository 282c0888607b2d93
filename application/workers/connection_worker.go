package workers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ConnectionWorker replicates follow, unfollow and block writes.
type ConnectionWorker struct {
	connections ports.ConnectionRepository
	users       ports.UserRepository
	notifier    *Notifier
	logger      *zap.Logger
}

// NewConnectionWorker creates a connection worker.
func NewConnectionWorker(connections ports.ConnectionRepository, users ports.UserRepository, notifier *Notifier, logger *zap.Logger) *ConnectionWorker {
	return &ConnectionWorker{connections: connections, users: users, notifier: notifier, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *ConnectionWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeAddConnection, w.HandleAddConnection)
	mux.HandleFunc(queue.TypeRemoveConnection, w.HandleRemoveConnection)
	mux.HandleFunc(queue.TypeChangeBlockStatus, w.HandleChangeBlockStatus)
}

func (w *ConnectionWorker) HandleAddConnection(ctx context.Context, task *asynq.Task) error {
	var p queue.AddConnectionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.connections.Save(ctx, p.Edge); err != nil {
		return err
	}

	w.notifier.Notify(ctx, social.Notification{
		UserTo:           p.Edge.FolloweeID,
		UserFrom:         p.Edge.FollowerID,
		Message:          p.Username + " is now following you.",
		NotificationType: social.NotificationFollow,
		EntityID:         p.Edge.FollowerID,
		CreatedItemID:    p.Edge.ID,
		CreatedAt:        time.Now().UTC(),
	}, "Follower notification")
	return nil
}

func (w *ConnectionWorker) HandleRemoveConnection(ctx context.Context, task *asynq.Task) error {
	var p queue.RemoveConnectionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.connections.Delete(ctx, p.FollowerID, p.FolloweeID)
}

func (w *ConnectionWorker) HandleChangeBlockStatus(ctx context.Context, task *asynq.Task) error {
	var p queue.ChangeBlockStatusPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.users.UpdateBlockStatus(ctx, p.UserID, p.PeerID, p.Block)
}
