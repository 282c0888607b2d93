package workers

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// UserWorker replicates user profile writes into the durable store.
type UserWorker struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewUserWorker creates a user worker.
func NewUserWorker(users ports.UserRepository, logger *zap.Logger) *UserWorker {
	return &UserWorker{users: users, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *UserWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeAddUser, w.HandleAddUser)
	mux.HandleFunc(queue.TypeUpdateBasicInfo, w.HandleUpdateBasicInfo)
	mux.HandleFunc(queue.TypeUpdateSocialLinks, w.HandleUpdateSocialLinks)
	mux.HandleFunc(queue.TypeUpdateNotificationSettings, w.HandleUpdateNotificationSettings)
}

func (w *UserWorker) HandleAddUser(ctx context.Context, task *asynq.Task) error {
	var p queue.AddUserPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.users.Insert(ctx, p.User); err != nil {
		return err
	}
	w.logger.Info("user persisted", zap.String("user_id", p.User.ID))
	return nil
}

func (w *UserWorker) HandleUpdateBasicInfo(ctx context.Context, task *asynq.Task) error {
	var p queue.UpdateBasicInfoPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.users.UpdateBasicInfo(ctx, p.UserID, p.Info)
}

func (w *UserWorker) HandleUpdateSocialLinks(ctx context.Context, task *asynq.Task) error {
	var p queue.UpdateSocialLinksPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.users.UpdateSocialLinks(ctx, p.UserID, p.Links)
}

func (w *UserWorker) HandleUpdateNotificationSettings(ctx context.Context, task *asynq.Task) error {
	var p queue.UpdateNotificationSettingsPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.users.UpdateNotificationSettings(ctx, p.UserID, p.Settings)
}
