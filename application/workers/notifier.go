// Package workers holds the asynq handlers that replicate cache mutations
// into the durable store, plus the notification side effects some of those
// writes trigger.
package workers

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/email"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/infrastructure/realtime"

	"go.uber.org/zap"
)

// Enqueuer is the narrow producer surface workers need to schedule
// second-order jobs.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) error
}

// Notifier carries out the side effects attached to social writes: persist a
// notification record, push it to the recipient, and enqueue the
// notification email. All of it is best effort; a failed side effect is
// logged and never fails or retries the durable write that triggered it.
type Notifier struct {
	users         ports.UserRepository
	notifications ports.NotificationRepository
	broadcaster   ports.Broadcaster
	producer      Enqueuer
	logger        *zap.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(
	users ports.UserRepository,
	notifications ports.NotificationRepository,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		users:         users,
		notifications: notifications,
		broadcaster:   broadcaster,
		producer:      producer,
		logger:        logger,
	}
}

// Notify runs the full side-effect chain for one notification. Nothing
// happens when the actor notifies themselves, the recipient has the
// category turned off, or the recipient has blocked the actor.
func (n *Notifier) Notify(ctx context.Context, notification social.Notification, subject string) {
	if notification.UserFrom == notification.UserTo {
		return
	}

	recipient, err := n.users.Get(ctx, notification.UserTo)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed",
			zap.String("user_to", notification.UserTo), zap.Error(err))
		return
	}
	if !categoryEnabled(recipient.Notifications, notification.NotificationType) {
		return
	}
	if recipient.HasBlocked(notification.UserFrom) {
		return
	}

	saved, err := n.notifications.Insert(ctx, notification)
	if err != nil {
		n.logger.Warn("notification insert failed",
			zap.String("user_to", notification.UserTo), zap.Error(err))
		return
	}

	if err := n.broadcaster.Publish(ctx, realtime.ChannelNotifications, realtime.Event{
		Name: "insert notification",
		Data: saved,
	}); err != nil {
		n.logger.Warn("notification broadcast failed", zap.Error(err))
	}

	body, err := email.RenderNotification(subject, saved.Message)
	if err != nil {
		n.logger.Warn("notification email render failed", zap.Error(err))
		return
	}
	err = n.producer.Enqueue(ctx, queue.TypeSendNotificationEmail, queue.SendEmailPayload{
		To:      recipient.Email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		n.logger.Warn("notification email enqueue failed", zap.Error(err))
	}
}

func categoryEnabled(settings social.NotificationSettings, t social.NotificationType) bool {
	switch t {
	case social.NotificationComment:
		return settings.Comments
	case social.NotificationReaction:
		return settings.Reactions
	case social.NotificationFollow:
		return settings.Follows
	case social.NotificationMessage:
		return settings.Messages
	}
	return false
}
