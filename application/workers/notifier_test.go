package workers

import (
	"context"
	"testing"

	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/infrastructure/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestNotifier() (*Notifier, *mockUserRepo, *mockNotificationRepo, *mockBroadcaster, *mockEnqueuer) {
	users := new(mockUserRepo)
	notifications := new(mockNotificationRepo)
	broadcaster := new(mockBroadcaster)
	producer := new(mockEnqueuer)
	return NewNotifier(users, notifications, broadcaster, producer, zap.NewNop()),
		users, notifications, broadcaster, producer
}

func followNotification(userFrom, userTo string) social.Notification {
	return social.Notification{
		UserTo:           userTo,
		UserFrom:         userFrom,
		Message:          "danny is now following you.",
		NotificationType: social.NotificationFollow,
	}
}

func TestNotifier_FullChain(t *testing.T) {
	notifier, users, notifications, broadcaster, producer := newTestNotifier()
	ctx := context.Background()
	userFrom, userTo := social.NewID(), social.NewID()

	recipient := social.User{ID: userTo, Email: "manny@example.com", Notifications: social.DefaultNotificationSettings()}
	users.On("Get", mock.Anything, userTo).Return(recipient, nil)

	saved := followNotification(userFrom, userTo)
	saved.ID = social.NewID()
	notifications.On("Insert", mock.Anything, mock.AnythingOfType("social.Notification")).Return(saved, nil)
	broadcaster.On("Publish", mock.Anything, realtime.ChannelNotifications, mock.Anything).Return(nil)
	producer.On("Enqueue", mock.Anything, queue.TypeSendNotificationEmail, mock.MatchedBy(func(p interface{}) bool {
		payload, ok := p.(queue.SendEmailPayload)
		return ok && payload.To == "manny@example.com" && payload.Subject == "Follower notification"
	})).Return(nil)

	notifier.Notify(ctx, followNotification(userFrom, userTo), "Follower notification")

	users.AssertExpectations(t)
	notifications.AssertExpectations(t)
	broadcaster.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestNotifier_SkipsSelfNotification(t *testing.T) {
	notifier, users, notifications, _, _ := newTestNotifier()
	userID := social.NewID()

	notifier.Notify(context.Background(), followNotification(userID, userID), "Follower notification")

	users.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestNotifier_RespectsDisabledCategory(t *testing.T) {
	notifier, users, notifications, _, producer := newTestNotifier()
	userFrom, userTo := social.NewID(), social.NewID()

	settings := social.DefaultNotificationSettings()
	settings.Follows = false
	users.On("Get", mock.Anything, userTo).Return(social.User{ID: userTo, Notifications: settings}, nil)

	notifier.Notify(context.Background(), followNotification(userFrom, userTo), "Follower notification")

	notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifier_BroadcastFailureStillEnqueuesEmail(t *testing.T) {
	notifier, users, notifications, broadcaster, producer := newTestNotifier()
	userFrom, userTo := social.NewID(), social.NewID()

	recipient := social.User{ID: userTo, Email: "manny@example.com", Notifications: social.DefaultNotificationSettings()}
	users.On("Get", mock.Anything, userTo).Return(recipient, nil)
	notifications.On("Insert", mock.Anything, mock.Anything).Return(followNotification(userFrom, userTo), nil)
	broadcaster.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)
	producer.On("Enqueue", mock.Anything, queue.TypeSendNotificationEmail, mock.Anything).Return(nil)

	notifier.Notify(context.Background(), followNotification(userFrom, userTo), "Follower notification")

	producer.AssertExpectations(t)
}

func TestCategoryEnabled(t *testing.T) {
	settings := social.NotificationSettings{Messages: true, Comments: false, Reactions: true, Follows: false}

	assert.True(t, categoryEnabled(settings, social.NotificationMessage))
	assert.True(t, categoryEnabled(settings, social.NotificationReaction))
	assert.False(t, categoryEnabled(settings, social.NotificationComment))
	assert.False(t, categoryEnabled(settings, social.NotificationFollow))
	assert.False(t, categoryEnabled(settings, social.NotificationType("unknown")))
}
