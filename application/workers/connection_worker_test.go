package workers

import (
	"context"
	"testing"

	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockConnectionRepo struct{ mock.Mock }

func (m *mockConnectionRepo) Save(ctx context.Context, edge social.Follower) error {
	return m.Called(ctx, edge).Error(0)
}

func (m *mockConnectionRepo) Delete(ctx context.Context, followerID, followeeID string) error {
	return m.Called(ctx, followerID, followeeID).Error(0)
}

func TestConnectionWorker_HandleAddConnection(t *testing.T) {
	connections := new(mockConnectionRepo)
	users := new(mockUserRepo)
	notifier, notifierUsers, notifications, broadcaster, producer := newTestNotifier()
	worker := NewConnectionWorker(connections, users, notifier, zap.NewNop())

	edge := social.Follower{ID: social.NewID(), FollowerID: social.NewID(), FolloweeID: social.NewID()}
	connections.On("Save", mock.Anything, edge).Return(nil)

	recipient := social.User{ID: edge.FolloweeID, Email: "manny@example.com", Notifications: social.DefaultNotificationSettings()}
	notifierUsers.On("Get", mock.Anything, edge.FolloweeID).Return(recipient, nil)
	notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n social.Notification) bool {
		return n.NotificationType == social.NotificationFollow && n.UserFrom == edge.FollowerID
	})).Return(social.Notification{ID: social.NewID()}, nil)
	broadcaster.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	producer.On("Enqueue", mock.Anything, queue.TypeSendNotificationEmail, mock.Anything).Return(nil)

	task, err := queue.NewTask(queue.TypeAddConnection, queue.AddConnectionPayload{
		Edge:     edge,
		Username: "danny",
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleAddConnection(context.Background(), task))
	connections.AssertExpectations(t)
	notifications.AssertExpectations(t)
}

func TestConnectionWorker_HandleChangeBlockStatus(t *testing.T) {
	connections := new(mockConnectionRepo)
	users := new(mockUserRepo)
	notifier, _, _, _, _ := newTestNotifier()
	worker := NewConnectionWorker(connections, users, notifier, zap.NewNop())

	userID, peerID := social.NewID(), social.NewID()
	users.On("UpdateBlockStatus", mock.Anything, userID, peerID, true).Return(nil)

	task, err := queue.NewTask(queue.TypeChangeBlockStatus, queue.ChangeBlockStatusPayload{
		UserID: userID,
		PeerID: peerID,
		Block:  true,
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleChangeBlockStatus(context.Background(), task))
	users.AssertExpectations(t)
}
