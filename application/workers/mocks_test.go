package workers

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"github.com/stretchr/testify/mock"
)

type mockPostRepo struct{ mock.Mock }

func (m *mockPostRepo) Insert(ctx context.Context, post social.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepo) Get(ctx context.Context, postID string) (social.Post, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(social.Post), args.Error(1)
}

func (m *mockPostRepo) Update(ctx context.Context, postID string, update social.PostUpdate) error {
	return m.Called(ctx, postID, update).Error(0)
}

func (m *mockPostRepo) Delete(ctx context.Context, postID string) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *mockPostRepo) AdjustCommentsCount(ctx context.Context, postID string, delta int) (social.Post, error) {
	args := m.Called(ctx, postID, delta)
	return args.Get(0).(social.Post), args.Error(1)
}

func (m *mockPostRepo) AdjustReactions(ctx context.Context, postID string, previous, next social.ReactionType) (social.Post, error) {
	args := m.Called(ctx, postID, previous, next)
	return args.Get(0).(social.Post), args.Error(1)
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Insert(ctx context.Context, user social.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Get(ctx context.Context, userID string) (social.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(social.User), args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (social.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(social.User), args.Error(1)
}

func (m *mockUserRepo) AdjustPostsCount(ctx context.Context, userID string, delta int) error {
	return m.Called(ctx, userID, delta).Error(0)
}

func (m *mockUserRepo) UpdateBasicInfo(ctx context.Context, userID string, info social.BasicInfo) error {
	return m.Called(ctx, userID, info).Error(0)
}

func (m *mockUserRepo) UpdateSocialLinks(ctx context.Context, userID string, links social.SocialLinks) error {
	return m.Called(ctx, userID, links).Error(0)
}

func (m *mockUserRepo) UpdateNotificationSettings(ctx context.Context, userID string, settings social.NotificationSettings) error {
	return m.Called(ctx, userID, settings).Error(0)
}

func (m *mockUserRepo) UpdateBlockStatus(ctx context.Context, userID, peerID string, block bool) error {
	return m.Called(ctx, userID, peerID, block).Error(0)
}

type mockCommentRepo struct{ mock.Mock }

func (m *mockCommentRepo) Insert(ctx context.Context, comment social.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *mockCommentRepo) ListByPost(ctx context.Context, postID string) ([]social.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]social.Comment), args.Error(1)
}

type mockReactionRepo struct{ mock.Mock }

func (m *mockReactionRepo) Upsert(ctx context.Context, reaction social.Reaction, previousType social.ReactionType) error {
	return m.Called(ctx, reaction, previousType).Error(0)
}

func (m *mockReactionRepo) Remove(ctx context.Context, postID, username string) error {
	return m.Called(ctx, postID, username).Error(0)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Insert(ctx context.Context, notification social.Notification) (social.Notification, error) {
	args := m.Called(ctx, notification)
	return args.Get(0).(social.Notification), args.Error(1)
}

func (m *mockNotificationRepo) ListForUser(ctx context.Context, userID string) ([]social.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]social.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

func (m *mockNotificationRepo) Delete(ctx context.Context, notificationID string) error {
	return m.Called(ctx, notificationID).Error(0)
}

type mockBroadcaster struct{ mock.Mock }

func (m *mockBroadcaster) Publish(ctx context.Context, channel string, event interface{}) error {
	return m.Called(ctx, channel, event).Error(0)
}

type mockEnqueuer struct{ mock.Mock }

func (m *mockEnqueuer) Enqueue(ctx context.Context, taskType string, payload interface{}) error {
	return m.Called(ctx, taskType, payload).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	return m.Called(ctx, to, subject, htmlBody).Error(0)
}
