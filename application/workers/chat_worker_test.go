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

type mockChatRepo struct{ mock.Mock }

func (m *mockChatRepo) UpsertConversation(ctx context.Context, conversation social.Conversation) error {
	return m.Called(ctx, conversation).Error(0)
}

func (m *mockChatRepo) InsertMessage(ctx context.Context, message social.Message) error {
	return m.Called(ctx, message).Error(0)
}

func (m *mockChatRepo) MarkMessageDeleted(ctx context.Context, messageID string, scope social.DeleteScope) error {
	return m.Called(ctx, messageID, scope).Error(0)
}

func (m *mockChatRepo) MarkMessagesRead(ctx context.Context, senderID, receiverID string) error {
	return m.Called(ctx, senderID, receiverID).Error(0)
}

func (m *mockChatRepo) UpdateMessageReaction(ctx context.Context, messageID, senderName string, reactionType social.ReactionType, action string) error {
	return m.Called(ctx, messageID, senderName, reactionType, action).Error(0)
}

func TestChatWorker_HandleAddChatMessage(t *testing.T) {
	chats := new(mockChatRepo)
	notifier, users, notifications, broadcaster, producer := newTestNotifier()
	worker := NewChatWorker(chats, notifier, zap.NewNop())

	conversation := social.Conversation{ID: social.NewID(), SenderID: social.NewID(), ReceiverID: social.NewID()}
	message := social.Message{
		ID:             social.NewID(),
		ConversationID: conversation.ID,
		SenderID:       conversation.SenderID,
		SenderUsername: "danny",
		ReceiverID:     conversation.ReceiverID,
		Body:           "hello",
	}
	chats.On("UpsertConversation", mock.Anything, conversation).Return(nil)
	chats.On("InsertMessage", mock.Anything, message).Return(nil)

	recipient := social.User{ID: message.ReceiverID, Email: "manny@example.com", Notifications: social.DefaultNotificationSettings()}
	users.On("Get", mock.Anything, message.ReceiverID).Return(recipient, nil)
	notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n social.Notification) bool {
		return n.NotificationType == social.NotificationMessage && n.EntityID == conversation.ID
	})).Return(social.Notification{ID: social.NewID()}, nil)
	broadcaster.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	producer.On("Enqueue", mock.Anything, queue.TypeSendNotificationEmail, mock.Anything).Return(nil)

	task, err := queue.NewTask(queue.TypeAddChatMessage, queue.AddChatMessagePayload{
		Conversation: conversation,
		Message:      message,
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleAddChatMessage(context.Background(), task))
	chats.AssertExpectations(t)
	notifications.AssertExpectations(t)
}

func TestChatWorker_HandleMarkMessageDeleted(t *testing.T) {
	chats := new(mockChatRepo)
	notifier, _, _, _, _ := newTestNotifier()
	worker := NewChatWorker(chats, notifier, zap.NewNop())

	messageID := social.NewID()
	chats.On("MarkMessageDeleted", mock.Anything, messageID, social.DeleteForEveryone).Return(nil)

	task, err := queue.NewTask(queue.TypeMarkMessageDeleted, queue.MarkMessageDeletedPayload{
		MessageID: messageID,
		Scope:     social.DeleteForEveryone,
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleMarkMessageDeleted(context.Background(), task))
	chats.AssertExpectations(t)
}

func TestChatWorker_HandleUpdateMessageReaction(t *testing.T) {
	chats := new(mockChatRepo)
	notifier, _, _, _, _ := newTestNotifier()
	worker := NewChatWorker(chats, notifier, zap.NewNop())

	messageID := social.NewID()
	chats.On("UpdateMessageReaction", mock.Anything, messageID, "danny", social.ReactionLove, "add").Return(nil)

	task, err := queue.NewTask(queue.TypeUpdateMessageReaction, queue.UpdateMessageReactionPayload{
		MessageID:  messageID,
		SenderName: "danny",
		Type:       social.ReactionLove,
		Action:     "add",
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleUpdateMessageReaction(context.Background(), task))
	chats.AssertExpectations(t)
}
