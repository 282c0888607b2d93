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

func TestReactionWorker_HandleAddReaction(t *testing.T) {
	reactions := new(mockReactionRepo)
	posts := new(mockPostRepo)
	notifier, users, notifications, broadcaster, producer := newTestNotifier()
	worker := NewReactionWorker(reactions, posts, notifier, zap.NewNop())

	reaction := social.Reaction{
		ID:       social.NewID(),
		PostID:   social.NewID(),
		Type:     social.ReactionLove,
		Username: "danny",
		UserTo:   social.NewID(),
		UserFrom: social.NewID(),
	}
	reactions.On("Upsert", mock.Anything, reaction, social.ReactionLike).Return(nil)
	posts.On("AdjustReactions", mock.Anything, reaction.PostID, social.ReactionLike, social.ReactionLove).
		Return(social.Post{ID: reaction.PostID, Post: "hello"}, nil)

	recipient := social.User{ID: reaction.UserTo, Email: "manny@example.com", Notifications: social.DefaultNotificationSettings()}
	users.On("Get", mock.Anything, reaction.UserTo).Return(recipient, nil)
	notifications.On("Insert", mock.Anything, mock.MatchedBy(func(n social.Notification) bool {
		return n.NotificationType == social.NotificationReaction && n.Reaction == string(social.ReactionLove)
	})).Return(social.Notification{ID: social.NewID()}, nil)
	broadcaster.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	producer.On("Enqueue", mock.Anything, queue.TypeSendNotificationEmail, mock.Anything).Return(nil)

	task, err := queue.NewTask(queue.TypeAddReaction, queue.AddReactionPayload{
		Reaction:     reaction,
		PreviousType: social.ReactionLike,
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleAddReaction(context.Background(), task))
	reactions.AssertExpectations(t)
	posts.AssertExpectations(t)
	notifications.AssertExpectations(t)
}

func TestReactionWorker_HandleRemoveReaction(t *testing.T) {
	reactions := new(mockReactionRepo)
	posts := new(mockPostRepo)
	notifier, _, _, _, _ := newTestNotifier()
	worker := NewReactionWorker(reactions, posts, notifier, zap.NewNop())

	postID := social.NewID()
	reactions.On("Remove", mock.Anything, postID, "danny").Return(nil)
	posts.On("AdjustReactions", mock.Anything, postID, social.ReactionWow, social.ReactionType("")).
		Return(social.Post{ID: postID}, nil)

	task, err := queue.NewTask(queue.TypeRemoveReaction, queue.RemoveReactionPayload{
		PostID:       postID,
		Username:     "danny",
		PreviousType: social.ReactionWow,
	})
	require.NoError(t, err)

	require.NoError(t, worker.HandleRemoveReaction(context.Background(), task))
	reactions.AssertExpectations(t)
	posts.AssertExpectations(t)
}
