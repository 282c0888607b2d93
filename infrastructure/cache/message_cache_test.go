package cache

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(conversationID, senderID, receiverID, body string) social.Message {
	return social.Message{
		ID:               social.NewID(),
		ConversationID:   conversationID,
		SenderID:         senderID,
		SenderUsername:   "danny",
		ReceiverID:       receiverID,
		ReceiverUsername: "manny",
		Body:             body,
		Reaction:         []social.MessageReaction{},
		CreatedAt:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// seedConversation registers the pair's chat list entries and returns the
// conversation id.
func seedConversation(t *testing.T, msgs *MessageCache, senderID, receiverID string) string {
	t.Helper()
	ctx := context.Background()
	conversationID := social.NewID()
	require.NoError(t, msgs.EnsureConversationEntry(ctx, senderID, receiverID, conversationID))
	require.NoError(t, msgs.EnsureConversationEntry(ctx, receiverID, senderID, conversationID))
	return conversationID
}

func TestMessageCache_EnsureConversationEntryIsIdempotent(t *testing.T) {
	store, mr := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	senderID, receiverID := social.NewID(), social.NewID()

	conversationID := social.NewID()
	require.NoError(t, msgs.EnsureConversationEntry(ctx, senderID, receiverID, conversationID))
	require.NoError(t, msgs.EnsureConversationEntry(ctx, senderID, receiverID, social.NewID()))

	entries, err := mr.List(chatListKey(senderID))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	resolved, err := msgs.ConversationID(ctx, senderID, receiverID)
	require.NoError(t, err)
	assert.Equal(t, conversationID, resolved)
}

func TestMessageCache_AppendAndListInOrder(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	senderID, receiverID := social.NewID(), social.NewID()
	conversationID := seedConversation(t, msgs, senderID, receiverID)

	require.NoError(t, msgs.AppendMessage(ctx, conversationID, testMessage(conversationID, senderID, receiverID, "hi")))
	require.NoError(t, msgs.AppendMessage(ctx, conversationID, testMessage(conversationID, receiverID, senderID, "hey")))

	list, err := msgs.ListMessages(ctx, senderID, receiverID)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hi", list[0].Body)
	assert.Equal(t, "hey", list[1].Body)
}

func TestMessageCache_ListMessagesUnknownPairIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)

	list, err := msgs.ListMessages(context.Background(), social.NewID(), social.NewID())

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMessageCache_MarkDeletedScopes(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	senderID, receiverID := social.NewID(), social.NewID()
	conversationID := seedConversation(t, msgs, senderID, receiverID)

	mine := testMessage(conversationID, senderID, receiverID, "delete me")
	other := testMessage(conversationID, senderID, receiverID, "keep me")
	require.NoError(t, msgs.AppendMessage(ctx, conversationID, mine))
	require.NoError(t, msgs.AppendMessage(ctx, conversationID, other))

	deleted, err := msgs.MarkDeleted(ctx, senderID, receiverID, mine.ID, social.DeleteForMe)
	require.NoError(t, err)
	assert.True(t, deleted.DeleteForMe)
	assert.False(t, deleted.DeleteForEveryone)

	deleted, err = msgs.MarkDeleted(ctx, senderID, receiverID, mine.ID, social.DeleteForEveryone)
	require.NoError(t, err)
	assert.True(t, deleted.DeleteForEveryone)

	list, err := msgs.ListMessages(ctx, senderID, receiverID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.False(t, list[1].DeleteForMe)
}

func TestMessageCache_MarkDeletedMissingMessage(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	senderID, receiverID := social.NewID(), social.NewID()
	seedConversation(t, msgs, senderID, receiverID)

	_, err := msgs.MarkDeleted(context.Background(), senderID, receiverID, social.NewID(), social.DeleteForMe)

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMessageCache_MarkRead(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	senderID, receiverID := social.NewID(), social.NewID()
	conversationID := seedConversation(t, msgs, senderID, receiverID)

	require.NoError(t, msgs.AppendMessage(ctx, conversationID, testMessage(conversationID, senderID, receiverID, "one")))
	require.NoError(t, msgs.AppendMessage(ctx, conversationID, testMessage(conversationID, senderID, receiverID, "two")))

	last, err := msgs.MarkRead(ctx, senderID, receiverID)
	require.NoError(t, err)
	assert.Equal(t, "two", last.Body)
	assert.True(t, last.IsRead)

	list, err := msgs.ListMessages(ctx, senderID, receiverID)
	require.NoError(t, err)
	for _, m := range list {
		assert.True(t, m.IsRead)
	}
}

func TestMessageCache_UpsertReactionReplacesOwnEntry(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	senderID, receiverID := social.NewID(), social.NewID()
	conversationID := seedConversation(t, msgs, senderID, receiverID)

	msg := testMessage(conversationID, senderID, receiverID, "react to me")
	require.NoError(t, msgs.AppendMessage(ctx, conversationID, msg))

	updated, err := msgs.UpsertReaction(ctx, conversationID, msg.ID, "danny", social.ReactionLove, "add")
	require.NoError(t, err)
	require.Len(t, updated.Reaction, 1)
	assert.Equal(t, social.ReactionLove, updated.Reaction[0].Type)

	updated, err = msgs.UpsertReaction(ctx, conversationID, msg.ID, "danny", social.ReactionWow, "add")
	require.NoError(t, err)
	require.Len(t, updated.Reaction, 1)
	assert.Equal(t, social.ReactionWow, updated.Reaction[0].Type)

	updated, err = msgs.UpsertReaction(ctx, conversationID, msg.ID, "danny", social.ReactionWow, "remove")
	require.NoError(t, err)
	assert.Empty(t, updated.Reaction)
}

func TestMessageCache_ListConversationsReturnsTails(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	me := social.NewID()
	peerOne, peerTwo := social.NewID(), social.NewID()

	convOne := seedConversation(t, msgs, me, peerOne)
	convTwo := seedConversation(t, msgs, me, peerTwo)
	require.NoError(t, msgs.AppendMessage(ctx, convOne, testMessage(convOne, me, peerOne, "old")))
	require.NoError(t, msgs.AppendMessage(ctx, convOne, testMessage(convOne, peerOne, me, "latest one")))
	require.NoError(t, msgs.AppendMessage(ctx, convTwo, testMessage(convTwo, me, peerTwo, "latest two")))

	list, err := msgs.ListConversations(ctx, me)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "latest one", list[0].Body)
	assert.Equal(t, "latest two", list[1].Body)
}

func TestMessageCache_ParticipantDirectoryDedupes(t *testing.T) {
	store, _ := newTestStore(t)
	msgs := NewMessageCache(store)
	ctx := context.Background()
	pair := social.ChatUser{UserOne: social.NewID(), UserTwo: social.NewID()}

	users, err := msgs.AddParticipants(ctx, pair)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = msgs.AddParticipants(ctx, pair)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	users, err = msgs.RemoveParticipants(ctx, pair)
	require.NoError(t, err)
	assert.Empty(t, users)
}
