package cache

import (
	"context"
	"encoding/json"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/domain/social"
)

// MessageCache is the chat entity cache service. Each conversation is an
// append-only JSON list under `messages:<conversationId>`; each user carries
// a chat list of `{receiverId, conversationId}` summaries. In-place edits
// (read, soft-delete, reactions) locate a message by a linear scan and write
// the slot back with LSET.
type MessageCache struct {
	store *Store
}

// NewMessageCache creates a message cache service.
func NewMessageCache(store *Store) *MessageCache {
	return &MessageCache{store: store}
}

// EnsureConversationEntry appends {receiverID, conversationID} to the
// sender's chat list unless an entry for that receiver already exists.
// Callers invoke it once per direction.
func (m *MessageCache) EnsureConversationEntry(ctx context.Context, senderID, receiverID, conversationID string) error {
	entries, err := m.store.client.LRange(ctx, chatListKey(senderID), 0, -1).Result()
	if err != nil {
		return m.store.wrap("chat list scan", err)
	}

	for _, entry := range entries {
		var e social.ChatListEntry
		if err := json.Unmarshal([]byte(entry), &e); err == nil && e.ReceiverID == receiverID {
			return nil
		}
	}

	entry := social.ChatListEntry{ReceiverID: receiverID, ConversationID: conversationID}
	if err := m.store.client.RPush(ctx, chatListKey(senderID), mustJSON(entry)).Err(); err != nil {
		return m.store.wrap("chat list push", err)
	}
	return nil
}

// AppendMessage appends a message to its conversation list. Insertion order
// is the conversation order; the most recent message is always the tail.
func (m *MessageCache) AppendMessage(ctx context.Context, conversationID string, message social.Message) error {
	if err := m.store.client.RPush(ctx, messagesKey(conversationID), mustJSON(message)).Err(); err != nil {
		return m.store.wrap("message append", err)
	}
	return nil
}

// ConversationID resolves the conversation shared by sender and receiver
// from the sender's chat list.
func (m *MessageCache) ConversationID(ctx context.Context, senderID, receiverID string) (string, error) {
	entries, err := m.store.client.LRange(ctx, chatListKey(senderID), 0, -1).Result()
	if err != nil {
		return "", m.store.wrap("chat list scan", err)
	}

	for _, entry := range entries {
		var e social.ChatListEntry
		if err := json.Unmarshal([]byte(entry), &e); err == nil && e.ReceiverID == receiverID {
			return e.ConversationID, nil
		}
	}
	return "", apperrors.NewNotFoundError("conversation")
}

// LocateMessage resolves the conversation from the sender's chat list and
// scans it for the message id, returning the list index and parsed value.
func (m *MessageCache) LocateMessage(ctx context.Context, senderID, receiverID, messageID string) (int64, social.Message, error) {
	conversationID, err := m.ConversationID(ctx, senderID, receiverID)
	if err != nil {
		return 0, social.Message{}, err
	}

	entries, err := m.store.client.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return 0, social.Message{}, m.store.wrap("message scan", err)
	}

	for i, entry := range entries {
		var msg social.Message
		if err := json.Unmarshal([]byte(entry), &msg); err == nil && msg.ID == messageID {
			return int64(i), msg, nil
		}
	}
	return 0, social.Message{}, apperrors.NewNotFoundError("message")
}

// MarkDeleted sets the message's soft-delete flags in place. Scope
// deleteForMe sets only that flag; deleteForEveryone sets both. No other
// message in the conversation is touched.
func (m *MessageCache) MarkDeleted(ctx context.Context, senderID, receiverID, messageID string, scope social.DeleteScope) (social.Message, error) {
	index, msg, err := m.LocateMessage(ctx, senderID, receiverID, messageID)
	if err != nil {
		return social.Message{}, err
	}

	msg.DeleteForMe = true
	if scope == social.DeleteForEveryone {
		msg.DeleteForEveryone = true
	}

	if err := m.store.client.LSet(ctx, messagesKey(msg.ConversationID), index, mustJSON(msg)).Err(); err != nil {
		return social.Message{}, m.store.wrap("message delete", err)
	}
	return msg, nil
}

// MarkRead flags every unread message in the pair's conversation as read,
// writing each slot back individually so every update is immediately
// visible to concurrent readers. Returns the conversation's last message.
func (m *MessageCache) MarkRead(ctx context.Context, senderID, receiverID string) (social.Message, error) {
	conversationID, err := m.ConversationID(ctx, senderID, receiverID)
	if err != nil {
		return social.Message{}, err
	}

	entries, err := m.store.client.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return social.Message{}, m.store.wrap("message scan", err)
	}

	var last social.Message
	for i, entry := range entries {
		var msg social.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			continue
		}
		if !msg.IsRead {
			msg.IsRead = true
			if err := m.store.client.LSet(ctx, messagesKey(conversationID), int64(i), mustJSON(msg)).Err(); err != nil {
				return social.Message{}, m.store.wrap("message mark read", err)
			}
		}
		last = msg
	}
	return last, nil
}

// UpsertReaction replaces the sender's reaction entry on a message. Any
// existing entry from the same sender name is dropped first; on add the new
// entry is appended, keeping at most one entry per sender. The message slot
// is written back once.
func (m *MessageCache) UpsertReaction(ctx context.Context, conversationID, messageID, senderName string, reactionType social.ReactionType, action string) (social.Message, error) {
	entries, err := m.store.client.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return social.Message{}, m.store.wrap("message scan", err)
	}

	for i, entry := range entries {
		var msg social.Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil || msg.ID != messageID {
			continue
		}

		kept := make([]social.MessageReaction, 0, len(msg.Reaction)+1)
		for _, r := range msg.Reaction {
			if r.SenderName != senderName {
				kept = append(kept, r)
			}
		}
		if action == "add" {
			kept = append(kept, social.MessageReaction{SenderName: senderName, Type: reactionType})
		}
		msg.Reaction = kept

		if err := m.store.client.LSet(ctx, messagesKey(conversationID), int64(i), mustJSON(msg)).Err(); err != nil {
			return social.Message{}, m.store.wrap("message reaction", err)
		}
		return msg, nil
	}
	return social.Message{}, apperrors.NewNotFoundError("message")
}

// ListConversations returns the last message of every conversation on the
// user's chat list, one entry per peer.
func (m *MessageCache) ListConversations(ctx context.Context, userID string) ([]social.Message, error) {
	entries, err := m.store.client.LRange(ctx, chatListKey(userID), 0, -1).Result()
	if err != nil {
		return nil, m.store.wrap("chat list scan", err)
	}

	list := make([]social.Message, 0, len(entries))
	for _, entry := range entries {
		var e social.ChatListEntry
		if err := json.Unmarshal([]byte(entry), &e); err != nil {
			continue
		}
		tail, err := m.store.client.LIndex(ctx, messagesKey(e.ConversationID), -1).Result()
		if err != nil {
			if isNil(err) {
				continue
			}
			return nil, m.store.wrap("conversation tail", err)
		}
		var msg social.Message
		if err := json.Unmarshal([]byte(tail), &msg); err == nil {
			list = append(list, msg)
		}
	}
	m.store.hit()
	return list, nil
}

// ListMessages returns the full ordered message list for the pair's
// conversation. An unknown pair yields an empty list, not an error: an empty
// conversation and no conversation are indistinguishable to the reader.
func (m *MessageCache) ListMessages(ctx context.Context, senderID, receiverID string) ([]social.Message, error) {
	conversationID, err := m.ConversationID(ctx, senderID, receiverID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return []social.Message{}, nil
		}
		return nil, err
	}

	entries, err := m.store.client.LRange(ctx, messagesKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, m.store.wrap("message list", err)
	}

	list := make([]social.Message, 0, len(entries))
	for _, entry := range entries {
		var msg social.Message
		if err := json.Unmarshal([]byte(entry), &msg); err == nil {
			list = append(list, msg)
		}
	}
	m.store.hit()
	return list, nil
}

// AddParticipants appends a participant pair to the chat directory unless an
// equal pair is already present; returns the directory.
func (m *MessageCache) AddParticipants(ctx context.Context, pair social.ChatUser) ([]social.ChatUser, error) {
	users, err := m.participants(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u == pair {
			return users, nil
		}
	}

	if err := m.store.client.RPush(ctx, keyChatUsers, mustJSON(pair)).Err(); err != nil {
		return nil, m.store.wrap("chat users push", err)
	}
	return append(users, pair), nil
}

// RemoveParticipants removes one occurrence of a participant pair from the
// chat directory; returns the directory.
func (m *MessageCache) RemoveParticipants(ctx context.Context, pair social.ChatUser) ([]social.ChatUser, error) {
	if err := m.store.client.LRem(ctx, keyChatUsers, 1, mustJSON(pair)).Err(); err != nil {
		return nil, m.store.wrap("chat users remove", err)
	}
	return m.participants(ctx)
}

func (m *MessageCache) participants(ctx context.Context) ([]social.ChatUser, error) {
	entries, err := m.store.client.LRange(ctx, keyChatUsers, 0, -1).Result()
	if err != nil {
		return nil, m.store.wrap("chat users scan", err)
	}

	users := make([]social.ChatUser, 0, len(entries))
	for _, entry := range entries {
		var u social.ChatUser
		if err := json.Unmarshal([]byte(entry), &u); err == nil {
			users = append(users, u)
		}
	}
	return users, nil
}
