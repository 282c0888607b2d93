package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository stores conversation and message documents.
type ChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewChatRepository creates a chat repository on the given database.
func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		conversations: db.Collection(collConversations),
		messages:      db.Collection(collMessages),
	}
}

// UpsertConversation makes sure the pair's conversation document exists.
// Replays of the same message job hit the existing document.
func (r *ChatRepository) UpsertConversation(ctx context.Context, conversation social.Conversation) error {
	filter := bson.M{"_id": conversation.ID}
	_, err := r.conversations.ReplaceOne(ctx, filter, conversation, options.Replace().SetUpsert(true))
	if err != nil {
		return wrapDB("conversation", "conversation upsert", err)
	}
	return nil
}

func (r *ChatRepository) InsertMessage(ctx context.Context, message social.Message) error {
	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return wrapDB("message", "message insert", err)
	}
	return nil
}

func (r *ChatRepository) MarkMessageDeleted(ctx context.Context, messageID string, scope social.DeleteScope) error {
	set := bson.M{"deleteForMe": true}
	if scope == social.DeleteForEveryone {
		set["deleteForEveryone"] = true
	}
	res, err := r.messages.UpdateOne(ctx, bson.M{"_id": messageID}, bson.M{"$set": set})
	if err != nil {
		return wrapDB("message", "message delete", err)
	}
	if res.MatchedCount == 0 {
		return wrapDB("message", "message delete", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *ChatRepository) MarkMessagesRead(ctx context.Context, senderID, receiverID string) error {
	filter := bson.M{
		"$or": []bson.M{
			{"senderId": senderID, "receiverId": receiverID},
			{"senderId": receiverID, "receiverId": senderID},
		},
		"isRead": false,
	}
	_, err := r.messages.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"isRead": true}})
	if err != nil {
		return wrapDB("message", "messages mark read", err)
	}
	return nil
}

// UpdateMessageReaction drops the sender's existing reaction entry and, on
// add, pushes the replacement. Two steps keep the array free of duplicate
// sender entries without a pipeline update.
func (r *ChatRepository) UpdateMessageReaction(ctx context.Context, messageID, senderName string, reactionType social.ReactionType, action string) error {
	pull := bson.M{"$pull": bson.M{"reaction": bson.M{"senderName": senderName}}}
	if _, err := r.messages.UpdateOne(ctx, bson.M{"_id": messageID}, pull); err != nil {
		return wrapDB("message", "message reaction update", err)
	}

	if action != "add" {
		return nil
	}
	push := bson.M{"$push": bson.M{"reaction": social.MessageReaction{SenderName: senderName, Type: reactionType}}}
	if _, err := r.messages.UpdateOne(ctx, bson.M{"_id": messageID}, push); err != nil {
		return wrapDB("message", "message reaction update", err)
	}
	return nil
}
