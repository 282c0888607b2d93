package social

import "time"

// Conversation groups the messages between two users. A conversation is
// created implicitly the first time the pair exchange a message.
type Conversation struct {
	ID         string `json:"_id" bson:"_id"`
	SenderID   string `json:"senderId" bson:"senderId"`
	ReceiverID string `json:"receiverId" bson:"receiverId"`
}

// MessageReaction is one per-user reaction on a message: at most one entry
// per sender name.
type MessageReaction struct {
	SenderName string       `json:"senderName" bson:"senderName"`
	Type       ReactionType `json:"type" bson:"type"`
}

// Message is one chat message. The two delete flags are independent
// soft-deletes; a message is never removed from its conversation list.
type Message struct {
	ID                     string            `json:"_id" bson:"_id"`
	ConversationID         string            `json:"conversationId" bson:"conversationId"`
	SenderID               string            `json:"senderId" bson:"senderId"`
	SenderUsername         string            `json:"senderUsername" bson:"senderUsername"`
	SenderAvatarColor      string            `json:"senderAvatarColor" bson:"senderAvatarColor"`
	SenderProfilePicture   string            `json:"senderProfilePicture" bson:"senderProfilePicture"`
	ReceiverID             string            `json:"receiverId" bson:"receiverId"`
	ReceiverUsername       string            `json:"receiverUsername" bson:"receiverUsername"`
	ReceiverAvatarColor    string            `json:"receiverAvatarColor" bson:"receiverAvatarColor"`
	ReceiverProfilePicture string            `json:"receiverProfilePicture" bson:"receiverProfilePicture"`
	Body                   string            `json:"body" bson:"body"`
	GifURL                 string            `json:"gifUrl,omitempty" bson:"gifUrl"`
	SelectedImage          string            `json:"selectedImage,omitempty" bson:"selectedImage"`
	Reaction               []MessageReaction `json:"reaction" bson:"reaction"`
	IsRead                 bool              `json:"isRead" bson:"isRead"`
	DeleteForMe            bool              `json:"deleteForMe" bson:"deleteForMe"`
	DeleteForEveryone      bool              `json:"deleteForEveryone" bson:"deleteForEveryone"`
	CreatedAt              time.Time         `json:"createdAt" bson:"createdAt"`
}

// ChatListEntry maps a peer to the conversation shared with them; one entry
// per peer on each user's chat list.
type ChatListEntry struct {
	ReceiverID     string `json:"receiverId" bson:"receiverId"`
	ConversationID string `json:"conversationId" bson:"conversationId"`
}

// ChatUser is one pair in the chat participant directory used to seed a
// realtime room.
type ChatUser struct {
	UserOne string `json:"userOne" bson:"userOne"`
	UserTwo string `json:"userTwo" bson:"userTwo"`
}

// DeleteScope selects which soft-delete flags a message delete sets.
type DeleteScope string

const (
	DeleteForMe       DeleteScope = "deleteForMe"
	DeleteForEveryone DeleteScope = "deleteForEveryone"
)

// ValidDeleteScope reports whether s is a recognized delete scope.
func ValidDeleteScope(s DeleteScope) bool {
	return s == DeleteForMe || s == DeleteForEveryone
}
