package ports

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"
)

// PostRepository defines the interface for durable post persistence.
// This is a port in hexagonal architecture - callers never see the driver.
type PostRepository interface {
	// Insert persists a new post document
	Insert(ctx context.Context, post social.Post) error

	// Get retrieves a post by id
	Get(ctx context.Context, postID string) (social.Post, error)

	// Update replaces the editable subset of a post
	Update(ctx context.Context, postID string, update social.PostUpdate) error

	// Delete removes the post together with its comments and reactions
	Delete(ctx context.Context, postID string) error

	// AdjustCommentsCount atomically shifts the comment counter and returns
	// the updated post
	AdjustCommentsCount(ctx context.Context, postID string, delta int) (social.Post, error)

	// AdjustReactions atomically moves the reaction tally from the previous
	// type to the next (either may be empty) and returns the updated post
	AdjustReactions(ctx context.Context, postID string, previous, next social.ReactionType) (social.Post, error)
}

// UserRepository defines the interface for durable user persistence.
type UserRepository interface {
	// Insert persists a new user document
	Insert(ctx context.Context, user social.User) error

	// Get retrieves a user by id
	Get(ctx context.Context, userID string) (social.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (social.User, error)

	// AdjustPostsCount atomically shifts a user's post counter
	AdjustPostsCount(ctx context.Context, userID string, delta int) error

	// UpdateBasicInfo replaces the free-text profile fields as one unit
	UpdateBasicInfo(ctx context.Context, userID string, info social.BasicInfo) error

	// UpdateSocialLinks replaces the external profile links
	UpdateSocialLinks(ctx context.Context, userID string, links social.SocialLinks) error

	// UpdateNotificationSettings replaces the notification toggles
	UpdateNotificationSettings(ctx context.Context, userID string, settings social.NotificationSettings) error

	// UpdateBlockStatus adds or removes the peer on the user's blocked list
	// and mirrors it on the peer's blockedBy list; adding is a no-op when
	// the entry already exists
	UpdateBlockStatus(ctx context.Context, userID, peerID string, block bool) error
}

// CommentRepository defines the interface for durable comment persistence.
type CommentRepository interface {
	// Insert persists a new comment document
	Insert(ctx context.Context, comment social.Comment) error

	// ListByPost retrieves a post's comments, most recent first
	ListByPost(ctx context.Context, postID string) ([]social.Comment, error)
}

// ReactionRepository defines the interface for durable reaction persistence.
type ReactionRepository interface {
	// Upsert replaces the user's existing reaction document on the post, or
	// inserts one when none matches (postID, previousType, username)
	Upsert(ctx context.Context, reaction social.Reaction, previousType social.ReactionType) error

	// Remove deletes the user's reaction document on the post
	Remove(ctx context.Context, postID, username string) error
}

// ConnectionRepository defines the interface for durable follow-edge
// persistence.
type ConnectionRepository interface {
	// Save persists a follow edge and shifts both users' counters in one
	// bulk write
	Save(ctx context.Context, edge social.Follower) error

	// Delete removes the follow edge and reverses both counters
	Delete(ctx context.Context, followerID, followeeID string) error
}

// ChatRepository defines the interface for durable chat persistence.
type ChatRepository interface {
	// UpsertConversation ensures the pair's conversation document exists
	UpsertConversation(ctx context.Context, conversation social.Conversation) error

	// InsertMessage persists a new message document
	InsertMessage(ctx context.Context, message social.Message) error

	// MarkMessageDeleted sets the message's soft-delete flags
	MarkMessageDeleted(ctx context.Context, messageID string, scope social.DeleteScope) error

	// MarkMessagesRead flags every unread message between the pair
	MarkMessagesRead(ctx context.Context, senderID, receiverID string) error

	// UpdateMessageReaction replaces the sender's reaction on a message;
	// action is "add" or "remove"
	UpdateMessageReaction(ctx context.Context, messageID, senderName string, reactionType social.ReactionType, action string) error
}

// NotificationRepository defines the interface for durable notification
// persistence.
type NotificationRepository interface {
	// Insert persists a notification and returns it with its assigned id
	Insert(ctx context.Context, notification social.Notification) (social.Notification, error)

	// ListForUser retrieves a user's notifications, most recent first
	ListForUser(ctx context.Context, userID string) ([]social.Notification, error)

	// MarkRead flags a single notification as read
	MarkRead(ctx context.Context, notificationID string) error

	// Delete removes a notification
	Delete(ctx context.Context, notificationID string) error
}

// Broadcaster publishes realtime events to connected clients.
type Broadcaster interface {
	// Publish emits one event on a named channel
	Publish(ctx context.Context, channel string, event interface{}) error
}

// MailSender delivers transactional email.
type MailSender interface {
	// Send delivers one HTML email
	Send(ctx context.Context, to, subject, htmlBody string) error
}
