// Package queue is the durable job layer between the API process and the
// worker process. Task types are the mutation names the controllers enqueue;
// each entity family owns one named queue.
package queue

import (
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"github.com/hibiken/asynq"
)

// Task types, one per durable mutation.
const (
	TypeAddPost    = "addPostToDB"
	TypeUpdatePost = "updatePostInDB"
	TypeDeletePost = "deletePostFromDB"

	TypeAddReaction    = "addReactionToDB"
	TypeRemoveReaction = "removeReactionFromDB"

	TypeAddComment = "addCommentToDB"

	TypeAddConnection     = "addConnectionToDB"
	TypeRemoveConnection  = "removeConnectionFromDB"
	TypeChangeBlockStatus = "changeBlockStatusInDB"

	TypeAddChatMessage        = "addChatMessageToDB"
	TypeMarkMessageDeleted    = "markMessageAsDeletedInDB"
	TypeMarkMessagesRead      = "markMessagesAsReadInDB"
	TypeUpdateMessageReaction = "updateMessageReaction"

	TypeAddUser                    = "addUserToDB"
	TypeUpdateBasicInfo            = "updateBasicInfoInDB"
	TypeUpdateSocialLinks          = "updateSocialLinksInDB"
	TypeUpdateNotificationSettings = "updateNotificationSettings"

	TypeUpdateNotification = "updateNotification"
	TypeDeleteNotification = "deleteNotification"

	TypeSendNotificationEmail = "sendNotificationEmail"
)

// Queue names, one per entity family.
const (
	QueuePosts         = "posts"
	QueueComments      = "comments"
	QueueReactions     = "reactions"
	QueueConnections   = "connections"
	QueueChats         = "chats"
	QueueUsers         = "users"
	QueueNotifications = "notifications"
	QueueEmails        = "emails"
)

// queueFor routes a task type to its family queue.
func queueFor(taskType string) string {
	switch taskType {
	case TypeAddPost, TypeUpdatePost, TypeDeletePost:
		return QueuePosts
	case TypeAddComment:
		return QueueComments
	case TypeAddReaction, TypeRemoveReaction:
		return QueueReactions
	case TypeAddConnection, TypeRemoveConnection, TypeChangeBlockStatus:
		return QueueConnections
	case TypeAddChatMessage, TypeMarkMessageDeleted, TypeMarkMessagesRead, TypeUpdateMessageReaction:
		return QueueChats
	case TypeAddUser, TypeUpdateBasicInfo, TypeUpdateSocialLinks, TypeUpdateNotificationSettings:
		return QueueUsers
	case TypeUpdateNotification, TypeDeleteNotification:
		return QueueNotifications
	case TypeSendNotificationEmail:
		return QueueEmails
	}
	return "default"
}

// AddPostPayload carries the denormalized post to persist. The author's
// post counter is adjusted alongside the insert.
type AddPostPayload struct {
	Post social.Post `json:"post"`
}

type UpdatePostPayload struct {
	PostID string            `json:"postId"`
	Update social.PostUpdate `json:"update"`
}

type DeletePostPayload struct {
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// AddReactionPayload carries the replacement reaction plus the type it
// replaces, so the worker can move the tally and match the old document.
type AddReactionPayload struct {
	Reaction     social.Reaction     `json:"reaction"`
	PreviousType social.ReactionType `json:"previousReaction"`
}

type RemoveReactionPayload struct {
	PostID       string              `json:"postId"`
	Username     string              `json:"username"`
	PreviousType social.ReactionType `json:"previousReaction"`
}

type AddCommentPayload struct {
	Comment social.Comment `json:"comment"`
}

// AddConnectionPayload carries the follow edge plus the follower's display
// fields for the notification side effect.
type AddConnectionPayload struct {
	Edge        social.Follower `json:"edge"`
	Username    string          `json:"username"`
	AvatarColor string          `json:"avatarColor"`
}

type RemoveConnectionPayload struct {
	FollowerID string `json:"followerId"`
	FolloweeID string `json:"followeeId"`
}

type ChangeBlockStatusPayload struct {
	UserID string `json:"userId"`
	PeerID string `json:"peerId"`
	Block  bool   `json:"block"`
}

type AddChatMessagePayload struct {
	Conversation social.Conversation `json:"conversation"`
	Message      social.Message      `json:"message"`
}

type MarkMessageDeletedPayload struct {
	MessageID string             `json:"messageId"`
	Scope     social.DeleteScope `json:"scope"`
}

type MarkMessagesReadPayload struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

type UpdateMessageReactionPayload struct {
	MessageID  string              `json:"messageId"`
	SenderName string              `json:"senderName"`
	Type       social.ReactionType `json:"type"`
	Action     string              `json:"action"`
}

type AddUserPayload struct {
	User social.User `json:"user"`
}

type UpdateBasicInfoPayload struct {
	UserID string           `json:"userId"`
	Info   social.BasicInfo `json:"info"`
}

type UpdateSocialLinksPayload struct {
	UserID string             `json:"userId"`
	Links  social.SocialLinks `json:"links"`
}

type UpdateNotificationSettingsPayload struct {
	UserID   string                      `json:"userId"`
	Settings social.NotificationSettings `json:"settings"`
}

type UpdateNotificationPayload struct {
	NotificationID string `json:"notificationId"`
}

type DeleteNotificationPayload struct {
	NotificationID string `json:"notificationId"`
}

// SendEmailPayload carries a fully rendered message; the email worker only
// delivers it.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewTask builds an asynq task of the given type with a JSON payload.
func NewTask(taskType string, payload interface{}) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, data), nil
}
