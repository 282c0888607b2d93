package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/cache"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/infrastructure/realtime"
	"github.com/fullstackyodha/wechat-backend/pkg/common"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ChatHandler serves the direct message routes.
type ChatHandler struct {
	base
	messages    *cache.MessageCache
	connections *cache.ConnectionCache
	broadcaster ports.Broadcaster
}

// NewChatHandler creates a chat handler.
func NewChatHandler(
	messages *cache.MessageCache,
	connections *cache.ConnectionCache,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		base:        base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		messages:    messages,
		connections: connections,
		broadcaster: broadcaster,
	}
}

// blockedEither reports whether either side of the pair has blocked the
// other.
func (h *ChatHandler) blockedEither(ctx context.Context, userID, peerID string) (bool, error) {
	blocked, err := h.connections.GetBlocked(ctx, userID, cache.FieldBlocked)
	if err != nil {
		return false, err
	}
	blockedBy, err := h.connections.GetBlocked(ctx, userID, cache.FieldBlockedBy)
	if err != nil {
		return false, err
	}
	for _, id := range append(blocked, blockedBy...) {
		if id == peerID {
			return true, nil
		}
	}
	return false, nil
}

type sendMessageRequest struct {
	ConversationID         string `json:"conversationId"`
	ReceiverID             string `json:"receiverId" validate:"required"`
	ReceiverUsername       string `json:"receiverUsername" validate:"required"`
	ReceiverAvatarColor    string `json:"receiverAvatarColor"`
	ReceiverProfilePicture string `json:"receiverProfilePicture"`
	Body                   string `json:"body"`
	GifURL                 string `json:"gifUrl"`
	SelectedImage          string `json:"selectedImage"`
	IsRead                 bool   `json:"isRead"`
}

// SendMessage appends a message to the pair's conversation, creating the
// conversation and both chat list entries the first time the pair talk.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req sendMessageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !social.ValidID(req.ReceiverID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid receiver id"))
		return
	}
	if req.Body == "" && req.GifURL == "" && req.SelectedImage == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("message must carry a body, gif or image"))
		return
	}

	ctx := r.Context()
	if blocked, err := h.blockedEither(ctx, userID, req.ReceiverID); err != nil {
		h.errors.Handle(w, r, err)
		return
	} else if blocked {
		h.errors.Handle(w, r, apperrors.NewForbiddenError("messaging is not available between these users"))
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		existing, err := h.messages.ConversationID(ctx, userID, req.ReceiverID)
		switch {
		case err == nil:
			conversationID = existing
		case apperrors.IsNotFound(err):
			conversationID = social.NewID()
		default:
			h.errors.Handle(w, r, err)
			return
		}
	}

	username, _ := common.GetUsername(ctx)
	message := social.Message{
		ID:                     social.NewID(),
		ConversationID:         conversationID,
		SenderID:               userID,
		SenderUsername:         username,
		ReceiverID:             req.ReceiverID,
		ReceiverUsername:       req.ReceiverUsername,
		ReceiverAvatarColor:    req.ReceiverAvatarColor,
		ReceiverProfilePicture: req.ReceiverProfilePicture,
		Body:                   req.Body,
		GifURL:                 req.GifURL,
		SelectedImage:          req.SelectedImage,
		Reaction:               []social.MessageReaction{},
		IsRead:                 req.IsRead,
		CreatedAt:              time.Now().UTC(),
	}

	if err := h.messages.EnsureConversationEntry(ctx, userID, req.ReceiverID, conversationID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.messages.EnsureConversationEntry(ctx, req.ReceiverID, userID, conversationID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.messages.AppendMessage(ctx, conversationID, message); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeAddChatMessage, queue.AddChatMessagePayload{
		Conversation: social.Conversation{ID: conversationID, SenderID: userID, ReceiverID: req.ReceiverID},
		Message:      message,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelChats, realtime.Event{Name: "message received", Data: message})

	common.RespondJSON(w, http.StatusCreated, message)
}

// ConversationList serves the caller's chat list: the last message of every
// conversation they take part in.
func (h *ChatHandler) ConversationList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.messages.ListConversations(r.Context(), userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// Messages serves the full history between the caller and one peer. An
// unknown pair yields an empty list.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	receiverID := chi.URLParam(r, "receiverId")
	if !social.ValidID(receiverID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid receiver id"))
		return
	}

	list, err := h.messages.ListMessages(r.Context(), userID, receiverID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

type markReadRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
}

// MarkRead flags every message between the pair as read.
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	var req markReadRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !social.ValidID(req.SenderID) || !social.ValidID(req.ReceiverID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid user id"))
		return
	}

	ctx := r.Context()
	last, err := h.messages.MarkRead(ctx, req.SenderID, req.ReceiverID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeMarkMessagesRead, queue.MarkMessagesReadPayload{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelChats, realtime.Event{Name: "message read", Data: last})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

// MarkDeleted soft-deletes one message for the caller or for everyone.
func (h *ChatHandler) MarkDeleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	receiverID := chi.URLParam(r, "receiverId")
	messageID := chi.URLParam(r, "messageId")
	scope := social.DeleteScope(chi.URLParam(r, "type"))
	if !social.ValidID(receiverID) || !social.ValidID(messageID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid id"))
		return
	}
	if !social.ValidDeleteScope(scope) {
		h.errors.Handle(w, r, apperrors.NewValidationError("unknown delete scope"))
		return
	}

	ctx := r.Context()
	message, err := h.messages.MarkDeleted(ctx, userID, receiverID, messageID, scope)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeMarkMessageDeleted, queue.MarkMessageDeletedPayload{
		MessageID: messageID,
		Scope:     scope,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelChats, realtime.Event{Name: "message read", Data: message})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Message marked as deleted"})
}

type messageReactionRequest struct {
	ConversationID string `json:"conversationId" validate:"required"`
	MessageID      string `json:"messageId" validate:"required"`
	Reaction       string `json:"reaction" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=add remove"`
}

// UpdateReaction adds or removes the caller's reaction on a message. A
// sender holds at most one reaction per message.
func (h *ChatHandler) UpdateReaction(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	var req messageReactionRequest
	if !h.decode(w, r, &req) {
		return
	}
	reactionType := social.ReactionType(req.Reaction)
	if !social.ValidReactionType(reactionType) {
		h.errors.Handle(w, r, apperrors.NewValidationError("unknown reaction type"))
		return
	}

	ctx := r.Context()
	username, _ := common.GetUsername(ctx)
	message, err := h.messages.UpsertReaction(ctx, req.ConversationID, req.MessageID, username, reactionType, req.Type)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeUpdateMessageReaction, queue.UpdateMessageReactionPayload{
		MessageID:  req.MessageID,
		SenderName: username,
		Type:       reactionType,
		Action:     req.Type,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelChats, realtime.Event{Name: "message reaction", Data: message})

	common.RespondJSON(w, http.StatusOK, message)
}

type chatUsersRequest struct {
	UserOne string `json:"userOne" validate:"required"`
	UserTwo string `json:"userTwo" validate:"required"`
}

// AddChatUsers registers a pair in the chat participant directory.
func (h *ChatHandler) AddChatUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	var req chatUsersRequest
	if !h.decode(w, r, &req) {
		return
	}

	users, err := h.messages.AddParticipants(r.Context(), social.ChatUser{UserOne: req.UserOne, UserTwo: req.UserTwo})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}

// RemoveChatUsers removes a pair from the chat participant directory.
func (h *ChatHandler) RemoveChatUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	var req chatUsersRequest
	if !h.decode(w, r, &req) {
		return
	}

	users, err := h.messages.RemoveParticipants(r.Context(), social.ChatUser{UserOne: req.UserOne, UserTwo: req.UserTwo})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, users)
}
