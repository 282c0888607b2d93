package workers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ChatWorker replicates chat writes into the durable store.
type ChatWorker struct {
	chats    ports.ChatRepository
	notifier *Notifier
	logger   *zap.Logger
}

// NewChatWorker creates a chat worker.
func NewChatWorker(chats ports.ChatRepository, notifier *Notifier, logger *zap.Logger) *ChatWorker {
	return &ChatWorker{chats: chats, notifier: notifier, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *ChatWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeAddChatMessage, w.HandleAddChatMessage)
	mux.HandleFunc(queue.TypeMarkMessageDeleted, w.HandleMarkMessageDeleted)
	mux.HandleFunc(queue.TypeMarkMessagesRead, w.HandleMarkMessagesRead)
	mux.HandleFunc(queue.TypeUpdateMessageReaction, w.HandleUpdateMessageReaction)
}

func (w *ChatWorker) HandleAddChatMessage(ctx context.Context, task *asynq.Task) error {
	var p queue.AddChatMessagePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.chats.UpsertConversation(ctx, p.Conversation); err != nil {
		return err
	}
	if err := w.chats.InsertMessage(ctx, p.Message); err != nil {
		return err
	}

	w.notifier.Notify(ctx, social.Notification{
		UserTo:           p.Message.ReceiverID,
		UserFrom:         p.Message.SenderID,
		Message:          p.Message.SenderUsername + " sent you a message.",
		NotificationType: social.NotificationMessage,
		EntityID:         p.Message.ConversationID,
		CreatedItemID:    p.Message.ID,
		CreatedAt:        time.Now().UTC(),
	}, "Message notification")
	return nil
}

func (w *ChatWorker) HandleMarkMessageDeleted(ctx context.Context, task *asynq.Task) error {
	var p queue.MarkMessageDeletedPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.chats.MarkMessageDeleted(ctx, p.MessageID, p.Scope)
}

func (w *ChatWorker) HandleMarkMessagesRead(ctx context.Context, task *asynq.Task) error {
	var p queue.MarkMessagesReadPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.chats.MarkMessagesRead(ctx, p.SenderID, p.ReceiverID)
}

func (w *ChatWorker) HandleUpdateMessageReaction(ctx context.Context, task *asynq.Task) error {
	var p queue.UpdateMessageReactionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.chats.UpdateMessageReaction(ctx, p.MessageID, p.SenderName, p.Type, p.Action)
}
