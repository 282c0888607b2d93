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

// ReactionWorker replicates reaction writes and notifies the post author.
type ReactionWorker struct {
	reactions ports.ReactionRepository
	posts     ports.PostRepository
	notifier  *Notifier
	logger    *zap.Logger
}

// NewReactionWorker creates a reaction worker.
func NewReactionWorker(reactions ports.ReactionRepository, posts ports.PostRepository, notifier *Notifier, logger *zap.Logger) *ReactionWorker {
	return &ReactionWorker{reactions: reactions, posts: posts, notifier: notifier, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *ReactionWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeAddReaction, w.HandleAddReaction)
	mux.HandleFunc(queue.TypeRemoveReaction, w.HandleRemoveReaction)
}

func (w *ReactionWorker) HandleAddReaction(ctx context.Context, task *asynq.Task) error {
	var p queue.AddReactionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.reactions.Upsert(ctx, p.Reaction, p.PreviousType); err != nil {
		return err
	}
	post, err := w.posts.AdjustReactions(ctx, p.Reaction.PostID, p.PreviousType, p.Reaction.Type)
	if err != nil {
		return err
	}

	w.notifier.Notify(ctx, social.Notification{
		UserTo:           p.Reaction.UserTo,
		UserFrom:         p.Reaction.UserFrom,
		Message:          p.Reaction.Username + " reacted to your post.",
		NotificationType: social.NotificationReaction,
		EntityID:         p.Reaction.PostID,
		CreatedItemID:    p.Reaction.ID,
		Reaction:         string(p.Reaction.Type),
		Post:             post.Post,
		ImgID:            post.ImgID,
		ImgVersion:       post.ImgVersion,
		GifURL:           post.GifURL,
		CreatedAt:        time.Now().UTC(),
	}, "Reaction notification")
	return nil
}

func (w *ReactionWorker) HandleRemoveReaction(ctx context.Context, task *asynq.Task) error {
	var p queue.RemoveReactionPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.reactions.Remove(ctx, p.PostID, p.Username); err != nil {
		return err
	}
	_, err := w.posts.AdjustReactions(ctx, p.PostID, p.PreviousType, "")
	return err
}
