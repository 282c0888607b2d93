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

// CommentWorker replicates comment writes and notifies the post author.
type CommentWorker struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	notifier *Notifier
	logger   *zap.Logger
}

// NewCommentWorker creates a comment worker.
func NewCommentWorker(comments ports.CommentRepository, posts ports.PostRepository, notifier *Notifier, logger *zap.Logger) *CommentWorker {
	return &CommentWorker{comments: comments, posts: posts, notifier: notifier, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *CommentWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeAddComment, w.HandleAddComment)
}

func (w *CommentWorker) HandleAddComment(ctx context.Context, task *asynq.Task) error {
	var p queue.AddCommentPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.comments.Insert(ctx, p.Comment); err != nil {
		return err
	}
	post, err := w.posts.AdjustCommentsCount(ctx, p.Comment.PostID, 1)
	if err != nil {
		return err
	}

	w.notifier.Notify(ctx, social.Notification{
		UserTo:           p.Comment.UserTo,
		UserFrom:         p.Comment.UserFrom,
		Message:          p.Comment.Username + " commented on your post.",
		NotificationType: social.NotificationComment,
		EntityID:         p.Comment.PostID,
		CreatedItemID:    p.Comment.ID,
		Comment:          p.Comment.Comment,
		Post:             post.Post,
		ImgID:            post.ImgID,
		ImgVersion:       post.ImgVersion,
		GifURL:           post.GifURL,
		CreatedAt:        time.Now().UTC(),
	}, "Comment notification")
	return nil
}
