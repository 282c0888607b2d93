package workers

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// PostWorker replicates post mutations into the durable store.
type PostWorker struct {
	posts  ports.PostRepository
	users  ports.UserRepository
	logger *zap.Logger
}

// NewPostWorker creates a post worker.
func NewPostWorker(posts ports.PostRepository, users ports.UserRepository, logger *zap.Logger) *PostWorker {
	return &PostWorker{posts: posts, users: users, logger: logger}
}

// Register wires the worker's handlers onto the mux.
func (w *PostWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeAddPost, w.HandleAddPost)
	mux.HandleFunc(queue.TypeUpdatePost, w.HandleUpdatePost)
	mux.HandleFunc(queue.TypeDeletePost, w.HandleDeletePost)
}

func (w *PostWorker) HandleAddPost(ctx context.Context, task *asynq.Task) error {
	var p queue.AddPostPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.posts.Insert(ctx, p.Post); err != nil {
		return err
	}
	if err := w.users.AdjustPostsCount(ctx, p.Post.UserID, 1); err != nil {
		return err
	}
	w.logger.Info("post persisted", zap.String("post_id", p.Post.ID))
	return nil
}

func (w *PostWorker) HandleUpdatePost(ctx context.Context, task *asynq.Task) error {
	var p queue.UpdatePostPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	return w.posts.Update(ctx, p.PostID, p.Update)
}

func (w *PostWorker) HandleDeletePost(ctx context.Context, task *asynq.Task) error {
	var p queue.DeletePostPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	if err := w.posts.Delete(ctx, p.PostID); err != nil {
		return err
	}
	return w.users.AdjustPostsCount(ctx, p.UserID, -1)
}
