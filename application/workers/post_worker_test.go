package workers

import (
	"context"
	"sync"
	"testing"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostWorker_HandleAddPost(t *testing.T) {
	// Arrange
	posts := new(mockPostRepo)
	users := new(mockUserRepo)
	worker := NewPostWorker(posts, users, zap.NewNop())

	post := social.Post{ID: social.NewID(), UserID: social.NewID(), Post: "hello"}
	posts.On("Insert", mock.Anything, post).Return(nil)
	users.On("AdjustPostsCount", mock.Anything, post.UserID, 1).Return(nil)

	task, err := queue.NewTask(queue.TypeAddPost, queue.AddPostPayload{Post: post})
	require.NoError(t, err)

	// Act
	err = worker.HandleAddPost(context.Background(), task)

	// Assert
	require.NoError(t, err)
	posts.AssertExpectations(t)
	users.AssertExpectations(t)
}

// flakyPostRepo stores posts in memory but rejects the first few inserts,
// imitating a durable store that recovers mid-retry.
type flakyPostRepo struct {
	mockPostRepo
	mu       sync.Mutex
	failures int
	attempts int
	saved    map[string]social.Post
}

func (f *flakyPostRepo) Insert(ctx context.Context, post social.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return apperrors.NewDatabaseError("post insert", assert.AnError)
	}
	if f.saved == nil {
		f.saved = map[string]social.Post{}
	}
	f.saved[post.ID] = post
	return nil
}

// The queue redelivers a failed task to the same handler. Two failing
// attempts followed by a successful third must leave exactly one stored
// document for the post id.
func TestPostWorker_AddPostRetriesConverge(t *testing.T) {
	posts := &flakyPostRepo{failures: 2}
	users := new(mockUserRepo)
	users.On("AdjustPostsCount", mock.Anything, mock.Anything, 1).Return(nil)
	worker := NewPostWorker(posts, users, zap.NewNop())

	post := social.Post{ID: social.NewID(), UserID: social.NewID(), Post: "durable"}
	task, err := queue.NewTask(queue.TypeAddPost, queue.AddPostPayload{Post: post})
	require.NoError(t, err)

	require.Error(t, worker.HandleAddPost(context.Background(), task))
	require.Error(t, worker.HandleAddPost(context.Background(), task))
	require.NoError(t, worker.HandleAddPost(context.Background(), task))

	assert.Equal(t, 3, posts.attempts)
	require.Len(t, posts.saved, 1)
	assert.Equal(t, post.Post, posts.saved[post.ID].Post)
	users.AssertNumberOfCalls(t, "AdjustPostsCount", 1)
}

func TestPostWorker_HandleDeletePost(t *testing.T) {
	posts := new(mockPostRepo)
	users := new(mockUserRepo)
	worker := NewPostWorker(posts, users, zap.NewNop())

	postID, userID := social.NewID(), social.NewID()
	posts.On("Delete", mock.Anything, postID).Return(nil)
	users.On("AdjustPostsCount", mock.Anything, userID, -1).Return(nil)

	task, err := queue.NewTask(queue.TypeDeletePost, queue.DeletePostPayload{PostID: postID, UserID: userID})
	require.NoError(t, err)

	require.NoError(t, worker.HandleDeletePost(context.Background(), task))
	posts.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestPostWorker_HandleUpdatePost(t *testing.T) {
	posts := new(mockPostRepo)
	users := new(mockUserRepo)
	worker := NewPostWorker(posts, users, zap.NewNop())

	postID := social.NewID()
	update := social.PostUpdate{Post: "edited", Privacy: social.PrivacyPrivate}
	posts.On("Update", mock.Anything, postID, update).Return(nil)

	task, err := queue.NewTask(queue.TypeUpdatePost, queue.UpdatePostPayload{PostID: postID, Update: update})
	require.NoError(t, err)

	require.NoError(t, worker.HandleUpdatePost(context.Background(), task))
	posts.AssertExpectations(t)
}
