package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/cache"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/pkg/common"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"
	"github.com/fullstackyodha/wechat-backend/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingEnqueuer captures every enqueued task instead of talking to a
// broker.
type recordingEnqueuer struct {
	types    []string
	payloads []interface{}
	err      error
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, taskType string, payload interface{}) error {
	if e.err != nil {
		return e.err
	}
	e.types = append(e.types, taskType)
	e.payloads = append(e.payloads, payload)
	return nil
}

// recordingBroadcaster captures published event names.
type recordingBroadcaster struct {
	events []string
}

func (b *recordingBroadcaster) Publish(_ context.Context, _ string, event interface{}) error {
	raw, _ := json.Marshal(event)
	var envelope struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(raw, &envelope)
	b.events = append(b.events, envelope.Name)
	return nil
}

// stubPostRepo answers Get from a fixed map; everything else is unused by
// the handler under test.
type stubPostRepo struct {
	posts map[string]social.Post
}

func (s *stubPostRepo) Insert(context.Context, social.Post) error { return nil }
func (s *stubPostRepo) Get(_ context.Context, postID string) (social.Post, error) {
	p, ok := s.posts[postID]
	if !ok {
		return social.Post{}, apperrors.NewNotFoundError("post")
	}
	return p, nil
}
func (s *stubPostRepo) Update(context.Context, string, social.PostUpdate) error { return nil }
func (s *stubPostRepo) Delete(context.Context, string) error                    { return nil }
func (s *stubPostRepo) AdjustCommentsCount(context.Context, string, int) (social.Post, error) {
	return social.Post{}, nil
}
func (s *stubPostRepo) AdjustReactions(context.Context, string, social.ReactionType, social.ReactionType) (social.Post, error) {
	return social.Post{}, nil
}

type stubUserRepo struct {
	users map[string]social.User
}

func (s *stubUserRepo) Insert(context.Context, social.User) error { return nil }
func (s *stubUserRepo) Get(_ context.Context, userID string) (social.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return social.User{}, apperrors.NewNotFoundError("user")
	}
	return u, nil
}
func (s *stubUserRepo) GetByUsername(context.Context, string) (social.User, error) {
	return social.User{}, apperrors.NewNotFoundError("user")
}
func (s *stubUserRepo) AdjustPostsCount(context.Context, string, int) error { return nil }
func (s *stubUserRepo) UpdateBasicInfo(context.Context, string, social.BasicInfo) error {
	return nil
}
func (s *stubUserRepo) UpdateSocialLinks(context.Context, string, social.SocialLinks) error {
	return nil
}
func (s *stubUserRepo) UpdateNotificationSettings(context.Context, string, social.NotificationSettings) error {
	return nil
}
func (s *stubUserRepo) UpdateBlockStatus(context.Context, string, string, bool) error { return nil }

type postHandlerFixture struct {
	handler     *PostHandler
	posts       *cache.PostCache
	users       *cache.UserCache
	enqueuer    *recordingEnqueuer
	broadcaster *recordingBroadcaster
	postRepo    *stubPostRepo
	userRepo    *stubUserRepo
	mr          *miniredis.Miniredis
}

func newPostHandlerFixture(t *testing.T) *postHandlerFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	store := cache.NewStore(client, logger, metrics.NewCacheMetrics(prometheus.NewRegistry()))

	f := &postHandlerFixture{
		posts:       cache.NewPostCache(store),
		users:       cache.NewUserCache(store),
		enqueuer:    &recordingEnqueuer{},
		broadcaster: &recordingBroadcaster{},
		postRepo:    &stubPostRepo{posts: map[string]social.Post{}},
		userRepo:    &stubUserRepo{users: map[string]social.User{}},
		mr:          mr,
	}
	f.handler = NewPostHandler(
		f.posts, f.users, f.postRepo, f.userRepo, f.broadcaster,
		f.enqueuer, validator.New(), apperrors.NewErrorHandler(logger, false), logger,
	)
	return f
}

func authedRequest(method, target string, body []byte, userID, username, uid string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := common.WithUserID(r.Context(), userID)
	ctx = common.WithUsername(ctx, username)
	ctx = common.WithUserUID(ctx, uid)
	return r.WithContext(ctx)
}

func TestPostHandler_CreateWritesCacheAndQueuesDurableWrite(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	userID := social.NewID()
	body, _ := json.Marshal(map[string]string{
		"post":    "hello world",
		"privacy": "Public",
	})
	w := httptest.NewRecorder()

	// Act
	f.handler.Create(w, authedRequest(http.MethodPost, "/api/v1/post", body, userID, "danny", "100200300"))

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)

	total, err := f.posts.TotalCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	require.Len(t, f.enqueuer.types, 1)
	assert.Equal(t, queue.TypeAddPost, f.enqueuer.types[0])
	payload, ok := f.enqueuer.payloads[0].(queue.AddPostPayload)
	require.True(t, ok)
	assert.Equal(t, "hello world", payload.Post.Post)
	assert.Equal(t, userID, payload.Post.UserID)

	assert.Equal(t, []string{"add post"}, f.broadcaster.events)
}

func TestPostHandler_CreateRejectsEmptyPost(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	body, _ := json.Marshal(map[string]string{"privacy": "Public"})
	w := httptest.NewRecorder()

	// Act
	f.handler.Create(w, authedRequest(http.MethodPost, "/api/v1/post", body, social.NewID(), "danny", "1"))

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.enqueuer.types)
}

func TestPostHandler_CreateRequiresUserContext(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	body, _ := json.Marshal(map[string]string{"post": "hello"})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/post", bytes.NewReader(body))

	// Act
	f.handler.Create(w, r)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostHandler_GetRepairsCacheMiss(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	authorID := social.NewID()
	postID := social.NewID()
	f.postRepo.posts[postID] = social.Post{
		ID:     postID,
		UserID: authorID,
		Post:   "only durable",
	}
	f.userRepo.users[authorID] = social.User{ID: authorID, UID: "42", Username: "danny"}

	router := chi.NewRouter()
	router.Get("/post/{postId}", f.handler.Get)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/post/"+postID, nil, authorID, "danny", "42"))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	repaired, err := f.posts.Get(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, "only durable", repaired.Post)
}

func TestPostHandler_GetUnknownPostIsNotFound(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	router := chi.NewRouter()
	router.Get("/post/{postId}", f.handler.Get)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/post/"+social.NewID(), nil, social.NewID(), "danny", "1"))

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostHandler_DeleteEvictsAndQueues(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	userID := social.NewID()
	post := social.Post{ID: social.NewID(), UserID: userID, Post: "to be removed"}
	require.NoError(t, f.posts.Save(context.Background(), post, userID, "7"))

	router := chi.NewRouter()
	router.Delete("/post/{postId}", f.handler.Delete)
	w := httptest.NewRecorder()

	// Act
	router.ServeHTTP(w, authedRequest(http.MethodDelete, "/post/"+post.ID, nil, userID, "danny", "7"))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	_, err := f.posts.Get(context.Background(), post.ID)
	assert.True(t, apperrors.IsNotFound(err))

	require.Len(t, f.enqueuer.types, 1)
	assert.Equal(t, queue.TypeDeletePost, f.enqueuer.types[0])
}

func TestPostHandler_EnqueueFailureDoesNotFailRequest(t *testing.T) {
	// Arrange
	f := newPostHandlerFixture(t)
	f.enqueuer.err = assert.AnError
	body, _ := json.Marshal(map[string]string{"post": "still cached"})
	w := httptest.NewRecorder()

	// Act
	f.handler.Create(w, authedRequest(http.MethodPost, "/api/v1/post", body, social.NewID(), "danny", "9"))

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	total, err := f.posts.TotalCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
