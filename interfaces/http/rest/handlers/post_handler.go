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

// PostHandler serves the post routes.
type PostHandler struct {
	base
	posts       *cache.PostCache
	users       *cache.UserCache
	postRepo    ports.PostRepository
	userRepo    ports.UserRepository
	broadcaster ports.Broadcaster
}

// NewPostHandler creates a post handler.
func NewPostHandler(
	posts *cache.PostCache,
	users *cache.UserCache,
	postRepo ports.PostRepository,
	userRepo ports.UserRepository,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *PostHandler {
	return &PostHandler{
		base:        base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		posts:       posts,
		users:       users,
		postRepo:    postRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

type createPostRequest struct {
	Post           string `json:"post" validate:"required_without_all=ImgID GifURL VideoID"`
	BgColor        string `json:"bgColor"`
	Privacy        string `json:"privacy" validate:"omitempty,oneof=Public Followers Private"`
	Feelings       string `json:"feelings"`
	GifURL         string `json:"gifUrl"`
	ProfilePicture string `json:"profilePicture"`
	ImgID          string `json:"imgId"`
	ImgVersion     string `json:"imgVersion"`
	VideoID        string `json:"videoId"`
	VideoVersion   string `json:"videoVersion"`
}

// Create stores the post in the cache, queues the durable write and
// broadcasts the new post.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req createPostRequest
	if !h.decode(w, r, &req) {
		return
	}

	username, _ := common.GetUsername(r.Context())
	uid, _ := common.GetUserUID(r.Context())

	author, err := h.users.Get(r.Context(), userID)
	if err != nil && !apperrors.IsNotFound(err) {
		h.errors.Handle(w, r, err)
		return
	}

	post := social.Post{
		ID:             social.NewID(),
		UserID:         userID,
		Username:       username,
		Email:          author.Email,
		AvatarColor:    author.AvatarColor,
		ProfilePicture: req.ProfilePicture,
		Post:           req.Post,
		BgColor:        req.BgColor,
		Feelings:       req.Feelings,
		GifURL:         req.GifURL,
		Privacy:        req.Privacy,
		ImgID:          req.ImgID,
		ImgVersion:     req.ImgVersion,
		VideoID:        req.VideoID,
		VideoVersion:   req.VideoVersion,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.posts.Save(r.Context(), post, userID, uid); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(r.Context(), queue.TypeAddPost, queue.AddPostPayload{Post: post})
	_ = h.broadcaster.Publish(r.Context(), realtime.ChannelPosts, realtime.Event{Name: "add post", Data: post})

	common.RespondJSON(w, http.StatusCreated, post)
}

// GetPage serves the main feed page, newest first.
func (h *PostHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, h.posts.GetPage)
}

// GetPageWithImages serves the image feed page.
func (h *PostHandler) GetPageWithImages(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, h.posts.GetPageWithImages)
}

// GetPageWithVideos serves the video feed page.
func (h *PostHandler) GetPageWithVideos(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, h.posts.GetPageWithVideos)
}

// GetByAuthor serves every post by one author, addressed by the author's
// sequence id.
func (h *PostHandler) GetByAuthor(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	uid := chi.URLParam(r, "uid")
	if uid == "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("missing author id"))
		return
	}

	posts, err := h.posts.GetPageForOwner(r.Context(), uid)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	count, err := h.posts.TotalCountForOwner(r.Context(), uid)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"count": count,
	})
}

func (h *PostHandler) servePage(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, start, end int64) ([]social.Post, error)) {
	params := common.ExtractPaginationParams(r)
	start, end := params.Range()

	posts, err := fetch(r.Context(), start, end)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	total, err := h.posts.TotalCount(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondWithMeta(w, http.StatusOK, posts, &common.MetaInfo{
		Pagination: common.NewPaginationInfo(params, int(total)),
	})
}

// Get serves a single post; a cache miss falls back to the durable store
// and repairs the cache.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	post, err := h.posts.Get(r.Context(), postID)
	if apperrors.IsNotFound(err) {
		post, err = h.repairPost(r, postID)
	}
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, post)
}

// repairPost reads the durable copy and writes it back into the cache.
func (h *PostHandler) repairPost(r *http.Request, postID string) (social.Post, error) {
	post, err := h.postRepo.Get(r.Context(), postID)
	if err != nil {
		return social.Post{}, err
	}
	author, err := h.userRepo.Get(r.Context(), post.UserID)
	if err != nil {
		return social.Post{}, err
	}
	if err := h.posts.Save(r.Context(), post, post.UserID, author.UID); err != nil {
		h.logger.Warn("post cache repair failed", zap.String("post_id", postID), zap.Error(err))
	}
	return post, nil
}

type updatePostRequest struct {
	Post           string `json:"post"`
	BgColor        string `json:"bgColor"`
	Privacy        string `json:"privacy" validate:"omitempty,oneof=Public Followers Private"`
	Feelings       string `json:"feelings"`
	GifURL         string `json:"gifUrl"`
	ProfilePicture string `json:"profilePicture"`
	ImgID          string `json:"imgId"`
	ImgVersion     string `json:"imgVersion"`
	VideoID        string `json:"videoId"`
	VideoVersion   string `json:"videoVersion"`
}

// Update replaces the editable fields of a post in the cache and queues the
// durable update.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	postID := chi.URLParam(r, "postId")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}
	var req updatePostRequest
	if !h.decode(w, r, &req) {
		return
	}

	update := social.PostUpdate{
		Post:           req.Post,
		BgColor:        req.BgColor,
		Feelings:       req.Feelings,
		Privacy:        req.Privacy,
		GifURL:         req.GifURL,
		ProfilePicture: req.ProfilePicture,
		ImgID:          req.ImgID,
		ImgVersion:     req.ImgVersion,
		VideoID:        req.VideoID,
		VideoVersion:   req.VideoVersion,
	}

	post, err := h.posts.Update(r.Context(), postID, update)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(r.Context(), queue.TypeUpdatePost, queue.UpdatePostPayload{PostID: postID, Update: update})
	_ = h.broadcaster.Publish(r.Context(), realtime.ChannelPosts, realtime.Event{Name: "update post", Data: post})

	common.RespondJSON(w, http.StatusOK, post)
}

// Delete evicts the post from the cache and queues the durable delete.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	postID := chi.URLParam(r, "postId")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	if err := h.posts.Delete(r.Context(), postID, userID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(r.Context(), queue.TypeDeletePost, queue.DeletePostPayload{PostID: postID, UserID: userID})
	_ = h.broadcaster.Publish(r.Context(), realtime.ChannelPosts, realtime.Event{Name: "delete post", Data: postID})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}
