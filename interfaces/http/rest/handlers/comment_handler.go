package handlers

import (
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

// CommentHandler serves the post comment routes.
type CommentHandler struct {
	base
	comments    *cache.CommentCache
	broadcaster ports.Broadcaster
}

// NewCommentHandler creates a comment handler.
func NewCommentHandler(
	comments *cache.CommentCache,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		base:        base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		comments:    comments,
		broadcaster: broadcaster,
	}
}

type addCommentRequest struct {
	PostID         string `json:"postId" validate:"required"`
	Comment        string `json:"comment" validate:"required"`
	UserTo         string `json:"userTo" validate:"required"`
	AvatarColor    string `json:"avatarColor"`
	ProfilePicture string `json:"profilePicture"`
}

// Add appends a comment to a post. The cache write is synchronous; the
// durable insert and its notification side effects run in the background.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req addCommentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !social.ValidID(req.PostID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	username, _ := common.GetUsername(r.Context())
	comment := social.Comment{
		ID:             social.NewID(),
		PostID:         req.PostID,
		Username:       username,
		AvatarColor:    req.AvatarColor,
		ProfilePicture: req.ProfilePicture,
		UserTo:         req.UserTo,
		UserFrom:       userID,
		Comment:        req.Comment,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.comments.Save(r.Context(), req.PostID, comment); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(r.Context(), queue.TypeAddComment, queue.AddCommentPayload{Comment: comment})
	_ = h.broadcaster.Publish(r.Context(), realtime.ChannelComments, realtime.Event{Name: "add comment", Data: comment})

	common.RespondJSON(w, http.StatusCreated, comment)
}

// List serves a post's comments, most recent first.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	list, err := h.comments.GetAll(r.Context(), postID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// Get serves one comment; absent is null, not an error.
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	commentID := chi.URLParam(r, "commentId")
	if !social.ValidID(postID) || !social.ValidID(commentID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid id"))
		return
	}

	comment, err := h.comments.GetOne(r.Context(), postID, commentID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, comment)
}

// Names serves the distinct commenter usernames with a total count.
func (h *CommentHandler) Names(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	names, err := h.comments.GetNames(r.Context(), postID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, names)
}
