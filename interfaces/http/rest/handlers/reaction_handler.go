package handlers

import (
	"net/http"

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

// ReactionHandler serves the post reaction routes.
type ReactionHandler struct {
	base
	posts       *cache.PostCache
	reactions   *cache.ReactionCache
	broadcaster ports.Broadcaster
}

// NewReactionHandler creates a reaction handler.
func NewReactionHandler(
	posts *cache.PostCache,
	reactions *cache.ReactionCache,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ReactionHandler {
	return &ReactionHandler{
		base:        base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		posts:       posts,
		reactions:   reactions,
		broadcaster: broadcaster,
	}
}

type addReactionRequest struct {
	PostID           string `json:"postId" validate:"required"`
	Type             string `json:"type" validate:"required"`
	PreviousReaction string `json:"previousReaction"`
	UserTo           string `json:"userTo" validate:"required"`
	AvatarColor      string `json:"avatarColor"`
	ProfilePicture   string `json:"profilePicture"`
}

// Add records or replaces the caller's reaction on a post: tally and entry
// move in the cache synchronously, the durable write is queued.
func (h *ReactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req addReactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	next := social.ReactionType(req.Type)
	previous := social.ReactionType(req.PreviousReaction)
	if !social.ValidReactionType(next) {
		h.errors.Handle(w, r, apperrors.NewValidationError("unknown reaction type"))
		return
	}
	if previous != "" && !social.ValidReactionType(previous) {
		h.errors.Handle(w, r, apperrors.NewValidationError("unknown previous reaction type"))
		return
	}

	post, err := h.posts.Get(r.Context(), req.PostID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	username, _ := common.GetUsername(r.Context())
	reaction := social.Reaction{
		ID:             social.NewID(),
		PostID:         req.PostID,
		Type:           next,
		Username:       username,
		AvatarColor:    req.AvatarColor,
		ProfilePicture: req.ProfilePicture,
		UserTo:         req.UserTo,
		UserFrom:       userID,
	}

	tally := post.Reactions.Adjust(previous, next)
	if err := h.reactions.Save(r.Context(), req.PostID, reaction, tally, previous); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(r.Context(), queue.TypeAddReaction, queue.AddReactionPayload{
		Reaction:     reaction,
		PreviousType: previous,
	})
	_ = h.broadcaster.Publish(r.Context(), realtime.ChannelReactions, realtime.Event{Name: "update like", Data: reaction})

	common.RespondJSON(w, http.StatusCreated, reaction)
}

// Remove drops the caller's reaction from a post.
func (h *ReactionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	postID := chi.URLParam(r, "postId")
	previous := social.ReactionType(chi.URLParam(r, "previousReaction"))
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}
	if !social.ValidReactionType(previous) {
		h.errors.Handle(w, r, apperrors.NewValidationError("unknown previous reaction type"))
		return
	}

	post, err := h.posts.Get(r.Context(), postID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	username, _ := common.GetUsername(r.Context())
	tally := post.Reactions.Adjust(previous, "")
	if err := h.reactions.Remove(r.Context(), postID, username, tally); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(r.Context(), queue.TypeRemoveReaction, queue.RemoveReactionPayload{
		PostID:       postID,
		Username:     username,
		PreviousType: previous,
	})
	_ = h.broadcaster.Publish(r.Context(), realtime.ChannelReactions, realtime.Event{Name: "remove like", Data: postID})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Reaction removed"})
}

// List serves every reaction on a post.
func (h *ReactionHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	list, count, err := h.reactions.GetAll(r.Context(), postID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"reactions": list,
		"count":     count,
	})
}

// GetByUsername serves one user's reaction on a post; absent is null, not
// an error.
func (h *ReactionHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postId")
	username := chi.URLParam(r, "username")
	if !social.ValidID(postID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid post id"))
		return
	}

	reaction, err := h.reactions.GetByUsername(r.Context(), postID, username)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, reaction)
}
