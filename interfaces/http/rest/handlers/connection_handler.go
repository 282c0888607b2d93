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

// ConnectionHandler serves the follow, unfollow and block routes.
type ConnectionHandler struct {
	base
	connections *cache.ConnectionCache
	broadcaster ports.Broadcaster
}

// NewConnectionHandler creates a connection handler.
func NewConnectionHandler(
	connections *cache.ConnectionCache,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		base:        base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		connections: connections,
		broadcaster: broadcaster,
	}
}

// Follow records the caller following another user. Both membership lists
// and both count fields move in the cache before the edge insert is queued.
func (h *ConnectionHandler) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	followeeID := chi.URLParam(r, "followeeId")
	if !social.ValidID(followeeID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid followee id"))
		return
	}
	if followeeID == userID {
		h.errors.Handle(w, r, apperrors.NewValidationError("cannot follow yourself"))
		return
	}

	ctx := r.Context()
	if err := h.connections.SaveFollower(ctx, cache.FollowingKey(userID), followeeID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.SaveFollower(ctx, cache.FollowersKey(followeeID), userID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.AdjustCount(ctx, userID, cache.FieldFollowingCount, 1); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.AdjustCount(ctx, followeeID, cache.FieldFollowersCount, 1); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	username, _ := common.GetUsername(ctx)
	edge := social.Follower{
		ID:         social.NewID(),
		FollowerID: userID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}
	h.enqueue(ctx, queue.TypeAddConnection, queue.AddConnectionPayload{
		Edge:     edge,
		Username: username,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelConnections, realtime.Event{Name: "add follower", Data: edge})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Following user now"})
}

// Unfollow reverses a follow edge.
func (h *ConnectionHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	followeeID := chi.URLParam(r, "followeeId")
	if !social.ValidID(followeeID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid followee id"))
		return
	}

	ctx := r.Context()
	if err := h.connections.RemoveFollower(ctx, cache.FollowingKey(userID), followeeID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.RemoveFollower(ctx, cache.FollowersKey(followeeID), userID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.AdjustCount(ctx, userID, cache.FieldFollowingCount, -1); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.AdjustCount(ctx, followeeID, cache.FieldFollowersCount, -1); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeRemoveConnection, queue.RemoveConnectionPayload{
		FollowerID: userID,
		FolloweeID: followeeID,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelConnections, realtime.Event{Name: "remove follower", Data: followeeID})

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Unfollowed user now"})
}

// Following serves the users the caller follows.
func (h *ConnectionHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.serveFollowList(w, r, cache.FollowingKey)
}

// Followers serves the users following the caller.
func (h *ConnectionHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.serveFollowList(w, r, cache.FollowersKey)
}

func (h *ConnectionHandler) serveFollowList(w http.ResponseWriter, r *http.Request, keyFor func(string) string) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	if id := chi.URLParam(r, "userId"); id != "" {
		if !social.ValidID(id) {
			h.errors.Handle(w, r, apperrors.NewValidationError("invalid user id"))
			return
		}
		userID = id
	}

	list, err := h.connections.GetFollowList(r.Context(), keyFor(userID))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

// Block marks a user as blocked by the caller on both profiles.
func (h *ConnectionHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.updateBlockStatus(w, r, cache.BlockOpBlock)
}

// Unblock reverses a block.
func (h *ConnectionHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.updateBlockStatus(w, r, cache.BlockOpUnblock)
}

func (h *ConnectionHandler) updateBlockStatus(w http.ResponseWriter, r *http.Request, op cache.BlockOp) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	peerID := chi.URLParam(r, "peerId")
	if !social.ValidID(peerID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid user id"))
		return
	}
	if peerID == userID {
		h.errors.Handle(w, r, apperrors.NewValidationError("cannot block yourself"))
		return
	}

	ctx := r.Context()
	if err := h.connections.UpdateBlocked(ctx, userID, cache.FieldBlocked, peerID, op); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := h.connections.UpdateBlocked(ctx, peerID, cache.FieldBlockedBy, userID, op); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeChangeBlockStatus, queue.ChangeBlockStatusPayload{
		UserID: userID,
		PeerID: peerID,
		Block:  op == cache.BlockOpBlock,
	})

	message := "User blocked"
	if op == cache.BlockOpUnblock {
		message = "User unblocked"
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": message})
}
