package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

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

const defaultSuggestionCount = 10

// UserHandler serves the user profile routes.
type UserHandler struct {
	base
	users       *cache.UserCache
	userRepo    ports.UserRepository
	broadcaster ports.Broadcaster
}

// NewUserHandler creates a user handler.
func NewUserHandler(
	users *cache.UserCache,
	userRepo ports.UserRepository,
	broadcaster ports.Broadcaster,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		base:        base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		users:       users,
		userRepo:    userRepo,
		broadcaster: broadcaster,
	}
}

// List serves a page of profiles, newest signup first, without the caller.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	params := common.ExtractPaginationParams(r)
	start, end := params.Range()

	list, err := h.users.GetPage(r.Context(), start, end, userID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	total, err := h.users.TotalCount(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, list, &common.MetaInfo{
		Pagination: common.NewPaginationInfo(params, int(total)),
	})
}

// Profile serves the caller's own profile.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	h.serveProfile(w, r, userID)
}

// ProfileByID serves another user's profile.
func (h *UserHandler) ProfileByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	userID := chi.URLParam(r, "userId")
	if !social.ValidID(userID) {
		h.errors.Handle(w, r, apperrors.NewValidationError("invalid user id"))
		return
	}
	h.serveProfile(w, r, userID)
}

func (h *UserHandler) serveProfile(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.users.Get(r.Context(), userID)
	if err != nil && apperrors.IsNotFound(err) {
		user, err = h.repairUser(r.Context(), userID)
	}
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, user)
}

// repairUser backfills an evicted profile from the durable store.
func (h *UserHandler) repairUser(ctx context.Context, userID string) (social.User, error) {
	user, err := h.userRepo.Get(ctx, userID)
	if err != nil {
		return social.User{}, err
	}
	if saveErr := h.users.Save(ctx, user); saveErr != nil {
		h.logger.Warn("user cache repair failed",
			zap.String("user_id", userID),
			zap.Error(saveErr))
	}
	return user, nil
}

// Suggestions serves random profiles the caller does not already follow.
func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	count := defaultSuggestionCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			count = n
		}
	}

	username, _ := common.GetUsername(r.Context())
	list, err := h.users.GetRandomSuggestions(r.Context(), userID, count, username)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, list)
}

type basicInfoRequest struct {
	Quote    string `json:"quote"`
	Work     string `json:"work"`
	School   string `json:"school"`
	Location string `json:"location"`
}

// UpdateBasicInfo replaces the caller's free-text profile fields.
func (h *UserHandler) UpdateBasicInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req basicInfoRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	user, err := h.users.SetFields(ctx, userID, map[string]string{
		"quote":    req.Quote,
		"work":     req.Work,
		"school":   req.School,
		"location": req.Location,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeUpdateBasicInfo, queue.UpdateBasicInfoPayload{
		UserID: userID,
		Info: social.BasicInfo{
			Quote:    req.Quote,
			Work:     req.Work,
			School:   req.School,
			Location: req.Location,
		},
	})

	common.RespondJSON(w, http.StatusOK, user)
}

type socialLinksRequest struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Youtube   string `json:"youtube"`
}

// UpdateSocialLinks replaces the caller's external profile links.
func (h *UserHandler) UpdateSocialLinks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req socialLinksRequest
	if !h.decode(w, r, &req) {
		return
	}

	links := social.SocialLinks{
		Facebook:  req.Facebook,
		Instagram: req.Instagram,
		Twitter:   req.Twitter,
		Youtube:   req.Youtube,
	}
	encoded, err := json.Marshal(links)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to encode social links"))
		return
	}

	ctx := r.Context()
	user, err := h.users.SetField(ctx, userID, "social", string(encoded))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeUpdateSocialLinks, queue.UpdateSocialLinksPayload{
		UserID: userID,
		Links:  links,
	})

	common.RespondJSON(w, http.StatusOK, user)
}

type notificationSettingsRequest struct {
	Messages  bool `json:"messages"`
	Reactions bool `json:"reactions"`
	Comments  bool `json:"comments"`
	Follows   bool `json:"follows"`
}

// UpdateNotificationSettings replaces the caller's notification toggles.
func (h *UserHandler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req notificationSettingsRequest
	if !h.decode(w, r, &req) {
		return
	}

	settings := social.NotificationSettings{
		Messages:  req.Messages,
		Reactions: req.Reactions,
		Comments:  req.Comments,
		Follows:   req.Follows,
	}
	encoded, err := json.Marshal(settings)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to encode notification settings"))
		return
	}

	ctx := r.Context()
	user, err := h.users.SetField(ctx, userID, "notifications", string(encoded))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	h.enqueue(ctx, queue.TypeUpdateNotificationSettings, queue.UpdateNotificationSettingsPayload{
		UserID:   userID,
		Settings: settings,
	})
	_ = h.broadcaster.Publish(ctx, realtime.ChannelUsers, realtime.Event{Name: "update notification settings", Data: user})

	common.RespondJSON(w, http.StatusOK, user)
}
