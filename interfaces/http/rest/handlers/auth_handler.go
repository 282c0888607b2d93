package handlers

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/fullstackyodha/wechat-backend/application/ports"
	"github.com/fullstackyodha/wechat-backend/domain/social"
	"github.com/fullstackyodha/wechat-backend/infrastructure/cache"
	"github.com/fullstackyodha/wechat-backend/infrastructure/queue"
	"github.com/fullstackyodha/wechat-backend/pkg/auth"
	"github.com/fullstackyodha/wechat-backend/pkg/common"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// AuthHandler serves signup and signin. Identity verification itself is
// delegated to the identity provider in front of the API; these routes only
// materialize the profile and issue the session token.
type AuthHandler struct {
	base
	users    *cache.UserCache
	userRepo ports.UserRepository
	tokens   *auth.TokenManager
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(
	users *cache.UserCache,
	userRepo ports.UserRepository,
	tokens *auth.TokenManager,
	producer Enqueuer,
	validate *validator.Validate,
	errorHandler *apperrors.ErrorHandler,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		base:     base{validate: validate, errors: errorHandler, producer: producer, logger: logger},
		users:    users,
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type signupRequest struct {
	Username       string `json:"username" validate:"required,min=4,max=16"`
	Email          string `json:"email" validate:"required,email"`
	AvatarColor    string `json:"avatarColor" validate:"required"`
	ProfilePicture string `json:"profilePicture"`
}

type authResponse struct {
	User  social.User `json:"user"`
	Token string      `json:"token"`
}

// Signup creates a profile: written to the cache synchronously, queued for
// the durable store, token issued immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	if existing, err := h.userRepo.GetByUsername(ctx, req.Username); err == nil && existing.ID != "" {
		h.errors.Handle(w, r, apperrors.NewValidationError("username is already taken"))
		return
	} else if err != nil && !apperrors.IsNotFound(err) {
		h.errors.Handle(w, r, err)
		return
	}

	user := social.User{
		ID:             social.NewID(),
		UID:            strconv.FormatInt(rand.Int63n(999_999_999_999), 10),
		Username:       req.Username,
		Email:          req.Email,
		AvatarColor:    req.AvatarColor,
		ProfilePicture: req.ProfilePicture,
		Blocked:        []string{},
		BlockedBy:      []string{},
		Notifications:  social.DefaultNotificationSettings(),
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.users.Save(ctx, user); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.enqueue(ctx, queue.TypeAddUser, queue.AddUserPayload{User: user})

	token, err := h.tokens.Generate(user.ID, user.Username, user.UID, user.Email)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to issue token"))
		return
	}
	common.RespondJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

type signinRequest struct {
	Username string `json:"username" validate:"required,min=4,max=16"`
}

// Signin looks the profile up by username, warms the cache and issues a
// fresh token.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.errors.Handle(w, r, apperrors.NewUnauthorizedError("invalid credentials"))
			return
		}
		h.errors.Handle(w, r, err)
		return
	}

	if cacheErr := h.users.Save(ctx, user); cacheErr != nil {
		h.logger.Warn("user cache warm failed",
			zap.String("user_id", user.ID),
			zap.Error(cacheErr))
	}

	token, err := h.tokens.Generate(user.ID, user.Username, user.UID, user.Email)
	if err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to issue token"))
		return
	}
	common.RespondJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}
