// Package handlers holds the REST controllers. Controllers stay thin: they
// validate input, mutate the cache synchronously, enqueue the durable write,
// broadcast the realtime event and respond. Cache failures surface to the
// caller; queue and broadcast failures are logged and never fail a request
// whose cache write already succeeded.
package handlers

import (
	"context"
	"net/http"

	"github.com/fullstackyodha/wechat-backend/pkg/common"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Enqueuer is the producer surface the controllers use.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}) error
}

// base bundles the plumbing every controller shares.
type base struct {
	validate *validator.Validate
	errors   *apperrors.ErrorHandler
	producer Enqueuer
	logger   *zap.Logger
}

// decode parses and validates the JSON body. On failure it writes the error
// response and reports false.
func (b *base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(r, v, maxBodyBytes); err != nil {
		b.errors.Handle(w, r, apperrors.NewValidationError("invalid request body"))
		return false
	}
	if err := b.validate.Struct(v); err != nil {
		b.errors.Handle(w, r, apperrors.NewValidationError(err.Error()))
		return false
	}
	return true
}

// currentUser pulls the authenticated user's id from the context; the auth
// middleware guarantees it is present on protected routes.
func (b *base) currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := common.GetUserID(r.Context())
	if !ok || userID == "" {
		b.errors.Handle(w, r, apperrors.NewUnauthorizedError("missing user context"))
		return "", false
	}
	return userID, true
}

// enqueue schedules a durable write. Enqueue failures are logged, not
// surfaced: the cache mutation already succeeded and the response reflects
// the cache state.
func (b *base) enqueue(ctx context.Context, taskType string, payload interface{}) {
	if err := b.producer.Enqueue(ctx, taskType, payload); err != nil {
		b.logger.Error("durable write enqueue failed",
			zap.String("type", taskType),
			zap.Error(err),
		)
	}
}
