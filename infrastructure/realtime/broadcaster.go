// Package realtime fans events out to connected clients over Redis pub/sub.
// Publishing is best effort: a dropped event never fails the request or the
// job that produced it, so errors are logged and swallowed by callers.
package realtime

import (
	"context"
	"encoding/json"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel names, one per entity family event stream.
const (
	ChannelPosts         = "realtime:posts"
	ChannelReactions     = "realtime:reactions"
	ChannelComments      = "realtime:comments"
	ChannelConnections   = "realtime:connections"
	ChannelChats         = "realtime:chats"
	ChannelUsers         = "realtime:users"
	ChannelNotifications = "realtime:notifications"
)

// Event is the envelope published on every channel.
type Event struct {
	Name string      `json:"name"`
	Data interface{} `json:"data"`
}

// Broadcaster publishes events on Redis pub/sub channels.
type Broadcaster struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewBroadcaster creates a broadcaster on an existing Redis client.
func NewBroadcaster(client redis.UniversalClient, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{client: client, logger: logger}
}

// Publish emits one event. The error return lets callers decide whether to
// log; none of them propagate it.
func (b *Broadcaster) Publish(ctx context.Context, channel string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, "encode realtime event")
	}
	if err := b.client.Publish(ctx, channel, payload).Err(); err != nil {
		b.logger.Warn("realtime publish failed", zap.String("channel", channel), zap.Error(err))
		return apperrors.Wrap(err, "publish realtime event")
	}
	return nil
}
