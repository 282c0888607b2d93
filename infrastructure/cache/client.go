// Package cache implements the read side of the cache-aside pipeline: one
// connection-scoped store client plus one cache service per entity family.
// All values travel as strings; each entity has exactly one serialize /
// deserialize pair so the knowledge of which fields are JSON-nested lives in
// a single place per entity.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"
	"github.com/fullstackyodha/wechat-backend/pkg/metrics"
)

// Cache key layout. The layout is shared with existing deployments and must
// not change.
const (
	keyPosts     = "posts"
	keyUsers     = "users"
	keyChatUsers = "chatUsers"
)

func postKey(id string) string          { return "posts:" + id }
func userKey(id string) string          { return "users:" + id }
func commentsKey(postID string) string  { return "comments:" + postID }
func reactionsKey(postID string) string { return "reactions:" + postID }
func followersKey(id string) string     { return "followers:" + id }
func followingKey(id string) string     { return "following:" + id }
func chatListKey(userID string) string  { return "chatList:" + userID }
func messagesKey(convID string) string  { return "messages:" + convID }

// Store is the connection-scoped client to the in-memory store. One long
// lived client (with its own pool) is shared per process; operations never
// open or close connections themselves.
type Store struct {
	client  redis.UniversalClient
	logger  *zap.Logger
	metrics *metrics.CacheMetrics
}

// NewStore creates a store around an already-connected client.
func NewStore(client redis.UniversalClient, logger *zap.Logger, m *metrics.CacheMetrics) *Store {
	return &Store{client: client, logger: logger, metrics: m}
}

// NewClient dials the cache store and verifies the connection.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, apperrors.NewCacheError("parse redis url", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.NewCacheError("ping", err)
	}
	return client, nil
}

// Client exposes the underlying client for collaborators that share the
// connection (queue, locks, pub/sub).
func (s *Store) Client() redis.UniversalClient {
	return s.client
}

// wrap converts any store failure into the single cache-unavailable error
// kind. The store does not retry internally.
func (s *Store) wrap(op string, err error) error {
	s.logger.Error("cache operation failed", zap.String("op", op), zap.Error(err))
	if s.metrics != nil {
		s.metrics.Errors.Inc()
	}
	return apperrors.NewCacheError(op, err)
}

func (s *Store) hit() {
	if s.metrics != nil {
		s.metrics.Hits.Inc()
	}
}

func (s *Store) miss() {
	if s.metrics != nil {
		s.metrics.Misses.Inc()
	}
}

// isNil reports whether an error is the store's missing-key sentinel rather
// than a real failure.
func isNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// parseJSON unmarshals a cached value into out, falling back to treating the
// value as a plain string when it is not valid JSON. Some cached fields are
// legitimately bare strings, so a parse failure is not an error.
func parseJSON(value string, out interface{}) {
	if err := json.Unmarshal([]byte(value), out); err != nil {
		if sp, ok := out.(*string); ok {
			*sp = value
		}
	}
}

// parseInt reads a cached numeric field; malformed values read as zero.
func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

// encodeTime and parseTime fix the wire format of cached timestamps.
func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
