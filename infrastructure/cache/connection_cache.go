package cache

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/domain/social"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"
)

// Counter field names on the user hash adjusted by follow/unfollow.
const (
	FieldFollowersCount = "followersCount"
	FieldFollowingCount = "followingCount"
)

// Blocked-list field names on the user hash.
const (
	FieldBlocked   = "blocked"
	FieldBlockedBy = "blockedBy"
)

// BlockOp selects the direction of a blocked-list update.
type BlockOp string

const (
	BlockOpBlock   BlockOp = "block"
	BlockOpUnblock BlockOp = "unblock"
)

// ConnectionCache is the follow-edge cache service. A follow edge is two
// independent list memberships: the followee's id on `following:<follower>`
// and the follower's id on `followers:<followee>`; the caller toggles both.
type ConnectionCache struct {
	store  *Store
	locker *Locker
}

// NewConnectionCache creates a connection cache service.
func NewConnectionCache(store *Store, locker *Locker) *ConnectionCache {
	return &ConnectionCache{store: store, locker: locker}
}

// FollowingKey returns the cache key of a user's following list.
func FollowingKey(userID string) string { return followingKey(userID) }

// FollowersKey returns the cache key of a user's followers list.
func FollowersKey(userID string) string { return followersKey(userID) }

// SaveFollower pushes a peer id onto a following/followers list key.
func (c *ConnectionCache) SaveFollower(ctx context.Context, key, peerID string) error {
	if err := c.store.client.LPush(ctx, key, peerID).Err(); err != nil {
		return c.store.wrap("follower save", err)
	}
	return nil
}

// RemoveFollower removes one occurrence of a peer id from a list key.
func (c *ConnectionCache) RemoveFollower(ctx context.Context, key, peerID string) error {
	if err := c.store.client.LRem(ctx, key, 1, peerID).Err(); err != nil {
		return c.store.wrap("follower remove", err)
	}
	return nil
}

// AdjustCount atomically adjusts a follower/following counter on the user
// hash; delta is +1 or -1.
func (c *ConnectionCache) AdjustCount(ctx context.Context, userID, field string, delta int64) error {
	if err := c.store.client.HIncrBy(ctx, userKey(userID), field, delta).Err(); err != nil {
		return c.store.wrap("count adjust", err)
	}
	return nil
}

// GetFollowList reads the peer ids on a list key and assembles the
// denormalized view by fetching each peer's cached profile. This is an N+1
// fetch, acceptable at small fan-out.
func (c *ConnectionCache) GetFollowList(ctx context.Context, key string) ([]social.FollowerData, error) {
	ids, err := c.store.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, c.store.wrap("follow list", err)
	}

	list := make([]social.FollowerData, 0, len(ids))
	for _, id := range ids {
		fields, err := c.store.client.HGetAll(ctx, userKey(id)).Result()
		if err != nil {
			return nil, c.store.wrap("follow list user", err)
		}
		if len(fields) == 0 {
			continue
		}
		user := decodeUserHash(fields)
		list = append(list, social.FollowerData{
			ID:             user.ID,
			UID:            user.UID,
			Username:       user.Username,
			AvatarColor:    user.AvatarColor,
			ProfilePicture: user.ProfilePicture,
			PostsCount:     user.PostsCount,
			FollowersCount: user.FollowersCount,
			FollowingCount: user.FollowingCount,
		})
	}
	c.store.hit()
	return list, nil
}

// UpdateBlocked adds or removes a peer id on the user's blocked/blockedBy
// list field. The field holds a JSON id list inside the user hash, so the
// update is a read-modify-write; a per-user mutex makes it safe against
// concurrent block/unblock of the same user.
func (c *ConnectionCache) UpdateBlocked(ctx context.Context, userID, field, peerID string, op BlockOp) error {
	if field != FieldBlocked && field != FieldBlockedBy {
		return apperrors.NewValidationError("unknown blocked-list field")
	}

	return c.locker.WithLock(ctx, userKey(userID), func() error {
		raw, err := c.store.client.HGet(ctx, userKey(userID), field).Result()
		if err != nil && !isNil(err) {
			return c.store.wrap("blocked read", err)
		}

		var ids []string
		parseJSON(raw, &ids)

		updated := make([]string, 0, len(ids)+1)
		present := false
		for _, id := range ids {
			if id == peerID {
				present = true
				if op == BlockOpUnblock {
					continue
				}
			}
			updated = append(updated, id)
		}
		if op == BlockOpBlock && !present {
			updated = append(updated, peerID)
		}

		if err := c.store.client.HSet(ctx, userKey(userID), field, mustJSON(updated)).Err(); err != nil {
			return c.store.wrap("blocked write", err)
		}
		return nil
	})
}

// GetBlocked reads the id list stored in a blocked/blockedBy field.
func (c *ConnectionCache) GetBlocked(ctx context.Context, userID, field string) ([]string, error) {
	raw, err := c.store.client.HGet(ctx, userKey(userID), field).Result()
	if err != nil {
		if isNil(err) {
			return []string{}, nil
		}
		return nil, c.store.wrap("blocked read", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil || ids == nil {
		ids = []string{}
	}
	return ids, nil
}
