package cache

import (
	"context"
	"strconv"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"github.com/redis/go-redis/v9"
)

// UserCache is the user profile cache service: a `users` sorted set scored by
// the numeric uId plus one hash per profile.
type UserCache struct {
	store *Store
}

// NewUserCache creates a user cache service.
func NewUserCache(store *Store) *UserCache {
	return &UserCache{store: store}
}

// Save registers the user in the index sorted set and writes the profile
// hash in one transaction.
func (u *UserCache) Save(ctx context.Context, user social.User) error {
	score, err := strconv.ParseFloat(user.UID, 64)
	if err != nil {
		return apperrors.NewValidationError("uId must be numeric")
	}

	pipe := u.store.client.TxPipeline()
	pipe.ZAdd(ctx, keyUsers, redis.Z{Score: score, Member: user.ID})
	pipe.HSet(ctx, userKey(user.ID), encodeUserHash(user))
	if _, err := pipe.Exec(ctx); err != nil {
		return u.store.wrap("user save", err)
	}
	return nil
}

// Get returns a single cached profile. A missing hash is a not-found, never
// a zero-valued profile.
func (u *UserCache) Get(ctx context.Context, userID string) (social.User, error) {
	fields, err := u.store.client.HGetAll(ctx, userKey(userID)).Result()
	if err != nil {
		return social.User{}, u.store.wrap("user read", err)
	}
	if len(fields) == 0 {
		u.store.miss()
		return social.User{}, apperrors.NewNotFoundError("user")
	}
	u.store.hit()
	return decodeUserHash(fields), nil
}

// GetPage returns a page of profiles in descending uId order, skipping the
// excluded user (the requester). The page window applies before exclusion,
// matching the index the reads paginate over.
func (u *UserCache) GetPage(ctx context.Context, start, end int64, excludeID string) ([]social.User, error) {
	ids, err := u.store.client.ZRevRange(ctx, keyUsers, start, end).Result()
	if err != nil {
		return nil, u.store.wrap("user index read", err)
	}

	users, err := u.fetchUsers(ctx, ids, func(user social.User) bool {
		return user.ID != excludeID
	})
	if err != nil {
		return nil, err
	}
	u.store.hit()
	return users, nil
}

// GetRandomSuggestions returns up to count random profiles excluding the
// requester, anyone the requester already follows, and optionally one
// username (the requester's own).
func (u *UserCache) GetRandomSuggestions(ctx context.Context, userID string, count int, excludedUsername string) ([]social.User, error) {
	candidates, err := u.store.client.ZRandMember(ctx, keyUsers, count*3).Result()
	if err != nil {
		return nil, u.store.wrap("user index sample", err)
	}

	following, err := u.store.client.LRange(ctx, followingKey(userID), 0, -1).Result()
	if err != nil {
		return nil, u.store.wrap("following scan", err)
	}
	followed := make(map[string]bool, len(following))
	for _, id := range following {
		followed[id] = true
	}

	users := make([]social.User, 0, count)
	for _, id := range candidates {
		if id == userID || followed[id] {
			continue
		}
		user, err := u.Get(ctx, id)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if user.Username == excludedUsername {
			continue
		}
		users = append(users, user)
		if len(users) == count {
			break
		}
	}
	return users, nil
}

// SetField overwrites one hash field and returns the re-read profile, so the
// caller observes exactly what the cache now holds.
func (u *UserCache) SetField(ctx context.Context, userID, field, value string) (social.User, error) {
	if err := u.store.client.HSet(ctx, userKey(userID), field, value).Err(); err != nil {
		return social.User{}, u.store.wrap("user field update", err)
	}
	return u.Get(ctx, userID)
}

// SetFields overwrites several hash fields as one HSET and returns the
// re-read profile.
func (u *UserCache) SetFields(ctx context.Context, userID string, fields map[string]string) (social.User, error) {
	if err := u.store.client.HSet(ctx, userKey(userID), fields).Err(); err != nil {
		return social.User{}, u.store.wrap("user fields update", err)
	}
	return u.Get(ctx, userID)
}

// TotalCount returns the size of the user index.
func (u *UserCache) TotalCount(ctx context.Context) (int64, error) {
	n, err := u.store.client.ZCard(ctx, keyUsers).Result()
	if err != nil {
		return 0, u.store.wrap("user count", err)
	}
	return n, nil
}

func (u *UserCache) fetchUsers(ctx context.Context, ids []string, keep func(social.User) bool) ([]social.User, error) {
	if len(ids) == 0 {
		return []social.User{}, nil
	}

	pipe := u.store.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, userKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, u.store.wrap("user batch read", err)
	}

	users := make([]social.User, 0, len(ids))
	for _, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		user := decodeUserHash(fields)
		if keep == nil || keep(user) {
			users = append(users, user)
		}
	}
	return users, nil
}
