package cache

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/domain/social"
)

// ReactionCache is the reaction entity cache service. Reactions live as a
// JSON list per post under `reactions:<postId>`; membership checks and
// removals are linear scans, an explicit O(n) contract that holds at the
// small per-post fan-out this list sees.
type ReactionCache struct {
	store *Store
}

// NewReactionCache creates a reaction cache service.
func NewReactionCache(store *Store) *ReactionCache {
	return &ReactionCache{store: store}
}

// Save records a user's reaction on a post. When the user reacted before,
// the previous entry is removed first so the list never holds two entries
// for the same username; removal must complete before the push to avoid a
// transient double-count. The post's tally field is overwritten with the
// caller-computed tally.
func (c *ReactionCache) Save(ctx context.Context, postID string, reaction social.Reaction, tally social.Reactions, previousType social.ReactionType) error {
	if previousType != "" {
		if err := c.Remove(ctx, postID, reaction.Username, tally); err != nil {
			return err
		}
	}

	if reaction.Type == "" {
		return nil
	}

	if err := c.store.client.LPush(ctx, reactionsKey(postID), mustJSON(reaction)).Err(); err != nil {
		return c.store.wrap("reaction push", err)
	}
	if err := c.store.client.HSet(ctx, postKey(postID), "reactions", mustJSON(tally)).Err(); err != nil {
		return c.store.wrap("reaction tally", err)
	}
	return nil
}

// Remove deletes the user's reaction entry, if any, and overwrites the
// post's tally field.
func (c *ReactionCache) Remove(ctx context.Context, postID, username string, tally social.Reactions) error {
	entries, err := c.store.client.LRange(ctx, reactionsKey(postID), 0, -1).Result()
	if err != nil {
		return c.store.wrap("reaction scan", err)
	}

	if previous := findReactionEntry(entries, username); previous != "" {
		if err := c.store.client.LRem(ctx, reactionsKey(postID), 1, previous).Err(); err != nil {
			return c.store.wrap("reaction remove", err)
		}
	}

	if err := c.store.client.HSet(ctx, postKey(postID), "reactions", mustJSON(tally)).Err(); err != nil {
		return c.store.wrap("reaction tally", err)
	}
	return nil
}

// GetAll returns every reaction on a post together with the count.
func (c *ReactionCache) GetAll(ctx context.Context, postID string) ([]social.Reaction, int64, error) {
	entries, err := c.store.client.LRange(ctx, reactionsKey(postID), 0, -1).Result()
	if err != nil {
		return nil, 0, c.store.wrap("reaction list", err)
	}

	list := make([]social.Reaction, 0, len(entries))
	for _, entry := range entries {
		var r social.Reaction
		if err := json.Unmarshal([]byte(entry), &r); err == nil {
			list = append(list, r)
		}
	}
	c.store.hit()
	return list, int64(len(list)), nil
}

// GetByUsername returns the single reaction a user left on a post, or nil
// when the user has not reacted.
func (c *ReactionCache) GetByUsername(ctx context.Context, postID, username string) (*social.Reaction, error) {
	list, _, err := c.GetAll(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Username == username {
			return &list[i], nil
		}
	}
	return nil, nil
}

// findReactionEntry returns the raw serialized entry for username, or the
// empty string. The raw entry is needed so LREM removes the exact value.
func findReactionEntry(entries []string, username string) string {
	for _, entry := range entries {
		var r social.Reaction
		if err := json.Unmarshal([]byte(entry), &r); err != nil {
			continue
		}
		if r.Username == username {
			return entry
		}
	}
	return ""
}
