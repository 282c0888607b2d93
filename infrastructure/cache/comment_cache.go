package cache

import (
	"context"
	"encoding/json"

	"github.com/fullstackyodha/wechat-backend/domain/social"
)

// CommentCache is the comment entity cache service. Comments live as a JSON
// list per post under `comments:<postId>`; LPUSH keeps the list
// most-recent-first without any explicit sort.
type CommentCache struct {
	store *Store
}

// NewCommentCache creates a comment cache service.
func NewCommentCache(store *Store) *CommentCache {
	return &CommentCache{store: store}
}

// Save prepends the comment and bumps the post's commentsCount. The count
// lives in the post hash and is adjusted with HINCRBY so concurrent comment
// additions on the same post cannot lose updates.
func (c *CommentCache) Save(ctx context.Context, postID string, comment social.Comment) error {
	if err := c.store.client.LPush(ctx, commentsKey(postID), mustJSON(comment)).Err(); err != nil {
		return c.store.wrap("comment push", err)
	}
	if err := c.store.client.HIncrBy(ctx, postKey(postID), "commentsCount", 1).Err(); err != nil {
		return c.store.wrap("comment count", err)
	}
	return nil
}

// GetAll returns every comment on a post, most recent first.
func (c *CommentCache) GetAll(ctx context.Context, postID string) ([]social.Comment, error) {
	entries, err := c.store.client.LRange(ctx, commentsKey(postID), 0, -1).Result()
	if err != nil {
		return nil, c.store.wrap("comment list", err)
	}

	list := make([]social.Comment, 0, len(entries))
	for _, entry := range entries {
		var cm social.Comment
		if err := json.Unmarshal([]byte(entry), &cm); err == nil {
			list = append(list, cm)
		}
	}
	c.store.hit()
	return list, nil
}

// GetOne returns a single comment located by a linear scan over the post's
// comment list, or nil when absent.
func (c *CommentCache) GetOne(ctx context.Context, postID, commentID string) (*social.Comment, error) {
	list, err := c.GetAll(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == commentID {
			return &list[i], nil
		}
	}
	return nil, nil
}

// GetNames derives the commenter-name view from the comment list in a single
// pass: total count plus distinct usernames in first-seen order.
func (c *CommentCache) GetNames(ctx context.Context, postID string) (social.CommentNameList, error) {
	list, err := c.GetAll(ctx, postID)
	if err != nil {
		return social.CommentNameList{}, err
	}

	seen := make(map[string]struct{}, len(list))
	names := make([]string, 0, len(list))
	for _, cm := range list {
		if _, ok := seen[cm.Username]; ok {
			continue
		}
		seen[cm.Username] = struct{}{}
		names = append(names, cm.Username)
	}

	return social.CommentNameList{Count: len(list), Names: names}, nil
}
