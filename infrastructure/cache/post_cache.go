package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/fullstackyodha/wechat-backend/domain/social"
	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"
)

// PostCache is the post entity cache service. Posts live as one hash per
// post under `posts:<id>` plus a sorted set `posts` scored by the owner's
// numeric sequence id, which drives both global and per-owner range reads.
type PostCache struct {
	store *Store
}

// NewPostCache creates a post cache service.
func NewPostCache(store *Store) *PostCache {
	return &PostCache{store: store}
}

// Save writes the post hash, indexes the id in the `posts` sorted set scored
// by the owner's sequence id, and increments the owner's postsCount. All
// three run as one atomic batch.
func (c *PostCache) Save(ctx context.Context, post social.Post, ownerID, ownerSequenceID string) error {
	score, err := strconv.ParseFloat(ownerSequenceID, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid owner sequence id")
	}

	pipe := c.store.client.TxPipeline()
	pipe.ZAdd(ctx, keyPosts, redis.Z{Score: score, Member: post.ID})
	pipe.HSet(ctx, postKey(post.ID), encodePostHash(post))
	pipe.HIncrBy(ctx, userKey(ownerID), "postsCount", 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return c.store.wrap("post save", err)
	}
	return nil
}

// Get returns a single cached post. A missing hash is a not-found, distinct
// from a cache failure.
func (c *PostCache) Get(ctx context.Context, postID string) (social.Post, error) {
	fields, err := c.store.client.HGetAll(ctx, postKey(postID)).Result()
	if err != nil {
		return social.Post{}, c.store.wrap("post get", err)
	}
	if len(fields) == 0 {
		c.store.miss()
		return social.Post{}, apperrors.NewNotFoundError("post")
	}
	c.store.hit()
	return decodePostHash(fields), nil
}

// GetPage reads one page of posts in descending score order.
func (c *PostCache) GetPage(ctx context.Context, start, end int64) ([]social.Post, error) {
	return c.rangePosts(ctx, start, end, nil)
}

// GetPageWithImages reads a page and keeps only posts carrying an image or
// gif attachment. The filter runs after the fetch, not in the store.
func (c *PostCache) GetPageWithImages(ctx context.Context, start, end int64) ([]social.Post, error) {
	return c.rangePosts(ctx, start, end, social.Post.HasImage)
}

// GetPageWithVideos reads a page and keeps only posts carrying a video.
func (c *PostCache) GetPageWithVideos(ctx context.Context, start, end int64) ([]social.Post, error) {
	return c.rangePosts(ctx, start, end, social.Post.HasVideo)
}

// GetPageForOwner returns every cached post whose sorted-set score equals
// the owner's sequence id.
func (c *PostCache) GetPageForOwner(ctx context.Context, ownerSequenceID string) ([]social.Post, error) {
	ids, err := c.store.client.ZRevRangeByScore(ctx, keyPosts, &redis.ZRangeBy{
		Min: ownerSequenceID,
		Max: ownerSequenceID,
	}).Result()
	if err != nil {
		return nil, c.store.wrap("post owner range", err)
	}
	return c.fetchPosts(ctx, ids, nil)
}

func (c *PostCache) rangePosts(ctx context.Context, start, end int64, keep func(social.Post) bool) ([]social.Post, error) {
	ids, err := c.store.client.ZRevRange(ctx, keyPosts, start, end).Result()
	if err != nil {
		return nil, c.store.wrap("post range", err)
	}
	return c.fetchPosts(ctx, ids, keep)
}

// fetchPosts batch-fetches each post hash in one pipeline and decodes the
// results, dropping ids whose hash has been deleted underneath the index.
func (c *PostCache) fetchPosts(ctx context.Context, ids []string, keep func(social.Post) bool) ([]social.Post, error) {
	if len(ids) == 0 {
		return []social.Post{}, nil
	}

	pipe := c.store.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, postKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, c.store.wrap("post fetch", err)
	}

	posts := make([]social.Post, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		post := decodePostHash(fields)
		if keep != nil && !keep(post) {
			continue
		}
		posts = append(posts, post)
	}
	c.store.hit()
	return posts, nil
}

// Update overwrites only the named fields in the post hash and returns the
// freshly reloaded post. Concurrent updates to disjoint fields do not
// clobber each other; same-field writes resolve last-write-wins.
func (c *PostCache) Update(ctx context.Context, postID string, update social.PostUpdate) (social.Post, error) {
	fields := map[string]string{
		"post":           update.Post,
		"bgColor":        update.BgColor,
		"feelings":       update.Feelings,
		"privacy":        update.Privacy,
		"gifUrl":         update.GifURL,
		"profilePicture": update.ProfilePicture,
		"imgId":          update.ImgID,
		"imgVersion":     update.ImgVersion,
		"videoId":        update.VideoID,
		"videoVersion":   update.VideoVersion,
	}
	if err := c.store.client.HSet(ctx, postKey(postID), fields).Err(); err != nil {
		return social.Post{}, c.store.wrap("post update", err)
	}
	return c.Get(ctx, postID)
}

// Delete removes the post from the index, deletes its hash and per-post
// side keys, and decrements the owner's postsCount, as one batch.
func (c *PostCache) Delete(ctx context.Context, postID, ownerID string) error {
	pipe := c.store.client.TxPipeline()
	pipe.ZRem(ctx, keyPosts, postID)
	pipe.Del(ctx, postKey(postID), commentsKey(postID), reactionsKey(postID))
	pipe.HIncrBy(ctx, userKey(ownerID), "postsCount", -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return c.store.wrap("post delete", err)
	}
	return nil
}

// TotalCount returns the number of cached posts.
func (c *PostCache) TotalCount(ctx context.Context) (int64, error) {
	count, err := c.store.client.ZCard(ctx, keyPosts).Result()
	if err != nil {
		return 0, c.store.wrap("post count", err)
	}
	return count, nil
}

// TotalCountForOwner returns the number of cached posts for one owner.
func (c *PostCache) TotalCountForOwner(ctx context.Context, ownerSequenceID string) (int64, error) {
	count, err := c.store.client.ZCount(ctx, keyPosts, ownerSequenceID, ownerSequenceID).Result()
	if err != nil {
		return 0, c.store.wrap("post owner count", err)
	}
	return count, nil
}

// SetReactions overwrites the post's reaction tally field.
func (c *PostCache) SetReactions(ctx context.Context, postID string, tally social.Reactions) error {
	if err := c.store.client.HSet(ctx, postKey(postID), "reactions", mustJSON(tally)).Err(); err != nil {
		return c.store.wrap("post set reactions", err)
	}
	return nil
}
