package cache

import (
	"context"
	"testing"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReaction(postID, username string, t social.ReactionType) social.Reaction {
	return social.Reaction{
		ID:          social.NewID(),
		PostID:      postID,
		Type:        t,
		Username:    username,
		AvatarColor: "#2196f3",
		UserTo:      social.NewID(),
		UserFrom:    social.NewID(),
	}
}

func TestReactionCache_SaveAndReadBack(t *testing.T) {
	store, _ := newTestStore(t)
	posts := NewPostCache(store)
	reactions := NewReactionCache(store)
	ctx := context.Background()

	post := testPost(social.NewID(), social.NewID())
	require.NoError(t, posts.Save(ctx, post, post.UserID, "100"))

	tally := social.Reactions{}.Adjust("", social.ReactionLike)
	require.NoError(t, reactions.Save(ctx, post.ID, testReaction(post.ID, "danny", social.ReactionLike), tally, ""))

	list, total, err := reactions.GetAll(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, social.ReactionLike, list[0].Type)
	assert.Equal(t, int64(1), total)

	got, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Reactions.Like)
}

func TestReactionCache_SecondReactionReplacesFirst(t *testing.T) {
	store, _ := newTestStore(t)
	posts := NewPostCache(store)
	reactions := NewReactionCache(store)
	ctx := context.Background()

	post := testPost(social.NewID(), social.NewID())
	require.NoError(t, posts.Save(ctx, post, post.UserID, "100"))

	tally := social.Reactions{}.Adjust("", social.ReactionLike)
	require.NoError(t, reactions.Save(ctx, post.ID, testReaction(post.ID, "danny", social.ReactionLike), tally, ""))

	// Same user switches like -> love: one entry survives, tally moves.
	tally = tally.Adjust(social.ReactionLike, social.ReactionLove)
	require.NoError(t, reactions.Save(ctx, post.ID, testReaction(post.ID, "danny", social.ReactionLove), tally, social.ReactionLike))

	list, total, err := reactions.GetAll(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, social.ReactionLove, list[0].Type)
	assert.Equal(t, int64(1), total)

	got, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Reactions.Like)
	assert.Equal(t, 1, got.Reactions.Love)
}

func TestReactionCache_Remove(t *testing.T) {
	store, _ := newTestStore(t)
	posts := NewPostCache(store)
	reactions := NewReactionCache(store)
	ctx := context.Background()

	post := testPost(social.NewID(), social.NewID())
	require.NoError(t, posts.Save(ctx, post, post.UserID, "100"))

	tally := social.Reactions{}.Adjust("", social.ReactionWow)
	require.NoError(t, reactions.Save(ctx, post.ID, testReaction(post.ID, "danny", social.ReactionWow), tally, ""))

	tally = tally.Adjust(social.ReactionWow, "")
	require.NoError(t, reactions.Remove(ctx, post.ID, "danny", tally))

	list, total, err := reactions.GetAll(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, int64(0), total)

	got, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Reactions.Total())
}

func TestReactionCache_GetByUsername(t *testing.T) {
	store, _ := newTestStore(t)
	posts := NewPostCache(store)
	reactions := NewReactionCache(store)
	ctx := context.Background()

	post := testPost(social.NewID(), social.NewID())
	require.NoError(t, posts.Save(ctx, post, post.UserID, "100"))

	tally := social.Reactions{}.Adjust("", social.ReactionSad)
	require.NoError(t, reactions.Save(ctx, post.ID, testReaction(post.ID, "danny", social.ReactionSad), tally, ""))

	mine, err := reactions.GetByUsername(ctx, post.ID, "danny")
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, social.ReactionSad, mine.Type)

	theirs, err := reactions.GetByUsername(ctx, post.ID, "stranger")
	require.NoError(t, err)
	assert.Nil(t, theirs)
}
