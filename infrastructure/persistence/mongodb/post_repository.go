package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository stores post documents and their derived counters.
type PostRepository struct {
	posts     *mongo.Collection
	comments  *mongo.Collection
	reactions *mongo.Collection
}

// NewPostRepository creates a post repository on the given database.
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		posts:     db.Collection(collPosts),
		comments:  db.Collection(collComments),
		reactions: db.Collection(collReactions),
	}
}

func (r *PostRepository) Insert(ctx context.Context, post social.Post) error {
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return wrapDB("post", "post insert", err)
	}
	return nil
}

func (r *PostRepository) Get(ctx context.Context, postID string) (social.Post, error) {
	var post social.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		return social.Post{}, wrapDB("post", "post read", err)
	}
	return post, nil
}

func (r *PostRepository) Update(ctx context.Context, postID string, update social.PostUpdate) error {
	set := bson.M{
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
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": postID}, bson.M{"$set": set})
	if err != nil {
		return wrapDB("post", "post update", err)
	}
	if res.MatchedCount == 0 {
		return wrapDB("post", "post update", mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes the post and every comment and reaction document attached
// to it.
func (r *PostRepository) Delete(ctx context.Context, postID string) error {
	if _, err := r.posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		return wrapDB("post", "post delete", err)
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return wrapDB("post", "post comments delete", err)
	}
	if _, err := r.reactions.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return wrapDB("post", "post reactions delete", err)
	}
	return nil
}

func (r *PostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) (social.Post, error) {
	var post social.Post
	err := r.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"commentsCount": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return social.Post{}, wrapDB("post", "comment count adjust", err)
	}
	return post, nil
}

func (r *PostRepository) AdjustReactions(ctx context.Context, postID string, previous, next social.ReactionType) (social.Post, error) {
	inc := bson.M{}
	if previous != "" {
		inc["reactions."+string(previous)] = -1
	}
	if next != "" {
		inc["reactions."+string(next)] = 1
	}

	var post social.Post
	if len(inc) == 0 {
		return r.Get(ctx, postID)
	}
	err := r.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": inc},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return social.Post{}, wrapDB("post", "reaction tally adjust", err)
	}
	return post, nil
}
