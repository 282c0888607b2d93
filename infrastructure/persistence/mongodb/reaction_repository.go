package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReactionRepository stores reaction documents, one per (post, user).
type ReactionRepository struct {
	reactions *mongo.Collection
}

// NewReactionRepository creates a reaction repository on the given database.
func NewReactionRepository(db *mongo.Database) *ReactionRepository {
	return &ReactionRepository{reactions: db.Collection(collReactions)}
}

// Upsert replaces the user's previous reaction document on the post. The
// filter matches the previous type so a replayed job after a successful
// replace simply inserts nothing new.
func (r *ReactionRepository) Upsert(ctx context.Context, reaction social.Reaction, previousType social.ReactionType) error {
	filter := bson.M{
		"postId":   reaction.PostID,
		"username": reaction.Username,
	}
	if previousType != "" {
		filter["type"] = previousType
	}

	_, err := r.reactions.ReplaceOne(ctx, filter, reaction, options.Replace().SetUpsert(true))
	if err != nil {
		return wrapDB("reaction", "reaction upsert", err)
	}
	return nil
}

func (r *ReactionRepository) Remove(ctx context.Context, postID, username string) error {
	if _, err := r.reactions.DeleteOne(ctx, bson.M{"postId": postID, "username": username}); err != nil {
		return wrapDB("reaction", "reaction remove", err)
	}
	return nil
}

// ListByPost retrieves a post's reaction documents.
func (r *ReactionRepository) ListByPost(ctx context.Context, postID string) ([]social.Reaction, error) {
	cursor, err := r.reactions.Find(ctx, bson.M{"postId": postID})
	if err != nil {
		return nil, wrapDB("reaction", "reaction list", err)
	}
	defer cursor.Close(ctx)

	reactions := []social.Reaction{}
	if err := cursor.All(ctx, &reactions); err != nil {
		return nil, wrapDB("reaction", "reaction list", err)
	}
	return reactions, nil
}
