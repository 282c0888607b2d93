package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository stores comment documents.
type CommentRepository struct {
	comments *mongo.Collection
}

// NewCommentRepository creates a comment repository on the given database.
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{comments: db.Collection(collComments)}
}

func (r *CommentRepository) Insert(ctx context.Context, comment social.Comment) error {
	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return wrapDB("comment", "comment insert", err)
	}
	return nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]social.Comment, error) {
	cursor, err := r.comments.Find(ctx,
		bson.M{"postId": postID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, wrapDB("comment", "comment list", err)
	}
	defer cursor.Close(ctx)

	comments := []social.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, wrapDB("comment", "comment list", err)
	}
	return comments, nil
}
