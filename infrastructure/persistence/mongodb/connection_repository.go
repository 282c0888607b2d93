package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ConnectionRepository stores follow edges and keeps both users' counters in
// step with them.
type ConnectionRepository struct {
	followers *mongo.Collection
	users     *mongo.Collection
}

// NewConnectionRepository creates a connection repository on the given
// database.
func NewConnectionRepository(db *mongo.Database) *ConnectionRepository {
	return &ConnectionRepository{
		followers: db.Collection(collFollowers),
		users:     db.Collection(collUsers),
	}
}

// Save inserts the edge document and shifts both counters in one bulk write.
func (r *ConnectionRepository) Save(ctx context.Context, edge social.Follower) error {
	if _, err := r.followers.InsertOne(ctx, edge); err != nil {
		return wrapDB("connection", "connection insert", err)
	}
	return r.adjustCounts(ctx, edge.FollowerID, edge.FolloweeID, 1)
}

// Delete removes the edge document and reverses both counters.
func (r *ConnectionRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	_, err := r.followers.DeleteOne(ctx, bson.M{"followerId": followerID, "followeeId": followeeID})
	if err != nil {
		return wrapDB("connection", "connection delete", err)
	}
	return r.adjustCounts(ctx, followerID, followeeID, -1)
}

func (r *ConnectionRepository) adjustCounts(ctx context.Context, followerID, followeeID string, delta int) error {
	models := []mongo.WriteModel{
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": followerID}).
			SetUpdate(bson.M{"$inc": bson.M{"followingCount": delta}}),
		mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": followeeID}).
			SetUpdate(bson.M{"$inc": bson.M{"followersCount": delta}}),
	}
	if _, err := r.users.BulkWrite(ctx, models); err != nil {
		return wrapDB("connection", "follow counts adjust", err)
	}
	return nil
}
