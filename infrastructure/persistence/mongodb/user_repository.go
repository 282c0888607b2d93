package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository stores user profile documents.
type UserRepository struct {
	users *mongo.Collection
}

// NewUserRepository creates a user repository on the given database.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(collUsers)}
}

func (r *UserRepository) Insert(ctx context.Context, user social.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		return wrapDB("user", "user insert", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, userID string) (social.User, error) {
	var user social.User
	if err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return social.User{}, wrapDB("user", "user read", err)
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (social.User, error) {
	var user social.User
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return social.User{}, wrapDB("user", "user read", err)
	}
	return user, nil
}

func (r *UserRepository) AdjustPostsCount(ctx context.Context, userID string, delta int) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$inc": bson.M{"postsCount": delta}},
	)
	if err != nil {
		return wrapDB("user", "posts count adjust", err)
	}
	return nil
}

func (r *UserRepository) UpdateBasicInfo(ctx context.Context, userID string, info social.BasicInfo) error {
	set := bson.M{
		"quote":    info.Quote,
		"work":     info.Work,
		"school":   info.School,
		"location": info.Location,
	}
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		return wrapDB("user", "basic info update", err)
	}
	return nil
}

func (r *UserRepository) UpdateSocialLinks(ctx context.Context, userID string, links social.SocialLinks) error {
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"social": links}}); err != nil {
		return wrapDB("user", "social links update", err)
	}
	return nil
}

func (r *UserRepository) UpdateNotificationSettings(ctx context.Context, userID string, settings social.NotificationSettings) error {
	if _, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"notifications": settings}}); err != nil {
		return wrapDB("user", "notification settings update", err)
	}
	return nil
}

// UpdateBlockStatus mirrors the block on both profiles in one bulk write.
// The $ne guards on the push filters keep repeated blocks from duplicating
// list entries.
func (r *UserRepository) UpdateBlockStatus(ctx context.Context, userID, peerID string, block bool) error {
	var mine, theirs mongo.WriteModel
	if block {
		mine = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": userID, "blocked": bson.M{"$ne": peerID}}).
			SetUpdate(bson.M{"$push": bson.M{"blocked": peerID}})
		theirs = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": peerID, "blockedBy": bson.M{"$ne": userID}}).
			SetUpdate(bson.M{"$push": bson.M{"blockedBy": userID}})
	} else {
		mine = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": userID}).
			SetUpdate(bson.M{"$pull": bson.M{"blocked": peerID}})
		theirs = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": peerID}).
			SetUpdate(bson.M{"$pull": bson.M{"blockedBy": userID}})
	}

	if _, err := r.users.BulkWrite(ctx, []mongo.WriteModel{mine, theirs}); err != nil {
		return wrapDB("user", "block status update", err)
	}
	return nil
}
