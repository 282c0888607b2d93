package mongodb

import (
	"context"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository stores notification records.
type NotificationRepository struct {
	notifications *mongo.Collection
}

// NewNotificationRepository creates a notification repository on the given
// database.
func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{notifications: db.Collection(collNotifications)}
}

func (r *NotificationRepository) Insert(ctx context.Context, notification social.Notification) (social.Notification, error) {
	if notification.ID == "" {
		notification.ID = social.NewID()
	}
	if _, err := r.notifications.InsertOne(ctx, notification); err != nil {
		return social.Notification{}, wrapDB("notification", "notification insert", err)
	}
	return notification, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]social.Notification, error) {
	cursor, err := r.notifications.Find(ctx,
		bson.M{"userTo": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, wrapDB("notification", "notification list", err)
	}
	defer cursor.Close(ctx)

	notifications := []social.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, wrapDB("notification", "notification list", err)
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string) error {
	res, err := r.notifications.UpdateOne(ctx,
		bson.M{"_id": notificationID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return wrapDB("notification", "notification mark read", err)
	}
	if res.MatchedCount == 0 {
		return wrapDB("notification", "notification mark read", mongo.ErrNoDocuments)
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, notificationID string) error {
	if _, err := r.notifications.DeleteOne(ctx, bson.M{"_id": notificationID}); err != nil {
		return wrapDB("notification", "notification delete", err)
	}
	return nil
}
