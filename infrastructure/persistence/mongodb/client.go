// Package mongodb implements the durable persistence ports on the MongoDB
// driver. Every method here runs inside background jobs, so failures are
// reported as database errors and retried by the queue, never surfaced to an
// API caller.
package mongodb

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/fullstackyodha/wechat-backend/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	collPosts         = "posts"
	collUsers         = "users"
	collComments      = "comments"
	collReactions     = "reactions"
	collFollowers     = "followers"
	collConversations = "conversations"
	collMessages      = "messages"
	collNotifications = "notifications"
)

const connectTimeout = 10 * time.Second

// NewClient connects to MongoDB and verifies the connection with a ping.
func NewClient(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.NewDatabaseError("connect", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, apperrors.NewDatabaseError("ping", err)
	}
	return client, nil
}

// wrapDB converts a driver error into the application error taxonomy. A
// no-documents result becomes a typed not-found so workers can treat it as
// terminal rather than retryable.
func wrapDB(resource, operation string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NewNotFoundError(resource)
	}
	return apperrors.NewDatabaseError(operation, err)
}
