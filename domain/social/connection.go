package social

import "time"

// Follower is the durable follow edge: a single document per directed
// follower → followee relationship.
type Follower struct {
	ID         string    `json:"_id" bson:"_id"`
	FollowerID string    `json:"followerId" bson:"followerId"`
	FolloweeID string    `json:"followeeId" bson:"followeeId"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// FollowerData is the denormalized follower/followee view assembled for list
// responses.
type FollowerData struct {
	ID             string `json:"_id" bson:"_id"`
	UID            string `json:"uId" bson:"uId"`
	Username       string `json:"username" bson:"username"`
	AvatarColor    string `json:"avatarColor" bson:"avatarColor"`
	ProfilePicture string `json:"profilePicture" bson:"profilePicture"`
	PostsCount     int    `json:"postsCount" bson:"postsCount"`
	FollowersCount int    `json:"followersCount" bson:"followersCount"`
	FollowingCount int    `json:"followingCount" bson:"followingCount"`
}
