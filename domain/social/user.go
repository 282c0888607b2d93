package social

import "time"

// NotificationSettings are the per-category notification toggles. A category
// that is off suppresses notification records and emails for that category,
// never the underlying write.
type NotificationSettings struct {
	Messages  bool `json:"messages" bson:"messages"`
	Reactions bool `json:"reactions" bson:"reactions"`
	Comments  bool `json:"comments" bson:"comments"`
	Follows   bool `json:"follows" bson:"follows"`
}

// DefaultNotificationSettings enables every category.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Messages: true, Reactions: true, Comments: true, Follows: true}
}

// SocialLinks holds the user's external profile links.
type SocialLinks struct {
	Facebook  string `json:"facebook" bson:"facebook"`
	Instagram string `json:"instagram" bson:"instagram"`
	Twitter   string `json:"twitter" bson:"twitter"`
	Youtube   string `json:"youtube" bson:"youtube"`
}

// BasicInfo is the free-text profile subset updated as one unit.
type BasicInfo struct {
	Quote    string `json:"quote" bson:"quote"`
	Work     string `json:"work" bson:"work"`
	School   string `json:"school" bson:"school"`
	Location string `json:"location" bson:"location"`
}

// User is the profile projection. The counters are adjusted only via atomic
// increment/decrement, never by full overwrite; every other mutation is a
// targeted single-field update.
type User struct {
	ID             string               `json:"_id" bson:"_id"`
	UID            string               `json:"uId" bson:"uId"`
	Username       string               `json:"username" bson:"username"`
	Email          string               `json:"email" bson:"email"`
	AvatarColor    string               `json:"avatarColor" bson:"avatarColor"`
	ProfilePicture string               `json:"profilePicture" bson:"profilePicture"`
	PostsCount     int                  `json:"postsCount" bson:"postsCount"`
	FollowersCount int                  `json:"followersCount" bson:"followersCount"`
	FollowingCount int                  `json:"followingCount" bson:"followingCount"`
	Blocked        []string             `json:"blocked" bson:"blocked"`
	BlockedBy      []string             `json:"blockedBy" bson:"blockedBy"`
	Notifications  NotificationSettings `json:"notifications" bson:"notifications"`
	Social         SocialLinks          `json:"social" bson:"social"`
	Quote          string               `json:"quote" bson:"quote"`
	Work           string               `json:"work" bson:"work"`
	School         string               `json:"school" bson:"school"`
	Location       string               `json:"location" bson:"location"`
	BgImageID      string               `json:"bgImageId" bson:"bgImageId"`
	BgImageVersion string               `json:"bgImageVersion" bson:"bgImageVersion"`
	CreatedAt      time.Time            `json:"createdAt" bson:"createdAt"`
}

// HasBlocked reports whether peerID appears in the user's blocked list.
func (u User) HasBlocked(peerID string) bool {
	for _, id := range u.Blocked {
		if id == peerID {
			return true
		}
	}
	return false
}
