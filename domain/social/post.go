package social

import "time"

// Post privacy settings.
const (
	PrivacyPublic    = "Public"
	PrivacyFollowers = "Followers"
	PrivacyPrivate   = "Private"
)

// Post is the denormalized post document. The author fields are copied from
// the author at write time and are not re-synced if the author later changes
// them.
type Post struct {
	ID             string    `json:"_id" bson:"_id"`
	UserID         string    `json:"userId" bson:"userId"`
	Username       string    `json:"username" bson:"username"`
	Email          string    `json:"email" bson:"email"`
	AvatarColor    string    `json:"avatarColor" bson:"avatarColor"`
	ProfilePicture string    `json:"profilePicture" bson:"profilePicture"`
	Post           string    `json:"post" bson:"post"`
	BgColor        string    `json:"bgColor" bson:"bgColor"`
	Feelings       string    `json:"feelings,omitempty" bson:"feelings"`
	GifURL         string    `json:"gifUrl,omitempty" bson:"gifUrl"`
	Privacy        string    `json:"privacy,omitempty" bson:"privacy"`
	ImgID          string    `json:"imgId,omitempty" bson:"imgId"`
	ImgVersion     string    `json:"imgVersion,omitempty" bson:"imgVersion"`
	VideoID        string    `json:"videoId,omitempty" bson:"videoId"`
	VideoVersion   string    `json:"videoVersion,omitempty" bson:"videoVersion"`
	CommentsCount  int       `json:"commentsCount" bson:"commentsCount"`
	Reactions      Reactions `json:"reactions" bson:"reactions"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// HasImage reports whether the post carries an image or gif attachment.
func (p Post) HasImage() bool {
	return (p.ImgID != "" && p.ImgVersion != "") || p.GifURL != ""
}

// HasVideo reports whether the post carries a video attachment.
func (p Post) HasVideo() bool {
	return p.VideoID != "" && p.VideoVersion != ""
}

// PostUpdate names the subset of post fields replaced by an update request.
// Counters and author identity fields are never touched by an update.
type PostUpdate struct {
	Post           string `json:"post" bson:"post"`
	BgColor        string `json:"bgColor" bson:"bgColor"`
	Feelings       string `json:"feelings" bson:"feelings"`
	Privacy        string `json:"privacy" bson:"privacy"`
	GifURL         string `json:"gifUrl" bson:"gifUrl"`
	ProfilePicture string `json:"profilePicture" bson:"profilePicture"`
	ImgID          string `json:"imgId" bson:"imgId"`
	ImgVersion     string `json:"imgVersion" bson:"imgVersion"`
	VideoID        string `json:"videoId" bson:"videoId"`
	VideoVersion   string `json:"videoVersion" bson:"videoVersion"`
}
