package social

import "time"

// Comment is one comment on a post. Comments are retrieved most-recent-first.
type Comment struct {
	ID             string    `json:"_id" bson:"_id"`
	PostID         string    `json:"postId" bson:"postId"`
	Username       string    `json:"username" bson:"username"`
	AvatarColor    string    `json:"avatarColor" bson:"avatarColor"`
	ProfilePicture string    `json:"profilePicture" bson:"profilePicture"`
	UserTo         string    `json:"userTo" bson:"userTo"`
	UserFrom       string    `json:"userFrom" bson:"userFrom"`
	Comment        string    `json:"comment" bson:"comment"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// CommentNameList is the derived view of a post's commenters: total comment
// count plus the distinct commenter usernames.
type CommentNameList struct {
	Count int      `json:"count" bson:"count"`
	Names []string `json:"names" bson:"names"`
}
