package social

import "time"

// NotificationType names the category a notification belongs to; it is
// matched against the recipient's NotificationSettings toggle.
type NotificationType string

const (
	NotificationComment  NotificationType = "comment"
	NotificationReaction NotificationType = "reaction"
	NotificationFollow   NotificationType = "follows"
	NotificationMessage  NotificationType = "message"
)

// Notification is a persisted notification record for one recipient.
type Notification struct {
	ID               string           `json:"_id" bson:"_id"`
	UserTo           string           `json:"userTo" bson:"userTo"`
	UserFrom         string           `json:"userFrom" bson:"userFrom"`
	Message          string           `json:"message" bson:"message"`
	NotificationType NotificationType `json:"notificationType" bson:"notificationType"`
	EntityID         string           `json:"entityId" bson:"entityId"`
	CreatedItemID    string           `json:"createdItemId" bson:"createdItemId"`
	Comment          string           `json:"comment" bson:"comment"`
	Reaction         string           `json:"reaction" bson:"reaction"`
	Post             string           `json:"post" bson:"post"`
	ImgID            string           `json:"imgId" bson:"imgId"`
	ImgVersion       string           `json:"imgVersion" bson:"imgVersion"`
	GifURL           string           `json:"gifUrl" bson:"gifUrl"`
	Read             bool             `json:"read" bson:"read"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdAt"`
}
