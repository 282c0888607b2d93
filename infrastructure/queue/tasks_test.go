package queue

import (
	"encoding/json"
	"testing"

	"github.com/fullstackyodha/wechat-backend/domain/social"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueForRoutesEveryTaskType(t *testing.T) {
	cases := map[string]string{
		TypeAddPost:                    QueuePosts,
		TypeUpdatePost:                 QueuePosts,
		TypeDeletePost:                 QueuePosts,
		TypeAddComment:                 QueueComments,
		TypeAddReaction:                QueueReactions,
		TypeRemoveReaction:             QueueReactions,
		TypeAddConnection:              QueueConnections,
		TypeRemoveConnection:           QueueConnections,
		TypeChangeBlockStatus:          QueueConnections,
		TypeAddChatMessage:             QueueChats,
		TypeMarkMessageDeleted:         QueueChats,
		TypeMarkMessagesRead:           QueueChats,
		TypeUpdateMessageReaction:      QueueChats,
		TypeAddUser:                    QueueUsers,
		TypeUpdateBasicInfo:            QueueUsers,
		TypeUpdateSocialLinks:          QueueUsers,
		TypeUpdateNotificationSettings: QueueUsers,
		TypeUpdateNotification:         QueueNotifications,
		TypeDeleteNotification:         QueueNotifications,
		TypeSendNotificationEmail:      QueueEmails,
	}

	for taskType, queue := range cases {
		assert.Equal(t, queue, queueFor(taskType), taskType)
	}
	assert.Equal(t, "default", queueFor("unknownTask"))
}

func TestNewTaskCarriesJSONPayload(t *testing.T) {
	post := social.Post{ID: social.NewID(), UserID: social.NewID(), Post: "hello"}

	task, err := NewTask(TypeAddPost, AddPostPayload{Post: post})
	require.NoError(t, err)
	assert.Equal(t, TypeAddPost, task.Type())

	var decoded AddPostPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, post.ID, decoded.Post.ID)
	assert.Equal(t, "hello", decoded.Post.Post)
}
