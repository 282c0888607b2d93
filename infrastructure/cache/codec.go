package cache

import (
	"strconv"

	"github.com/fullstackyodha/wechat-backend/domain/social"
)

// encodePostHash flattens a post into the string-only hash representation.
// The reactions tally is the single JSON-nested field; commentsCount is kept
// as a bare integer so HINCRBY can adjust it atomically.
func encodePostHash(p social.Post) map[string]string {
	return map[string]string{
		"_id":            p.ID,
		"userId":         p.UserID,
		"username":       p.Username,
		"email":          p.Email,
		"avatarColor":    p.AvatarColor,
		"profilePicture": p.ProfilePicture,
		"post":           p.Post,
		"bgColor":        p.BgColor,
		"feelings":       p.Feelings,
		"gifUrl":         p.GifURL,
		"privacy":        p.Privacy,
		"imgId":          p.ImgID,
		"imgVersion":     p.ImgVersion,
		"videoId":        p.VideoID,
		"videoVersion":   p.VideoVersion,
		"commentsCount":  strconv.Itoa(p.CommentsCount),
		"reactions":      mustJSON(p.Reactions),
		"createdAt":      encodeTime(p.CreatedAt),
	}
}

// decodePostHash rebuilds a typed post from its hash fields.
func decodePostHash(m map[string]string) social.Post {
	p := social.Post{
		ID:             m["_id"],
		UserID:         m["userId"],
		Username:       m["username"],
		Email:          m["email"],
		AvatarColor:    m["avatarColor"],
		ProfilePicture: m["profilePicture"],
		Post:           m["post"],
		BgColor:        m["bgColor"],
		Feelings:       m["feelings"],
		GifURL:         m["gifUrl"],
		Privacy:        m["privacy"],
		ImgID:          m["imgId"],
		ImgVersion:     m["imgVersion"],
		VideoID:        m["videoId"],
		VideoVersion:   m["videoVersion"],
		CommentsCount:  parseInt(m["commentsCount"]),
		CreatedAt:      parseTime(m["createdAt"]),
	}
	parseJSON(m["reactions"], &p.Reactions)
	return p
}

// encodeUserHash flattens a user into the string-only hash representation.
// The counters stay bare integers for HINCRBY; blocked/blockedBy,
// notifications and social are the JSON-nested fields.
func encodeUserHash(u social.User) map[string]string {
	return map[string]string{
		"_id":            u.ID,
		"uId":            u.UID,
		"username":       u.Username,
		"email":          u.Email,
		"avatarColor":    u.AvatarColor,
		"profilePicture": u.ProfilePicture,
		"postsCount":     strconv.Itoa(u.PostsCount),
		"followersCount": strconv.Itoa(u.FollowersCount),
		"followingCount": strconv.Itoa(u.FollowingCount),
		"blocked":        mustJSON(u.Blocked),
		"blockedBy":      mustJSON(u.BlockedBy),
		"notifications":  mustJSON(u.Notifications),
		"social":         mustJSON(u.Social),
		"quote":          u.Quote,
		"work":           u.Work,
		"school":         u.School,
		"location":       u.Location,
		"bgImageId":      u.BgImageID,
		"bgImageVersion": u.BgImageVersion,
		"createdAt":      encodeTime(u.CreatedAt),
	}
}

// decodeUserHash rebuilds a typed user from its hash fields.
func decodeUserHash(m map[string]string) social.User {
	u := social.User{
		ID:             m["_id"],
		UID:            m["uId"],
		Username:       m["username"],
		Email:          m["email"],
		AvatarColor:    m["avatarColor"],
		ProfilePicture: m["profilePicture"],
		PostsCount:     parseInt(m["postsCount"]),
		FollowersCount: parseInt(m["followersCount"]),
		FollowingCount: parseInt(m["followingCount"]),
		Quote:          m["quote"],
		Work:           m["work"],
		School:         m["school"],
		Location:       m["location"],
		BgImageID:      m["bgImageId"],
		BgImageVersion: m["bgImageVersion"],
		CreatedAt:      parseTime(m["createdAt"]),
	}
	parseJSON(m["blocked"], &u.Blocked)
	parseJSON(m["blockedBy"], &u.BlockedBy)
	parseJSON(m["notifications"], &u.Notifications)
	parseJSON(m["social"], &u.Social)
	if u.Blocked == nil {
		u.Blocked = []string{}
	}
	if u.BlockedBy == nil {
		u.BlockedBy = []string{}
	}
	return u
}
