package social

// ReactionType enumerates the six supported post reactions.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHappy ReactionType = "happy"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ValidReactionType reports whether t names one of the six reaction types.
// The empty string is not a valid type; removal paths pass it explicitly.
func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionHappy, ReactionWow, ReactionSad, ReactionAngry:
		return true
	}
	return false
}

// Reactions is the fixed-shape per-post reaction tally. Counters never go
// below zero.
type Reactions struct {
	Like  int `json:"like" bson:"like"`
	Love  int `json:"love" bson:"love"`
	Happy int `json:"happy" bson:"happy"`
	Wow   int `json:"wow" bson:"wow"`
	Sad   int `json:"sad" bson:"sad"`
	Angry int `json:"angry" bson:"angry"`
}

// Adjust returns a copy of the tally with the previous reaction type
// decremented and the new type incremented. Either argument may be empty.
func (r Reactions) Adjust(previous, next ReactionType) Reactions {
	out := r
	out.add(previous, -1)
	out.add(next, +1)
	return out
}

func (r *Reactions) add(t ReactionType, delta int) {
	var c *int
	switch t {
	case ReactionLike:
		c = &r.Like
	case ReactionLove:
		c = &r.Love
	case ReactionHappy:
		c = &r.Happy
	case ReactionWow:
		c = &r.Wow
	case ReactionSad:
		c = &r.Sad
	case ReactionAngry:
		c = &r.Angry
	default:
		return
	}
	*c += delta
	if *c < 0 {
		*c = 0
	}
}

// Count returns the counter for a single reaction type.
func (r Reactions) Count(t ReactionType) int {
	switch t {
	case ReactionLike:
		return r.Like
	case ReactionLove:
		return r.Love
	case ReactionHappy:
		return r.Happy
	case ReactionWow:
		return r.Wow
	case ReactionSad:
		return r.Sad
	case ReactionAngry:
		return r.Angry
	}
	return 0
}

// Total returns the sum of all six counters.
func (r Reactions) Total() int {
	return r.Like + r.Love + r.Happy + r.Wow + r.Sad + r.Angry
}

// Reaction is one user's reaction to one post. At most one reaction per
// (postID, username) exists at any time; a second reaction by the same user
// replaces the first.
type Reaction struct {
	ID             string       `json:"_id" bson:"_id"`
	PostID         string       `json:"postId" bson:"postId"`
	Type           ReactionType `json:"type" bson:"type"`
	Username       string       `json:"username" bson:"username"`
	AvatarColor    string       `json:"avatarColor" bson:"avatarColor"`
	ProfilePicture string       `json:"profilePicture" bson:"profilePicture"`
	UserTo         string       `json:"userTo" bson:"userTo"`
	UserFrom       string       `json:"userFrom" bson:"userFrom"`
}
