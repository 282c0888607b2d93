package social

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var idPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// NewID returns a new opaque, globally-unique, sortable entity id. Ids are
// 24-hex-character ObjectID strings; documents are stored with the string
// form as `_id` so cache keys and database keys never need conversion.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether s is a well-formed entity id.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}
