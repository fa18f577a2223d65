package utils

import "github.com/google/uuid"

// GenID returns a fresh opaque entity id. Ids are never reused after a
// delete; key construction assumes they contain no '/'.
func GenID() string {
	return uuid.NewString()
}
