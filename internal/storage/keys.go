package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewProfileImageKey builds a collision-resistant upload-store key for a
// profile image: owner-scoped prefix, timestamp, short random token, with
// the original file extension preserved. Concurrent uploads never contend
// for the same key by construction.
func NewProfileImageKey(userID uint, originalFilename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(originalFilename))
	token := uuid.NewString()[:8]
	name := fmt.Sprintf("profile_%d_%s_%s%s", userID, now.Format("20060102_150405"), token, ext)
	return SanitizeObjectKey(name)
}

// SanitizeObjectKey strips anything that is not a letter, digit, dot,
// hyphen or underscore, so the key is safe for any filesystem-backed store.
func SanitizeObjectKey(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
