package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewProfileImageKey(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	key := NewProfileImageKey(42, "My Photo.PNG", now)

	assert.True(t, strings.HasPrefix(key, "profile_42_20250314_092653_"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), "extension lowercased: %s", key)

	// Token is 8 hex-ish chars between the timestamp and the extension.
	middle := strings.TrimSuffix(strings.TrimPrefix(key, "profile_42_20250314_092653_"), ".png")
	assert.Len(t, middle, 8)
}

func TestNewProfileImageKey_Unique(t *testing.T) {
	now := time.Now()
	a := NewProfileImageKey(1, "a.jpg", now)
	b := NewProfileImageKey(1, "a.jpg", now)
	assert.NotEqual(t, a, b)
}

func TestNewProfileImageKey_StripsTraversal(t *testing.T) {
	key := NewProfileImageKey(7, "../../etc/passwd", time.Now())
	assert.NotContains(t, key, "/")
	assert.NotContains(t, key, "..")
}

func TestSanitizeObjectKey(t *testing.T) {
	cases := map[string]string{
		"plain_name.jpg":      "plain_name.jpg",
		"with space.png":      "withspace.png",
		"семья.jpg":           ".jpg",
		"a/b\\c:d*e?.gif":     "abcde.gif",
		"UPPER-lower_09.webp": "UPPER-lower_09.webp",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeObjectKey(in), "input %q", in)
	}
}
