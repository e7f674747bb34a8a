package service

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`\W`)

// slugify replaces every non-word character with a hyphen.
func slugify(s string) string {
	return nonWord.ReplaceAllString(s, "-")
}

// generateSlug derives a slug from a name with a random 4-byte hex prefix
// so that two rows with the same name do not collide.
func generateSlug(name string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b) + "-" + strings.ToLower(name)
}
