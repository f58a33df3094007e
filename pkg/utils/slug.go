package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify derives a URL slug from a display name. Unicode letters are kept
// (category and product names are frequently Arabic), runs of everything
// else collapse into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// SlugOrFallback slugifies name, falling back to "{prefix}-{unix}" when the
// name yields nothing usable.
func SlugOrFallback(name, prefix string) string {
	if s := Slugify(name); s != "" {
		return s
	}
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}
