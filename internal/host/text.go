package host

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// RemoveTags strips the host's inline formatting tags such as <col=ff0000>.
func RemoveTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// ToJagexName normalises a player name the way the host stores it: separators
// become spaces, non-ASCII characters are dropped.
func ToJagexName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ' ' || r == '\u00a0' || r == '_' || r == '-':
			b.WriteByte(' ')
		case r < 0x80:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
