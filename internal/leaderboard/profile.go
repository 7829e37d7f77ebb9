package leaderboard

import "strings"

// DefaultProfileURL is the page profile links point at
const DefaultProfileURL = "profile.html"

// ProfileLink builds the profile reference for a player
func ProfileLink(base, username, id string) string {
	if base == "" {
		base = DefaultProfileURL
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "username=" + EncodeURIComponent(username) + "&id=" + id
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s as UTF-8, leaving only
// A-Z a-z 0-9 and - _ . ! ~ * ' ( ) unescaped.
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isURIUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
