package emoji

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":    {"❌", "[ERR]"},
	"warning":  {"⚠️", "[WRN]"},
	"info":     {"ℹ️", "[INF]"},
	"success":  {"✅", "[OK]"},
	"trophy":   {"🏆", "[LB]"},
	"players":  {"👥", "[N]"},
	"clock":    {"🕒", "[T]"},
	"search":   {"🔍", "[/]"},
	"sort":     {"↕️", "[S]"},
	"page":     {"📄", "[PG]"},
	"link":     {"🔗", "[URL]"},
	"loading":  {"⏳", "[...]"},
	"watch":    {"👀", "[W]"},
	"config":   {"⚙️", "[CFG]"},
	"folder":   {"📁", "[DIR]"},
	"target":   {"🎯", "[>]"},
	"tip":      {"💡", "[TIP]"},
	"help":     {"❓", "[?]"},
	"door":     {"🚪", "[EXIT]"},
	"division": {"🎖️", "[DIV]"},
}

var emojiDisabled bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled = disabled
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}
