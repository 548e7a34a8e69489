package display

import (
	"regexp"
	"unicode/utf16"
)

const (
	// DefaultTruncateLength is the length used by Truncate
	DefaultTruncateLength = 10

	// Ellipsis is appended to truncated strings
	Ellipsis = "..."

	// UnknownTagPlaceholder replaces pseudo-tags the UI cannot render
	UnknownTagPlaceholder = "??"
)

// Pseudo-tags emitted by the game client's tooltip templating.
// Only well-formed self-closing tags match.
var (
	skillFeatureTagPattern = regexp.MustCompile(`<\$TABLE_SKILLFEATURE[^>]*/>`)
	calcTagPattern         = regexp.MustCompile(`<\$CALC[^>]*/>`)
)

// RemoveUnknownHTMLTags replaces every <$TABLE_SKILLFEATURE .../> and
// <$CALC .../> tag in input with UnknownTagPlaceholder
func RemoveUnknownHTMLTags(input string) string {
	input = skillFeatureTagPattern.ReplaceAllLiteralString(input, UnknownTagPlaceholder)
	input = calcTagPattern.ReplaceAllLiteralString(input, UnknownTagPlaceholder)
	return input
}

// Truncate truncates s to DefaultTruncateLength
func Truncate(s string) string {
	return TruncateString(s, DefaultTruncateLength)
}

// TruncateString keeps the first length UTF-16 code units of s and appends
// Ellipsis when s is longer than length. Negative lengths are treated as zero.
func TruncateString(s string, length int) string {
	if length < 0 {
		length = 0
	}

	// A string never has more UTF-16 units than bytes
	if len(s) <= length {
		return s
	}

	units := utf16.Encode([]rune(s))
	if len(units) <= length {
		return s
	}

	cut := units[:length]
	// Don't leave half a surrogate pair behind
	if n := len(cut); n > 0 && utf16.IsSurrogate(rune(cut[n-1])) && cut[n-1] < 0xDC00 {
		cut = cut[:n-1]
	}

	return string(utf16.Decode(cut)) + Ellipsis
}
