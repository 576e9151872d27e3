// Small text helpers shared by the refinement context builder and the
// subtitle timing engine.
package util

import (
	"regexp"
	"strings"
	"unicode"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims the string and squeezes every run of
// whitespace down to a single space.
func CollapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Words splits on whitespace, dropping empty tokens.
func Words(s string) []string {
	return strings.Fields(s)
}

// WordCount returns the number of whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// TruncateWords keeps at most n words, appending an ellipsis when the
// text was longer.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]*`)

// SplitSentences breaks text into sentences on ., ! and ? boundaries.
// Trailing punctuation stays attached to its sentence.
func SplitSentences(s string) []string {
	var sentences []string
	for _, m := range sentenceRe.FindAllString(s, -1) {
		m = strings.TrimSpace(m)
		if m != "" {
			sentences = append(sentences, m)
		}
	}
	return sentences
}

// NormalizeToken lowercases a word and strips everything that is not a
// letter or digit, for fuzzy matching against STT output.
func NormalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
