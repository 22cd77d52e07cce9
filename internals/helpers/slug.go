package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns free text into [a-z0-9] runs joined by sep, with diacritics
// stripped. maxLen <= 0 means 50. Empty input yields "item".
func Slugify(s, sep string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 50
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = strings.Trim(reNonAlnum.ReplaceAllString(string(buf), sep), sep)

	if utf8.RuneCountInString(s) > maxLen {
		s = strings.Trim(string([]rune(s)[:maxLen]), sep)
	}
	if s == "" {
		return "item"
	}
	return s
}
