// Package normalizers builds stable join keys from free-text names. Two
// entities are associated by name only when no shared foreign id exists, so
// key equality is a hard equivalence: names differing only by case,
// whitespace, corporate-suffix tokens, or parenthetical annotation must
// normalize identically. No distance scoring happens here.
package normalizers

import (
	"regexp"
	"strings"
	"unicode"
)

var parenRe = regexp.MustCompile(`\([^)]*\)|（[^）]*）`)

// corporateSuffixTokens are stripped from the tail of a company name after
// punctuation removal, repeatedly, so "abc co ltd" and "abc co" both reduce
// to "abc".
var corporateSuffixTokens = map[string]bool{
	"co":           true,
	"ltd":          true,
	"inc":          true,
	"corp":         true,
	"llc":          true,
	"plc":          true,
	"gmbh":         true,
	"kk":           true,
	"company":      true,
	"corporation":  true,
	"incorporated": true,
	"limited":      true,
}

// CompanyKey normalizes a company name into its fuzzy join key.
func CompanyKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = parenRe.ReplaceAllString(s, " ")
	s = stripPunctuation(s)

	words := strings.Fields(s)
	for len(words) > 1 && corporateSuffixTokens[words[len(words)-1]] {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

// personSuffixTokens are generational and title suffixes dropped from the
// tail of a person's name.
var personSuffixTokens = map[string]bool{
	"jr":  true,
	"sr":  true,
	"ii":  true,
	"iii": true,
	"iv":  true,
	"phd": true,
	"md":  true,
}

// PersonKey normalizes a person's name into its fuzzy join key.
func PersonKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = parenRe.ReplaceAllString(s, " ")
	s = stripPunctuation(s)

	words := strings.Fields(s)
	for len(words) > 1 && personSuffixTokens[words[len(words)-1]] {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

func stripPunctuation(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else {
			result.WriteRune(' ')
		}
	}
	return result.String()
}
