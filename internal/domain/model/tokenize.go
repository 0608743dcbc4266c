package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TokenizeTitle splits a post title into the normalized words used by the
// search index. The title is NFC-normalized and lower-cased; any rune that is
// not a letter, digit or combining mark separates words. Tokens are
// de-duplicated and returned in order of first occurrence. Empty or blank
// input yields no tokens.
func TokenizeTitle(title string) []string {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	// A Caser is stateful; one per call.
	lower := cases.Lower(language.Und).String(norm.NFC.String(title))

	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// Marks stay inside the word they modify: lower-casing "İ" yields "i" plus a
// combining dot, and many scripts spell vowels with spacing marks.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}
