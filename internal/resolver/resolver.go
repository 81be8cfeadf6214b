// Package resolver maps a free-text headline reference such as "the 3rd one",
// "five", "২য়" or "শেষ" to a 1-based position in a cached listing.
//
// Patterns are tried in a fixed order: digits, ordinal words, cardinal words,
// then relative words. The first pattern that matches anywhere in the text wins.
package resolver

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mohammad-safakhou/khobor/models"
)

// Last is returned by Parse for references to the final headline.
const Last = -1

// maxPosition caps digit runs so absurd inputs cannot overflow.
const maxPosition = 1_000_000

// Precomposed nukta letters are folded into their decomposed spelling so
// both keyboard layouts match the word tables.
var nuktaFolder = strings.NewReplacer(
	"\u09dc", "\u09a1\u09bc",
	"\u09dd", "\u09a2\u09bc",
	"\u09df", "\u09af\u09bc",
)

type matcher func(tokens []string) (int, bool)

var matchers = []matcher{matchDigits, matchOrdinal, matchCardinal, matchRelative}

// Resolve returns the position text refers to within a listing of size
// headlines. Unparseable text yields models.ErrUnresolvable; a position
// outside 1..size (or any position when size is 0) yields *models.RangeError.
func Resolve(text string, size int) (int, error) {
	pos, err := Parse(text)
	if err != nil {
		return 0, err
	}
	if pos == Last {
		pos = size
	}
	if size <= 0 || pos < 1 || pos > size {
		return 0, &models.RangeError{Index: pos, Size: size}
	}
	return pos, nil
}

// Parse interprets text without a bounds check. Relative references return Last.
func Parse(text string) (int, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty reference", models.ErrUnresolvable)
	}
	for _, match := range matchers {
		if n, ok := match(tokens); ok {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", models.ErrUnresolvable, strings.TrimSpace(text))
}

func tokenize(text string) []string {
	s := nuktaFolder.Replace(strings.ToLower(text))
	s = strings.ReplaceAll(s, "#", " # ")
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '#')
	})
}

func matchDigits(tokens []string) (int, bool) {
	for _, tok := range tokens {
		if n, rest, ok := leadingNumber(tok); ok && rest == "" {
			return n, true
		}
	}
	return 0, false
}

func matchOrdinal(tokens []string) (int, bool) {
	for i, tok := range tokens {
		if n, rest, ok := leadingNumber(tok); ok && digitOrdinalSuffixes[rest] {
			return n, true
		}
		if tens, ok := tensCardinals[tok]; ok && i+1 < len(tokens) {
			if unit, ok := unitOrdinals[tokens[i+1]]; ok {
				return tens + unit, true
			}
		}
		for _, table := range []map[string]int{unitOrdinals, teenOrdinals, tensOrdinals, banglaOrdinals} {
			if n, ok := table[tok]; ok {
				return n, true
			}
		}
	}
	return 0, false
}

func matchCardinal(tokens []string) (int, bool) {
	for i, tok := range tokens {
		if tens, ok := tensCardinals[tok]; ok {
			if i+1 < len(tokens) {
				if unit, ok := unitCardinals[tokens[i+1]]; ok {
					return tens + unit, true
				}
			}
			return tens, true
		}
		if n, ok := teenCardinals[tok]; ok {
			return n, true
		}
		if n, ok := unitCardinals[tok]; ok {
			// "one" is usually a pronoun ("the last one").
			if tok == "one" && len(tokens) > 1 && (i == 0 || !oneQualifiers[tokens[i-1]]) {
				continue
			}
			return n, true
		}
		if n, ok := banglaCardinals[tok]; ok {
			return n, true
		}
	}
	return 0, false
}

func matchRelative(tokens []string) (int, bool) {
	for _, tok := range tokens {
		if lastWords[tok] {
			return Last, true
		}
	}
	return 0, false
}

// leadingNumber reads the ASCII or Bengali digit run at the start of tok and
// returns its value with the remainder of the token.
func leadingNumber(tok string) (int, string, bool) {
	n, seen := 0, false
	for i, r := range tok {
		var d int
		switch {
		case r >= '0' && r <= '9':
			d = int(r - '0')
		case r >= '০' && r <= '৯':
			d = int(r - '০')
		default:
			return n, tok[i:], seen
		}
		seen = true
		n = n*10 + d
		if n > maxPosition {
			n = maxPosition
		}
	}
	return n, "", seen
}
