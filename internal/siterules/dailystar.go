package siterules

import (
	"strings"
	"unicode/utf8"
)

// Lines that open a related-content list; the list normally closes the body.
var dailyStarBlockMarkers = []string{
	"related topic",
	"related topics",
	"related news",
	"related",
	"more news",
	"more from",
	"you may also like",
}

// Lines that introduce a single linked headline between paragraphs.
var dailyStarInlineMarkers = []string{
	"read more",
	"also read",
}

// Lines that appear anywhere in the body and never carry content.
var dailyStarPromos = []string{
	"follow the daily star on google news",
	"click to comment",
	"the daily star is now on whatsapp",
}

// relatedItemMaxRunes bounds the length of a linked headline; a longer line
// is article text.
const relatedItemMaxRunes = 110

// CleanDailyStar removes related-content lists and promo lines. An inline
// marker takes the one headline after it. A block marker takes every line
// after it when they are all headline-length and run to the end of the body;
// anywhere else it takes one headline, like an inline marker.
func CleanDailyStar(body string) string {
	lines := splitLines(body)
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		key := markerKey(lines[i])
		switch {
		case isOneOf(key, dailyStarPromos):
			continue
		case isOneOf(key, dailyStarBlockMarkers) && allShort(lines[i+1:]):
			return joinLines(out)
		case isOneOf(key, dailyStarBlockMarkers), isOneOf(key, dailyStarInlineMarkers):
			if i+1 < len(lines) && isShort(lines[i+1]) {
				i++
			}
			continue
		}
		out = append(out, lines[i])
	}
	return joinLines(out)
}

func isShort(line string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(line)) <= relatedItemMaxRunes
}

func allShort(lines []string) bool {
	for _, l := range lines {
		if !isShort(l) {
			return false
		}
	}
	return true
}

func markerKey(line string) string {
	key := strings.ToLower(strings.TrimSpace(line))
	return strings.TrimRight(key, ":.- ")
}

func isOneOf(key string, set []string) bool {
	for _, s := range set {
		if key == s {
			return true
		}
	}
	return false
}
