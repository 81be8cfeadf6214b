package siterules

import "strings"

// "আরও পড়ুন" and "আরো পড়ুন", with both encodings of the letter ড়.
var readMorePrefixes = []string{
	"\u0986\u09b0\u0993 \u09aa\u09dc\u09c1\u09a8",
	"\u0986\u09b0\u0993 \u09aa\u09a1\u09bc\u09c1\u09a8",
	"\u0986\u09b0\u09cb \u09aa\u09dc\u09c1\u09a8",
	"\u0986\u09b0\u09cb \u09aa\u09a1\u09bc\u09c1\u09a8",
}

// DropReadMoreLines removes Prothom Alo's inline "read more" link lines.
func DropReadMoreLines(body string) string {
	lines := splitLines(body)
	out := lines[:0:0]
	for _, l := range lines {
		t := strings.TrimSpace(l)
		skip := false
		for _, p := range readMorePrefixes {
			if strings.HasPrefix(t, p) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, l)
		}
	}
	return joinLines(out)
}
