package siterules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// summaryWindow is how many paragraphs after the first are compared.
	summaryWindow = 3
	// nearDuplicateRatio is the largest edit distance, relative to the longer
	// paragraph, still treated as the same text.
	nearDuplicateRatio = 0.10
	// minTruncatedRunes guards prefix matching of "..." summaries.
	minTruncatedRunes = 40
)

// DedupeLeadingSummary drops the summary paragraph Dhaka Tribune prints above
// the article when it repeats one of the next few paragraphs.
func DedupeLeadingSummary(body string) string {
	lines := splitLines(body)
	first := -1
	var paras []int
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if first < 0 {
			first = i
			continue
		}
		paras = append(paras, i)
		if len(paras) == summaryWindow {
			break
		}
	}
	if first < 0 {
		return body
	}
	for _, i := range paras {
		if NearDuplicate(lines[first], lines[i]) {
			out := append([]string{}, lines[:first]...)
			out = append(out, lines[first+1:]...)
			return joinLines(out)
		}
	}
	return body
}

// NearDuplicate reports whether a and b are the same paragraph up to case,
// spacing, punctuation and small edits, or a is a truncated copy of b.
func NearDuplicate(a, b string) bool {
	na, nb := normalizeParagraph(a), normalizeParagraph(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if t, ok := truncatedSummary(a); ok {
		nt := normalizeParagraph(t)
		if utf8.RuneCountInString(nt) >= minTruncatedRunes && strings.HasPrefix(nb, nt) {
			return true
		}
	}
	ra, rb := []rune(na), []rune(nb)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	limit := int(float64(longer) * nearDuplicateRatio)
	if abs(len(ra)-len(rb)) > limit {
		return false
	}
	return levenshtein(ra, rb) <= limit
}

func truncatedSummary(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"...", "…"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix), true
		}
	}
	return "", false
}

// normalizeParagraph lowercases, drops punctuation and folds spaces.
func normalizeParagraph(s string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
		default:
			if space {
				b.WriteRune(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
