package anchor

import (
	"strings"
	"unicode"
)

// collapseWhitespace replaces every whitespace run with a single space and
// trims the ends, so formatting differences don't defeat substring search
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// normalizeForCompare lowercases and collapses whitespace for ratio scoring
func normalizeForCompare(s string) string {
	return strings.ToLower(collapseWhitespace(s))
}

// similarityRatio is a normalized Levenshtein ratio in [0,1]:
// 1 means identical, 0 means nothing in common
func similarityRatio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1
	}
	maxLen := len(ar)
	if len(br) > maxLen {
		maxLen = len(br)
	}
	if maxLen == 0 {
		return 0
	}

	// Two-row DP keeps memory linear in the shorter string
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := 0; j <= len(br); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
		}
		prev, curr = curr, prev
	}
	dist := prev[len(br)]
	return 1 - float64(dist)/float64(maxLen)
}

// wordStarts returns the byte offsets where words begin in s
func wordStarts(s string) []int {
	var starts []int
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			starts = append(starts, i)
			inWord = true
		}
	}
	return starts
}

// bestWindow scans hay for the window most similar to needle, stepping at
// word boundaries. Returns the best ratio and the window's byte span.
func bestWindow(needle, hay string) (float64, int, int) {
	normNeedle := normalizeForCompare(needle)
	if len(hay) <= len(needle)+len(needle)/5 {
		return similarityRatio(normNeedle, normalizeForCompare(hay)), 0, len(hay)
	}

	bestRatio := -1.0
	bestStart, bestEnd := 0, len(hay)
	for _, start := range wordStarts(hay) {
		end := start + len(needle)
		if end > len(hay) {
			end = len(hay)
		}
		// back off to a rune boundary
		for end > start && !isRuneStart(hay, end) {
			end--
		}
		if end <= start {
			continue
		}
		ratio := similarityRatio(normNeedle, normalizeForCompare(hay[start:end]))
		if ratio > bestRatio {
			bestRatio = ratio
			bestStart, bestEnd = start, end
		}
	}
	if bestRatio < 0 {
		return similarityRatio(normNeedle, normalizeForCompare(hay)), 0, len(hay)
	}
	return bestRatio, bestStart, bestEnd
}

func isRuneStart(s string, i int) bool {
	if i == len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}
