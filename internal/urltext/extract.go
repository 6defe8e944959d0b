// Package urltext extracts and normalizes URLs from free-form text.
// Input is whatever the user pasted or a batch file's contents; output is
// an ordered, deduplicated list of cleaned-up URL strings.
package urltext

import (
	"strings"
)

// urlStopChars terminate a URL match inside prose.
const urlStopChars = " \t\r\n\"'<>"

// trailingJunk is punctuation commonly glued onto URLs by copy-paste.
const trailingJunk = ".,;:!?)]}>\"'"

// Extract scans text for http/https URLs and returns them normalized,
// deduplicated, in first-seen order. Lines whose first non-whitespace
// character is '#' are ignored. Pure function of its input.
func Extract(text string) []string {
	text = strings.ToValidUTF8(text, "")

	var urls []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		for _, raw := range matchLine(line) {
			u := Normalize(raw)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			urls = append(urls, u)
		}
	}
	return urls
}

// matchLine returns raw URL candidates in a single line: each substring
// starting at a scheme token and running to the next whitespace or quote.
func matchLine(line string) []string {
	var matches []string
	rest := line
	for {
		i := schemeIndex(rest)
		if i < 0 {
			return matches
		}
		rest = rest[i:]
		end := strings.IndexAny(rest, urlStopChars)
		if end < 0 {
			end = len(rest)
		}
		matches = append(matches, rest[:end])
		rest = rest[end:]
	}
}

// schemeIndex finds the first http:// or https:// token, or -1.
func schemeIndex(s string) int {
	for i := 0; ; {
		j := strings.Index(s[i:], "http")
		if j < 0 {
			return -1
		}
		i += j
		if strings.HasPrefix(s[i:], "http://") || strings.HasPrefix(s[i:], "https://") {
			return i
		}
		i += 4
	}
}

// Normalize cleans one raw URL candidate: leading junk before the scheme is
// discarded, a second scheme token glued onto the same match truncates it,
// and trailing copy-paste punctuation is trimmed. Returns "" if no scheme
// token is present.
func Normalize(raw string) string {
	i := schemeIndex(raw)
	if i < 0 {
		return ""
	}
	raw = raw[i:]

	// Two URLs pasted with no separator: keep only the first.
	if j := schemeIndex(raw[1:]); j >= 0 {
		raw = raw[:j+1]
	}

	return strings.TrimRight(raw, trailingJunk)
}
