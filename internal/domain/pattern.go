package domain

import (
	"regexp"
	"strings"
)

// Pattern source labels surfaced to API consumers.
const (
	PatternSourceKorean    = "korean"
	PatternSourceNonKorean = "non_korean"
)

// Summary section headers written by the corpus pipeline.
const (
	sectionKoreanPattern    = "Korean Reviewer Pattern"
	sectionNonKoreanPattern = "Non-Korean Reviewer Pattern"
)

// noMentionsPrefix marks a section the summarizer left intentionally empty.
const noMentionsPrefix = "no notable mentions"

// ExtractSection pulls one [Section Name] block out of a summary.
// A section runs until the next [Letters And Spaces] header line or the end
// of text; hyphenated headers do not terminate a section. Missing section
// returns "".
func ExtractSection(summary, sectionName string) string {
	re := regexp.MustCompile(`\[` + regexp.QuoteMeta(sectionName) + `\]((?s).*?)(\n\[[A-Za-z ]+\]|\z)`)
	m := re.FindStringSubmatch(summary)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// PreferredPattern returns the reviewer pattern to display for a summary
// and its source label. The Korean reviewer section wins when present and
// substantive; otherwise the non-Korean section; otherwise ("", "").
// Sections starting with "no notable mentions" count as absent.
func PreferredPattern(summary string) (source, text string) {
	if kr := ExtractSection(summary, sectionKoreanPattern); kr != "" {
		if !strings.HasPrefix(strings.ToLower(kr), noMentionsPrefix) {
			return PatternSourceKorean, kr
		}
	}
	if nk := ExtractSection(summary, sectionNonKoreanPattern); nk != "" {
		if !strings.HasPrefix(strings.ToLower(nk), noMentionsPrefix) {
			return PatternSourceNonKorean, nk
		}
	}
	return "", ""
}

// ContainsKorean reports whether s contains Hangul (precomposed syllables
// or Jamo). It gates the translate/intent path: queries with no Hangul are
// treated as already English.
func ContainsKorean(s string) bool {
	for _, r := range s {
		if (r >= 0xAC00 && r <= 0xD7A3) || (r >= 0x1100 && r <= 0x11FF) {
			return true
		}
	}
	return false
}
