package record

import (
	"regexp"
	"strings"
)

// whitespaceRegex matches one or more whitespace characters
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalize normalizes a string for matching:
// 1. Trim leading/trailing whitespace
// 2. Lowercase
// 3. Collapse internal whitespace to single spaces
//
// Raw forms are kept for display; normalized forms are what edit/delete
// predicates and tag queries compare against.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = whitespaceRegex.ReplaceAllString(s, " ")
	return s
}

// NormalizeTags normalizes each tag and drops empties and duplicates,
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = Normalize(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// SplitTags parses a comma-separated tag string into a normalized tag list.
func SplitTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}
