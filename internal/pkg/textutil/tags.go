package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// tagRegex matches inline hashtags: #tag, #my-tag, #tag_name, #tag123.
var tagRegex = regexp.MustCompile(`#([\w-]+)`)

// ExtractTags parses inline hashtags out of note or project content and
// returns them lowercased, deduplicated, and sorted. Markdown headings
// survive because "# Heading" has a space after the hash.
func ExtractTags(content string) []string {
	matches := tagRegex.FindAllStringSubmatch(content, -1)

	seen := make(map[string]bool)
	for _, match := range matches {
		if len(match) > 1 {
			seen[strings.ToLower(match[1])] = true
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return tags
}

// MergeTags combines explicit tags with extracted ones, preserving the
// explicit ordering and appending new extracted tags at the end.
func MergeTags(explicit, extracted []string) []string {
	seen := make(map[string]bool, len(explicit))
	merged := make([]string, 0, len(explicit)+len(extracted))
	for _, tag := range explicit {
		key := strings.ToLower(tag)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, tag)
	}
	for _, tag := range extracted {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		merged = append(merged, tag)
	}
	return merged
}
