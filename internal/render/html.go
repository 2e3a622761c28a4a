// Package render converts note and project markdown into sanitized
// HTML for the export commands.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// HTML converts markdown to a sanitized HTML fragment. The sanitizer
// strips scripts and event handlers, so pasting exported notes into a
// page is safe even when the content came from an untrusted project.
func HTML(markdown string) string {
	unsafe := blackfriday.Run([]byte(markdown))

	policy := bluemonday.UGCPolicy()
	return string(policy.SanitizeBytes(unsafe))
}

// Document wraps a rendered fragment in a minimal standalone page.
func Document(title, markdown string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="utf-8">` + "\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.WriteString(HTML(markdown))
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
