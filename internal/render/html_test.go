package render

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:     "heading",
			input:    "# Weekly Review",
			contains: []string{"<h1>", "Weekly Review", "</h1>"},
		},
		{
			name:     "emphasis",
			input:    "This is **bold** and *italic*",
			contains: []string{"<strong>", "bold", "</strong>", "<em>", "italic", "</em>"},
		},
		{
			name:     "list",
			input:    "- shipped the CLI\n- fixed token refresh",
			contains: []string{"<ul>", "<li>", "shipped the CLI", "fixed token refresh", "</li>", "</ul>"},
		},
		{
			name:     "code block",
			input:    "```\ngo test ./...\n```",
			contains: []string{"<pre>", "<code>", "go test ./...", "</code>", "</pre>"},
		},
		{
			name:     "link",
			input:    "[docs](https://example.com)",
			contains: []string{"<a", `href="https://example.com"`, "docs", "</a>"},
		},
		{
			name:        "script tag stripped",
			input:       "<script>alert('xss')</script>",
			notContains: []string{"<script>"},
		},
		{
			name:        "event handler stripped",
			input:       `<div onclick="alert('xss')">click</div>`,
			notContains: []string{"onclick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HTML(tt.input)
			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q\ninput: %q\noutput: %q", expected, tt.input, result)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(result, unwanted) {
					t.Errorf("expected output NOT to contain %q\ninput: %q\noutput: %q", unwanted, tt.input, result)
				}
			}
		})
	}
}

func TestDocument(t *testing.T) {
	doc := Document(`Notes & "Plans"`, "# Heading")

	if !strings.HasPrefix(doc, "<!DOCTYPE html>") {
		t.Error("expected a standalone HTML document")
	}
	if !strings.Contains(doc, "<title>Notes &amp; &#34;Plans&#34;</title>") {
		t.Errorf("expected escaped title, got: %q", doc)
	}
	if !strings.Contains(doc, "<h1>Heading</h1>") {
		t.Errorf("expected rendered body, got: %q", doc)
	}
}
