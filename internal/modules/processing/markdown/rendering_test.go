package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "empty",
			input:    "   ",
			contains: nil,
		},
		{
			name:     "paragraph and blockquote",
			input:    "Bob wrote 11 minutes ago:\n> hi",
			contains: []string{"<p>Bob wrote 11 minutes ago:</p>", "<blockquote>", "<p>hi</p>"},
		},
		{
			name:     "multi-line quote keeps line breaks",
			input:    "Ann wrote 2 hours ago:\n> first\n> second",
			contains: []string{"first<br />", "second"},
		},
		{
			name:     "raw html omitted",
			input:    "Eve wrote 1 second ago:\n> <script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
		{
			name:     "visitor text kept literally",
			input:    "Ann wrote 1 minute ago:\n> it's \"quoted\" -- see GH@torvalds",
			contains: []string{"it's", "&quot;quoted&quot; -- see GH@torvalds"},
			excludes: []string{"&rsquo;", "&ldquo;", "&ndash;", "<a href"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Render(tt.input)
			if err != nil {
				t.Fatalf("Render error: %v", err)
			}
			if len(tt.contains) == 0 && len(tt.excludes) == 0 && got != "" {
				t.Fatalf("Render(%q) = %q, want empty", tt.input, got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render(%q) = %q, missing %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Render(%q) = %q, must not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}

func TestDocument(t *testing.T) {
	t.Parallel()

	doc := Document("<p>hello</p>", DocumentOptions{Title: "My <Guestbook>"})
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>My &lt;Guestbook&gt;</title>",
		"<p>hello</p>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("Document missing %q:\n%s", want, doc)
		}
	}

	if !strings.Contains(Document("", DocumentOptions{}), "<title>Guestbook</title>") {
		t.Error("Document without title should fall back to Guestbook")
	}
}
