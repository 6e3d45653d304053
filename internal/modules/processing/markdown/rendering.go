package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// DocumentOptions controls the standalone HTML page produced by Document.
type DocumentOptions struct {
	Title string
}

// Raw HTML in the source is omitted by goldmark (the unsafe renderer option is
// never enabled), so visitor-supplied text cannot inject markup. Visitor text
// is otherwise rendered as typed: no smart quotes or dash substitution.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

// Render converts markdown text to an HTML fragment.
func Render(markdownText string) (string, error) {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return "", nil
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return out.String(), nil
}

const documentStyle = `body { max-width: 42em; margin: 2em auto; padding: 0 1em; font: 16px/1.6 -apple-system, "Segoe UI", sans-serif; color: #222; }
      blockquote { margin: 0.4em 0 1.4em; padding: 0.2em 1em; border-left: 3px solid #ccc; color: #444; }
      h1 { font-size: 1.6em; }`

// Document wraps an HTML fragment into a complete page.
func Document(body string, options DocumentOptions) string {
	var b strings.Builder
	b.Grow(len(body) + 1024)

	title := template.HTMLEscapeString(strings.TrimSpace(options.Title))
	if title == "" {
		title = "Guestbook"
	}

	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n")
	b.WriteString("  <head>\n")
	b.WriteString("    <meta charset=\"UTF-8\" />\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\" />\n")
	b.WriteString("    <meta name=\"referrer\" content=\"no-referrer\" />\n")
	b.WriteString("    <style>\n      ")
	b.WriteString(documentStyle)
	b.WriteString("\n    </style>\n")
	b.WriteString("    <title>")
	b.WriteString(title)
	b.WriteString("</title>\n")
	b.WriteString("  </head>\n\n")
	b.WriteString("  <body>\n")
	b.WriteString("    <h1>")
	b.WriteString(title)
	b.WriteString("</h1>\n")
	b.WriteString("    <article>\n")
	b.WriteString(body)
	b.WriteString("\n    </article>\n")
	b.WriteString("  </body>\n")
	b.WriteString("</html>")
	return b.String()
}
