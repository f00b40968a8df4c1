// Package render writes summaries for people to read: Markdown for the
// terminal, HTML through goldmark, and a simple PDF.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hyperifyio/pagesum/internal/summarize"
)

// Format selects an output renderer.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown"/"md" and "html".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// Write renders results to w in the given format.
func Write(w io.Writer, format Format, results []summarize.Result) error {
	switch format {
	case FormatHTML:
		return HTML(w, results)
	default:
		return Markdown(w, results)
	}
}

// Markdown writes each summary under a heading naming the page and its URL.
func Markdown(w io.Writer, results []summarize.Result) error {
	_, err := io.WriteString(w, markdownDocument(results))
	return err
}

func markdownDocument(results []summarize.Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n<%s>\n\n", headingText(r.Title), r.URL)
		sb.WriteString(strings.TrimSpace(r.Summary))
		sb.WriteString("\n")
	}
	return sb.String()
}

// headingText folds runs of whitespace, newlines included, into single
// spaces so the title stays on the heading line.
func headingText(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts the Markdown document to a standalone HTML page.
func HTML(w io.Writer, results []summarize.Result) error {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdownDocument(results)), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	_, err := fmt.Fprintf(w, "<!doctype html>\n<html>\n<head><meta charset=\"utf-8\"><title>Page summaries</title></head>\n<body>\n%s</body>\n</html>\n", body.String())
	return err
}
