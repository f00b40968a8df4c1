package extract

import (
    "bytes"
    "fmt"
    "net/url"
    "strings"

    readability "github.com/go-shiori/go-readability"
)

// Extractor defines a minimal interface for content extraction strategies.
// Implementations can swap readability tactics without changing callers.
type Extractor interface {
    // Extract converts raw HTML bytes fetched from pageURL into a Document.
    Extract(input []byte, pageURL string) (Document, error)
}

// Default keeps every visible text run of the body, minus scripts, styles,
// images and inputs.
type Default struct{}

func (Default) Extract(input []byte, _ string) (Document, error) {
    return FromHTML(input)
}

// Readability isolates the main article with go-readability before
// splitting it into runs. Useful for pages dominated by navigation.
type Readability struct{}

func (Readability) Extract(input []byte, pageURL string) (Document, error) {
    u, err := url.Parse(pageURL)
    if err != nil {
        return Document{}, fmt.Errorf("parse url: %w", err)
    }
    article, err := readability.FromReader(bytes.NewReader(input), u)
    if err != nil {
        return Document{}, fmt.Errorf("readability: %w", err)
    }
    title := strings.TrimSpace(article.Title)
    if title == "" {
        title = NoTitle
    }
    return Document{Title: title, Text: splitRuns(article.TextContent)}, nil
}

// ByName returns the extractor registered under name. An empty name selects
// Default.
func ByName(name string) (Extractor, error) {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "", "default":
        return Default{}, nil
    case "readability":
        return Readability{}, nil
    default:
        return nil, fmt.Errorf("unknown extractor %q", name)
    }
}
