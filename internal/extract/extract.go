package extract

import (
    "bytes"
    "fmt"
    "strings"

    "github.com/PuerkitoBio/goquery"
    "golang.org/x/net/html"
    "golang.org/x/net/html/atom"
)

// NoTitle is used as the page title when the document has no usable <title>.
const NoTitle = "No title found"

// Document is a simplified representation of extracted page content.
type Document struct {
    Title string
    Text  string
}

// irrelevant lists the element kinds whose subtrees never contribute text.
// <image> is kept next to <img> because foreign (SVG) content keeps its tag.
var irrelevant = map[atom.Atom]bool{
    atom.Script: true,
    atom.Style:  true,
    atom.Img:    true,
    atom.Image:  true,
    atom.Input:  true,
}

// FromHTML extracts the title and the visible body text of an HTML page.
// Every text node under <body> becomes one run, trimmed of surrounding
// whitespace; empty runs are dropped and the rest are joined with newlines.
func FromHTML(input []byte) (Document, error) {
    // Scripting is disabled so that <noscript> content is parsed as markup
    // instead of a single raw text node.
    root, err := html.ParseWithOptions(bytes.NewReader(input), html.ParseOptionEnableScripting(false))
    if err != nil {
        return Document{}, fmt.Errorf("parse html: %w", err)
    }
    doc := goquery.NewDocumentFromNode(root)

    var runs []string
    for _, body := range doc.Find("body").First().Nodes {
        runs = collectRuns(runs, body)
    }

    return Document{
        Title: titleOf(doc),
        Text:  strings.Join(runs, "\n"),
    }, nil
}

func titleOf(doc *goquery.Document) string {
    t := doc.Find("title").First()
    if t.Length() == 0 {
        return NoTitle
    }
    title := strings.TrimSpace(t.Text())
    if title == "" {
        return NoTitle
    }
    return title
}

// collectRuns walks n depth-first and appends the trimmed text of every
// text node that is not inside an irrelevant element.
func collectRuns(runs []string, n *html.Node) []string {
    switch n.Type {
    case html.TextNode:
        if s := strings.TrimSpace(n.Data); s != "" {
            runs = append(runs, s)
        }
        return runs
    case html.CommentNode, html.DoctypeNode:
        return runs
    case html.ElementNode:
        if irrelevant[n.DataAtom] {
            return runs
        }
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        runs = collectRuns(runs, c)
    }
    return runs
}

// splitRuns normalizes free text into the same run format FromHTML produces.
func splitRuns(text string) string {
    lines := strings.Split(text, "\n")
    out := make([]string, 0, len(lines))
    for _, line := range lines {
        if s := strings.TrimSpace(line); s != "" {
            out = append(out, s)
        }
    }
    return strings.Join(out, "\n")
}
