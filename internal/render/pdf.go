package render

import (
    "bufio"
    "regexp"
    "strings"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/pagesum/internal/summarize"
)

var linkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`) // [text](url)

// PDF renders the summaries into a minimal PDF at outPath, preserving
// paragraphs and turning Markdown links [text](url) into clickable links.
// It does not perform full Markdown layout.
func PDF(outPath string, results []summarize.Result) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    // Core fonts are cp1252; translate so accented text survives.
    tr := pdf.UnicodeTranslatorFromDescriptor("")
    pdf.SetFont("Helvetica", "", 11)

    for _, r := range results {
        pdf.AddPage()
        pdf.SetFont("Helvetica", "B", 16)
        pdf.MultiCell(0, 8, tr(headingText(r.Title)), "", "L", false)
        pdf.SetFont("Helvetica", "", 9)
        pdf.WriteLinkString(5, r.URL, r.URL)
        pdf.Ln(10)
        pdf.SetFont("Helvetica", "", 11)
        writeMarkdown(pdf, tr, r.Summary)
    }
    return pdf.OutputFileAndClose(outPath)
}

func writeMarkdown(pdf *gofpdf.Fpdf, tr func(string) string, markdown string) {
    // Render line by line to avoid huge paragraphs
    scanner := bufio.NewScanner(strings.NewReader(markdown))
    scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
    for scanner.Scan() {
        s := strings.TrimSpace(scanner.Text())
        if s == "" {
            pdf.Ln(5)
            continue
        }
        // Strip heading markers for a basic layout, but add spacing
        if strings.HasPrefix(s, "#") {
            i := 0
            for i < len(s) && s[i] == '#' { i++ }
            text := strings.TrimSpace(s[i:])
            if text == "" { continue }
            size := 14.0
            if i >= 2 { size = 12.0 }
            pdf.SetFont("Helvetica", "B", size)
            pdf.CellFormat(0, 8, tr(text), "", 1, "L", false, 0, "")
            pdf.SetFont("Helvetica", "", 11)
            continue
        }
        if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
            s = "• " + strings.TrimSpace(s[2:])
            pdf.MultiCell(0, 5, tr(strings.ReplaceAll(s, "**", "")), "", "L", false)
            continue
        }
        s = strings.ReplaceAll(s, "**", "")
        parts := linkRe.FindAllStringSubmatchIndex(s, -1)
        if len(parts) == 0 {
            pdf.MultiCell(0, 5, tr(s), "", "L", false)
            continue
        }
        pos := 0
        for _, m := range parts {
            // m: [fullStart, fullEnd, textStart, textEnd, urlStart, urlEnd]
            if m[0] > pos {
                pdf.Write(5, tr(s[pos:m[0]]))
            }
            text := s[m[2]:m[3]]
            url := s[m[4]:m[5]]
            if strings.HasPrefix(url, "#") {
                pdf.Write(5, tr(text))
            } else {
                pdf.WriteLinkString(5, tr(text), url)
            }
            pos = m[1]
        }
        if pos < len(s) {
            pdf.Write(5, tr(s[pos:]))
        }
        pdf.Ln(6)
    }
}
