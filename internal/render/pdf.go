package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

var (
	lineBreakTags = regexp.MustCompile(`(?i)<br\s*/?>|</(p|h1|h2|h3|h4|h5|h6|tr|li|div)>`)
	cellTags      = regexp.MustCompile(`(?i)</t[hd]>`)
	headTag       = regexp.MustCompile(`(?is)<head>.*</head>`)
	anyTag        = regexp.MustCompile(`<[^>]*>`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// htmlToText flattens the structural HTML into plain text lines. Table cells
// collapse to pipe-separated columns; everything else keeps its line
// structure.
func htmlToText(doc string) []string {
	text := headTag.ReplaceAllString(doc, "")
	text = cellTags.ReplaceAllString(text, " | ")
	text = lineBreakTags.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = blankLines.ReplaceAllString(text, "\n\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSuffix(line, "|")
		lines = append(lines, strings.TrimSpace(line))
	}

	// Drop leading and trailing empties
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// encodePDF encodes the styled HTML document into a PDF. The encoder is a
// plain text layout, not a browser: it writes the invoice number as the
// heading followed by the flattened document text. Output is byte-identical
// for identical input (fixed creation date, no stream compression), and the
// invoice number always appears in the page content. Text is translated to
// cp1252 for the built-in fonts, so characters outside Latin-1 are dropped.
func encodePDF(invoiceNumber, htmlDoc string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	pdf.SetCompression(false)
	pdf.SetTitle("Rechnung "+invoiceNumber, true)
	pdf.SetAutoPageBreak(true, 20)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Rechnung "+invoiceNumber), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range htmlToText(htmlDoc) {
		if line == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PDF: %w", err)
	}
	return buf.Bytes(), nil
}
