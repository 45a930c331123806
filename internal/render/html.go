package render

import (
	"github.com/russross/blackfriday/v2"
)

// invoiceStyle is the fixed presentational styling wrapped around every
// rendered document.
const invoiceStyle = `
	body {
		font-family: 'Arial', sans-serif;
		font-size: 12px;
		line-height: 1.4;
		color: #333;
		margin: 0;
		padding: 0;
	}

	table {
		width: 100%;
		border-collapse: collapse;
		margin-bottom: 20px;
	}

	th, td {
		padding: 10px;
		text-align: left;
		border-bottom: 1px solid #ddd;
	}

	th {
		background-color: #0066cc;
		color: white;
		font-weight: bold;
	}

	h1 {
		color: #0066cc;
		font-size: 24px;
		margin-bottom: 10px;
	}

	h2 {
		color: #0066cc;
		font-size: 18px;
		margin-bottom: 15px;
	}

	h3 {
		color: #333;
		font-size: 14px;
		margin-bottom: 10px;
	}

	@media print {
		body {
			font-size: 11px;
		}
	}
`

// markdownToHTML lowers the constrained markup (headers, bold, italic,
// pipe tables, blank-line paragraphs) to structural HTML
func markdownToHTML(markdown string) string {
	html := blackfriday.Run([]byte(markdown),
		blackfriday.WithExtensions(blackfriday.CommonExtensions))
	return string(html)
}

// wrapWithInvoiceCSS wraps the HTML fragment into a standalone document with
// the fixed style sheet
func wrapWithInvoiceCSS(htmlContent string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Rechnung</title>
<style>` + invoiceStyle + `</style>
</head>
<body>
` + htmlContent + `
</body>
</html>
`
}
