// Package render binds invoice aggregates against document templates and
// encodes the result as a PDF document.
package render

import (
	"github.com/cbroglie/mustache"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/config"
	"github.com/mpue/factor/internal/domain/entity"
)

// Renderer turns an invoice aggregate plus a template into document bytes.
//
// Pipeline: context assembly, mustache substitution, markdown lowering to
// styled HTML, PDF encoding. Substitution is soft-fail throughout: unknown
// placeholders render as empty strings and a template that does not parse
// degrades to its raw body. Templates are user-authored; partial output
// beats a failed export.
type Renderer struct {
	company config.CompanyConfig
	logger  *zap.Logger
}

// NewRenderer creates a new renderer with the issuer data stamped on every
// document
func NewRenderer(company config.CompanyConfig, logger *zap.Logger) *Renderer {
	return &Renderer{
		company: company,
		logger:  logger,
	}
}

// Render produces the PDF document for an invoice using the given template
func (r *Renderer) Render(inv *entity.Invoice, tmpl *entity.InvoiceTemplate) ([]byte, error) {
	ctx := buildContext(inv, r.company)

	substituted, err := mustache.Render(tmpl.TemplateContent, ctx)
	if err != nil {
		r.logger.Warn("Template failed to parse, rendering raw body",
			zap.String("template_id", tmpl.ID),
			zap.Error(err))
		substituted = tmpl.TemplateContent
	}

	htmlDoc := wrapWithInvoiceCSS(markdownToHTML(substituted))

	doc, err := encodePDF(inv.InvoiceNumber, htmlDoc)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Rendered invoice document",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("template_id", tmpl.ID),
		zap.Int("bytes", len(doc)))
	return doc, nil
}
