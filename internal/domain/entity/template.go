package entity

// Template type constants
const (
	TemplateTypeInvoice  = "invoice"
	TemplateTypeQuote    = "quote"
	TemplateTypeReminder = "reminder"
)

// InvoiceTemplate is a named document template. TemplateContent holds raw
// markdown with mustache placeholders. At most one template per type carries
// IsDefault = true; the repository clears the previous default when a new one
// is set.
type InvoiceTemplate struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	TemplateContent string `json:"templateContent"`
	TemplateType    string `json:"templateType"`
	IsDefault       bool   `json:"isDefault"`
	CreatedAt       string `json:"createdAt,omitempty"`
	UpdatedAt       string `json:"updatedAt,omitempty"`
}

// ValidTemplateType reports whether t is a known template type.
func ValidTemplateType(t string) bool {
	switch t {
	case TemplateTypeInvoice, TemplateTypeQuote, TemplateTypeReminder:
		return true
	}
	return false
}
