package entity

// Invoice status constants
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice represents an invoice header together with its owned positions.
// Monetary fields satisfy TotalAmount == NetAmount - DiscountAmount + TaxAmount
// at creation time. Customer, Template and Positions are populated on expanded
// reads only.
type Invoice struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customerId"`
	TemplateID     string            `json:"templateId,omitempty"`
	InvoiceNumber  string            `json:"invoiceNumber"`
	Date           string            `json:"date"`
	DueDate        string            `json:"dueDate,omitempty"`
	NetAmount      float64           `json:"netAmount"`
	TaxAmount      float64           `json:"taxAmount"`
	DiscountAmount float64           `json:"discountAmount"`
	TotalAmount    float64           `json:"totalAmount"`
	Status         string            `json:"status"`
	Notes          string            `json:"notes"`
	PaymentTerms   string            `json:"paymentTerms"`
	CreatedAt      string            `json:"createdAt,omitempty"`
	UpdatedAt      string            `json:"updatedAt,omitempty"`
	Customer       *Customer         `json:"customer,omitempty"`
	Template       *InvoiceTemplate  `json:"template,omitempty"`
	Positions      []InvoicePosition `json:"positions,omitempty"`
}

// InvoicePosition is a single line item owned by exactly one invoice. It is
// written verbatim: TotalPrice is stored as supplied, never re-derived from
// Quantity and UnitPrice after the fact.
type InvoicePosition struct {
	ID          string  `json:"id"`
	InvoiceID   string  `json:"invoiceId"`
	ArticleID   string  `json:"articleId"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	ArticleName string  `json:"articleName,omitempty"`
}

// ValidInvoiceStatus reports whether s is a member of the closed status set.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}
