package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// PositionRequest is one line item in an invoice creation request. The total
// price is caller-supplied and stored verbatim.
type PositionRequest struct {
	ArticleID  string  `json:"articleId"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// CreateInvoiceRequest is the invoice creation payload. InvoiceNumber is
// optional; an empty value draws the next one from the sequencer.
type CreateInvoiceRequest struct {
	CustomerID     string            `json:"customerId"`
	TemplateID     string            `json:"templateId"`
	InvoiceNumber  string            `json:"invoiceNumber"`
	Date           string            `json:"date"`
	DueDate        string            `json:"dueDate"`
	NetAmount      float64           `json:"netAmount"`
	TaxAmount      float64           `json:"taxAmount"`
	DiscountAmount float64           `json:"discountAmount"`
	TotalAmount    float64           `json:"totalAmount"`
	Status         string            `json:"status"`
	Notes          string            `json:"notes"`
	PaymentTerms   string            `json:"paymentTerms"`
	Positions      []PositionRequest `json:"positions"`
}

// UpdateInvoiceRequest is the partial header update payload; absent fields
// keep their previous value
type UpdateInvoiceRequest struct {
	CustomerID     *string  `json:"customerId"`
	TemplateID     *string  `json:"templateId"`
	InvoiceNumber  *string  `json:"invoiceNumber"`
	Date           *string  `json:"date"`
	DueDate        *string  `json:"dueDate"`
	NetAmount      *float64 `json:"netAmount"`
	TaxAmount      *float64 `json:"taxAmount"`
	DiscountAmount *float64 `json:"discountAmount"`
	TotalAmount    *float64 `json:"totalAmount"`
	Status         *string  `json:"status"`
	Notes          *string  `json:"notes"`
	PaymentTerms   *string  `json:"paymentTerms"`
}

// ListInvoices returns all invoices ordered by invoice number descending
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, invoices)
}

// ListInvoicesByStatus returns all invoices with the given status
func (h *Handlers) ListInvoicesByStatus(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoicesByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, invoices)
}

// ListInvoicesByCustomer returns all invoices of a customer
func (h *Handlers) ListInvoicesByCustomer(c *gin.Context) {
	invoices, err := h.invoiceService.ListInvoicesByCustomer(c.Request.Context(), c.Param("customerId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, invoices)
}

// GenerateInvoiceNumber previews the next invoice number without reserving it
func (h *Handlers) GenerateInvoiceNumber(c *gin.Context) {
	number, err := h.invoiceService.GenerateInvoiceNumber(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"invoiceNumber": number})
}

// CreateInvoice creates an invoice with optional positions
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	inv := &entity.Invoice{
		CustomerID:     req.CustomerID,
		TemplateID:     req.TemplateID,
		InvoiceNumber:  req.InvoiceNumber,
		Date:           req.Date,
		DueDate:        req.DueDate,
		NetAmount:      req.NetAmount,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    req.TotalAmount,
		Status:         req.Status,
		Notes:          req.Notes,
		PaymentTerms:   req.PaymentTerms,
	}

	positions := make([]entity.InvoicePosition, 0, len(req.Positions))
	for _, p := range req.Positions {
		positions = append(positions, entity.InvoicePosition{
			ArticleID:  p.ArticleID,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
		})
	}

	created, err := h.invoiceService.CreateInvoice(c.Request.Context(), inv, positions)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// GetInvoice returns the full aggregate
func (h *Handlers) GetInvoice(c *gin.Context) {
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, inv)
}

// UpdateInvoice applies a partial header update
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), repository.InvoiceUpdate{
		CustomerID:     req.CustomerID,
		TemplateID:     req.TemplateID,
		InvoiceNumber:  req.InvoiceNumber,
		Date:           req.Date,
		DueDate:        req.DueDate,
		NetAmount:      req.NetAmount,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		TotalAmount:    req.TotalAmount,
		Status:         req.Status,
		Notes:          req.Notes,
		PaymentTerms:   req.PaymentTerms,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, inv)
}

// DeleteInvoice removes the invoice and all of its positions
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InvoiceDocument renders the invoice into a PDF download
func (h *Handlers) InvoiceDocument(c *gin.Context) {
	doc, inv, err := h.invoiceService.GenerateDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="Rechnung-%s.pdf"`, inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// InvoiceReport streams the invoice list as an XLSX workbook
func (h *Handlers) InvoiceReport(c *gin.Context) {
	report, err := h.reportService.InvoiceReport(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="Rechnungen.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report)
}
