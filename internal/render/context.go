package render

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mpue/factor/internal/config"
	"github.com/mpue/factor/internal/domain/entity"
)

// german formats numbers with German grouping and decimal separators
var german = message.NewPrinter(language.German)

// formatCurrency renders an amount as a German EUR string, e.g. "1.234,56 €"
func formatCurrency(amount float64) string {
	return german.Sprintf("%.2f €", amount)
}

// formatDate converts an ISO date (2006-01-02) to German notation
// (02.01.2006). Unparseable input passes through unchanged.
func formatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}

// buildContext assembles the template rendering context: invoice fields with
// localized display forms, the customer record, positions with display
// currency strings, and the static issuer data from configuration.
func buildContext(inv *entity.Invoice, company config.CompanyConfig) map[string]interface{} {
	invoiceCtx := map[string]interface{}{
		"id":                      inv.ID,
		"customerId":              inv.CustomerID,
		"invoiceNumber":           inv.InvoiceNumber,
		"date":                    inv.Date,
		"dueDate":                 inv.DueDate,
		"status":                  inv.Status,
		"notes":                   inv.Notes,
		"paymentTerms":            inv.PaymentTerms,
		"netAmount":               inv.NetAmount,
		"taxAmount":               inv.TaxAmount,
		"discountAmount":          inv.DiscountAmount,
		"totalAmount":             inv.TotalAmount,
		"dateFormatted":           formatDate(inv.Date),
		"dueDateFormatted":        formatDate(inv.DueDate),
		"netAmountFormatted":      formatCurrency(inv.NetAmount),
		"taxAmountFormatted":      formatCurrency(inv.TaxAmount),
		"discountAmountFormatted": formatCurrency(inv.DiscountAmount),
		"totalAmountFormatted":    formatCurrency(inv.TotalAmount),
	}

	customerCtx := map[string]interface{}{}
	if inv.Customer != nil {
		customerCtx = map[string]interface{}{
			"id":      inv.Customer.ID,
			"company": inv.Customer.Company,
			"contact": inv.Customer.Contact,
			"street":  inv.Customer.Street,
			"city":    inv.Customer.City,
			"phone":   inv.Customer.Phone,
			"email":   inv.Customer.Email,
		}
	}

	positions := make([]map[string]interface{}, 0, len(inv.Positions))
	for _, pos := range inv.Positions {
		positions = append(positions, map[string]interface{}{
			"articleId":           pos.ArticleID,
			"articleName":         pos.ArticleName,
			"quantity":            pos.Quantity,
			"unitPrice":           pos.UnitPrice,
			"totalPrice":          pos.TotalPrice,
			"unitPriceFormatted":  formatCurrency(pos.UnitPrice),
			"totalPriceFormatted": formatCurrency(pos.TotalPrice),
		})
	}

	return map[string]interface{}{
		"invoice":   invoiceCtx,
		"customer":  customerCtx,
		"positions": positions,
		"company": map[string]interface{}{
			"name":        company.Name,
			"street":      company.Street,
			"city":        company.City,
			"phone":       company.Phone,
			"email":       company.Email,
			"taxNumber":   company.TaxNumber,
			"bankAccount": company.BankAccount,
		},
		"currentDate": time.Now().Format("02.01.2006"),
	}
}
