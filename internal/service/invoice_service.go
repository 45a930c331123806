package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/render"
	"github.com/mpue/factor/internal/repository"
)

// amountTolerance is the accepted drift for monetary consistency checks
const amountTolerance = 0.01

// InvoiceService implements invoice composition: number sequencing, aggregate
// creation with derived totals, partial updates, cascade deletion and
// document generation.
type InvoiceService struct {
	invoices  *repository.InvoiceRepository
	templates *repository.TemplateRepository
	renderer  *render.Renderer
	logger    *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoices *repository.InvoiceRepository,
	templates *repository.TemplateRepository,
	renderer *render.Renderer,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		templates: templates,
		renderer:  renderer,
		logger:    logger,
	}
}

// GenerateInvoiceNumber previews the next invoice number without reserving it
func (s *InvoiceService) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	return s.invoices.GenerateInvoiceNumber(ctx)
}

// CreateInvoice validates the header and positions, then persists them as one
// aggregate. The invoice number is drawn from the sequencer when absent.
// Position totals are supplied by the caller and stored verbatim, but must be
// consistent with quantity times unit price within tolerance.
func (s *InvoiceService) CreateInvoice(ctx context.Context, inv *entity.Invoice, positions []entity.InvoicePosition) (*entity.Invoice, error) {
	if inv.CustomerID == "" || inv.Date == "" {
		return nil, NewValidationError("Customer ID and date are required")
	}
	if inv.Status != "" && !entity.ValidInvoiceStatus(inv.Status) {
		return nil, NewValidationError(fmt.Sprintf("invalid status: %s", inv.Status))
	}

	if diff := inv.TotalAmount - (inv.NetAmount - inv.DiscountAmount + inv.TaxAmount); math.Abs(diff) > amountTolerance {
		return nil, NewValidationError(fmt.Sprintf(
			"total amount %.2f does not match net - discount + tax = %.2f",
			inv.TotalAmount, inv.NetAmount-inv.DiscountAmount+inv.TaxAmount))
	}

	for i, pos := range positions {
		if pos.ArticleID == "" {
			return nil, NewValidationError(fmt.Sprintf("position %d: article ID is required", i+1))
		}
		if pos.Quantity <= 0 {
			return nil, NewValidationError(fmt.Sprintf("position %d: quantity must be positive", i+1))
		}
		if pos.UnitPrice < 0 {
			return nil, NewValidationError(fmt.Sprintf("position %d: unit price must not be negative", i+1))
		}
		if math.Abs(pos.TotalPrice-pos.Quantity*pos.UnitPrice) > amountTolerance {
			return nil, NewValidationError(fmt.Sprintf(
				"position %d: total price %.2f does not match quantity * unit price", i+1, pos.TotalPrice))
		}
	}

	created, err := s.invoices.Create(ctx, inv, positions)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("id", created.ID),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.Int("positions", len(created.Positions)))
	return created, nil
}

// GetInvoice returns the full aggregate or ErrNotFound
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	return inv, nil
}

// ListInvoices returns all invoices ordered by invoice number descending
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*entity.Invoice, error) {
	return s.invoices.FindAll(ctx)
}

// ListInvoicesByStatus returns all invoices with the given status
func (s *InvoiceService) ListInvoicesByStatus(ctx context.Context, status string) ([]*entity.Invoice, error) {
	if !entity.ValidInvoiceStatus(status) {
		return nil, NewValidationError(fmt.Sprintf("invalid status: %s", status))
	}
	return s.invoices.FindByStatus(ctx, status)
}

// ListInvoicesByCustomer returns all invoices of a customer
func (s *InvoiceService) ListInvoicesByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	return s.invoices.FindByCustomer(ctx, customerID)
}

// UpdateInvoice applies a partial header update. Supplied fields override,
// omitted fields keep their previous value. The totals relation is not
// re-validated here: pre-existing values stand unless explicitly replaced.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, upd repository.InvoiceUpdate) (*entity.Invoice, error) {
	if upd.Status != nil && !entity.ValidInvoiceStatus(*upd.Status) {
		return nil, NewValidationError(fmt.Sprintf("invalid status: %s", *upd.Status))
	}

	inv, err := s.invoices.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNotFound
	}
	return inv, nil
}

// DeleteInvoice removes the invoice together with all of its positions
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	deleted, err := s.invoices.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("Invoice deleted", zap.String("id", id))
	return nil
}

// GenerateDocument renders the invoice into a PDF document. Template
// resolution order: the invoice's explicit template, then the default
// template for type "invoice". Without either, the operation fails with
// ErrNoTemplate instead of emitting an untemplated document.
func (s *InvoiceService) GenerateDocument(ctx context.Context, id string) ([]byte, *entity.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, ErrNotFound
	}

	tmpl := inv.Template
	if tmpl == nil && inv.TemplateID != "" {
		tmpl, err = s.templates.FindByID(ctx, inv.TemplateID)
		if err != nil {
			return nil, nil, err
		}
	}
	if tmpl == nil {
		tmpl, err = s.templates.FindDefaultByType(ctx, entity.TemplateTypeInvoice)
		if err != nil {
			return nil, nil, err
		}
	}
	if tmpl == nil {
		return nil, nil, ErrNoTemplate
	}

	doc, err := s.renderer.Render(inv, tmpl)
	if err != nil {
		return nil, nil, err
	}
	return doc, inv, nil
}
