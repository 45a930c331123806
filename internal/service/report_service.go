package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/repository"
)

// ReportService exports invoice lists as Excel workbooks
type ReportService struct {
	invoices *repository.InvoiceRepository
	logger   *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(invoices *repository.InvoiceRepository, logger *zap.Logger) *ReportService {
	return &ReportService{
		invoices: invoices,
		logger:   logger,
	}
}

var reportHeader = []string{
	"Rechnungsnummer", "Datum", "Fällig", "Kunde", "Status",
	"Netto", "Steuer", "Rabatt", "Gesamt",
}

// InvoiceReport builds an XLSX workbook listing all invoices, newest first
func (s *ReportService) InvoiceReport(ctx context.Context) ([]byte, error) {
	invoices, err := s.invoices.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Rechnungen"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for i, inv := range invoices {
		customer := ""
		if inv.Customer != nil {
			customer = inv.Customer.Company
		}
		values := []interface{}{
			inv.InvoiceNumber,
			inv.Date,
			inv.DueDate,
			customer,
			inv.Status,
			inv.NetAmount,
			inv.TaxAmount,
			inv.DiscountAmount,
			inv.TotalAmount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write report row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	s.logger.Info("Invoice report generated", zap.Int("invoices", len(invoices)))
	return buf.Bytes(), nil
}
