package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

func TestInvoiceReport(t *testing.T) {
	env := newTestEnv(t)
	customer := env.seedCustomer(t)
	ctx := context.Background()

	reports := NewReportService(repository.NewInvoiceRepository(env.db, zap.NewNop()), zap.NewNop())

	_, err := env.invoices.CreateInvoice(ctx, &entity.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "20260001",
		Date:          "2026-08-01",
		NetAmount:     100,
		TaxAmount:     19,
		TotalAmount:   119,
	}, nil)
	require.NoError(t, err)

	_, err = env.invoices.CreateInvoice(ctx, &entity.Invoice{
		CustomerID:    customer.ID,
		InvoiceNumber: "20260002",
		Date:          "2026-08-02",
		Status:        entity.InvoiceStatusSent,
	}, nil)
	require.NoError(t, err)

	report, err := reports.InvoiceReport(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(report))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rechnungen")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Rechnungsnummer", rows[0][0])
	assert.Equal(t, "Gesamt", rows[0][8])

	// Listing order is invoice number descending
	assert.Equal(t, "20260002", rows[1][0])
	assert.Equal(t, "20260001", rows[2][0])
	assert.Equal(t, "Tech Solutions GmbH", rows[1][3])
	assert.Equal(t, "sent", rows[1][4])
}

func TestInvoiceReport_Empty(t *testing.T) {
	env := newTestEnv(t)
	reports := NewReportService(repository.NewInvoiceRepository(env.db, zap.NewNop()), zap.NewNop())

	report, err := reports.InvoiceReport(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(report))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rechnungen")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
