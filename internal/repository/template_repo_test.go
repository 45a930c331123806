package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
)

func TestTemplateCreate_FirstDefault(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	created, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Standard Rechnungsvorlage",
		TemplateContent: "# Rechnung {{invoice.invoiceNumber}}",
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsDefault)

	def, err := repo.FindDefaultByType(ctx, entity.TemplateTypeInvoice)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, created.ID, def.ID)
}

func TestTemplateCreate_NewDefaultClearsPrevious(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	first, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage A",
		TemplateContent: "A",
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	})
	require.NoError(t, err)

	second, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage B",
		TemplateContent: "B",
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	})
	require.NoError(t, err)

	def, err := repo.FindDefaultByType(ctx, entity.TemplateTypeInvoice)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, second.ID, def.ID)

	previous, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.False(t, previous.IsDefault)
}

func TestTemplateDefault_ScopedPerType(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	invoiceTmpl, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Rechnung",
		TemplateContent: "R",
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	})
	require.NoError(t, err)

	quoteTmpl, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Angebot",
		TemplateContent: "A",
		TemplateType:    entity.TemplateTypeQuote,
		IsDefault:       true,
	})
	require.NoError(t, err)

	// The quote default must not displace the invoice default
	def, err := repo.FindDefaultByType(ctx, entity.TemplateTypeInvoice)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, invoiceTmpl.ID, def.ID)

	def, err = repo.FindDefaultByType(ctx, entity.TemplateTypeQuote)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, quoteTmpl.ID, def.ID)
}

func TestTemplateSetAsDefault_MovesFlag(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	first, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage A",
		TemplateContent: "A",
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	})
	require.NoError(t, err)

	second, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage B",
		TemplateContent: "B",
		TemplateType:    entity.TemplateTypeInvoice,
	})
	require.NoError(t, err)

	promoted, err := repo.SetAsDefault(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, promoted)
	assert.True(t, promoted.IsDefault)

	demoted, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, demoted)
	assert.False(t, demoted.IsDefault)
}

func TestTemplateSetAsDefault_UnknownID(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())

	promoted, err := repo.SetAsDefault(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, promoted)
}

func TestTemplateUpdate_PromoteToDefault(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	first, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage A",
		TemplateContent: "A",
		TemplateType:    entity.TemplateTypeInvoice,
		IsDefault:       true,
	})
	require.NoError(t, err)

	second, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage B",
		TemplateContent: "B",
		TemplateType:    entity.TemplateTypeInvoice,
	})
	require.NoError(t, err)

	isDefault := true
	updated, err := repo.Update(ctx, second.ID, TemplateUpdate{IsDefault: &isDefault})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.IsDefault)

	demoted, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsDefault)
}

func TestTemplateFindDefaultByType_NoneConfigured(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())

	def, err := repo.FindDefaultByType(context.Background(), entity.TemplateTypeInvoice)
	require.NoError(t, err)
	assert.Nil(t, def)
}

func TestTemplateDelete(t *testing.T) {
	repo := NewTemplateRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	created, err := repo.Create(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage",
		TemplateContent: "V",
		TemplateType:    entity.TemplateTypeInvoice,
	})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
