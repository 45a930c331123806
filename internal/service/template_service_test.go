package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

func TestCreateTemplate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.templates.CreateTemplate(ctx, &entity.InvoiceTemplate{
		TemplateContent: "Inhalt",
	})
	assert.True(t, IsValidation(err), "missing name")

	_, err = env.templates.CreateTemplate(ctx, &entity.InvoiceTemplate{
		Name: "Vorlage",
	})
	assert.True(t, IsValidation(err), "missing content")

	_, err = env.templates.CreateTemplate(ctx, &entity.InvoiceTemplate{
		Name:            "Vorlage",
		TemplateContent: "Inhalt",
		TemplateType:    "letter",
	})
	assert.True(t, IsValidation(err), "unknown type")
}

func TestCreateTemplate_TypeDefaultsToInvoice(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.templates.CreateTemplate(context.Background(), &entity.InvoiceTemplate{
		Name:            "Vorlage",
		TemplateContent: "Inhalt",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TemplateTypeInvoice, created.TemplateType)
}

func TestUploadTemplate_NameFallsBackToFilename(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.templates.UploadTemplate(context.Background(),
		"rechnung-modern.md", "", "", "", false, []byte("# Rechnung"))
	require.NoError(t, err)

	assert.Equal(t, "rechnung-modern", created.Name)
	assert.Equal(t, "Uploaded template: rechnung-modern.md", created.Description)
	assert.Equal(t, entity.TemplateTypeInvoice, created.TemplateType)
}

func TestUploadTemplate_EmptyFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.templates.UploadTemplate(context.Background(),
		"leer.md", "", "", "", false, nil)
	assert.True(t, IsValidation(err))
}

func TestGetDefaultTemplate_NoneConfigured(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.templates.GetDefaultTemplate(context.Background(), entity.TemplateTypeInvoice)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDefaultTemplate_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.templates.SetDefaultTemplate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTemplate_InvalidType(t *testing.T) {
	env := newTestEnv(t)

	badType := "letter"
	_, err := env.templates.UpdateTemplate(context.Background(), "any", repository.TemplateUpdate{
		TemplateType: &badType,
	})
	assert.True(t, IsValidation(err))
}

func TestDeleteTemplate_NotFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.templates.DeleteTemplate(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
