package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// TemplateService manages invoice templates, including the per-type default
// flag and uploads of raw markdown files.
type TemplateService struct {
	templates *repository.TemplateRepository
	logger    *zap.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(templates *repository.TemplateRepository, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		logger:    logger,
	}
}

// ListTemplates returns all templates
func (s *TemplateService) ListTemplates(ctx context.Context) ([]*entity.InvoiceTemplate, error) {
	return s.templates.FindAll(ctx)
}

// ListTemplatesByType returns all templates of a type
func (s *TemplateService) ListTemplatesByType(ctx context.Context, templateType string) ([]*entity.InvoiceTemplate, error) {
	if !entity.ValidTemplateType(templateType) {
		return nil, NewValidationError(fmt.Sprintf("invalid template type: %s", templateType))
	}
	return s.templates.FindByType(ctx, templateType)
}

// GetTemplate returns a template or ErrNotFound
func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*entity.InvoiceTemplate, error) {
	tmpl, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrNotFound
	}
	return tmpl, nil
}

// GetDefaultTemplate returns the default template of a type or ErrNotFound
// when the type has none
func (s *TemplateService) GetDefaultTemplate(ctx context.Context, templateType string) (*entity.InvoiceTemplate, error) {
	if !entity.ValidTemplateType(templateType) {
		return nil, NewValidationError(fmt.Sprintf("invalid template type: %s", templateType))
	}
	tmpl, err := s.templates.FindDefaultByType(ctx, templateType)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrNotFound
	}
	return tmpl, nil
}

// CreateTemplate validates and persists a new template
func (s *TemplateService) CreateTemplate(ctx context.Context, tmpl *entity.InvoiceTemplate) (*entity.InvoiceTemplate, error) {
	if tmpl.Name == "" {
		return nil, NewValidationError("template name is required")
	}
	if tmpl.TemplateContent == "" {
		return nil, NewValidationError("template content is required")
	}
	if tmpl.TemplateType == "" {
		tmpl.TemplateType = entity.TemplateTypeInvoice
	}
	if !entity.ValidTemplateType(tmpl.TemplateType) {
		return nil, NewValidationError(fmt.Sprintf("invalid template type: %s", tmpl.TemplateType))
	}

	created, err := s.templates.Create(ctx, tmpl)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Template created",
		zap.String("id", created.ID),
		zap.String("name", created.Name),
		zap.String("type", created.TemplateType),
		zap.Bool("default", created.IsDefault))
	return created, nil
}

// UploadTemplate binds an uploaded markdown file to a new template record.
// The template name falls back to the filename without its .md extension.
func (s *TemplateService) UploadTemplate(ctx context.Context, filename, name, templateType, description string, isDefault bool, content []byte) (*entity.InvoiceTemplate, error) {
	if len(content) == 0 {
		return nil, NewValidationError("template file is empty")
	}
	if name == "" {
		name = strings.TrimSuffix(filename, ".md")
	}
	if description == "" {
		description = fmt.Sprintf("Uploaded template: %s", filename)
	}

	return s.CreateTemplate(ctx, &entity.InvoiceTemplate{
		Name:            name,
		Description:     description,
		TemplateContent: string(content),
		TemplateType:    templateType,
		IsDefault:       isDefault,
	})
}

// UpdateTemplate applies a partial update
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, upd repository.TemplateUpdate) (*entity.InvoiceTemplate, error) {
	if upd.TemplateType != nil && !entity.ValidTemplateType(*upd.TemplateType) {
		return nil, NewValidationError(fmt.Sprintf("invalid template type: %s", *upd.TemplateType))
	}

	tmpl, err := s.templates.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrNotFound
	}
	return tmpl, nil
}

// SetDefaultTemplate makes the template the sole default of its type
func (s *TemplateService) SetDefaultTemplate(ctx context.Context, id string) (*entity.InvoiceTemplate, error) {
	tmpl, err := s.templates.SetAsDefault(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, ErrNotFound
	}
	s.logger.Info("Template set as default",
		zap.String("id", tmpl.ID),
		zap.String("type", tmpl.TemplateType))
	return tmpl, nil
}

// DeleteTemplate removes a template
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	deleted, err := s.templates.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
