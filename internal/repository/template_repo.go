package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/pkg/database"
)

// TemplateRepository persists invoice templates. The "at most one default per
// template type" rule is enforced here, inside a transaction, because SQLite
// carries no partial uniqueness constraint for it.
type TemplateRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *database.DB, logger *zap.Logger) *TemplateRepository {
	return &TemplateRepository{
		db:     db,
		logger: logger,
	}
}

const templateColumns = `id, name, description, template_content, template_type, is_default, created_at, updated_at`

func scanTemplate(row rowScanner) (*entity.InvoiceTemplate, error) {
	var tmpl entity.InvoiceTemplate
	err := row.Scan(
		&tmpl.ID,
		&tmpl.Name,
		&tmpl.Description,
		&tmpl.TemplateContent,
		&tmpl.TemplateType,
		&tmpl.IsDefault,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// FindAll returns all templates ordered by name
func (r *TemplateRepository) FindAll(ctx context.Context) ([]*entity.InvoiceTemplate, error) {
	return r.queryTemplates(ctx, "SELECT "+templateColumns+" FROM invoice_templates ORDER BY name")
}

// FindByType returns all templates of a type ordered by name
func (r *TemplateRepository) FindByType(ctx context.Context, templateType string) ([]*entity.InvoiceTemplate, error) {
	return r.queryTemplates(ctx,
		"SELECT "+templateColumns+" FROM invoice_templates WHERE template_type = ? ORDER BY name",
		templateType)
}

func (r *TemplateRepository) queryTemplates(ctx context.Context, query string, args ...interface{}) ([]*entity.InvoiceTemplate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query templates", zap.Error(err))
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []*entity.InvoiceTemplate
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

// FindByID returns a template or nil when the id is unknown
func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.InvoiceTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM invoice_templates WHERE id = ?", id)

	tmpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get template by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return tmpl, nil
}

// FindDefaultByType returns the default template for a type, or nil when the
// type has no default
func (r *TemplateRepository) FindDefaultByType(ctx context.Context, templateType string) (*entity.InvoiceTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM invoice_templates WHERE is_default = 1 AND template_type = ? LIMIT 1",
		templateType)

	tmpl, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get default template", zap.String("type", templateType), zap.Error(err))
		return nil, fmt.Errorf("failed to get default template: %w", err)
	}
	return tmpl, nil
}

// Create persists a new template. When the new template is flagged default,
// the previous default of the same type is cleared in the same transaction.
func (r *TemplateRepository) Create(ctx context.Context, tmpl *entity.InvoiceTemplate) (*entity.InvoiceTemplate, error) {
	id := uuid.NewString()

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		if tmpl.IsDefault {
			if _, err := tx.ExecContext(ctx,
				"UPDATE invoice_templates SET is_default = 0 WHERE template_type = ?",
				tmpl.TemplateType); err != nil {
				return fmt.Errorf("failed to clear previous default: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_templates (id, name, description, template_content, template_type, is_default)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			id,
			tmpl.Name,
			tmpl.Description,
			tmpl.TemplateContent,
			tmpl.TemplateType,
			tmpl.IsDefault,
		)
		if err != nil {
			return fmt.Errorf("failed to insert template: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to create template", zap.Error(err))
		return nil, err
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("template vanished after create: %s", id)
	}
	return created, nil
}

// TemplateUpdate carries a partial template update
type TemplateUpdate struct {
	Name            *string
	Description     *string
	TemplateContent *string
	TemplateType    *string
	IsDefault       *bool
}

// Update applies a partial update and returns the re-read template, or nil
// when the id is unknown
func (r *TemplateRepository) Update(ctx context.Context, id string, upd TemplateUpdate) (*entity.InvoiceTemplate, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	templateType := orString(upd.TemplateType, existing.TemplateType)
	isDefault := existing.IsDefault
	if upd.IsDefault != nil {
		isDefault = *upd.IsDefault
	}

	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		if isDefault {
			if _, err := tx.ExecContext(ctx,
				"UPDATE invoice_templates SET is_default = 0 WHERE template_type = ? AND id != ?",
				templateType, id); err != nil {
				return fmt.Errorf("failed to clear previous default: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			UPDATE invoice_templates
			SET name = ?, description = ?, template_content = ?, template_type = ?, is_default = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`,
			orString(upd.Name, existing.Name),
			orString(upd.Description, existing.Description),
			orString(upd.TemplateContent, existing.TemplateContent),
			templateType,
			isDefault,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update template: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to update template", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return r.FindByID(ctx, id)
}

// SetAsDefault makes the template the sole default of its type. Clearing the
// old default and setting the new one happen in one transaction. Returns nil
// when the id is unknown.
func (r *TemplateRepository) SetAsDefault(ctx context.Context, id string) (*entity.InvoiceTemplate, error) {
	tmpl, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, nil
	}

	err = r.db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE invoice_templates SET is_default = 0 WHERE template_type = ?",
			tmpl.TemplateType); err != nil {
			return fmt.Errorf("failed to clear previous default: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE invoice_templates SET is_default = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
			id); err != nil {
			return fmt.Errorf("failed to set default: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to set default template", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return r.FindByID(ctx, id)
}

// Delete removes a template. Invoices referencing it keep their template_id;
// reads degrade to an empty template summary. Returns false when the id is
// unknown.
func (r *TemplateRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoice_templates WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete template", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete template: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
