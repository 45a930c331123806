package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/pkg/database"
)

// InvoiceRepository persists invoice headers and their positions
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `i.id, i.customer_id, i.template_id, i.invoice_number, i.date, i.due_date,
	i.net_amount, i.tax_amount, i.discount_amount, i.total_amount,
	i.status, i.notes, i.payment_terms, i.created_at, i.updated_at`

// rowScanner is the common surface of *sql.Row and *sql.Rows, shared by
// every scan helper in this package.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanInvoice reads the invoice columns plus the customer/template summary
// columns joined by the list and detail queries.
func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var templateID, dueDate sql.NullString
	var customerCompany, customerContact, templateName sql.NullString

	err := row.Scan(
		&inv.ID,
		&inv.CustomerID,
		&templateID,
		&inv.InvoiceNumber,
		&inv.Date,
		&dueDate,
		&inv.NetAmount,
		&inv.TaxAmount,
		&inv.DiscountAmount,
		&inv.TotalAmount,
		&inv.Status,
		&inv.Notes,
		&inv.PaymentTerms,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&customerCompany,
		&customerContact,
		&templateName,
	)
	if err != nil {
		return nil, err
	}

	inv.TemplateID = templateID.String
	inv.DueDate = dueDate.String

	if customerCompany.Valid {
		inv.Customer = &entity.Customer{
			ID:      inv.CustomerID,
			Company: customerCompany.String,
			Contact: customerContact.String,
		}
	}
	if templateName.Valid {
		inv.Template = &entity.InvoiceTemplate{
			ID:   inv.TemplateID,
			Name: templateName.String,
		}
	}

	return &inv, nil
}

// FindAll returns all invoices with customer and template summaries,
// ordered by invoice number descending
func (r *InvoiceRepository) FindAll(ctx context.Context) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `,
			c.company, c.contact, t.name
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id
		LEFT JOIN invoice_templates t ON i.template_id = t.id
		ORDER BY i.invoice_number DESC
	`
	return r.queryInvoices(ctx, query)
}

// FindByStatus returns all invoices with the given status, newest first
func (r *InvoiceRepository) FindByStatus(ctx context.Context, status string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `,
			c.company, c.contact, t.name
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id
		LEFT JOIN invoice_templates t ON i.template_id = t.id
		WHERE i.status = ?
		ORDER BY i.date DESC
	`
	return r.queryInvoices(ctx, query, status)
}

// FindByCustomer returns all invoices of the given customer, newest first
func (r *InvoiceRepository) FindByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `,
			c.company, c.contact, t.name
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id
		LEFT JOIN invoice_templates t ON i.template_id = t.id
		WHERE i.customer_id = ?
		ORDER BY i.date DESC
	`
	return r.queryInvoices(ctx, query, customerID)
}

func (r *InvoiceRepository) queryInvoices(ctx context.Context, query string, args ...interface{}) ([]*entity.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// FindByID returns the full aggregate: header, customer record, template
// (including content) and all positions. Returns nil when the id is unknown.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `,
			c.company, c.contact, t.name,
			c.street, c.city, c.phone, c.email,
			t.description, t.template_content, t.template_type, t.is_default
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id
		LEFT JOIN invoice_templates t ON i.template_id = t.id
		WHERE i.id = ?
	`

	var inv entity.Invoice
	var templateID, dueDate sql.NullString
	var company, contact, street, city, phone, email sql.NullString
	var tmplName, tmplDescription, tmplContent, tmplType sql.NullString
	var tmplDefault sql.NullBool

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID,
		&inv.CustomerID,
		&templateID,
		&inv.InvoiceNumber,
		&inv.Date,
		&dueDate,
		&inv.NetAmount,
		&inv.TaxAmount,
		&inv.DiscountAmount,
		&inv.TotalAmount,
		&inv.Status,
		&inv.Notes,
		&inv.PaymentTerms,
		&inv.CreatedAt,
		&inv.UpdatedAt,
		&company,
		&contact,
		&tmplName,
		&street,
		&city,
		&phone,
		&email,
		&tmplDescription,
		&tmplContent,
		&tmplType,
		&tmplDefault,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	inv.TemplateID = templateID.String
	inv.DueDate = dueDate.String

	if company.Valid {
		inv.Customer = &entity.Customer{
			ID:      inv.CustomerID,
			Company: company.String,
			Contact: contact.String,
			Street:  street.String,
			City:    city.String,
			Phone:   phone.String,
			Email:   email.String,
		}
	}
	if tmplName.Valid {
		inv.Template = &entity.InvoiceTemplate{
			ID:              inv.TemplateID,
			Name:            tmplName.String,
			Description:     tmplDescription.String,
			TemplateContent: tmplContent.String,
			TemplateType:    tmplType.String,
			IsDefault:       tmplDefault.Bool,
		}
	}

	positions, err := r.FindPositions(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Positions = positions

	return &inv, nil
}

// FindPositions returns all positions of an invoice in insertion order
func (r *InvoiceRepository) FindPositions(ctx context.Context, invoiceID string) ([]entity.InvoicePosition, error) {
	query := `
		SELECT p.id, p.invoice_id, p.article_id, p.quantity, p.unit_price, p.total_price,
			p.created_at, a.name
		FROM invoice_positions p
		LEFT JOIN articles a ON p.article_id = a.id
		WHERE p.invoice_id = ?
		ORDER BY p.created_at, p.rowid
	`

	rows, err := r.db.QueryContext(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to query invoice positions", zap.String("invoice_id", invoiceID), zap.Error(err))
		return nil, fmt.Errorf("failed to query invoice positions: %w", err)
	}
	defer rows.Close()

	var positions []entity.InvoicePosition
	for rows.Next() {
		var pos entity.InvoicePosition
		var articleName sql.NullString
		if err := rows.Scan(
			&pos.ID,
			&pos.InvoiceID,
			&pos.ArticleID,
			&pos.Quantity,
			&pos.UnitPrice,
			&pos.TotalPrice,
			&pos.CreatedAt,
			&articleName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice position: %w", err)
		}
		pos.ArticleName = articleName.String
		positions = append(positions, pos)
	}
	return positions, rows.Err()
}

// GenerateInvoiceNumber derives the next invoice number for the current year:
// the four-digit year followed by a four-digit zero-padded sequence. It is a
// preview, not a reservation: calling it twice without an intervening insert
// yields the same value, and two concurrent creators can observe the same
// maximum and draw the same number. Uniqueness is only settled by the unique
// index at insert time.
func (r *InvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")

	query := `
		SELECT invoice_number FROM invoices
		WHERE invoice_number LIKE ?
		ORDER BY invoice_number DESC
		LIMIT 1
	`

	var last string
	err := r.db.QueryRowContext(ctx, query, year+"%").Scan(&last)
	if err == sql.ErrNoRows {
		return year + "0001", nil
	}
	if err != nil {
		r.logger.Error("Failed to query max invoice number", zap.Error(err))
		return "", fmt.Errorf("failed to generate invoice number: %w", err)
	}

	// A suffix past 9999 simply grows to five digits. String-descending
	// ordering is only correct while all numbers of a year share the same
	// width, matching the original numbering scheme.
	seq, err := strconv.Atoi(last[4:])
	if err != nil {
		seq = 0
	}
	return fmt.Sprintf("%s%04d", year, seq+1), nil
}

// Create persists the invoice header and all supplied positions in a single
// transaction, then re-reads the full aggregate. The re-read result is the
// canonical outcome, not the passed-in value. Position totals are stored
// verbatim, never recomputed here.
func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice, positions []entity.InvoicePosition) (*entity.Invoice, error) {
	id := uuid.NewString()

	invoiceNumber := inv.InvoiceNumber
	if invoiceNumber == "" {
		var err error
		invoiceNumber, err = r.GenerateInvoiceNumber(ctx)
		if err != nil {
			return nil, err
		}
	}

	status := inv.Status
	if status == "" {
		status = entity.InvoiceStatusDraft
	}

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (
				id, customer_id, template_id, invoice_number, date, due_date,
				net_amount, tax_amount, discount_amount, total_amount,
				status, notes, payment_terms
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			inv.CustomerID,
			nullable(inv.TemplateID),
			invoiceNumber,
			inv.Date,
			nullable(inv.DueDate),
			inv.NetAmount,
			inv.TaxAmount,
			inv.DiscountAmount,
			inv.TotalAmount,
			status,
			inv.Notes,
			inv.PaymentTerms,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		return insertPositions(ctx, tx, id, positions)
	})
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.Error(err))
		return nil, err
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("invoice vanished after create: %s", id)
	}
	return created, nil
}

// insertPositions writes the positions inside the caller's transaction
func insertPositions(ctx context.Context, tx *sql.Tx, invoiceID string, positions []entity.InvoicePosition) error {
	for _, pos := range positions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_positions (id, invoice_id, article_id, quantity, unit_price, total_price)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			uuid.NewString(),
			invoiceID,
			pos.ArticleID,
			pos.Quantity,
			pos.UnitPrice,
			pos.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice position: %w", err)
		}
	}
	return nil
}

// AddPositions appends positions to an existing invoice in a single
// transaction, after the invoice's own positions
func (r *InvoiceRepository) AddPositions(ctx context.Context, invoiceID string, positions []entity.InvoicePosition) error {
	return r.db.WithTransaction(func(tx *sql.Tx) error {
		return insertPositions(ctx, tx, invoiceID, positions)
	})
}

// InvoiceUpdate carries the partial header update. Nil fields keep their
// previous value, field by field.
type InvoiceUpdate struct {
	CustomerID     *string
	TemplateID     *string
	InvoiceNumber  *string
	Date           *string
	DueDate        *string
	NetAmount      *float64
	TaxAmount      *float64
	DiscountAmount *float64
	TotalAmount    *float64
	Status         *string
	Notes          *string
	PaymentTerms   *string
}

// Update applies a partial header update and returns the re-read aggregate,
// or nil when the invoice does not exist
func (r *InvoiceRepository) Update(ctx context.Context, id string, upd InvoiceUpdate) (*entity.Invoice, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	query := `
		UPDATE invoices
		SET customer_id = ?, template_id = ?, invoice_number = ?, date = ?, due_date = ?,
			net_amount = ?, tax_amount = ?, discount_amount = ?, total_amount = ?,
			status = ?, notes = ?, payment_terms = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query,
		orString(upd.CustomerID, existing.CustomerID),
		nullable(orString(upd.TemplateID, existing.TemplateID)),
		orString(upd.InvoiceNumber, existing.InvoiceNumber),
		orString(upd.Date, existing.Date),
		nullable(orString(upd.DueDate, existing.DueDate)),
		orFloat(upd.NetAmount, existing.NetAmount),
		orFloat(upd.TaxAmount, existing.TaxAmount),
		orFloat(upd.DiscountAmount, existing.DiscountAmount),
		orFloat(upd.TotalAmount, existing.TotalAmount),
		orString(upd.Status, existing.Status),
		orString(upd.Notes, existing.Notes),
		orString(upd.PaymentTerms, existing.PaymentTerms),
		id,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	return r.FindByID(ctx, id)
}

// Delete removes the invoice and all of its positions. Positions go first,
// inside the same transaction, so the header row never outlives them the
// other way around. Returns false when the invoice did not exist.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_positions WHERE invoice_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete invoice positions: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		deleted = affected > 0
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id), zap.Error(err))
		return false, err
	}
	return deleted, nil
}

// nullable maps the empty string to NULL for optional text columns
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func orString(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func orFloat(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
