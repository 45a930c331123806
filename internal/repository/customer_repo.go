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

// CustomerRepository persists customers
type CustomerRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

const customerColumns = `id, company, contact, street, city, phone, email, created_at, updated_at`

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID,
		&c.Company,
		&c.Contact,
		&c.Street,
		&c.City,
		&c.Phone,
		&c.Email,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindAll returns all customers ordered by company name
func (r *CustomerRepository) FindAll(ctx context.Context) ([]*entity.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY company")
	if err != nil {
		r.logger.Error("Failed to query customers", zap.Error(err))
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// FindByID returns a customer or nil when the id is unknown
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = ?", id)

	c, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get customer by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

// Create persists a new customer and returns the re-read record
func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, company, contact, street, city, phone, email)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		id, c.Company, c.Contact, c.Street, c.City, c.Phone, c.Email,
	)
	if err != nil {
		r.logger.Error("Failed to create customer", zap.Error(err))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("customer vanished after create: %s", id)
	}
	return created, nil
}

// CustomerUpdate carries a partial customer update
type CustomerUpdate struct {
	Company *string
	Contact *string
	Street  *string
	City    *string
	Phone   *string
	Email   *string
}

// Update applies a partial update and returns the re-read customer, or nil
// when the id is unknown
func (r *CustomerRepository) Update(ctx context.Context, id string, upd CustomerUpdate) (*entity.Customer, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE customers
		SET company = ?, contact = ?, street = ?, city = ?, phone = ?, email = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`,
		orString(upd.Company, existing.Company),
		orString(upd.Contact, existing.Contact),
		orString(upd.Street, existing.Street),
		orString(upd.City, existing.City),
		orString(upd.Phone, existing.Phone),
		orString(upd.Email, existing.Email),
		id,
	)
	if err != nil {
		r.logger.Error("Failed to update customer", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return r.FindByID(ctx, id)
}

// Delete removes a customer. Returns false when the id is unknown.
func (r *CustomerRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete customer", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
