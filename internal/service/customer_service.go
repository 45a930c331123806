package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// CustomerService manages customer records
type CustomerService struct {
	customers *repository.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		logger:    logger,
	}
}

// ListCustomers returns all customers ordered by company name
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*entity.Customer, error) {
	return s.customers.FindAll(ctx)
}

// GetCustomer returns a customer or ErrNotFound
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// CreateCustomer validates and persists a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	if c.Company == "" || c.Contact == "" {
		return nil, NewValidationError("company and contact are required")
	}
	return s.customers.Create(ctx, c)
}

// UpdateCustomer applies a partial update
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, upd repository.CustomerUpdate) (*entity.Customer, error) {
	c, err := s.customers.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// DeleteCustomer removes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	deleted, err := s.customers.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
