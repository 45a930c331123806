package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// CreateCustomerRequest is the customer creation payload
type CreateCustomerRequest struct {
	Company string `json:"company"`
	Contact string `json:"contact"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// UpdateCustomerRequest is the partial customer update payload
type UpdateCustomerRequest struct {
	Company *string `json:"company"`
	Contact *string `json:"contact"`
	Street  *string `json:"street"`
	City    *string `json:"city"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

// ListCustomers returns all customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, customers)
}

// GetCustomer returns a customer by id
func (h *Handlers) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, customer)
}

// CreateCustomer creates a new customer
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &entity.Customer{
		Company: req.Company,
		Contact: req.Contact,
		Street:  req.Street,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, customer)
}

// UpdateCustomer applies a partial update
func (h *Handlers) UpdateCustomer(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), c.Param("id"), repository.CustomerUpdate{
		Company: req.Company,
		Contact: req.Contact,
		Street:  req.Street,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, customer)
}

// DeleteCustomer removes a customer
func (h *Handlers) DeleteCustomer(c *gin.Context) {
	if err := h.customerService.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
