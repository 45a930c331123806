package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/service"
)

// Response is the JSON envelope shared by all endpoints
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoiceService  *service.InvoiceService
	templateService *service.TemplateService
	reportService   *service.ReportService
	articleService  *service.ArticleService
	customerService *service.CustomerService
	logger          *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoiceService *service.InvoiceService,
	templateService *service.TemplateService,
	reportService *service.ReportService,
	articleService *service.ArticleService,
	customerService *service.CustomerService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		invoiceService:  invoiceService,
		templateService: templateService,
		reportService:   reportService,
		articleService:  articleService,
		customerService: customerService,
		logger:          logger,
	}
}

// RegisterRoutes wires all routes onto the router
func (h *Handlers) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", h.HealthCheck)

	articles := api.Group("/articles")
	{
		articles.GET("", h.ListArticles)
		articles.POST("", h.CreateArticle)
		articles.GET("/:id", h.GetArticle)
		articles.PUT("/:id", h.UpdateArticle)
		articles.DELETE("/:id", h.DeleteArticle)
	}

	customers := api.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}

	invoices := api.Group("/invoices")
	{
		templates := invoices.Group("/templates")
		{
			templates.GET("", h.ListTemplates)
			templates.POST("", h.CreateTemplate)
			templates.POST("/upload", h.UploadTemplate)
			templates.GET("/type/:type", h.ListTemplatesByType)
			templates.GET("/default/:type", h.GetDefaultTemplate)
			templates.GET("/:id", h.GetTemplate)
			templates.PUT("/:id", h.UpdateTemplate)
			templates.PATCH("/:id/set-default", h.SetDefaultTemplate)
			templates.DELETE("/:id", h.DeleteTemplate)
		}

		invoices.GET("", h.ListInvoices)
		invoices.POST("", h.CreateInvoice)
		invoices.GET("/generate-number", h.GenerateInvoiceNumber)
		invoices.GET("/report", h.InvoiceReport)
		invoices.GET("/status/:status", h.ListInvoicesByStatus)
		invoices.GET("/customer/:customerId", h.ListInvoicesByCustomer)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
		invoices.GET("/:id/document", h.InvoiceDocument)
	}
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Factor Warenwirtschaftssystem API is running",
		Data:    gin.H{"timestamp": time.Now().UTC().Format(time.RFC3339)},
	})
}

// respondOK writes a success envelope
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

// respondError maps service errors onto the envelope: validation and
// not-found stay distinguishable, everything else collapses to an opaque
// internal failure without storage detail.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "Not found"})
	case errors.Is(err, service.ErrNoTemplate):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "No template available for document generation"})
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "Internal server error"})
	}
}

// respondBadRequest writes a 400 envelope for malformed request bodies
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}
