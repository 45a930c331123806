package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mpue/factor/internal/config"
	"github.com/mpue/factor/internal/render"
	"github.com/mpue/factor/internal/repository"
	"github.com/mpue/factor/internal/service"
	"github.com/mpue/factor/pkg/database"
)

// newTestRouter wires the full stack against a fresh migrated database
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations())

	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	templateRepo := repository.NewTemplateRepository(db, logger)
	renderer := render.NewRenderer(config.CompanyConfig{Name: "Factor Warenwirtschaftssystem"}, logger)

	server := NewServer(
		ServerConfig{Host: "127.0.0.1", Port: 0},
		service.NewInvoiceService(invoiceRepo, templateRepo, renderer, logger),
		service.NewTemplateService(templateRepo, logger),
		service.NewReportService(invoiceRepo, logger),
		service.NewArticleService(repository.NewArticleRepository(db, logger), logger),
		service.NewCustomerService(repository.NewCustomerRepository(db, logger), logger),
		logger,
	)
	return server.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func createCustomer(t *testing.T, router *gin.Engine) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
		"company": "Tech Solutions GmbH",
		"contact": "Max Mustermann",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	return resp.Data.(map[string]interface{})["id"].(string)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
}

func TestCreateInvoice_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/invoices", gin.H{
		"date": "2026-08-15",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Customer ID and date are required", resp.Error)
}

func TestCreateInvoice_AndFetch(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/invoices", gin.H{
		"customerId":  customerID,
		"date":        "2026-08-15",
		"netAmount":   100,
		"taxAmount":   19,
		"totalAmount": 119,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	id := data["id"].(string)
	assert.Equal(t, "draft", data["status"])
	assert.NotEmpty(t, data["invoiceNumber"])

	w = doJSON(t, router, http.MethodGet, "/api/invoices/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeEnvelope(t, w)
	fetched := resp.Data.(map[string]interface{})
	assert.Equal(t, id, fetched["id"])
	assert.Equal(t, "Tech Solutions GmbH", fetched["customer"].(map[string]interface{})["company"])
}

func TestGetInvoice_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/invoices/missing", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, "Not found", resp.Error)
}

func TestGenerateInvoiceNumberEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/invoices/generate-number", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	number := resp.Data.(map[string]interface{})["invoiceNumber"].(string)
	year := time.Now().Format("2006")
	assert.Equal(t, year+"0001", number)
}

func TestInvoiceDocument_NoTemplate(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/invoices", gin.H{
		"customerId": customerID,
		"date":       "2026-08-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeEnvelope(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(t, router, http.MethodGet, "/api/invoices/"+id+"/document", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No template available for document generation", decodeEnvelope(t, w).Error)
}

func TestInvoiceDocument_WithDefaultTemplate(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/invoices/templates", gin.H{
		"name":            "Standard Rechnungsvorlage",
		"templateContent": "# Rechnung {{invoice.invoiceNumber}}",
		"templateType":    "invoice",
		"isDefault":       true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/invoices", gin.H{
		"customerId": customerID,
		"date":       "2026-08-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeEnvelope(t, w).Data.(map[string]interface{})
	id := created["id"].(string)
	number := created["invoiceNumber"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/"+id+"/document", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Rechnung-"+number+".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestUpdateInvoice_StatusOnly(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/invoices", gin.H{
		"customerId": customerID,
		"date":       "2026-08-15",
		"notes":      "Lieferung frei Haus",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeEnvelope(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/invoices/"+id, gin.H{
		"status": "sent",
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeEnvelope(t, w).Data.(map[string]interface{})
	assert.Equal(t, "sent", updated["status"])
	assert.Equal(t, "Lieferung frei Haus", updated["notes"])
}

func TestDeleteInvoice(t *testing.T) {
	router := newTestRouter(t)
	customerID := createCustomer(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/invoices", gin.H{
		"customerId": customerID,
		"date":       "2026-08-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeEnvelope(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(t, router, http.MethodDelete, "/api/invoices/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/invoices/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListInvoicesByStatus_Invalid(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/invoices/status/archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadTemplate_RejectsNonMarkdown(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("template", "vorlage.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Inhalt"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/templates/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only Markdown files (.md) are allowed", decodeEnvelope(t, w).Error)
}

func TestUploadTemplate_Markdown(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("template", "rechnung-modern.md")
	require.NoError(t, err)
	_, err = part.Write([]byte("# Rechnung {{invoice.invoiceNumber}}"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("isDefault", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/templates/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w).Data.(map[string]interface{})
	assert.Equal(t, "rechnung-modern", data["name"])
	assert.Equal(t, true, data["isDefault"])
}

func TestSetDefaultTemplate(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/invoices/templates", gin.H{
		"name":            "Vorlage A",
		"templateContent": "A",
		"isDefault":       true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	firstID := decodeEnvelope(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/api/invoices/templates", gin.H{
		"name":            "Vorlage B",
		"templateContent": "B",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	secondID := decodeEnvelope(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(t, router, http.MethodPatch, "/api/invoices/templates/"+secondID+"/set-default", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/invoices/templates/"+firstID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w).Data.(map[string]interface{})["isDefault"])

	w = doJSON(t, router, http.MethodGet, "/api/invoices/templates/default/invoice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, secondID, decodeEnvelope(t, w).Data.(map[string]interface{})["id"])
}

func TestCreateCustomer_MissingFields(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/customers", gin.H{
		"company": "Tech Solutions GmbH",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestCreateArticle_RequiresNameAndPrice(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/articles", gin.H{
		"name": "Laptop Dell XPS 13",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/articles", gin.H{
		"name":  "Laptop Dell XPS 13",
		"price": 1299.99,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w).Data.(map[string]interface{})
	assert.Equal(t, "Laptop Dell XPS 13", data["name"])
}

func TestInvoiceReportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/report", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Rechnungen.xlsx")
	// XLSX container is a ZIP archive
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}
