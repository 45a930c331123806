package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// maxTemplateUploadSize limits uploaded template files to 5 MB
const maxTemplateUploadSize = 5 << 20

// CreateTemplateRequest is the direct template authoring payload
type CreateTemplateRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	TemplateContent string `json:"templateContent"`
	TemplateType    string `json:"templateType"`
	IsDefault       bool   `json:"isDefault"`
}

// UpdateTemplateRequest is the partial template update payload
type UpdateTemplateRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	TemplateContent *string `json:"templateContent"`
	TemplateType    *string `json:"templateType"`
	IsDefault       *bool   `json:"isDefault"`
}

// ListTemplates returns all templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, templates)
}

// ListTemplatesByType returns all templates of a type
func (h *Handlers) ListTemplatesByType(c *gin.Context) {
	templates, err := h.templateService.ListTemplatesByType(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, templates)
}

// GetDefaultTemplate returns the default template of a type
func (h *Handlers) GetDefaultTemplate(c *gin.Context) {
	tmpl, err := h.templateService.GetDefaultTemplate(c.Request.Context(), c.Param("type"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tmpl)
}

// GetTemplate returns a template by id
func (h *Handlers) GetTemplate(c *gin.Context) {
	tmpl, err := h.templateService.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tmpl)
}

// CreateTemplate creates a template from a JSON payload
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.CreateTemplate(c.Request.Context(), &entity.InvoiceTemplate{
		Name:            req.Name,
		Description:     req.Description,
		TemplateContent: req.TemplateContent,
		TemplateType:    req.TemplateType,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, tmpl)
}

// UploadTemplate creates a template from an uploaded markdown file. Form
// fields: template (file, .md, max 5 MB), name, type, description, isDefault.
func (h *Handlers) UploadTemplate(c *gin.Context) {
	fileHeader, err := c.FormFile("template")
	if err != nil {
		respondBadRequest(c, "No template file uploaded")
		return
	}
	if fileHeader.Size > maxTemplateUploadSize {
		respondBadRequest(c, "Template file exceeds 5 MB limit")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".md") {
		respondBadRequest(c, "Only Markdown files (.md) are allowed")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxTemplateUploadSize))
	if err != nil {
		h.respondError(c, err)
		return
	}

	tmpl, err := h.templateService.UploadTemplate(
		c.Request.Context(),
		fileHeader.Filename,
		c.PostForm("name"),
		c.DefaultPostForm("type", entity.TemplateTypeInvoice),
		c.PostForm("description"),
		c.PostForm("isDefault") == "true",
		content,
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, tmpl)
}

// UpdateTemplate applies a partial update
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.UpdateTemplate(c.Request.Context(), c.Param("id"), repository.TemplateUpdate{
		Name:            req.Name,
		Description:     req.Description,
		TemplateContent: req.TemplateContent,
		TemplateType:    req.TemplateType,
		IsDefault:       req.IsDefault,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tmpl)
}

// SetDefaultTemplate makes the template the sole default of its type
func (h *Handlers) SetDefaultTemplate(c *gin.Context) {
	tmpl, err := h.templateService.SetDefaultTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, tmpl)
}

// DeleteTemplate removes a template
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	if err := h.templateService.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
