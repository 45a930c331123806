package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// CreateArticleRequest is the article creation payload. Price is a pointer so
// an absent field is distinguishable from an explicit zero.
type CreateArticleRequest struct {
	Name     string   `json:"name"`
	Price    *float64 `json:"price"`
	Cost     float64  `json:"cost"`
	Stock    float64  `json:"stock"`
	MinStock float64  `json:"minStock"`
}

// UpdateArticleRequest is the partial article update payload
type UpdateArticleRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Cost     *float64 `json:"cost"`
	Stock    *float64 `json:"stock"`
	MinStock *float64 `json:"minStock"`
}

// ListArticles returns all articles
func (h *Handlers) ListArticles(c *gin.Context) {
	articles, err := h.articleService.ListArticles(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, articles)
}

// GetArticle returns an article by id
func (h *Handlers) GetArticle(c *gin.Context) {
	article, err := h.articleService.GetArticle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, article)
}

// CreateArticle creates a new article
func (h *Handlers) CreateArticle(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}
	if req.Name == "" || req.Price == nil {
		respondBadRequest(c, "Missing required fields: name and price")
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), &entity.Article{
		Name:     req.Name,
		Price:    *req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, article)
}

// UpdateArticle applies a partial update
func (h *Handlers) UpdateArticle(c *gin.Context) {
	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	article, err := h.articleService.UpdateArticle(c.Request.Context(), c.Param("id"), repository.ArticleUpdate{
		Name:     req.Name,
		Price:    req.Price,
		Cost:     req.Cost,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, article)
}

// DeleteArticle removes an article
func (h *Handlers) DeleteArticle(c *gin.Context) {
	if err := h.articleService.DeleteArticle(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
