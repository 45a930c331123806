package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mpue/factor/internal/domain/entity"
	"github.com/mpue/factor/internal/repository"
)

// ArticleService manages article records
type ArticleService struct {
	articles *repository.ArticleRepository
	logger   *zap.Logger
}

// NewArticleService creates a new article service
func NewArticleService(articles *repository.ArticleRepository, logger *zap.Logger) *ArticleService {
	return &ArticleService{
		articles: articles,
		logger:   logger,
	}
}

// ListArticles returns all articles ordered by name
func (s *ArticleService) ListArticles(ctx context.Context) ([]*entity.Article, error) {
	return s.articles.FindAll(ctx)
}

// GetArticle returns an article or ErrNotFound
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*entity.Article, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// CreateArticle validates and persists a new article
func (s *ArticleService) CreateArticle(ctx context.Context, a *entity.Article) (*entity.Article, error) {
	if a.Name == "" {
		return nil, NewValidationError("article name is required")
	}
	if a.Price < 0 {
		return nil, NewValidationError("article price must not be negative")
	}
	return s.articles.Create(ctx, a)
}

// UpdateArticle applies a partial update
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd repository.ArticleUpdate) (*entity.Article, error) {
	a, err := s.articles.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// DeleteArticle removes an article
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	deleted, err := s.articles.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
