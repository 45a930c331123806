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

// ArticleRepository persists articles
type ArticleRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *database.DB, logger *zap.Logger) *ArticleRepository {
	return &ArticleRepository{
		db:     db,
		logger: logger,
	}
}

const articleColumns = `id, name, price, cost, stock, min_stock, created_at, updated_at`

func scanArticle(row rowScanner) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Price,
		&a.Cost,
		&a.Stock,
		&a.MinStock,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAll returns all articles ordered by name
func (r *ArticleRepository) FindAll(ctx context.Context) ([]*entity.Article, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY name")
	if err != nil {
		r.logger.Error("Failed to query articles", zap.Error(err))
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// FindByID returns an article or nil when the id is unknown
func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*entity.Article, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+articleColumns+" FROM articles WHERE id = ?", id)

	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get article by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	return a, nil
}

// Create persists a new article and returns the re-read record
func (r *ArticleRepository) Create(ctx context.Context, a *entity.Article) (*entity.Article, error) {
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (id, name, price, cost, stock, min_stock)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id, a.Name, a.Price, a.Cost, a.Stock, a.MinStock,
	)
	if err != nil {
		r.logger.Error("Failed to create article", zap.Error(err))
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("article vanished after create: %s", id)
	}
	return created, nil
}

// ArticleUpdate carries a partial article update
type ArticleUpdate struct {
	Name     *string
	Price    *float64
	Cost     *float64
	Stock    *float64
	MinStock *float64
}

// Update applies a partial update and returns the re-read article, or nil
// when the id is unknown
func (r *ArticleRepository) Update(ctx context.Context, id string, upd ArticleUpdate) (*entity.Article, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE articles
		SET name = ?, price = ?, cost = ?, stock = ?, min_stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`,
		orString(upd.Name, existing.Name),
		orFloat(upd.Price, existing.Price),
		orFloat(upd.Cost, existing.Cost),
		orFloat(upd.Stock, existing.Stock),
		orFloat(upd.MinStock, existing.MinStock),
		id,
	)
	if err != nil {
		r.logger.Error("Failed to update article", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	return r.FindByID(ctx, id)
}

// Delete removes an article. Returns false when the id is unknown.
func (r *ArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete article", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to delete article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
