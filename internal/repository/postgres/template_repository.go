package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chantierpro/chantierpro/internal/domain"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// TemplateRepository реализует репозиторий шаблонов с использованием PostgreSQL.
// Вложенные блокпринты хранятся в JSONB-колонке целиком
type TemplateRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewTemplateRepository создает новый экземпляр TemplateRepository
func NewTemplateRepository(db *sqlx.DB, logger logger.Logger) *TemplateRepository {
	return &TemplateRepository{
		db:     db,
		logger: logger,
	}
}

type templateRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Categories  []byte    `db:"categories"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row *templateRow) toDomain() (*domain.Template, error) {
	template := &domain.Template{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
	if err := json.Unmarshal(row.Categories, &template.Categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template categories: %w", err)
	}
	return template, nil
}

// Create создает новый шаблон
func (r *TemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	categories, err := json.Marshal(template.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal template categories: %w", err)
	}

	query := `
		INSERT INTO templates (id, name, description, categories, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		template.ID,
		template.Name,
		template.Description,
		categories,
		template.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create template", err, map[string]interface{}{
			"name": template.Name,
		})
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID возвращает шаблон по ID
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	query := `
		SELECT id, name, description, categories, created_at
		FROM templates
		WHERE id = $1
	`

	var row templateRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Template", id)
		}
		r.logger.Error("Failed to get template by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get template by ID: %w", err)
	}

	return row.toDomain()
}

// Delete удаляет шаблон по ID
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM templates WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete template", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Template", id)
	}

	return nil
}

// List возвращает все шаблоны
func (r *TemplateRepository) List(ctx context.Context) ([]*domain.Template, error) {
	query := `
		SELECT id, name, description, categories, created_at
		FROM templates
		ORDER BY created_at ASC
	`

	rows := []templateRow{}
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		r.logger.Error("Failed to list templates", err)
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]*domain.Template, 0, len(rows))
	for i := range rows {
		template, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	return templates, nil
}
