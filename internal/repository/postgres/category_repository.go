package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chantierpro/chantierpro/internal/domain"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// CategoryRepository реализует репозиторий категорий с использованием PostgreSQL
type CategoryRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewCategoryRepository создает новый экземпляр CategoryRepository
func NewCategoryRepository(db *sqlx.DB, logger logger.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

const categoryColumns = `
	id, villa_id, name, start_date, end_date, status, progress,
	tasks_count, completed_tasks, created_at, updated_at
`

// Create создает новую категорию
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (
			id, villa_id, name, start_date, end_date, status, progress,
			tasks_count, completed_tasks, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		category.ID,
		category.VillaID,
		category.Name,
		category.StartDate,
		category.EndDate,
		category.Status,
		category.Progress,
		category.TasksCount,
		category.CompletedTasks,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create category", err, map[string]interface{}{
			"name":     category.Name,
			"villa_id": category.VillaID,
		})
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID возвращает категорию по ID
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)

	var category domain.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Category", id)
		}
		r.logger.Error("Failed to get category by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}

	return &category, nil
}

// Update обновляет данные категории
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET
			name = $1,
			start_date = $2,
			end_date = $3,
			status = $4,
			progress = $5,
			tasks_count = $6,
			completed_tasks = $7,
			updated_at = $8
		WHERE id = $9
	`

	category.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		category.Name,
		category.StartDate,
		category.EndDate,
		category.Status,
		category.Progress,
		category.TasksCount,
		category.CompletedTasks,
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update category", err, map[string]interface{}{
			"id": category.ID,
		})
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Category", category.ID)
	}

	return nil
}

// Delete удаляет категорию по ID вместе с ее задачами
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction", rbErr)
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE category_id = $1`, id); err != nil {
		r.logger.Error("Failed to delete category tasks", err, map[string]interface{}{
			"category_id": id,
		})
		return fmt.Errorf("failed to delete category tasks: %w", err)
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete category", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = apperrors.NotFound("Category", id)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByVilla возвращает категории виллы в порядке создания
func (r *CategoryRepository) GetByVilla(ctx context.Context, villaID string) ([]*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE villa_id = $1
		ORDER BY created_at ASC
	`, categoryColumns)

	categories := []*domain.Category{}
	err := r.db.SelectContext(ctx, &categories, query, villaID)
	if err != nil {
		r.logger.Error("Failed to get categories by villa", err, map[string]interface{}{
			"villa_id": villaID,
		})
		return nil, fmt.Errorf("failed to get categories by villa: %w", err)
	}

	return categories, nil
}
