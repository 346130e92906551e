package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// VillaRepository реализует репозиторий вилл с использованием PostgreSQL
type VillaRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewVillaRepository создает новый экземпляр VillaRepository
func NewVillaRepository(db *sqlx.DB, logger logger.Logger) *VillaRepository {
	return &VillaRepository{
		db:     db,
		logger: logger,
	}
}

const villaColumns = `
	id, project_id, name, type, surface, status, progress, categories_count,
	tasks_count, created_at, updated_at
`

// Create создает новую виллу
func (r *VillaRepository) Create(ctx context.Context, villa *domain.Villa) error {
	query := `
		INSERT INTO villas (
			id, project_id, name, type, surface, status, progress, categories_count,
			tasks_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		villa.ID,
		villa.ProjectID,
		villa.Name,
		villa.Type,
		villa.Surface,
		villa.Status,
		villa.Progress,
		villa.CategoriesCount,
		villa.TasksCount,
		villa.CreatedAt,
		villa.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create villa", err, map[string]interface{}{
			"name":       villa.Name,
			"project_id": villa.ProjectID,
		})
		return fmt.Errorf("failed to create villa: %w", err)
	}

	return nil
}

// GetByID возвращает виллу по ID
func (r *VillaRepository) GetByID(ctx context.Context, id string) (*domain.Villa, error) {
	query := fmt.Sprintf(`SELECT %s FROM villas WHERE id = $1`, villaColumns)

	var villa domain.Villa
	err := r.db.GetContext(ctx, &villa, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Villa", id)
		}
		r.logger.Error("Failed to get villa by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get villa by ID: %w", err)
	}

	return &villa, nil
}

// Update обновляет данные виллы
func (r *VillaRepository) Update(ctx context.Context, villa *domain.Villa) error {
	query := `
		UPDATE villas
		SET
			name = $1,
			type = $2,
			surface = $3,
			status = $4,
			progress = $5,
			categories_count = $6,
			tasks_count = $7,
			updated_at = $8
		WHERE id = $9
	`

	villa.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		villa.Name,
		villa.Type,
		villa.Surface,
		villa.Status,
		villa.Progress,
		villa.CategoriesCount,
		villa.TasksCount,
		villa.UpdatedAt,
		villa.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update villa", err, map[string]interface{}{
			"id": villa.ID,
		})
		return fmt.Errorf("failed to update villa: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Villa", villa.ID)
	}

	return nil
}

// Delete удаляет виллу по ID вместе с категориями и задачами
func (r *VillaRepository) Delete(ctx context.Context, id string) error {
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

	if _, err = tx.ExecContext(ctx, `DELETE FROM tasks WHERE villa_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete villa tasks: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE villa_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete villa categories: %w", err)
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM villas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete villa", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete villa: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = apperrors.NotFound("Villa", id)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List возвращает список вилл с фильтрацией
func (r *VillaRepository) List(ctx context.Context, filter repository.VillaFilter) ([]*domain.Villa, error) {
	whereClause, args := r.buildWhereClause(filter)

	limitOffset := ""
	if filter.Limit > 0 {
		limitOffset = fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM villas
		%s
		ORDER BY created_at ASC
		%s
	`, villaColumns, whereClause, limitOffset)

	villas := []*domain.Villa{}
	err := r.db.SelectContext(ctx, &villas, query, args...)
	if err != nil {
		r.logger.Error("Failed to list villas", err)
		return nil, fmt.Errorf("failed to list villas: %w", err)
	}

	return villas, nil
}

// Count возвращает количество вилл с фильтрацией
func (r *VillaRepository) Count(ctx context.Context, filter repository.VillaFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM villas %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count villas", err)
		return 0, fmt.Errorf("failed to count villas: %w", err)
	}

	return count, nil
}

// buildWhereClause собирает условие WHERE по фильтру
func (r *VillaRepository) buildWhereClause(filter repository.VillaFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.ProjectID != nil {
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", argID))
		args = append(args, *filter.ProjectID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
