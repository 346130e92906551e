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

// ProjectRepository реализует репозиторий проектов с использованием PostgreSQL
type ProjectRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewProjectRepository создает новый экземпляр ProjectRepository
func NewProjectRepository(db *sqlx.DB, logger logger.Logger) *ProjectRepository {
	return &ProjectRepository{
		db:     db,
		logger: logger,
	}
}

const projectColumns = `
	id, name, description, location, status, start_date, end_date,
	created_at, updated_at
`

// Create создает новый проект
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (
			id, name, description, location, status, start_date, end_date,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.Name,
		project.Description,
		project.Location,
		project.Status,
		project.StartDate,
		project.EndDate,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create project", err, map[string]interface{}{
			"name": project.Name,
		})
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID возвращает проект по ID
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)

	var project domain.Project
	err := r.db.GetContext(ctx, &project, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Project", id)
		}
		r.logger.Error("Failed to get project by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get project by ID: %w", err)
	}

	return &project, nil
}

// Update обновляет данные проекта
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `
		UPDATE projects
		SET
			name = $1,
			description = $2,
			location = $3,
			status = $4,
			start_date = $5,
			end_date = $6,
			updated_at = $7
		WHERE id = $8
	`

	project.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		project.Name,
		project.Description,
		project.Location,
		project.Status,
		project.StartDate,
		project.EndDate,
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update project", err, map[string]interface{}{
			"id": project.ID,
		})
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Project", project.ID)
	}

	return nil
}

// Delete удаляет проект по ID
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete project", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Project", id)
	}

	return nil
}

// List возвращает все проекты
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM projects
		ORDER BY created_at ASC
	`, projectColumns)

	projects := []*domain.Project{}
	err := r.db.SelectContext(ctx, &projects, query)
	if err != nil {
		r.logger.Error("Failed to list projects", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// CountVillas возвращает количество вилл проекта
func (r *ProjectRepository) CountVillas(ctx context.Context, projectID string) (int, error) {
	query := `SELECT COUNT(*) FROM villas WHERE project_id = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, projectID)
	if err != nil {
		r.logger.Error("Failed to count project villas", err, map[string]interface{}{
			"project_id": projectID,
		})
		return 0, fmt.Errorf("failed to count project villas: %w", err)
	}

	return count, nil
}
