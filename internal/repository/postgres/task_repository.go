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

// TaskRepository реализует репозиторий задач с использованием PostgreSQL
type TaskRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewTaskRepository создает новый экземпляр TaskRepository
func NewTaskRepository(db *sqlx.DB, logger logger.Logger) *TaskRepository {
	return &TaskRepository{
		db:     db,
		logger: logger,
	}
}

const taskColumns = `
	id, name, description, category_id, villa_id, team_id, status, progress,
	progress_status, planned_start_date, planned_end_date, actual_start_date,
	actual_end_date, amount, is_paid, is_received, remarks, photos,
	created_at, updated_at
`

// Create создает новую задачу
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (
			id, name, description, category_id, villa_id, team_id, status, progress,
			progress_status, planned_start_date, planned_end_date, actual_start_date,
			actual_end_date, amount, is_paid, is_received, remarks, photos,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Name,
		task.Description,
		task.CategoryID,
		task.VillaID,
		task.TeamID,
		task.Status,
		task.Progress,
		task.ProgressStatus,
		task.PlannedStartDate,
		task.PlannedEndDate,
		task.ActualStartDate,
		task.ActualEndDate,
		task.Amount,
		task.IsPaid,
		task.IsReceived,
		task.Remarks,
		task.Photos,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create task", err, map[string]interface{}{
			"name":        task.Name,
			"category_id": task.CategoryID,
		})
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID возвращает задачу по ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	var task domain.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Task", id)
		}
		r.logger.Error("Failed to get task by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get task by ID: %w", err)
	}

	return &task, nil
}

// Update обновляет данные задачи
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET
			name = $1,
			description = $2,
			team_id = $3,
			status = $4,
			progress = $5,
			progress_status = $6,
			planned_start_date = $7,
			planned_end_date = $8,
			actual_start_date = $9,
			actual_end_date = $10,
			amount = $11,
			is_paid = $12,
			is_received = $13,
			remarks = $14,
			photos = $15,
			updated_at = $16
		WHERE id = $17
	`

	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		task.Name,
		task.Description,
		task.TeamID,
		task.Status,
		task.Progress,
		task.ProgressStatus,
		task.PlannedStartDate,
		task.PlannedEndDate,
		task.ActualStartDate,
		task.ActualEndDate,
		task.Amount,
		task.IsPaid,
		task.IsReceived,
		task.Remarks,
		task.Photos,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update task", err, map[string]interface{}{
			"id": task.ID,
		})
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Task", task.ID)
	}

	return nil
}

// Delete удаляет задачу по ID
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete task", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Task", id)
	}

	return nil
}

// List возвращает список задач с фильтрацией
func (r *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	whereClause, args := r.buildWhereClause(filter)
	orderClause := r.buildOrderClause(filter)

	limitOffset := ""
	if filter.Limit > 0 {
		limitOffset = fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		%s
		%s
		%s
	`, taskColumns, whereClause, orderClause, limitOffset)

	tasks := []*domain.Task{}
	err := r.db.SelectContext(ctx, &tasks, query, args...)
	if err != nil {
		r.logger.Error("Failed to list tasks", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Count возвращает количество задач с фильтрацией
func (r *TaskRepository) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM tasks %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count tasks", err)
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return count, nil
}

// GetByCategory возвращает задачи категории в порядке создания
func (r *TaskRepository) GetByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE category_id = $1
		ORDER BY created_at ASC
	`, taskColumns)

	tasks := []*domain.Task{}
	err := r.db.SelectContext(ctx, &tasks, query, categoryID)
	if err != nil {
		r.logger.Error("Failed to get tasks by category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, fmt.Errorf("failed to get tasks by category: %w", err)
	}

	return tasks, nil
}

// GetByVilla возвращает задачи виллы
func (r *TaskRepository) GetByVilla(ctx context.Context, villaID string) ([]*domain.Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE villa_id = $1
		ORDER BY created_at ASC
	`, taskColumns)

	tasks := []*domain.Task{}
	err := r.db.SelectContext(ctx, &tasks, query, villaID)
	if err != nil {
		r.logger.Error("Failed to get tasks by villa", err, map[string]interface{}{
			"villa_id": villaID,
		})
		return nil, fmt.Errorf("failed to get tasks by villa: %w", err)
	}

	return tasks, nil
}

// GetUnreceivedCompleted возвращает завершенные непринятые задачи
func (r *TaskRepository) GetUnreceivedCompleted(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	status := domain.TaskStatusCompleted
	received := false
	filter.Status = &status
	filter.IsReceived = &received
	return r.List(ctx, filter)
}

// GetUnpaid возвращает неоплаченные задачи
func (r *TaskRepository) GetUnpaid(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	paid := false
	filter.IsPaid = &paid
	return r.List(ctx, filter)
}

// GetAmountsByProject возвращает финансовые итоги по задачам проекта
func (r *TaskRepository) GetAmountsByProject(ctx context.Context, projectID string) (*domain.TaskAmounts, error) {
	query := `
		SELECT
			COALESCE(SUM(t.amount), 0) AS total,
			COALESCE(SUM(t.amount) FILTER (WHERE t.is_paid), 0) AS paid
		FROM tasks t
		JOIN villas v ON v.id = t.villa_id
		WHERE v.project_id = $1
	`

	var amounts domain.TaskAmounts
	err := r.db.GetContext(ctx, &amounts, query, projectID)
	if err != nil {
		r.logger.Error("Failed to get task amounts by project", err, map[string]interface{}{
			"project_id": projectID,
		})
		return nil, fmt.Errorf("failed to get task amounts by project: %w", err)
	}

	return &amounts, nil
}

// buildWhereClause собирает условие WHERE по фильтру
func (r *TaskRepository) buildWhereClause(filter repository.TaskFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	addCondition := func(condition string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(condition, argID))
		args = append(args, value)
		argID++
	}

	if filter.CategoryID != nil {
		addCondition("category_id = $%d", *filter.CategoryID)
	}
	if filter.VillaID != nil {
		addCondition("villa_id = $%d", *filter.VillaID)
	}
	if filter.ProjectID != nil {
		addCondition("villa_id IN (SELECT id FROM villas WHERE project_id = $%d)", *filter.ProjectID)
	}
	if filter.TeamID != nil {
		addCondition("team_id = $%d", *filter.TeamID)
	}
	if filter.Status != nil {
		addCondition("status = $%d", *filter.Status)
	}
	if filter.ProgressStatus != nil {
		addCondition("progress_status = $%d", *filter.ProgressStatus)
	}
	if filter.IsPaid != nil {
		addCondition("is_paid = $%d", *filter.IsPaid)
	}
	if filter.IsReceived != nil {
		addCondition("is_received = $%d", *filter.IsReceived)
	}
	if filter.SearchText != nil {
		pattern := "%" + *filter.SearchText + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", argID, argID+1))
		args = append(args, pattern, pattern)
		argID += 2
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// buildOrderClause собирает условие ORDER BY по фильтру
func (r *TaskRepository) buildOrderClause(filter repository.TaskFilter) string {
	orderBy := "created_at"
	if filter.OrderBy != nil {
		switch *filter.OrderBy {
		case "name", "status", "progress", "planned_start_date", "planned_end_date", "created_at", "updated_at":
			orderBy = *filter.OrderBy
		}
	}

	orderDir := "ASC"
	if filter.OrderDir != nil && strings.EqualFold(*filter.OrderDir, "desc") {
		orderDir = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s", orderBy, orderDir)
}
