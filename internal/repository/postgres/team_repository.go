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

// TeamRepository реализует репозиторий бригад с использованием PostgreSQL
type TeamRepository struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewTeamRepository создает новый экземпляр TeamRepository
func NewTeamRepository(db *sqlx.DB, logger logger.Logger) *TeamRepository {
	return &TeamRepository{
		db:     db,
		logger: logger,
	}
}

const teamColumns = `
	id, name, specialty, members_count, active_tasks, performance,
	last_activity, created_at, updated_at
`

// Create создает новую бригаду
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (
			id, name, specialty, members_count, active_tasks, performance,
			last_activity, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		team.ID,
		team.Name,
		team.Specialty,
		team.MembersCount,
		team.ActiveTasks,
		team.Performance,
		team.LastActivity,
		team.CreatedAt,
		team.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create team", err, map[string]interface{}{
			"name": team.Name,
		})
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID возвращает бригаду по ID
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE id = $1`, teamColumns)

	var team domain.Team
	err := r.db.GetContext(ctx, &team, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Team", id)
		}
		r.logger.Error("Failed to get team by ID", err, map[string]interface{}{
			"id": id,
		})
		return nil, fmt.Errorf("failed to get team by ID: %w", err)
	}

	return &team, nil
}

// GetByIDs возвращает бригады по списку ID
func (r *TeamRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Team, error) {
	if len(ids) == 0 {
		return []*domain.Team{}, nil
	}

	query, args, err := sqlx.In(
		fmt.Sprintf(`SELECT %s FROM teams WHERE id IN (?)`, teamColumns),
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build teams query: %w", err)
	}
	query = r.db.Rebind(query)

	teams := []*domain.Team{}
	if err := r.db.SelectContext(ctx, &teams, query, args...); err != nil {
		r.logger.Error("Failed to get teams by IDs", err)
		return nil, fmt.Errorf("failed to get teams by IDs: %w", err)
	}

	return teams, nil
}

// Update обновляет данные бригады
func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) error {
	query := `
		UPDATE teams
		SET
			name = $1,
			specialty = $2,
			members_count = $3,
			active_tasks = $4,
			performance = $5,
			last_activity = $6,
			updated_at = $7
		WHERE id = $8
	`

	team.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(
		ctx,
		query,
		team.Name,
		team.Specialty,
		team.MembersCount,
		team.ActiveTasks,
		team.Performance,
		team.LastActivity,
		team.UpdatedAt,
		team.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update team", err, map[string]interface{}{
			"id": team.ID,
		})
		return fmt.Errorf("failed to update team: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.NotFound("Team", team.ID)
	}

	return nil
}

// Delete удаляет бригаду по ID. Ссылки из задач обнуляются
func (r *TeamRepository) Delete(ctx context.Context, id string) error {
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

	if _, err = tx.ExecContext(ctx, `UPDATE tasks SET team_id = NULL WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach team tasks: %w", err)
	}

	var result sql.Result
	result, err = tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete team", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete team: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		err = apperrors.NotFound("Team", id)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List возвращает список бригад с фильтрацией
func (r *TeamRepository) List(ctx context.Context, filter repository.TeamFilter) ([]*domain.Team, error) {
	whereClause, args := r.buildWhereClause(filter)

	limitOffset := ""
	if filter.Limit > 0 {
		limitOffset = fmt.Sprintf("LIMIT %d OFFSET %d", filter.Limit, filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM teams
		%s
		ORDER BY name ASC
		%s
	`, teamColumns, whereClause, limitOffset)

	teams := []*domain.Team{}
	err := r.db.SelectContext(ctx, &teams, query, args...)
	if err != nil {
		r.logger.Error("Failed to list teams", err)
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	return teams, nil
}

// Count возвращает количество бригад с фильтрацией
func (r *TeamRepository) Count(ctx context.Context, filter repository.TeamFilter) (int, error) {
	whereClause, args := r.buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(*) FROM teams %s`, whereClause)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count teams", err)
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}

	return count, nil
}

// buildWhereClause собирает условие WHERE по фильтру
func (r *TeamRepository) buildWhereClause(filter repository.TeamFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.SearchText != nil {
		pattern := "%" + *filter.SearchText + "%"
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR specialty ILIKE $%d)", argID, argID+1))
		args = append(args, pattern, pattern)
		argID += 2
	}
	if filter.Specialty != nil {
		conditions = append(conditions, fmt.Sprintf("specialty = $%d", argID))
		args = append(args, *filter.Specialty)
		argID++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
