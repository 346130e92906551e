package service

import (
	"context"
	"time"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/messaging"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// Cache определяет интерфейс кэша, используемый сервисами
type Cache interface {
	CacheTask(ctx context.Context, task *domain.Task) error
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	InvalidateTask(ctx context.Context, id string) error
	CacheVillaTree(ctx context.Context, villaID string, tree *domain.VillaResponse) error
	GetVillaTree(ctx context.Context, villaID string) (*domain.VillaResponse, error)
	InvalidateVillaTree(ctx context.Context, villaID string) error
	CacheTeamList(ctx context.Context, teams []*domain.Team) error
	GetTeamList(ctx context.Context) ([]*domain.Team, error)
	InvalidateTeamList(ctx context.Context) error
}

// StatsService пересчитывает агрегированные показатели категорий, вилл и бригад
// после мутаций задач
type StatsService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	villaRepo    repository.VillaRepository
	teamRepo     repository.TeamRepository
	cacheRepo    Cache
	producer     messaging.Publisher
	logger       logger.Logger
}

// NewStatsService создает новый экземпляр StatsService
func NewStatsService(
	taskRepo repository.TaskRepository,
	categoryRepo repository.CategoryRepository,
	villaRepo repository.VillaRepository,
	teamRepo repository.TeamRepository,
	cacheRepo Cache,
	producer messaging.Publisher,
	logger logger.Logger,
) *StatsService {
	return &StatsService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		villaRepo:    villaRepo,
		teamRepo:     teamRepo,
		cacheRepo:    cacheRepo,
		producer:     producer,
		logger:       logger,
	}
}

// UpdateCategoryStats пересчитывает показатели категории по ее задачам и
// каскадно обновляет показатели виллы
func (s *StatsService) UpdateCategoryStats(ctx context.Context, categoryID string) error {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}

	tasks, err := s.taskRepo.GetByCategory(ctx, categoryID)
	if err != nil {
		return err
	}

	completed := 0
	for _, task := range tasks {
		if task.IsCompleted() {
			completed++
		}
	}

	category.TasksCount = len(tasks)
	category.CompletedTasks = completed
	if len(tasks) > 0 {
		category.Progress = completed * 100 / len(tasks)
	} else {
		category.Progress = 0
	}
	category.Status = domain.DeriveCategoryStatus(category.Progress)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}

	return s.UpdateVillaStats(ctx, category.VillaID)
}

// UpdateVillaStats пересчитывает показатели виллы по ее категориям.
// При изменении прогресса публикуется событие villa_progress_updated
func (s *StatsService) UpdateVillaStats(ctx context.Context, villaID string) error {
	villa, err := s.villaRepo.GetByID(ctx, villaID)
	if err != nil {
		return err
	}

	categories, err := s.categoryRepo.GetByVilla(ctx, villaID)
	if err != nil {
		return err
	}

	tasksCount := 0
	progressSum := 0
	for _, category := range categories {
		tasksCount += category.TasksCount
		progressSum += category.Progress
	}

	progress := 0
	if len(categories) > 0 {
		progress = progressSum / len(categories)
	}

	changed := villa.Progress != progress ||
		villa.CategoriesCount != len(categories) ||
		villa.TasksCount != tasksCount

	villa.CategoriesCount = len(categories)
	villa.TasksCount = tasksCount
	villa.Progress = progress
	villa.Status = domain.DeriveVillaStatus(villa.Status, progress)

	if err := s.villaRepo.Update(ctx, villa); err != nil {
		return err
	}

	// Дерево виллы в кэше устарело после любого пересчета
	if err := s.cacheRepo.InvalidateVillaTree(ctx, villaID); err != nil {
		s.logger.Warn("Failed to invalidate villa tree cache", map[string]interface{}{
			"villa_id": villaID,
		})
	}

	if changed {
		if err := s.producer.PublishVillaProgress(ctx, villa); err != nil {
			s.logger.Warn("Failed to publish villa progress event", map[string]interface{}{
				"villa_id": villaID,
			})
		}
	}

	return nil
}

// UpdateTeamStats пересчитывает показатели бригады по ее задачам
func (s *StatsService) UpdateTeamStats(ctx context.Context, teamID string) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{TeamID: &teamID})
	if err != nil {
		return err
	}

	active := 0
	completed := 0
	for _, task := range tasks {
		switch task.Status {
		case domain.TaskStatusPending, domain.TaskStatusInProgress:
			active++
		case domain.TaskStatusCompleted:
			completed++
		}
	}

	team.ActiveTasks = active
	if len(tasks) > 0 {
		team.Performance = completed * 100 / len(tasks)
	} else {
		team.Performance = 0
	}
	now := time.Now()
	team.LastActivity = &now

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return err
	}

	if err := s.cacheRepo.InvalidateTeamList(ctx); err != nil {
		s.logger.Warn("Failed to invalidate team list cache", map[string]interface{}{
			"team_id": teamID,
		})
	}

	return nil
}
