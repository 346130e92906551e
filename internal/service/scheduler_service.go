package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/pkg/config"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// SchedulerService периодически пересчитывает положение задач относительно
// плана. Путь мутаций этот пересчет не вызывает: между правками положение
// задачи остается таким, каким его зафиксировала последняя мутация
type SchedulerService struct {
	villaRepo repository.VillaRepository
	taskRepo  repository.TaskRepository
	teamRepo  repository.TeamRepository
	statsSvc  *StatsService
	cacheRepo Cache
	cfg       *config.SchedulerConfig
	logger    logger.Logger
	cron      *cron.Cron
}

// NewSchedulerService создает новый экземпляр SchedulerService
func NewSchedulerService(
	villaRepo repository.VillaRepository,
	taskRepo repository.TaskRepository,
	teamRepo repository.TeamRepository,
	statsSvc *StatsService,
	cacheRepo Cache,
	cfg *config.SchedulerConfig,
	logger logger.Logger,
) *SchedulerService {
	return &SchedulerService{
		villaRepo: villaRepo,
		taskRepo:  taskRepo,
		teamRepo:  teamRepo,
		statsSvc:  statsSvc,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start регистрирует периодические задания и запускает планировщик
func (s *SchedulerService) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.ProgressSweepCron, func() {
		if err := s.SweepProgressStatuses(ctx); err != nil {
			s.logger.Error("Progress status sweep failed", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc(s.cfg.TeamStatsCron, func() {
		if err := s.RefreshTeamStats(ctx); err != nil {
			s.logger.Error("Team stats refresh failed", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started", map[string]interface{}{
		"progress_sweep_cron": s.cfg.ProgressSweepCron,
		"team_stats_cron":     s.cfg.TeamStatsCron,
	})
	return nil
}

// Stop останавливает планировщик и дожидается завершения заданий
func (s *SchedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}

// SweepProgressStatuses пересчитывает положение всех незавершенных задач
// относительно плана. Обход вилл ограничен по параллелизму
func (s *SchedulerService) SweepProgressStatuses(ctx context.Context) error {
	villas, err := s.villaRepo.List(ctx, repository.VillaFilter{})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SweepConcurrency)

	for _, villa := range villas {
		villa := villa
		g.Go(func() error {
			return s.sweepVilla(gctx, villa.ID)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("Progress status sweep completed", map[string]interface{}{
		"villas": len(villas),
	})
	return nil
}

// sweepVilla пересчитывает положение задач одной виллы
func (s *SchedulerService) sweepVilla(ctx context.Context, villaID string) error {
	tasks, err := s.taskRepo.GetByVilla(ctx, villaID)
	if err != nil {
		return err
	}

	now := time.Now()
	updated := 0
	for _, task := range tasks {
		if task.IsCompleted() || task.PlannedStartDate == nil || task.PlannedEndDate == nil {
			continue
		}

		next := domain.DeriveProgressStatus(task.PlannedStartDate, task.PlannedEndDate, task.Progress, now)
		if next == task.ProgressStatus {
			continue
		}

		task.ProgressStatus = next
		if err := s.taskRepo.Update(ctx, task); err != nil {
			s.logger.Error("Failed to persist swept progress status", err, map[string]interface{}{
				"task_id": task.ID,
			})
			continue
		}
		if err := s.cacheRepo.InvalidateTask(ctx, task.ID); err != nil {
			s.logger.Warn("Failed to invalidate task cache", map[string]interface{}{
				"task_id": task.ID,
			})
		}
		updated++
	}

	if updated > 0 {
		s.logger.Debug("Villa sweep updated tasks", map[string]interface{}{
			"villa_id": villaID,
			"updated":  updated,
		})
		return s.statsSvc.UpdateVillaStats(ctx, villaID)
	}
	return nil
}

// RefreshTeamStats пересчитывает показатели всех бригад
func (s *SchedulerService) RefreshTeamStats(ctx context.Context) error {
	teams, err := s.teamRepo.List(ctx, repository.TeamFilter{})
	if err != nil {
		return err
	}

	for _, team := range teams {
		if err := s.statsSvc.UpdateTeamStats(ctx, team.ID); err != nil {
			s.logger.Error("Failed to refresh team stats", err, map[string]interface{}{
				"team_id": team.ID,
			})
		}
	}

	s.logger.Info("Team stats refresh completed", map[string]interface{}{
		"teams": len(teams),
	})
	return nil
}
