package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/messaging"
	"github.com/chantierpro/chantierpro/internal/repository"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// TaskService представляет бизнес-логику для работы с задачами
type TaskService struct {
	taskRepo            repository.TaskRepository
	categoryRepo        repository.CategoryRepository
	villaRepo           repository.VillaRepository
	teamRepo            repository.TeamRepository
	cacheRepo           Cache
	producer            messaging.Publisher
	statsSvc            *StatsService
	logger              logger.Logger
	defaultDurationDays int
}

// NewTaskService создает новый экземпляр TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	categoryRepo repository.CategoryRepository,
	villaRepo repository.VillaRepository,
	teamRepo repository.TeamRepository,
	cacheRepo Cache,
	producer messaging.Publisher,
	statsSvc *StatsService,
	logger logger.Logger,
	defaultDurationDays int,
) *TaskService {
	return &TaskService{
		taskRepo:            taskRepo,
		categoryRepo:        categoryRepo,
		villaRepo:           villaRepo,
		teamRepo:            teamRepo,
		cacheRepo:           cacheRepo,
		producer:            producer,
		statsSvc:            statsSvc,
		logger:              logger,
		defaultDurationDays: defaultDurationDays,
	}
}

// Create создает новую задачу.
// Плановое окно: явная длительность в днях имеет приоритет над явной датой
// окончания; без того и другого применяется окно по умолчанию. Фактические
// даты по умолчанию совпадают с плановыми
func (s *TaskService) Create(ctx context.Context, req domain.TaskCreateRequest) (*domain.TaskResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.VillaID != req.VillaID {
		return nil, apperrors.BadRequest("category does not belong to the given villa")
	}
	if _, err := s.villaRepo.GetByID(ctx, req.VillaID); err != nil {
		return nil, err
	}
	if req.TeamID != nil {
		if _, err := s.teamRepo.GetByID(ctx, *req.TeamID); err != nil {
			return nil, err
		}
	}

	now := time.Now()

	plannedStart := domain.NewDate(now)
	if req.PlannedStartDate != nil {
		plannedStart = *req.PlannedStartDate
	}

	var plannedEnd domain.Date
	switch {
	case req.DurationDays != nil:
		plannedEnd = plannedStart.AddDays(*req.DurationDays)
	case req.PlannedEndDate != nil:
		plannedEnd = *req.PlannedEndDate
	default:
		plannedEnd = plannedStart.AddDays(s.defaultDurationDays)
	}

	actualStart := plannedStart
	if req.ActualStartDate != nil {
		actualStart = *req.ActualStartDate
	}
	actualEnd := plannedEnd
	if req.ActualEndDate != nil {
		actualEnd = *req.ActualEndDate
	}

	progress := 0
	if req.Progress != nil {
		progress = *req.Progress
	}

	task := &domain.Task{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		CategoryID:       req.CategoryID,
		VillaID:          req.VillaID,
		TeamID:           req.TeamID,
		Status:           domain.DeriveStatus(progress),
		Progress:         progress,
		ProgressStatus:   domain.DeriveProgressStatus(&plannedStart, &plannedEnd, progress, now),
		PlannedStartDate: &plannedStart,
		PlannedEndDate:   &plannedEnd,
		ActualStartDate:  &actualStart,
		ActualEndDate:    &actualEnd,
		Amount:           req.Amount,
		Remarks:          req.Remarks,
		Photos:           domain.StringList(req.Photos),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		s.logger.Error("Failed to create task", err, map[string]interface{}{
			"name":        req.Name,
			"category_id": req.CategoryID,
		})
		return nil, err
	}

	if err := s.cacheRepo.CacheTask(ctx, task); err != nil {
		s.logger.Warn("Failed to cache task", map[string]interface{}{
			"task_id": task.ID,
		})
	}

	s.refreshStats(ctx, task.CategoryID, task.TeamID)

	if err := s.producer.PublishTaskCreated(ctx, task); err != nil {
		s.logger.Warn("Failed to publish task creation event", map[string]interface{}{
			"task_id": task.ID,
		})
	}

	resp := task.ToResponse()
	s.attachTeam(ctx, &resp)
	return &resp, nil
}

// GetByID возвращает задачу по ID
func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.TaskResponse, error) {
	if task, err := s.cacheRepo.GetTask(ctx, id); err == nil {
		resp := task.ToResponse()
		s.attachTeam(ctx, &resp)
		return &resp, nil
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.CacheTask(ctx, task); err != nil {
		s.logger.Warn("Failed to cache task", map[string]interface{}{
			"task_id": id,
		})
	}

	resp := task.ToResponse()
	s.attachTeam(ctx, &resp)
	return &resp, nil
}

// Update выполняет частичное обновление задачи.
// Изменение прогресса пересчитывает статус и положение относительно плана;
// выставленный вручную delayed сохраняется до полного завершения.
// Кэшированное положение не пересчитывается, пока не меняются прогресс или
// плановые даты
func (s *TaskService) Update(ctx context.Context, id string, req domain.TaskUpdateRequest) (*domain.TaskResponse, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldTeamID := task.TeamID
	changes := map[string]interface{}{}

	if req.Name != nil {
		task.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
		changes["description"] = *req.Description
	}
	if req.TeamID != nil {
		if *req.TeamID != "" {
			if _, err := s.teamRepo.GetByID(ctx, *req.TeamID); err != nil {
				return nil, err
			}
			task.TeamID = req.TeamID
		} else {
			task.TeamID = nil
		}
		changes["team_id"] = *req.TeamID
	}
	if req.Amount != nil {
		task.Amount = req.Amount
		changes["amount"] = *req.Amount
	}
	if req.IsPaid != nil {
		task.IsPaid = *req.IsPaid
		changes["is_paid"] = *req.IsPaid
	}
	if req.IsReceived != nil {
		task.IsReceived = *req.IsReceived
		changes["is_received"] = *req.IsReceived
	}
	if req.Remarks != nil {
		task.Remarks = *req.Remarks
		changes["remarks"] = *req.Remarks
	}
	if req.Photos != nil {
		task.Photos = domain.StringList(*req.Photos)
		changes["photos"] = *req.Photos
	}

	datesChanged := false
	if req.PlannedStartDate != nil {
		task.PlannedStartDate = req.PlannedStartDate
		changes["planned_start_date"] = req.PlannedStartDate
		datesChanged = true
	}
	if req.PlannedEndDate != nil {
		task.PlannedEndDate = req.PlannedEndDate
		changes["planned_end_date"] = req.PlannedEndDate
		datesChanged = true
	}
	if req.ActualStartDate != nil {
		task.ActualStartDate = req.ActualStartDate
		changes["actual_start_date"] = req.ActualStartDate
	}
	if req.ActualEndDate != nil {
		task.ActualEndDate = req.ActualEndDate
		changes["actual_end_date"] = req.ActualEndDate
	}

	progressChanged := req.Progress != nil && *req.Progress != task.Progress
	if req.Progress != nil {
		task.Progress = *req.Progress
		changes["progress"] = *req.Progress
	}

	if progressChanged {
		task.Status = domain.NextStatus(task.Status, task.Progress)
		changes["status"] = task.Status
	}
	// Явный статус перекрывает выведенный: так выставляется ручной delayed
	if req.Status != nil {
		task.Status = *req.Status
		changes["status"] = *req.Status
	}

	if progressChanged || datesChanged {
		task.ProgressStatus = domain.DeriveProgressStatus(
			task.PlannedStartDate, task.PlannedEndDate, task.Progress, time.Now())
		changes["progress_status"] = task.ProgressStatus
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.CacheTask(ctx, task); err != nil {
		s.logger.Warn("Failed to cache task", map[string]interface{}{
			"task_id": task.ID,
		})
	}

	s.refreshStats(ctx, task.CategoryID, task.TeamID)
	if oldTeamID != nil && (task.TeamID == nil || *oldTeamID != *task.TeamID) {
		if err := s.statsSvc.UpdateTeamStats(ctx, *oldTeamID); err != nil {
			s.logger.Warn("Failed to update stats for previous team", map[string]interface{}{
				"team_id": *oldTeamID,
			})
		}
	}

	if err := s.producer.PublishTaskUpdated(ctx, task, changes); err != nil {
		s.logger.Warn("Failed to publish task update event", map[string]interface{}{
			"task_id": task.ID,
		})
	}

	resp := task.ToResponse()
	s.attachTeam(ctx, &resp)
	return &resp, nil
}

// UpdateProgress обновляет прогресс задачи
func (s *TaskService) UpdateProgress(ctx context.Context, id string, progress int) (*domain.TaskResponse, error) {
	return s.Update(ctx, id, domain.TaskUpdateRequest{Progress: &progress})
}

// MarkReceived отмечает работу как принятую
func (s *TaskService) MarkReceived(ctx context.Context, id string) (*domain.TaskResponse, error) {
	received := true
	return s.Update(ctx, id, domain.TaskUpdateRequest{IsReceived: &received})
}

// MarkPaid отмечает работу как оплаченную
func (s *TaskService) MarkPaid(ctx context.Context, id string) (*domain.TaskResponse, error) {
	paid := true
	return s.Update(ctx, id, domain.TaskUpdateRequest{IsPaid: &paid})
}

// Delete удаляет задачу
func (s *TaskService) Delete(ctx context.Context, id string) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cacheRepo.InvalidateTask(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate task cache", map[string]interface{}{
			"task_id": id,
		})
	}

	s.refreshStats(ctx, task.CategoryID, task.TeamID)

	if err := s.producer.PublishTaskDeleted(ctx, task); err != nil {
		s.logger.Warn("Failed to publish task deletion event", map[string]interface{}{
			"task_id": id,
		})
	}

	return nil
}

// List возвращает список задач с фильтрацией
func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]domain.TaskResponse, int, error) {
	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, task.ToResponse())
	}

	return responses, total, nil
}

// GetUnreceivedCompleted возвращает завершенные, но не принятые работы
func (s *TaskService) GetUnreceivedCompleted(ctx context.Context, filter repository.TaskFilter) ([]domain.TaskResponse, error) {
	tasks, err := s.taskRepo.GetUnreceivedCompleted(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, task.ToResponse())
	}
	return responses, nil
}

// GetUnpaid возвращает неоплаченные работы
func (s *TaskService) GetUnpaid(ctx context.Context, filter repository.TaskFilter) ([]domain.TaskResponse, error) {
	tasks, err := s.taskRepo.GetUnpaid(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, task.ToResponse())
	}
	return responses, nil
}

// GetAmountsByProject возвращает финансовые итоги по задачам проекта
func (s *TaskService) GetAmountsByProject(ctx context.Context, projectID string) (*domain.TaskAmounts, error) {
	return s.taskRepo.GetAmountsByProject(ctx, projectID)
}

// refreshStats обновляет показатели категории и бригады после мутации задачи
func (s *TaskService) refreshStats(ctx context.Context, categoryID string, teamID *string) {
	if err := s.statsSvc.UpdateCategoryStats(ctx, categoryID); err != nil {
		s.logger.Warn("Failed to update category stats", map[string]interface{}{
			"category_id": categoryID,
		})
	}
	if teamID != nil {
		if err := s.statsSvc.UpdateTeamStats(ctx, *teamID); err != nil {
			s.logger.Warn("Failed to update team stats", map[string]interface{}{
				"team_id": *teamID,
			})
		}
	}
}

// attachTeam добавляет краткую информацию о бригаде к ответу
func (s *TaskService) attachTeam(ctx context.Context, resp *domain.TaskResponse) {
	if resp.TeamID == nil {
		return
	}
	team, err := s.teamRepo.GetByID(ctx, *resp.TeamID)
	if err != nil {
		return
	}
	brief := team.ToBrief()
	resp.Team = &brief
}
