package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// TeamFilterAll - значение фильтра, означающее все бригады
const TeamFilterAll = "all"

// assignmentDurationDays - плановое окно задачи-назначения бригады
const assignmentDurationDays = 7

// TeamService представляет бизнес-логику для работы с бригадами
type TeamService struct {
	teamRepo     repository.TeamRepository
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
	taskSvc      *TaskService
	cacheRepo    Cache
	logger       logger.Logger
}

// NewTeamService создает новый экземпляр TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	taskRepo repository.TaskRepository,
	categoryRepo repository.CategoryRepository,
	taskSvc *TaskService,
	cacheRepo Cache,
	logger logger.Logger,
) *TeamService {
	return &TeamService{
		teamRepo:     teamRepo,
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		taskSvc:      taskSvc,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// Create создает новую бригаду
func (s *TeamService) Create(ctx context.Context, req domain.TeamCreateRequest) (*domain.TeamResponse, error) {
	now := time.Now()
	team := &domain.Team{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Specialty:    req.Specialty,
		MembersCount: req.MembersCount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		s.logger.Error("Failed to create team", err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, err
	}

	if err := s.cacheRepo.InvalidateTeamList(ctx); err != nil {
		s.logger.Warn("Failed to invalidate team list cache")
	}

	resp := team.ToResponse()
	return &resp, nil
}

// GetByID возвращает бригаду по ID
func (s *TeamService) GetByID(ctx context.Context, id string) (*domain.TeamResponse, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := team.ToResponse()
	return &resp, nil
}

// Update выполняет частичное обновление бригады
func (s *TeamService) Update(ctx context.Context, id string, req domain.TeamUpdateRequest) (*domain.TeamResponse, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Specialty != nil {
		team.Specialty = *req.Specialty
	}
	if req.MembersCount != nil {
		team.MembersCount = *req.MembersCount
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.InvalidateTeamList(ctx); err != nil {
		s.logger.Warn("Failed to invalidate team list cache")
	}

	resp := team.ToResponse()
	return &resp, nil
}

// Delete удаляет бригаду. Задачи бригады остаются без исполнителя
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cacheRepo.InvalidateTeamList(ctx); err != nil {
		s.logger.Warn("Failed to invalidate team list cache")
	}

	return nil
}

// List возвращает список бригад с фильтрацией
func (s *TeamService) List(ctx context.Context, filter repository.TeamFilter) ([]domain.TeamResponse, int, error) {
	teams, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.teamRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, team.ToResponse())
	}

	return responses, total, nil
}

// TeamsForCategory возвращает бригады, упомянутые задачами категории.
// Порядок соответствует первому упоминанию; бригады, удаленные из реестра,
// не возвращаются
func (s *TeamService) TeamsForCategory(ctx context.Context, categoryID string) ([]domain.TeamResponse, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	order := []string{}
	for _, task := range tasks {
		if task.TeamID == nil || seen[*task.TeamID] {
			continue
		}
		seen[*task.TeamID] = true
		order = append(order, *task.TeamID)
	}

	teams, err := s.teamRepo.GetByIDs(ctx, order)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}

	responses := make([]domain.TeamResponse, 0, len(order))
	for _, id := range order {
		if team, ok := byID[id]; ok {
			responses = append(responses, team.ToResponse())
		}
	}
	return responses, nil
}

// TasksForCategory возвращает задачи категории, опционально отфильтрованные
// по бригаде. Пустой фильтр и значение "all" возвращают все задачи
func (s *TeamService) TasksForCategory(ctx context.Context, categoryID, teamFilter string) ([]domain.TaskResponse, error) {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		if teamFilter != "" && teamFilter != TeamFilterAll {
			if task.TeamID == nil || *task.TeamID != teamFilter {
				continue
			}
		}
		responses = append(responses, task.ToResponse())
	}
	return responses, nil
}

// AssignToCategory назначает бригаду на категорию, создавая задачу-назначение
// с недельным плановым окном
func (s *TeamService) AssignToCategory(ctx context.Context, categoryID, teamID string) (*domain.TaskResponse, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	duration := assignmentDurationDays
	req := domain.TaskCreateRequest{
		Name:         fmt.Sprintf("Travail - %s", team.Name),
		Description:  fmt.Sprintf("Intervention de l'équipe %s (%s)", team.Name, team.Specialty),
		CategoryID:   category.ID,
		VillaID:      category.VillaID,
		TeamID:       &team.ID,
		DurationDays: &duration,
	}

	return s.taskSvc.Create(ctx, req)
}
