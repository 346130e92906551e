package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// ProjectService представляет бизнес-логику для работы с проектами
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	logger      logger.Logger
}

// NewProjectService создает новый экземпляр ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	logger logger.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

// Create создает новый проект
func (s *ProjectService) Create(ctx context.Context, req domain.ProjectCreateRequest) (*domain.ProjectResponse, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Status:      domain.ProjectStatusActive,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, err
	}

	resp := project.ToResponse()
	return &resp, nil
}

// GetByID возвращает проект по ID
func (s *ProjectService) GetByID(ctx context.Context, id string) (*domain.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := project.ToResponse()
	if count, err := s.projectRepo.CountVillas(ctx, id); err == nil {
		resp.VillasCount = count
	}
	return &resp, nil
}

// Update выполняет частичное обновление проекта
func (s *ProjectService) Update(ctx context.Context, id string, req domain.ProjectUpdateRequest) (*domain.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Location != nil {
		project.Location = *req.Location
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	resp := project.ToResponse()
	return &resp, nil
}

// Delete удаляет проект
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.projectRepo.Delete(ctx, id)
}

// List возвращает все проекты
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectResponse, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.ProjectResponse, 0, len(projects))
	for _, project := range projects {
		resp := project.ToResponse()
		if count, err := s.projectRepo.CountVillas(ctx, project.ID); err == nil {
			resp.VillasCount = count
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// GetAmounts возвращает финансовые итоги по задачам проекта
func (s *ProjectService) GetAmounts(ctx context.Context, id string) (*domain.TaskAmounts, error) {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.taskRepo.GetAmountsByProject(ctx, id)
}
