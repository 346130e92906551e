package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// CategoryService представляет бизнес-логику для работы с категориями работ
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	villaRepo    repository.VillaRepository
	taskRepo     repository.TaskRepository
	statsSvc     *StatsService
	logger       logger.Logger
}

// NewCategoryService создает новый экземпляр CategoryService
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	villaRepo repository.VillaRepository,
	taskRepo repository.TaskRepository,
	statsSvc *StatsService,
	logger logger.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		villaRepo:    villaRepo,
		taskRepo:     taskRepo,
		statsSvc:     statsSvc,
		logger:       logger,
	}
}

// Create создает новую категорию работ
func (s *CategoryService) Create(ctx context.Context, req domain.CategoryCreateRequest) (*domain.CategoryResponse, error) {
	if _, err := s.villaRepo.GetByID(ctx, req.VillaID); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate.Time) {
		return nil, apperrors.BadRequest("end date must not precede start date")
	}

	now := time.Now()
	category := &domain.Category{
		ID:        uuid.New().String(),
		VillaID:   req.VillaID,
		Name:      req.Name,
		StartDate: *req.StartDate,
		EndDate:   *req.EndDate,
		Status:    domain.CategoryStatusDelayed,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", err, map[string]interface{}{
			"name":     req.Name,
			"villa_id": req.VillaID,
		})
		return nil, err
	}

	if err := s.statsSvc.UpdateVillaStats(ctx, req.VillaID); err != nil {
		s.logger.Warn("Failed to update villa stats", map[string]interface{}{
			"villa_id": req.VillaID,
		})
	}

	resp := category.ToResponse()
	return &resp, nil
}

// GetByID возвращает категорию по ID вместе с ее задачами
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := category.ToResponse()

	tasks, err := s.taskRepo.GetByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, task.ToResponse())
	}

	return &resp, nil
}

// Update выполняет частичное обновление категории
func (s *CategoryService) Update(ctx context.Context, id string, req domain.CategoryUpdateRequest) (*domain.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.StartDate != nil {
		category.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		category.EndDate = *req.EndDate
	}
	if category.EndDate.Before(category.StartDate.Time) {
		return nil, apperrors.BadRequest("end date must not precede start date")
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	resp := category.ToResponse()
	return &resp, nil
}

// Delete удаляет категорию вместе с ее задачами
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.statsSvc.UpdateVillaStats(ctx, category.VillaID); err != nil {
		s.logger.Warn("Failed to update villa stats", map[string]interface{}{
			"villa_id": category.VillaID,
		})
	}

	return nil
}

// GetByVilla возвращает категории виллы в порядке создания
func (s *CategoryService) GetByVilla(ctx context.Context, villaID string) ([]domain.CategoryResponse, error) {
	if _, err := s.villaRepo.GetByID(ctx, villaID); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetByVilla(ctx, villaID)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, category.ToResponse())
	}
	return responses, nil
}
