package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// VillaService представляет бизнес-логику для работы с виллами
type VillaService struct {
	villaRepo    repository.VillaRepository
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
	taskRepo     repository.TaskRepository
	cacheRepo    Cache
	logger       logger.Logger
}

// NewVillaService создает новый экземпляр VillaService
func NewVillaService(
	villaRepo repository.VillaRepository,
	projectRepo repository.ProjectRepository,
	categoryRepo repository.CategoryRepository,
	taskRepo repository.TaskRepository,
	cacheRepo Cache,
	logger logger.Logger,
) *VillaService {
	return &VillaService{
		villaRepo:    villaRepo,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		taskRepo:     taskRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
	}
}

// Create создает новую виллу
func (s *VillaService) Create(ctx context.Context, req domain.VillaCreateRequest) (*domain.VillaResponse, error) {
	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	now := time.Now()
	villa := &domain.Villa{
		ID:        uuid.New().String(),
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Type:      req.Type,
		Surface:   req.Surface,
		Status:    domain.VillaStatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.villaRepo.Create(ctx, villa); err != nil {
		s.logger.Error("Failed to create villa", err, map[string]interface{}{
			"name":       req.Name,
			"project_id": req.ProjectID,
		})
		return nil, err
	}

	resp := villa.ToResponse()
	return &resp, nil
}

// GetByID возвращает виллу по ID
func (s *VillaService) GetByID(ctx context.Context, id string) (*domain.VillaResponse, error) {
	villa, err := s.villaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := villa.ToResponse()
	return &resp, nil
}

// GetTree возвращает полное дерево виллы: категории и их задачи.
// Результат кэшируется и инвалидируется при мутациях задач
func (s *VillaService) GetTree(ctx context.Context, id string) (*domain.VillaResponse, error) {
	if tree, err := s.cacheRepo.GetVillaTree(ctx, id); err == nil {
		return tree, nil
	}

	villa, err := s.villaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetByVilla(ctx, id)
	if err != nil {
		return nil, err
	}

	tree := villa.ToResponse()
	for _, category := range categories {
		catResp := category.ToResponse()

		tasks, err := s.taskRepo.GetByCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			catResp.Tasks = append(catResp.Tasks, task.ToResponse())
		}

		tree.Categories = append(tree.Categories, catResp)
	}

	if err := s.cacheRepo.CacheVillaTree(ctx, id, &tree); err != nil {
		s.logger.Warn("Failed to cache villa tree", map[string]interface{}{
			"villa_id": id,
		})
	}

	return &tree, nil
}

// Update выполняет частичное обновление виллы
func (s *VillaService) Update(ctx context.Context, id string, req domain.VillaUpdateRequest) (*domain.VillaResponse, error) {
	villa, err := s.villaRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		villa.Name = *req.Name
	}
	if req.Type != nil {
		villa.Type = *req.Type
	}
	if req.Surface != nil {
		villa.Surface = *req.Surface
	}
	if req.Status != nil {
		villa.Status = *req.Status
	}

	if err := s.villaRepo.Update(ctx, villa); err != nil {
		return nil, err
	}

	if err := s.cacheRepo.InvalidateVillaTree(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate villa tree cache", map[string]interface{}{
			"villa_id": id,
		})
	}

	resp := villa.ToResponse()
	return &resp, nil
}

// Delete удаляет виллу вместе с категориями и задачами
func (s *VillaService) Delete(ctx context.Context, id string) error {
	if err := s.villaRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cacheRepo.InvalidateVillaTree(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate villa tree cache", map[string]interface{}{
			"villa_id": id,
		})
	}

	return nil
}

// List возвращает список вилл с фильтрацией
func (s *VillaService) List(ctx context.Context, filter repository.VillaFilter) ([]domain.VillaResponse, int, error) {
	villas, err := s.villaRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.villaRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]domain.VillaResponse, 0, len(villas))
	for _, villa := range villas {
		responses = append(responses, villa.ToResponse())
	}

	return responses, total, nil
}
