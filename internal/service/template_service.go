package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/messaging"
	"github.com/chantierpro/chantierpro/internal/repository"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// TemplateService представляет бизнес-логику для работы с шаблонами планирования
type TemplateService struct {
	templateRepo        repository.TemplateRepository
	categoryRepo        repository.CategoryRepository
	villaRepo           repository.VillaRepository
	teamRepo            repository.TeamRepository
	taskSvc             *TaskService
	producer            messaging.Publisher
	logger              logger.Logger
	defaultDurationDays int
}

// NewTemplateService создает новый экземпляр TemplateService
func NewTemplateService(
	templateRepo repository.TemplateRepository,
	categoryRepo repository.CategoryRepository,
	villaRepo repository.VillaRepository,
	teamRepo repository.TeamRepository,
	taskSvc *TaskService,
	producer messaging.Publisher,
	logger logger.Logger,
	defaultDurationDays int,
) *TemplateService {
	return &TemplateService{
		templateRepo:        templateRepo,
		categoryRepo:        categoryRepo,
		villaRepo:           villaRepo,
		teamRepo:            teamRepo,
		taskSvc:             taskSvc,
		producer:            producer,
		logger:              logger,
		defaultDurationDays: defaultDurationDays,
	}
}

// Create создает новый шаблон
func (s *TemplateService) Create(ctx context.Context, req domain.TemplateCreateRequest) (*domain.TemplateResponse, error) {
	for _, category := range req.Categories {
		if category.Name == "" {
			return nil, apperrors.BadRequest("template category name is required")
		}
		for _, team := range category.Teams {
			if team.Name == "" {
				return nil, apperrors.BadRequest("template team name is required")
			}
			for _, task := range team.Tasks {
				if task.Name == "" {
					return nil, apperrors.BadRequest("template task name is required")
				}
				if _, err := task.AmountValue(); err != nil {
					return nil, apperrors.ValidationError(map[string]interface{}{
						"task":   task.Name,
						"amount": task.Amount,
					})
				}
			}
		}
	}

	template := &domain.Template{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Categories:  req.Categories,
		CreatedAt:   time.Now(),
	}

	if err := s.templateRepo.Create(ctx, template); err != nil {
		s.logger.Error("Failed to create template", err, map[string]interface{}{
			"name": req.Name,
		})
		return nil, err
	}

	resp := template.ToResponse()
	return &resp, nil
}

// GetByID возвращает шаблон по ID
func (s *TemplateService) GetByID(ctx context.Context, id string) (*domain.TemplateResponse, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := template.ToResponse()
	return &resp, nil
}

// Delete удаляет шаблон
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.templateRepo.Delete(ctx, id)
}

// List возвращает все шаблоны
func (s *TemplateService) List(ctx context.Context) ([]domain.TemplateResponse, error) {
	templates, err := s.templateRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]domain.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, template.ToResponse())
	}
	return responses, nil
}

// Apply разворачивает шаблон в задачи целевой категории.
// Задачи создаются последовательно; сбой одной задачи логируется и не
// прерывает остальные. Повторное применение добавляет задачи заново,
// дедупликации нет
func (s *TemplateService) Apply(ctx context.Context, templateID string, req domain.TemplateApplyRequest) (*domain.ApplyReport, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if _, err := s.villaRepo.GetByID(ctx, req.VillaID); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.VillaID != req.VillaID {
		return nil, apperrors.BadRequest("category does not belong to the given villa")
	}

	registry, err := s.teamRepo.List(ctx, repository.TeamFilter{})
	if err != nil {
		return nil, err
	}

	report := &domain.ApplyReport{
		TemplateID: templateID,
		VillaID:    req.VillaID,
		CategoryID: req.CategoryID,
	}

	for _, categoryBP := range template.Categories {
		matched := make([]domain.TeamBlueprint, 0, len(categoryBP.Teams))
		for _, teamBP := range categoryBP.Teams {
			if teamBP.Matches(req.TeamFilter) {
				matched = append(matched, teamBP)
			} else {
				report.Skipped += len(teamBP.Tasks)
			}
		}
		if len(matched) == 0 {
			continue
		}

		for _, teamBP := range matched {
			teamID := resolveTeamID(registry, teamBP)

			for _, taskBP := range teamBP.Tasks {
				amount, err := taskBP.AmountValue()
				if err != nil {
					report.Failed = append(report.Failed, domain.ApplyFailure{
						TaskName: taskBP.Name,
						TeamName: teamBP.Name,
						Reason:   err.Error(),
					})
					continue
				}

				duration := taskBP.DurationDays(s.defaultDurationDays)
				createReq := domain.TaskCreateRequest{
					Name:             taskBP.Name,
					Description:      taskBP.Description,
					CategoryID:       req.CategoryID,
					VillaID:          req.VillaID,
					TeamID:           teamID,
					PlannedStartDate: taskBP.PlannedStartDate,
					DurationDays:     &duration,
					Amount:           amount,
				}

				if _, err := s.taskSvc.Create(ctx, createReq); err != nil {
					s.logger.Error("Failed to create task from template", err, map[string]interface{}{
						"template_id": templateID,
						"task_name":   taskBP.Name,
						"team_name":   teamBP.Name,
					})
					report.Failed = append(report.Failed, domain.ApplyFailure{
						TaskName: taskBP.Name,
						TeamName: teamBP.Name,
						Reason:   err.Error(),
					})
					continue
				}
				report.Created++
			}
		}
	}

	if err := s.producer.PublishTemplateApplied(ctx, report); err != nil {
		s.logger.Warn("Failed to publish template applied event", map[string]interface{}{
			"template_id": templateID,
		})
	}

	return report, nil
}

// resolveTeamID сопоставляет бригаду шаблона с живым реестром по
// идентификатору или названию. Несопоставленные бригады не блокируют
// создание задач, задачи остаются без исполнителя
func resolveTeamID(registry []*domain.Team, bp domain.TeamBlueprint) *string {
	for _, team := range registry {
		if team.ID == bp.ID || strings.EqualFold(team.Name, bp.Name) {
			id := team.ID
			return &id
		}
	}
	return nil
}
