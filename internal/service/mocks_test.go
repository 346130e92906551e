package service

import (
	"context"
	"sync"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
)

// nopLogger - логгер-заглушка для тестов
type nopLogger struct{}

func (nopLogger) Debug(msg string, fields ...map[string]interface{})            {}
func (nopLogger) Info(msg string, fields ...map[string]interface{})             {}
func (nopLogger) Warn(msg string, fields ...map[string]interface{})             {}
func (nopLogger) Error(msg string, err error, fields ...map[string]interface{}) {}
func (nopLogger) Fatal(msg string, err error, fields ...map[string]interface{}) {}
func (l nopLogger) With(key string, value interface{}) logger.Logger            { return l }

// nopCache - кэш-заглушка, всегда возвращающая промах
type nopCache struct{}

func (nopCache) CacheTask(ctx context.Context, task *domain.Task) error { return nil }
func (nopCache) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return nil, apperrors.ErrNotFound
}
func (nopCache) InvalidateTask(ctx context.Context, id string) error { return nil }
func (nopCache) CacheVillaTree(ctx context.Context, villaID string, tree *domain.VillaResponse) error {
	return nil
}
func (nopCache) GetVillaTree(ctx context.Context, villaID string) (*domain.VillaResponse, error) {
	return nil, apperrors.ErrNotFound
}
func (nopCache) InvalidateVillaTree(ctx context.Context, villaID string) error { return nil }
func (nopCache) CacheTeamList(ctx context.Context, teams []*domain.Team) error { return nil }
func (nopCache) GetTeamList(ctx context.Context) ([]*domain.Team, error) {
	return nil, apperrors.ErrNotFound
}
func (nopCache) InvalidateTeamList(ctx context.Context) error { return nil }

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu       sync.Mutex
	created  []string
	updated  []string
	deleted  []string
	applied  int
	progress []string
}

func (p *recordingPublisher) PublishTaskCreated(ctx context.Context, task *domain.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, task.ID)
	return nil
}

func (p *recordingPublisher) PublishTaskUpdated(ctx context.Context, task *domain.Task, changes map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, task.ID)
	return nil
}

func (p *recordingPublisher) PublishTaskDeleted(ctx context.Context, task *domain.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, task.ID)
	return nil
}

func (p *recordingPublisher) PublishTemplateApplied(ctx context.Context, report *domain.ApplyReport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied++
	return nil
}

func (p *recordingPublisher) PublishVillaProgress(ctx context.Context, villa *domain.Villa) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = append(p.progress, villa.ID)
	return nil
}

// memTaskRepo - in-memory реализация TaskRepository с сохранением порядка вставки
type memTaskRepo struct {
	mu    sync.Mutex
	order []string
	tasks map[string]domain.Task

	failOnName string // имя задачи, создание которой завершается ошибкой
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[string]domain.Task{}}
}

func (r *memTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOnName != "" && task.Name == r.failOnName {
		return apperrors.InternalServer(apperrors.ErrServiceUnavailable)
	}
	r.order = append(r.order, task.ID)
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task", id)
	}
	copied := task
	return &copied, nil
}

func (r *memTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return apperrors.NotFound("task", task.ID)
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return apperrors.NotFound("task", id)
	}
	delete(r.tasks, id)
	for i, tid := range r.order {
		if tid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memTaskRepo) all() []*domain.Task {
	tasks := make([]*domain.Task, 0, len(r.order))
	for _, id := range r.order {
		task := r.tasks[id]
		copied := task
		tasks = append(tasks, &copied)
	}
	return tasks
}

func (r *memTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Task{}
	for _, task := range r.all() {
		if filter.CategoryID != nil && task.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.VillaID != nil && task.VillaID != *filter.VillaID {
			continue
		}
		if filter.TeamID != nil && (task.TeamID == nil || *task.TeamID != *filter.TeamID) {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.IsPaid != nil && task.IsPaid != *filter.IsPaid {
			continue
		}
		if filter.IsReceived != nil && task.IsReceived != *filter.IsReceived {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func (r *memTaskRepo) Count(ctx context.Context, filter repository.TaskFilter) (int, error) {
	tasks, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func (r *memTaskRepo) GetByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error) {
	return r.List(ctx, repository.TaskFilter{CategoryID: &categoryID})
}

func (r *memTaskRepo) GetByVilla(ctx context.Context, villaID string) ([]*domain.Task, error) {
	return r.List(ctx, repository.TaskFilter{VillaID: &villaID})
}

func (r *memTaskRepo) GetUnreceivedCompleted(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	completed := domain.TaskStatusCompleted
	received := false
	filter.Status = &completed
	filter.IsReceived = &received
	return r.List(ctx, filter)
}

func (r *memTaskRepo) GetUnpaid(ctx context.Context, filter repository.TaskFilter) ([]*domain.Task, error) {
	paid := false
	filter.IsPaid = &paid
	return r.List(ctx, filter)
}

func (r *memTaskRepo) GetAmountsByProject(ctx context.Context, projectID string) (*domain.TaskAmounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	amounts := &domain.TaskAmounts{}
	for _, task := range r.all() {
		if task.Amount == nil {
			continue
		}
		amounts.Total += *task.Amount
		if task.IsPaid {
			amounts.Paid += *task.Amount
		}
	}
	return amounts, nil
}

// memCategoryRepo - in-memory реализация CategoryRepository
type memCategoryRepo struct {
	mu         sync.Mutex
	order      []string
	categories map[string]domain.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[string]domain.Category{}}
}

func (r *memCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, category.ID)
	r.categories[category.ID] = *category
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, apperrors.NotFound("category", id)
	}
	copied := category
	return &copied, nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return apperrors.NotFound("category", category.ID)
	}
	r.categories[category.ID] = *category
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return apperrors.NotFound("category", id)
	}
	delete(r.categories, id)
	return nil
}

func (r *memCategoryRepo) GetByVilla(ctx context.Context, villaID string) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Category{}
	for _, id := range r.order {
		category, ok := r.categories[id]
		if !ok || category.VillaID != villaID {
			continue
		}
		copied := category
		result = append(result, &copied)
	}
	return result, nil
}

// memVillaRepo - in-memory реализация VillaRepository
type memVillaRepo struct {
	mu     sync.Mutex
	order  []string
	villas map[string]domain.Villa
}

func newMemVillaRepo() *memVillaRepo {
	return &memVillaRepo{villas: map[string]domain.Villa{}}
}

func (r *memVillaRepo) Create(ctx context.Context, villa *domain.Villa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, villa.ID)
	r.villas[villa.ID] = *villa
	return nil
}

func (r *memVillaRepo) GetByID(ctx context.Context, id string) (*domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	villa, ok := r.villas[id]
	if !ok {
		return nil, apperrors.NotFound("villa", id)
	}
	copied := villa
	return &copied, nil
}

func (r *memVillaRepo) Update(ctx context.Context, villa *domain.Villa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.villas[villa.ID]; !ok {
		return apperrors.NotFound("villa", villa.ID)
	}
	r.villas[villa.ID] = *villa
	return nil
}

func (r *memVillaRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.villas[id]; !ok {
		return apperrors.NotFound("villa", id)
	}
	delete(r.villas, id)
	return nil
}

func (r *memVillaRepo) List(ctx context.Context, filter repository.VillaFilter) ([]*domain.Villa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Villa{}
	for _, id := range r.order {
		villa, ok := r.villas[id]
		if !ok {
			continue
		}
		if filter.ProjectID != nil && villa.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && villa.Status != *filter.Status {
			continue
		}
		copied := villa
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memVillaRepo) Count(ctx context.Context, filter repository.VillaFilter) (int, error) {
	villas, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(villas), nil
}

// memTeamRepo - in-memory реализация TeamRepository
type memTeamRepo struct {
	mu    sync.Mutex
	order []string
	teams map[string]domain.Team
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{teams: map[string]domain.Team{}}
}

func (r *memTeamRepo) Create(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, team.ID)
	r.teams[team.ID] = *team
	return nil
}

func (r *memTeamRepo) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, apperrors.NotFound("team", id)
	}
	copied := team
	return &copied, nil
}

func (r *memTeamRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Team{}
	// Возвращаем в обратном порядке, имитируя произвольный порядок выборки
	for i := len(ids) - 1; i >= 0; i-- {
		if team, ok := r.teams[ids[i]]; ok {
			copied := team
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memTeamRepo) Update(ctx context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[team.ID]; !ok {
		return apperrors.NotFound("team", team.ID)
	}
	r.teams[team.ID] = *team
	return nil
}

func (r *memTeamRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return apperrors.NotFound("team", id)
	}
	delete(r.teams, id)
	return nil
}

func (r *memTeamRepo) List(ctx context.Context, filter repository.TeamFilter) ([]*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Team{}
	for _, id := range r.order {
		team, ok := r.teams[id]
		if !ok {
			continue
		}
		if filter.Specialty != nil && team.Specialty != *filter.Specialty {
			continue
		}
		copied := team
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memTeamRepo) Count(ctx context.Context, filter repository.TeamFilter) (int, error) {
	teams, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(teams), nil
}

// memProjectRepo - in-memory реализация ProjectRepository
type memProjectRepo struct {
	mu       sync.Mutex
	projects map[string]domain.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: map[string]domain.Project{}}
}

func (r *memProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok {
		return nil, apperrors.NotFound("project", id)
	}
	copied := project
	return &copied, nil
}

func (r *memProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return apperrors.NotFound("project", project.ID)
	}
	r.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return apperrors.NotFound("project", id)
	}
	delete(r.projects, id)
	return nil
}

func (r *memProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Project{}
	for _, project := range r.projects {
		copied := project
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memProjectRepo) CountVillas(ctx context.Context, projectID string) (int, error) {
	return 0, nil
}

// memTemplateRepo - in-memory реализация TemplateRepository
type memTemplateRepo struct {
	mu        sync.Mutex
	templates map[string]domain.Template
}

func newMemTemplateRepo() *memTemplateRepo {
	return &memTemplateRepo{templates: map[string]domain.Template{}}
}

func (r *memTemplateRepo) Create(ctx context.Context, template *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[template.ID] = *template
	return nil
}

func (r *memTemplateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return nil, apperrors.NotFound("template", id)
	}
	copied := template
	return &copied, nil
}

func (r *memTemplateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return apperrors.NotFound("template", id)
	}
	delete(r.templates, id)
	return nil
}

func (r *memTemplateRepo) List(ctx context.Context) ([]*domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domain.Template{}
	for _, template := range r.templates {
		copied := template
		result = append(result, &copied)
	}
	return result, nil
}
