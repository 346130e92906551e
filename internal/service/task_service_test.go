package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// svcFixture собирает сервисы на in-memory репозиториях
type svcFixture struct {
	taskRepo     *memTaskRepo
	categoryRepo *memCategoryRepo
	villaRepo    *memVillaRepo
	teamRepo     *memTeamRepo
	templateRepo *memTemplateRepo
	publisher    *recordingPublisher
	statsSvc     *StatsService
	taskSvc      *TaskService
	teamSvc      *TeamService
	templateSvc  *TemplateService

	villa    *domain.Villa
	category *domain.Category
	team     *domain.Team
}

func newSvcFixture(t *testing.T) *svcFixture {
	t.Helper()

	f := &svcFixture{
		taskRepo:     newMemTaskRepo(),
		categoryRepo: newMemCategoryRepo(),
		villaRepo:    newMemVillaRepo(),
		teamRepo:     newMemTeamRepo(),
		templateRepo: newMemTemplateRepo(),
		publisher:    &recordingPublisher{},
	}

	log := nopLogger{}
	cache := nopCache{}

	f.statsSvc = NewStatsService(f.taskRepo, f.categoryRepo, f.villaRepo, f.teamRepo, cache, f.publisher, log)
	f.taskSvc = NewTaskService(f.taskRepo, f.categoryRepo, f.villaRepo, f.teamRepo, cache, f.publisher, f.statsSvc, log, 7)
	f.teamSvc = NewTeamService(f.teamRepo, f.taskRepo, f.categoryRepo, f.taskSvc, cache, log)
	f.templateSvc = NewTemplateService(f.templateRepo, f.categoryRepo, f.villaRepo, f.teamRepo, f.taskSvc, f.publisher, log, 7)

	ctx := context.Background()
	now := time.Now()
	start := domain.NewDate(now)
	end := start.AddDays(30)

	f.villa = &domain.Villa{
		ID:        "villa-1",
		ProjectID: "project-1",
		Name:      "Villa A1",
		Status:    domain.VillaStatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.villaRepo.Create(ctx, f.villa))

	f.category = &domain.Category{
		ID:        "cat-1",
		VillaID:   "villa-1",
		Name:      "Gros oeuvre",
		StartDate: start,
		EndDate:   end,
		Status:    domain.CategoryStatusDelayed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.categoryRepo.Create(ctx, f.category))

	f.team = &domain.Team{
		ID:           "team-1",
		Name:         "Maçonnerie",
		Specialty:    "gros oeuvre",
		MembersCount: 5,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.teamRepo.Create(ctx, f.team))

	return f
}

func TestTaskService_Create_DefaultWindow(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	today := domain.Today()
	require.NotNil(t, task.PlannedStartDate)
	require.NotNil(t, task.PlannedEndDate)
	assert.True(t, task.PlannedStartDate.Equal(today.Time))
	assert.True(t, task.PlannedEndDate.Equal(today.AddDays(7).Time))

	// Фактические даты по умолчанию совпадают с плановыми
	require.NotNil(t, task.ActualStartDate)
	require.NotNil(t, task.ActualEndDate)
	assert.True(t, task.ActualStartDate.Equal(task.PlannedStartDate.Time))
	assert.True(t, task.ActualEndDate.Equal(task.PlannedEndDate.Time))

	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.Equal(t, 0, task.Progress)
	assert.Len(t, f.publisher.created, 1)
}

func TestTaskService_Create_DurationWinsOverEndDate(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	start := domain.NewDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	explicitEnd := start.AddDays(30)
	duration := 10

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:             "Dalle",
		CategoryID:       "cat-1",
		VillaID:          "villa-1",
		PlannedStartDate: &start,
		PlannedEndDate:   &explicitEnd,
		DurationDays:     &duration,
	})
	require.NoError(t, err)

	assert.True(t, task.PlannedEndDate.Equal(start.AddDays(10).Time))
}

func TestTaskService_Create_CarriesSiteFields(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	amount := 1500.50
	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
		Amount:     &amount,
		Remarks:    "Attente du rapport géotechnique",
		Photos:     []string{"photos/fondations-1.jpg", "photos/fondations-2.jpg"},
	})
	require.NoError(t, err)

	require.NotNil(t, task.Amount)
	assert.InDelta(t, 1500.50, *task.Amount, 0.001)
	assert.Equal(t, "Attente du rapport géotechnique", task.Remarks)
	assert.Equal(t, []string{"photos/fondations-1.jpg", "photos/fondations-2.jpg"}, task.Photos)

	stored, err := f.taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Attente du rapport géotechnique", stored.Remarks)
	assert.Len(t, stored.Photos, 2)
}

func TestTaskService_Update_SiteFields(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)
	assert.Empty(t, task.Remarks)

	remarks := "Reprise après intempéries"
	photos := []string{"photos/reprise.jpg"}
	updated, err := f.taskSvc.Update(ctx, task.ID, domain.TaskUpdateRequest{
		Remarks: &remarks,
		Photos:  &photos,
	})
	require.NoError(t, err)
	assert.Equal(t, remarks, updated.Remarks)
	assert.Equal(t, photos, updated.Photos)

	// Обновление других полей не трогает заметки и фото
	name := "Fondations profondes"
	updated, err = f.taskSvc.Update(ctx, task.ID, domain.TaskUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, remarks, updated.Remarks)
	assert.Equal(t, photos, updated.Photos)
}

func TestTaskService_Create_CategoryVillaMismatch(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	require.NoError(t, f.villaRepo.Create(ctx, &domain.Villa{ID: "villa-2", ProjectID: "project-1", Name: "Villa B2"}))

	_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-2",
	})
	assert.Error(t, err)
}

func TestTaskService_Create_UnknownTeam(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	missing := "team-missing"
	_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
		TeamID:     &missing,
	})
	assert.Error(t, err)
}

func TestTaskService_UpdateProgress_DrivesStatus(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	updated, err := f.taskSvc.UpdateProgress(ctx, task.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)

	updated, err = f.taskSvc.UpdateProgress(ctx, task.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)

	updated, err = f.taskSvc.UpdateProgress(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusPending, updated.Status)
}

func TestTaskService_Update_ManualDelayedIsSticky(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	delayed := domain.TaskStatusDelayed
	updated, err := f.taskSvc.Update(ctx, task.ID, domain.TaskUpdateRequest{Status: &delayed})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDelayed, updated.Status)

	// Промежуточный прогресс не снимает ручной delayed
	updated, err = f.taskSvc.UpdateProgress(ctx, task.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDelayed, updated.Status)

	// Полное завершение снимает
	updated, err = f.taskSvc.UpdateProgress(ctx, task.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, updated.Status)
}

func TestTaskService_Update_ProgressStatusRecomputedOnlyOnRelevantChanges(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	// Плановое окно полностью в прошлом: при создании положение at_risk
	start := domain.NewDate(time.Now().AddDate(0, 0, -20))
	end := domain.NewDate(time.Now().AddDate(0, 0, -10))
	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:             "Fondations",
		CategoryID:       "cat-1",
		VillaID:          "villa-1",
		PlannedStartDate: &start,
		PlannedEndDate:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressAtRisk, task.ProgressStatus)

	// Переименование не трогает кэшированное положение
	name := "Fondations profondes"
	updated, err := f.taskSvc.Update(ctx, task.ID, domain.TaskUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressAtRisk, updated.ProgressStatus)

	// Изменение прогресса пересчитывает
	updated, err = f.taskSvc.UpdateProgress(ctx, task.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressOnSchedule, updated.ProgressStatus)
}

func TestTaskService_Update_ClearTeam(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
		TeamID:     &f.team.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, task.TeamID)

	empty := ""
	updated, err := f.taskSvc.Update(ctx, task.ID, domain.TaskUpdateRequest{TeamID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.TeamID)
}

func TestTaskService_MarkReceivedAndPaid(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	amount := 15000.0
	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
		Amount:     &amount,
	})
	require.NoError(t, err)
	assert.False(t, task.IsReceived)
	assert.False(t, task.IsPaid)

	updated, err := f.taskSvc.MarkReceived(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsReceived)

	updated, err = f.taskSvc.MarkPaid(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsPaid)
}

func TestTaskService_StatsCascade(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	progress := 100
	_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
		Progress:   &progress,
	})
	require.NoError(t, err)

	_, err = f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Dalle",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	category, err := f.categoryRepo.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, 2, category.TasksCount)
	assert.Equal(t, 1, category.CompletedTasks)
	assert.Equal(t, 50, category.Progress)
	assert.Equal(t, domain.CategoryStatusDelayed, category.Status)

	villa, err := f.villaRepo.GetByID(ctx, "villa-1")
	require.NoError(t, err)
	assert.Equal(t, 50, villa.Progress)
	assert.Equal(t, domain.VillaStatusInProgress, villa.Status)
}

func TestTaskService_Delete(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	require.NoError(t, f.taskSvc.Delete(ctx, task.ID))
	assert.Len(t, f.publisher.deleted, 1)

	_, err = f.taskSvc.GetByID(ctx, task.ID)
	assert.Error(t, err)
}
