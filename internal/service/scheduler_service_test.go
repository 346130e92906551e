package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/pkg/config"
)

func newSchedulerFixture(t *testing.T) (*svcFixture, *SchedulerService) {
	t.Helper()
	f := newSvcFixture(t)
	scheduler := NewSchedulerService(
		f.villaRepo,
		f.taskRepo,
		f.teamRepo,
		f.statsSvc,
		nopCache{},
		&config.SchedulerConfig{
			ProgressSweepCron: "0 0 * * * *",
			TeamStatsCron:     "0 30 * * * *",
			SweepConcurrency:  2,
		},
		nopLogger{},
	)
	return f, scheduler
}

func TestSchedulerService_SweepRecomputesStaleStatuses(t *testing.T) {
	f, scheduler := newSchedulerFixture(t)
	ctx := context.Background()

	// Задача с окном в прошлом, но положение зафиксировано как on_schedule
	start := domain.NewDate(time.Now().AddDate(0, 0, -20))
	end := domain.NewDate(time.Now().AddDate(0, 0, -10))
	stale := &domain.Task{
		ID:               "task-stale",
		Name:             "Fondations",
		CategoryID:       "cat-1",
		VillaID:          "villa-1",
		Status:           domain.TaskStatusInProgress,
		Progress:         50,
		ProgressStatus:   domain.ProgressOnSchedule,
		PlannedStartDate: &start,
		PlannedEndDate:   &end,
	}
	require.NoError(t, f.taskRepo.Create(ctx, stale))

	require.NoError(t, scheduler.SweepProgressStatuses(ctx))

	swept, err := f.taskRepo.GetByID(ctx, "task-stale")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressAtRisk, swept.ProgressStatus)
}

func TestSchedulerService_SweepSkipsCompletedAndUndated(t *testing.T) {
	f, scheduler := newSchedulerFixture(t)
	ctx := context.Background()

	start := domain.NewDate(time.Now().AddDate(0, 0, -20))
	end := domain.NewDate(time.Now().AddDate(0, 0, -10))
	completed := &domain.Task{
		ID:               "task-done",
		Name:             "Dalle",
		CategoryID:       "cat-1",
		VillaID:          "villa-1",
		Status:           domain.TaskStatusCompleted,
		Progress:         100,
		ProgressStatus:   domain.ProgressAhead,
		PlannedStartDate: &start,
		PlannedEndDate:   &end,
	}
	undated := &domain.Task{
		ID:             "task-undated",
		Name:           "Murs",
		CategoryID:     "cat-1",
		VillaID:        "villa-1",
		Status:         domain.TaskStatusPending,
		ProgressStatus: domain.ProgressBehind,
	}
	require.NoError(t, f.taskRepo.Create(ctx, completed))
	require.NoError(t, f.taskRepo.Create(ctx, undated))

	require.NoError(t, scheduler.SweepProgressStatuses(ctx))

	// Завершенные и задачи без плановых дат не пересчитываются
	task, err := f.taskRepo.GetByID(ctx, "task-done")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressAhead, task.ProgressStatus)

	task, err = f.taskRepo.GetByID(ctx, "task-undated")
	require.NoError(t, err)
	assert.Equal(t, domain.ProgressBehind, task.ProgressStatus)
}

func TestSchedulerService_RefreshTeamStats(t *testing.T) {
	f, scheduler := newSchedulerFixture(t)
	ctx := context.Background()

	progress := 100
	_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
		TeamID:     &f.team.ID,
		Progress:   &progress,
	})
	require.NoError(t, err)

	require.NoError(t, scheduler.RefreshTeamStats(ctx))

	team, err := f.teamRepo.GetByID(ctx, "team-1")
	require.NoError(t, err)
	assert.Equal(t, 0, team.ActiveTasks)
	assert.Equal(t, 100, team.Performance)
}
