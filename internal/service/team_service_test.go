package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantierpro/chantierpro/internal/domain"
)

func seedTeamTasks(t *testing.T, f *svcFixture) {
	t.Helper()
	ctx := context.Background()

	now := time.Now()
	second := &domain.Team{ID: "team-2", Name: "Plomberie", Specialty: "fluides", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.teamRepo.Create(ctx, second))

	// team-2 упоминается первым, team-1 дважды
	for _, tc := range []struct {
		name string
		team string
	}{
		{"Réseaux enterrés", "team-2"},
		{"Fondations", "team-1"},
		{"Dalle", "team-1"},
	} {
		teamID := tc.team
		_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
			Name:       tc.name,
			CategoryID: "cat-1",
			VillaID:    "villa-1",
			TeamID:     &teamID,
		})
		require.NoError(t, err)
	}
}

func TestTeamService_TeamsForCategory_FirstMentionOrder(t *testing.T) {
	f := newSvcFixture(t)
	seedTeamTasks(t, f)

	teams, err := f.teamSvc.TeamsForCategory(context.Background(), "cat-1")
	require.NoError(t, err)

	// Каждая бригада один раз, в порядке первого упоминания
	require.Len(t, teams, 2)
	assert.Equal(t, "team-2", teams[0].ID)
	assert.Equal(t, "team-1", teams[1].ID)
}

func TestTeamService_TeamsForCategory_ExcludesDeletedTeams(t *testing.T) {
	f := newSvcFixture(t)
	seedTeamTasks(t, f)
	ctx := context.Background()

	require.NoError(t, f.teamRepo.Delete(ctx, "team-2"))

	teams, err := f.teamSvc.TeamsForCategory(ctx, "cat-1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "team-1", teams[0].ID)
}

func TestTeamService_TasksForCategory_Filter(t *testing.T) {
	f := newSvcFixture(t)
	seedTeamTasks(t, f)
	ctx := context.Background()

	all, err := f.teamSvc.TasksForCategory(ctx, "cat-1", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	all, err = f.teamSvc.TasksForCategory(ctx, "cat-1", "all")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := f.teamSvc.TasksForCategory(ctx, "cat-1", "team-1")
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	filtered, err = f.teamSvc.TasksForCategory(ctx, "cat-1", "team-unknown")
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestTeamService_AssignToCategory(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	task, err := f.teamSvc.AssignToCategory(ctx, "cat-1", "team-1")
	require.NoError(t, err)

	assert.Equal(t, "Travail - Maçonnerie", task.Name)
	assert.Equal(t, "cat-1", task.CategoryID)
	assert.Equal(t, "villa-1", task.VillaID)
	require.NotNil(t, task.TeamID)
	assert.Equal(t, "team-1", *task.TeamID)

	// Недельное плановое окно назначения
	assert.True(t, task.PlannedEndDate.Equal(task.PlannedStartDate.AddDays(7).Time))
}

func TestTeamService_AssignToCategory_UnknownTeam(t *testing.T) {
	f := newSvcFixture(t)

	_, err := f.teamSvc.AssignToCategory(context.Background(), "cat-1", "team-unknown")
	assert.Error(t, err)
}

func TestTeamService_CRUD(t *testing.T) {
	f := newSvcFixture(t)
	ctx := context.Background()

	team, err := f.teamSvc.Create(ctx, domain.TeamCreateRequest{
		Name:         "Électricité",
		Specialty:    "courants forts",
		MembersCount: 3,
	})
	require.NoError(t, err)

	name := "Électricité générale"
	updated, err := f.teamSvc.Update(ctx, team.ID, domain.TeamUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	require.NoError(t, f.teamSvc.Delete(ctx, team.ID))
	_, err = f.teamSvc.GetByID(ctx, team.ID)
	assert.Error(t, err)
}
