package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantierpro/chantierpro/internal/domain"
)

func newVillaFixture(t *testing.T) (*svcFixture, *VillaService) {
	t.Helper()
	f := newSvcFixture(t)

	projectRepo := newMemProjectRepo()
	require.NoError(t, projectRepo.Create(context.Background(), &domain.Project{
		ID:   "project-1",
		Name: "Les Oliviers",
	}))

	svc := NewVillaService(f.villaRepo, projectRepo, f.categoryRepo, f.taskRepo, nopCache{}, nopLogger{})
	return f, svc
}

func TestVillaService_Create(t *testing.T) {
	_, svc := newVillaFixture(t)

	villa, err := svc.Create(context.Background(), domain.VillaCreateRequest{
		ProjectID: "project-1",
		Name:      "Villa B2",
		Type:      "duplex",
		Surface:   240.5,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VillaStatusNotStarted, villa.Status)
	assert.InDelta(t, 240.5, villa.Surface, 0.001)
}

func TestVillaService_Update_Surface(t *testing.T) {
	f, svc := newVillaFixture(t)
	ctx := context.Background()

	surface := 310.0
	villa, err := svc.Update(ctx, "villa-1", domain.VillaUpdateRequest{Surface: &surface})
	require.NoError(t, err)
	assert.InDelta(t, 310.0, villa.Surface, 0.001)

	stored, err := f.villaRepo.GetByID(ctx, "villa-1")
	require.NoError(t, err)
	assert.InDelta(t, 310.0, stored.Surface, 0.001)
}

func TestVillaService_Create_UnknownProject(t *testing.T) {
	_, svc := newVillaFixture(t)

	_, err := svc.Create(context.Background(), domain.VillaCreateRequest{
		ProjectID: "project-missing",
		Name:      "Villa B2",
	})
	assert.Error(t, err)
}

func TestVillaService_GetTree(t *testing.T) {
	f, svc := newVillaFixture(t)
	ctx := context.Background()

	_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	tree, err := svc.GetTree(ctx, "villa-1")
	require.NoError(t, err)

	require.Len(t, tree.Categories, 1)
	assert.Equal(t, "cat-1", tree.Categories[0].ID)
	require.Len(t, tree.Categories[0].Tasks, 1)
	assert.Equal(t, "Fondations", tree.Categories[0].Tasks[0].Name)
}

func TestVillaService_Update_ManualDelayedStatus(t *testing.T) {
	_, svc := newVillaFixture(t)
	ctx := context.Background()

	delayed := domain.VillaStatusDelayed
	villa, err := svc.Update(ctx, "villa-1", domain.VillaUpdateRequest{Status: &delayed})
	require.NoError(t, err)
	assert.Equal(t, domain.VillaStatusDelayed, villa.Status)
}
