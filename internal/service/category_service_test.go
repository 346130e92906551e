package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chantierpro/chantierpro/internal/domain"
)

func newCategoryFixture(t *testing.T) (*svcFixture, *CategoryService) {
	t.Helper()
	f := newSvcFixture(t)
	svc := NewCategoryService(f.categoryRepo, f.villaRepo, f.taskRepo, f.statsSvc, nopLogger{})
	return f, svc
}

func TestCategoryService_Create(t *testing.T) {
	f, svc := newCategoryFixture(t)
	ctx := context.Background()

	start := domain.NewDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	end := start.AddDays(30)

	category, err := svc.Create(ctx, domain.CategoryCreateRequest{
		VillaID:   "villa-1",
		Name:      "Second oeuvre",
		StartDate: &start,
		EndDate:   &end,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryStatusDelayed, category.Status)
	assert.Equal(t, 0, category.Progress)

	// Каскад к показателям виллы
	villa, err := f.villaRepo.GetByID(ctx, "villa-1")
	require.NoError(t, err)
	assert.Equal(t, 2, villa.CategoriesCount)
}

func TestCategoryService_Create_RejectsInvertedDates(t *testing.T) {
	_, svc := newCategoryFixture(t)

	start := domain.NewDate(time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	end := domain.NewDate(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.Create(context.Background(), domain.CategoryCreateRequest{
		VillaID:   "villa-1",
		Name:      "Second oeuvre",
		StartDate: &start,
		EndDate:   &end,
	})
	assert.Error(t, err)
}

func TestCategoryService_Update_RevalidatesDates(t *testing.T) {
	f, svc := newCategoryFixture(t)
	ctx := context.Background()

	// Конец раньше существующего начала
	badEnd := domain.NewDate(f.category.StartDate.AddDays(-1).Time)
	_, err := svc.Update(ctx, "cat-1", domain.CategoryUpdateRequest{EndDate: &badEnd})
	assert.Error(t, err)

	goodEnd := f.category.StartDate.AddDays(60)
	updated, err := svc.Update(ctx, "cat-1", domain.CategoryUpdateRequest{EndDate: &goodEnd})
	require.NoError(t, err)
	assert.True(t, updated.EndDate.Equal(goodEnd.Time))
}

func TestCategoryService_GetByID_IncludesTasks(t *testing.T) {
	f, svc := newCategoryFixture(t)
	ctx := context.Background()

	_, err := f.taskSvc.Create(ctx, domain.TaskCreateRequest{
		Name:       "Fondations",
		CategoryID: "cat-1",
		VillaID:    "villa-1",
	})
	require.NoError(t, err)

	category, err := svc.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	require.Len(t, category.Tasks, 1)
	assert.Equal(t, "Fondations", category.Tasks[0].Name)
}
