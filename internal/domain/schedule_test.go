package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, TaskStatusPending, DeriveStatus(0))
	assert.Equal(t, TaskStatusInProgress, DeriveStatus(1))
	assert.Equal(t, TaskStatusInProgress, DeriveStatus(99))
	assert.Equal(t, TaskStatusCompleted, DeriveStatus(100))
	assert.Equal(t, TaskStatusCompleted, DeriveStatus(150))
}

func TestNextStatus_DelayedIsSticky(t *testing.T) {
	assert.Equal(t, TaskStatusDelayed, NextStatus(TaskStatusDelayed, 0))
	assert.Equal(t, TaskStatusDelayed, NextStatus(TaskStatusDelayed, 50))
	assert.Equal(t, TaskStatusDelayed, NextStatus(TaskStatusDelayed, 99))

	// Полное завершение снимает ручной delayed
	assert.Equal(t, TaskStatusCompleted, NextStatus(TaskStatusDelayed, 100))
}

func TestNextStatus_FollowsProgress(t *testing.T) {
	assert.Equal(t, TaskStatusInProgress, NextStatus(TaskStatusPending, 40))
	assert.Equal(t, TaskStatusCompleted, NextStatus(TaskStatusInProgress, 100))
	assert.Equal(t, TaskStatusPending, NextStatus(TaskStatusInProgress, 0))
}

func TestDeriveProgressStatus_MissingDates(t *testing.T) {
	now := time.Now()
	end := NewDate(now)

	assert.Equal(t, ProgressOnSchedule, DeriveProgressStatus(nil, nil, 50, now))
	assert.Equal(t, ProgressOnSchedule, DeriveProgressStatus(nil, &end, 0, now))
	assert.Equal(t, ProgressOnSchedule, DeriveProgressStatus(&end, nil, 90, now))
}

func TestDeriveProgressStatus_BeforeWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	start := NewDate(now.AddDate(0, 0, 5))
	end := NewDate(now.AddDate(0, 0, 15))

	assert.Equal(t, ProgressOnSchedule, DeriveProgressStatus(&start, &end, 0, now))
	assert.Equal(t, ProgressAhead, DeriveProgressStatus(&start, &end, 10, now))
}

func TestDeriveProgressStatus_AfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	start := NewDate(now.AddDate(0, 0, -15))
	end := NewDate(now.AddDate(0, 0, -5))

	assert.Equal(t, ProgressAtRisk, DeriveProgressStatus(&start, &end, 99, now))
	assert.Equal(t, ProgressOnSchedule, DeriveProgressStatus(&start, &end, 100, now))
}

func TestDeriveProgressStatus_WithinWindow(t *testing.T) {
	// Окно в 10 дней, сейчас ровно середина: ожидается 50%
	start := NewDate(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	end := NewDate(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	now := time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		progress int
		want     ProgressStatus
	}{
		{"well ahead", 90, ProgressAhead},
		{"ahead boundary", 60, ProgressAhead},
		{"on schedule exact", 50, ProgressOnSchedule},
		{"slightly above", 55, ProgressOnSchedule},
		{"slightly behind", 45, ProgressBehind},
		{"behind boundary", 31, ProgressBehind},
		{"at risk boundary", 30, ProgressAtRisk},
		{"far behind", 0, ProgressAtRisk},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveProgressStatus(&start, &end, tc.progress, now))
		})
	}
}

func TestDeriveProgressStatus_DegenerateWindow(t *testing.T) {
	day := NewDate(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	now := day.Time

	// Начало совпадает с концом: ожидается 100%
	assert.Equal(t, ProgressAtRisk, DeriveProgressStatus(&day, &day, 0, now))
	assert.Equal(t, ProgressAtRisk, DeriveProgressStatus(&day, &day, 70, now))
	assert.Equal(t, ProgressBehind, DeriveProgressStatus(&day, &day, 90, now))
	assert.Equal(t, ProgressOnSchedule, DeriveProgressStatus(&day, &day, 100, now))
}
