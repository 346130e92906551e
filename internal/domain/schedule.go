package domain

import (
	"math"
	"time"
)

// Пороговые значения отклонения прогресса от ожидаемого (в процентных пунктах)
const (
	aheadThreshold  = 10
	atRiskThreshold = -20
)

// DeriveStatus вычисляет статус задачи по прогрессу
func DeriveStatus(progress int) TaskStatus {
	switch {
	case progress >= 100:
		return TaskStatusCompleted
	case progress > 0:
		return TaskStatusInProgress
	default:
		return TaskStatusPending
	}
}

// NextStatus вычисляет следующий статус задачи при изменении прогресса.
// Статус delayed выставляется только вручную и сохраняется при любом
// прогрессе, кроме полного завершения
func NextStatus(current TaskStatus, progress int) TaskStatus {
	if current == TaskStatusDelayed && progress < 100 {
		return TaskStatusDelayed
	}
	return DeriveStatus(progress)
}

// DeriveProgressStatus вычисляет положение задачи относительно плана.
// Ожидаемый прогресс линейно интерполируется по плановому окну; при
// вырожденном окне (начало совпадает с концом) ожидается 100%
func DeriveProgressStatus(plannedStart, plannedEnd *Date, progress int, now time.Time) ProgressStatus {
	if plannedStart == nil || plannedEnd == nil {
		return ProgressOnSchedule
	}

	start := plannedStart.Time
	end := plannedEnd.Time

	if now.Before(start) {
		if progress > 0 {
			return ProgressAhead
		}
		return ProgressOnSchedule
	}

	if now.After(end) {
		if progress >= 100 {
			return ProgressOnSchedule
		}
		return ProgressAtRisk
	}

	expected := 100
	if window := end.Sub(start); window > 0 {
		expected = int(math.Round(100 * float64(now.Sub(start)) / float64(window)))
		if expected < 0 {
			expected = 0
		}
		if expected > 100 {
			expected = 100
		}
	}

	diff := progress - expected
	switch {
	case diff >= aheadThreshold:
		return ProgressAhead
	case diff <= atRiskThreshold:
		return ProgressAtRisk
	case diff < 0:
		return ProgressBehind
	default:
		return ProgressOnSchedule
	}
}
