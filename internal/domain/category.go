package domain

import (
	"time"
)

// CategoryStatus определяет агрегированный статус категории работ
type CategoryStatus string

const (
	// CategoryStatusOnSchedule - все задачи категории завершены
	CategoryStatusOnSchedule CategoryStatus = "on_schedule"
	// CategoryStatusInProgress - категория выполнена более чем на 75%
	CategoryStatusInProgress CategoryStatus = "in_progress"
	// CategoryStatusWarning - категория выполнена более чем на 50%
	CategoryStatusWarning CategoryStatus = "warning"
	// CategoryStatusDelayed - категория выполнена на 50% и менее
	CategoryStatusDelayed CategoryStatus = "delayed"
)

// Category представляет категорию строительных работ внутри виллы
type Category struct {
	ID             string         `json:"id" db:"id"`
	VillaID        string         `json:"villa_id" db:"villa_id"`
	Name           string         `json:"name" db:"name"`
	StartDate      Date           `json:"start_date" db:"start_date"`
	EndDate        Date           `json:"end_date" db:"end_date"`
	Status         CategoryStatus `json:"status" db:"status"`
	Progress       int            `json:"progress" db:"progress"`
	TasksCount     int            `json:"tasks_count" db:"tasks_count"`
	CompletedTasks int            `json:"completed_tasks" db:"completed_tasks"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// CategoryCreateRequest представляет данные для создания категории
type CategoryCreateRequest struct {
	VillaID   string `json:"villa_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	StartDate *Date  `json:"start_date" validate:"required"`
	EndDate   *Date  `json:"end_date" validate:"required"`
}

// CategoryUpdateRequest представляет данные для частичного обновления категории
type CategoryUpdateRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	StartDate *Date   `json:"start_date,omitempty"`
	EndDate   *Date   `json:"end_date,omitempty"`
}

// CategoryResponse представляет данные категории для API-ответов
type CategoryResponse struct {
	ID             string         `json:"id"`
	VillaID        string         `json:"villa_id"`
	Name           string         `json:"name"`
	StartDate      Date           `json:"start_date"`
	EndDate        Date           `json:"end_date"`
	Status         CategoryStatus `json:"status"`
	Progress       int            `json:"progress"`
	TasksCount     int            `json:"tasks_count"`
	CompletedTasks int            `json:"completed_tasks"`
	Tasks          []TaskResponse `json:"tasks,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ToResponse преобразует Category в CategoryResponse
func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:             c.ID,
		VillaID:        c.VillaID,
		Name:           c.Name,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Status:         c.Status,
		Progress:       c.Progress,
		TasksCount:     c.TasksCount,
		CompletedTasks: c.CompletedTasks,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// DeriveCategoryStatus вычисляет статус категории по ее прогрессу
func DeriveCategoryStatus(progress int) CategoryStatus {
	switch {
	case progress >= 100:
		return CategoryStatusOnSchedule
	case progress > 75:
		return CategoryStatusInProgress
	case progress > 50:
		return CategoryStatusWarning
	default:
		return CategoryStatusDelayed
	}
}
