package domain

import (
	"time"
)

// VillaStatus определяет агрегированный статус виллы
type VillaStatus string

const (
	// VillaStatusNotStarted - работы по вилле не начаты
	VillaStatusNotStarted VillaStatus = "not_started"
	// VillaStatusInProgress - работы по вилле идут
	VillaStatusInProgress VillaStatus = "in_progress"
	// VillaStatusCompleted - все работы по вилле завершены
	VillaStatusCompleted VillaStatus = "completed"
	// VillaStatusDelayed - вилла отмечена как задержанная (выставляется вручную)
	VillaStatusDelayed VillaStatus = "delayed"
)

// Villa представляет виллу внутри проекта
type Villa struct {
	ID              string      `json:"id" db:"id"`
	ProjectID       string      `json:"project_id" db:"project_id"`
	Name            string      `json:"name" db:"name"`
	Type            string      `json:"type" db:"type"`
	Surface         float64     `json:"surface" db:"surface"`
	Status          VillaStatus `json:"status" db:"status"`
	Progress        int         `json:"progress" db:"progress"`
	CategoriesCount int         `json:"categories_count" db:"categories_count"`
	TasksCount      int         `json:"tasks_count" db:"tasks_count"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// VillaCreateRequest представляет данные для создания виллы
type VillaCreateRequest struct {
	ProjectID string  `json:"project_id" validate:"required"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Type      string  `json:"type" validate:"max=100"`
	Surface   float64 `json:"surface" validate:"gte=0"`
}

// VillaUpdateRequest представляет данные для частичного обновления виллы
type VillaUpdateRequest struct {
	Name    *string      `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Type    *string      `json:"type,omitempty" validate:"omitempty,max=100"`
	Surface *float64     `json:"surface,omitempty" validate:"omitempty,gte=0"`
	Status  *VillaStatus `json:"status,omitempty" validate:"omitempty,oneof=not_started in_progress completed delayed"`
}

// VillaResponse представляет данные виллы для API-ответов
type VillaResponse struct {
	ID              string             `json:"id"`
	ProjectID       string             `json:"project_id"`
	Name            string             `json:"name"`
	Type            string             `json:"type"`
	Surface         float64            `json:"surface"`
	Status          VillaStatus        `json:"status"`
	Progress        int                `json:"progress"`
	CategoriesCount int                `json:"categories_count"`
	TasksCount      int                `json:"tasks_count"`
	Categories      []CategoryResponse `json:"categories,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToResponse преобразует Villa в VillaResponse
func (v *Villa) ToResponse() VillaResponse {
	return VillaResponse{
		ID:              v.ID,
		ProjectID:       v.ProjectID,
		Name:            v.Name,
		Type:            v.Type,
		Surface:         v.Surface,
		Status:          v.Status,
		Progress:        v.Progress,
		CategoriesCount: v.CategoriesCount,
		TasksCount:      v.TasksCount,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

// DeriveVillaStatus вычисляет статус виллы по агрегированному прогрессу.
// Выставленный вручную delayed сохраняется до полного завершения
func DeriveVillaStatus(current VillaStatus, progress int) VillaStatus {
	if current == VillaStatusDelayed && progress < 100 {
		return VillaStatusDelayed
	}
	switch {
	case progress >= 100:
		return VillaStatusCompleted
	case progress > 0:
		return VillaStatusInProgress
	default:
		return VillaStatusNotStarted
	}
}
