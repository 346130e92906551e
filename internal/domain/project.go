package domain

import (
	"time"
)

// ProjectStatus определяет статус проекта
type ProjectStatus string

const (
	// ProjectStatusActive - активный проект
	ProjectStatusActive ProjectStatus = "active"
	// ProjectStatusOnHold - приостановленный проект
	ProjectStatusOnHold ProjectStatus = "on_hold"
	// ProjectStatusCompleted - завершенный проект
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Project представляет строительный проект
type Project struct {
	ID          string        `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Location    string        `json:"location" db:"location"`
	Status      ProjectStatus `json:"status" db:"status"`
	StartDate   *Date         `json:"start_date,omitempty" db:"start_date"`
	EndDate     *Date         `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// ProjectCreateRequest представляет данные для создания проекта
type ProjectCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Location    string `json:"location" validate:"max=200"`
	StartDate   *Date  `json:"start_date,omitempty"`
	EndDate     *Date  `json:"end_date,omitempty"`
}

// ProjectUpdateRequest представляет данные для частичного обновления проекта
type ProjectUpdateRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description,omitempty"`
	Location    *string        `json:"location,omitempty" validate:"omitempty,max=200"`
	Status      *ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=active on_hold completed"`
	StartDate   *Date          `json:"start_date,omitempty"`
	EndDate     *Date          `json:"end_date,omitempty"`
}

// ProjectResponse представляет данные проекта для API-ответов
type ProjectResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Status      ProjectStatus `json:"status"`
	StartDate   *Date         `json:"start_date,omitempty"`
	EndDate     *Date         `json:"end_date,omitempty"`
	VillasCount int           `json:"villas_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ToResponse преобразует Project в ProjectResponse
func (p *Project) ToResponse() ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		Status:      p.Status,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
