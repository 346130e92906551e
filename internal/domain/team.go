package domain

import (
	"time"
)

// Team представляет бригаду рабочих
type Team struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Specialty    string     `json:"specialty" db:"specialty"`
	MembersCount int        `json:"members_count" db:"members_count"`
	ActiveTasks  int        `json:"active_tasks" db:"active_tasks"`
	Performance  int        `json:"performance" db:"performance"`
	LastActivity *time.Time `json:"last_activity,omitempty" db:"last_activity"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// TeamCreateRequest представляет данные для создания бригады
type TeamCreateRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Specialty    string `json:"specialty" validate:"required,min=1,max=200"`
	MembersCount int    `json:"members_count" validate:"gte=0"`
}

// TeamUpdateRequest представляет данные для частичного обновления бригады
type TeamUpdateRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Specialty    *string `json:"specialty,omitempty" validate:"omitempty,min=1,max=200"`
	MembersCount *int    `json:"members_count,omitempty" validate:"omitempty,gte=0"`
}

// TeamAssignRequest представляет запрос на назначение бригады на категорию
type TeamAssignRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

// TeamResponse представляет данные бригады для API-ответов
type TeamResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Specialty    string     `json:"specialty"`
	MembersCount int        `json:"members_count"`
	ActiveTasks  int        `json:"active_tasks"`
	Performance  int        `json:"performance"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToResponse преобразует Team в TeamResponse
func (t *Team) ToResponse() TeamResponse {
	return TeamResponse{
		ID:           t.ID,
		Name:         t.Name,
		Specialty:    t.Specialty,
		MembersCount: t.MembersCount,
		ActiveTasks:  t.ActiveTasks,
		Performance:  t.Performance,
		LastActivity: t.LastActivity,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ToBrief преобразует Team в TeamBrief
func (t *Team) ToBrief() TeamBrief {
	return TeamBrief{
		ID:        t.ID,
		Name:      t.Name,
		Specialty: t.Specialty,
	}
}
