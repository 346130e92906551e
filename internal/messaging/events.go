package messaging

import (
	"time"
)

// Типы событий
const (
	EventTypeTaskCreated     = "task_created"
	EventTypeTaskUpdated     = "task_updated"
	EventTypeTaskDeleted     = "task_deleted"
	EventTypeTemplateApplied = "template_applied"
	EventTypeVillaProgress   = "villa_progress_updated"
)

// TaskEvent представляет событие, связанное с задачей
type TaskEvent struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	CategoryID     string                 `json:"category_id"`
	VillaID        string                 `json:"villa_id"`
	TeamID         *string                `json:"team_id,omitempty"`
	Status         string                 `json:"status"`
	Progress       int                    `json:"progress"`
	ProgressStatus string                 `json:"progress_status"`
	CreatedAt      time.Time              `json:"created_at,omitempty"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Type           string                 `json:"type"`
	Changes        map[string]interface{} `json:"changes,omitempty"`
}

// TemplateAppliedEvent представляет итог применения шаблона
type TemplateAppliedEvent struct {
	TemplateID string    `json:"template_id"`
	VillaID    string    `json:"villa_id"`
	CategoryID string    `json:"category_id"`
	Created    int       `json:"created"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	AppliedAt  time.Time `json:"applied_at"`
	Type       string    `json:"type"`
}

// VillaProgressEvent представляет изменение агрегированного прогресса виллы
type VillaProgressEvent struct {
	VillaID   string    `json:"villa_id"`
	ProjectID string    `json:"project_id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	UpdatedAt time.Time `json:"updated_at"`
	Type      string    `json:"type"`
}
