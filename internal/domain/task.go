package domain

import (
	"time"
)

// TaskStatus определяет статус выполнения задачи
type TaskStatus string

const (
	// TaskStatusPending - задача не начата
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress - задача в процессе выполнения
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted - завершенная задача
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusDelayed - задержанная задача (выставляется только вручную)
	TaskStatusDelayed TaskStatus = "delayed"
)

// ProgressStatus определяет положение задачи относительно плана
type ProgressStatus string

const (
	// ProgressOnSchedule - задача идет по плану
	ProgressOnSchedule ProgressStatus = "on_schedule"
	// ProgressAhead - задача опережает план
	ProgressAhead ProgressStatus = "ahead"
	// ProgressBehind - задача отстает от плана
	ProgressBehind ProgressStatus = "behind"
	// ProgressAtRisk - задача под угрозой срыва сроков
	ProgressAtRisk ProgressStatus = "at_risk"
)

// Task представляет задачу строительных работ
type Task struct {
	ID               string         `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	Description      string         `json:"description" db:"description"`
	CategoryID       string         `json:"category_id" db:"category_id"`
	VillaID          string         `json:"villa_id" db:"villa_id"`
	TeamID           *string        `json:"team_id,omitempty" db:"team_id"`
	Status           TaskStatus     `json:"status" db:"status"`
	Progress         int            `json:"progress" db:"progress"`
	ProgressStatus   ProgressStatus `json:"progress_status" db:"progress_status"`
	PlannedStartDate *Date          `json:"planned_start_date,omitempty" db:"planned_start_date"`
	PlannedEndDate   *Date          `json:"planned_end_date,omitempty" db:"planned_end_date"`
	ActualStartDate  *Date          `json:"actual_start_date,omitempty" db:"actual_start_date"`
	ActualEndDate    *Date          `json:"actual_end_date,omitempty" db:"actual_end_date"`
	Amount           *float64       `json:"amount,omitempty" db:"amount"`
	IsPaid           bool           `json:"is_paid" db:"is_paid"`
	IsReceived       bool           `json:"is_received" db:"is_received"`
	Remarks          string         `json:"remarks" db:"remarks"`
	Photos           StringList     `json:"photos,omitempty" db:"photos"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// TaskCreateRequest представляет данные для создания задачи
type TaskCreateRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=200"`
	Description      string   `json:"description"`
	CategoryID       string   `json:"category_id" validate:"required"`
	VillaID          string   `json:"villa_id" validate:"required"`
	TeamID           *string  `json:"team_id,omitempty"`
	Progress         *int     `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	PlannedStartDate *Date    `json:"planned_start_date,omitempty"`
	PlannedEndDate   *Date    `json:"planned_end_date,omitempty"`
	ActualStartDate  *Date    `json:"actual_start_date,omitempty"`
	ActualEndDate    *Date    `json:"actual_end_date,omitempty"`
	DurationDays     *int     `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	Amount           *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Remarks          string   `json:"remarks"`
	Photos           []string `json:"photos,omitempty"`
}

// TaskUpdateRequest представляет данные для частичного обновления задачи
type TaskUpdateRequest struct {
	Name             *string     `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string     `json:"description,omitempty"`
	TeamID           *string     `json:"team_id,omitempty"`
	Status           *TaskStatus `json:"status,omitempty" validate:"omitempty,task_status"`
	Progress         *int        `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	PlannedStartDate *Date       `json:"planned_start_date,omitempty"`
	PlannedEndDate   *Date       `json:"planned_end_date,omitempty"`
	ActualStartDate  *Date       `json:"actual_start_date,omitempty"`
	ActualEndDate    *Date       `json:"actual_end_date,omitempty"`
	Amount           *float64    `json:"amount,omitempty" validate:"omitempty,gte=0"`
	IsPaid           *bool       `json:"is_paid,omitempty"`
	IsReceived       *bool       `json:"is_received,omitempty"`
	Remarks          *string     `json:"remarks,omitempty"`
	Photos           *[]string   `json:"photos,omitempty"`
}

// TaskProgressRequest представляет запрос на обновление прогресса задачи
type TaskProgressRequest struct {
	Progress int `json:"progress" validate:"gte=0,lte=100"`
}

// TaskResponse представляет данные задачи для API-ответов
type TaskResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	CategoryID       string         `json:"category_id"`
	VillaID          string         `json:"villa_id"`
	TeamID           *string        `json:"team_id,omitempty"`
	Team             *TeamBrief     `json:"team,omitempty"`
	Status           TaskStatus     `json:"status"`
	Progress         int            `json:"progress"`
	ProgressStatus   ProgressStatus `json:"progress_status"`
	PlannedStartDate *Date          `json:"planned_start_date,omitempty"`
	PlannedEndDate   *Date          `json:"planned_end_date,omitempty"`
	ActualStartDate  *Date          `json:"actual_start_date,omitempty"`
	ActualEndDate    *Date          `json:"actual_end_date,omitempty"`
	Amount           *float64       `json:"amount,omitempty"`
	IsPaid           bool           `json:"is_paid"`
	IsReceived       bool           `json:"is_received"`
	Remarks          string         `json:"remarks"`
	Photos           []string       `json:"photos,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TeamBrief представляет краткую информацию о бригаде в ответах задач
type TeamBrief struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// ToResponse преобразует Task в TaskResponse
func (t *Task) ToResponse() TaskResponse {
	return TaskResponse{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		CategoryID:       t.CategoryID,
		VillaID:          t.VillaID,
		TeamID:           t.TeamID,
		Status:           t.Status,
		Progress:         t.Progress,
		ProgressStatus:   t.ProgressStatus,
		PlannedStartDate: t.PlannedStartDate,
		PlannedEndDate:   t.PlannedEndDate,
		ActualStartDate:  t.ActualStartDate,
		ActualEndDate:    t.ActualEndDate,
		Amount:           t.Amount,
		IsPaid:           t.IsPaid,
		IsReceived:       t.IsReceived,
		Remarks:          t.Remarks,
		Photos:           []string(t.Photos),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// IsCompleted проверяет, завершена ли задача
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// TaskAmounts представляет финансовые итоги по задачам проекта
type TaskAmounts struct {
	Total float64 `json:"total" db:"total"`
	Paid  float64 `json:"paid" db:"paid"`
}
