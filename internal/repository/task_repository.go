package repository

import (
	"context"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// TaskRepository определяет интерфейс для работы с хранилищем задач
type TaskRepository interface {
	// Create создает новую задачу
	Create(ctx context.Context, task *domain.Task) error

	// GetByID возвращает задачу по ID
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// Update обновляет данные задачи
	Update(ctx context.Context, task *domain.Task) error

	// Delete удаляет задачу по ID
	Delete(ctx context.Context, id string) error

	// List возвращает список задач с фильтрацией
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Count возвращает количество задач с фильтрацией
	Count(ctx context.Context, filter TaskFilter) (int, error)

	// GetByCategory возвращает задачи категории в порядке создания
	GetByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error)

	// GetByVilla возвращает задачи виллы
	GetByVilla(ctx context.Context, villaID string) ([]*domain.Task, error)

	// GetUnreceivedCompleted возвращает завершенные непринятые задачи
	GetUnreceivedCompleted(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// GetUnpaid возвращает неоплаченные задачи
	GetUnpaid(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// GetAmountsByProject возвращает финансовые итоги по задачам проекта
	GetAmountsByProject(ctx context.Context, projectID string) (*domain.TaskAmounts, error)
}

// TaskFilter содержит параметры для фильтрации задач
type TaskFilter struct {
	CategoryID     *string                `json:"category_id,omitempty"`
	VillaID        *string                `json:"villa_id,omitempty"`
	ProjectID      *string                `json:"project_id,omitempty"`
	TeamID         *string                `json:"team_id,omitempty"`
	Status         *domain.TaskStatus     `json:"status,omitempty"`
	ProgressStatus *domain.ProgressStatus `json:"progress_status,omitempty"`
	IsPaid         *bool                  `json:"is_paid,omitempty"`
	IsReceived     *bool                  `json:"is_received,omitempty"`
	SearchText     *string                `json:"search_text,omitempty"`
	OrderBy        *string                `json:"order_by,omitempty"`
	OrderDir       *string                `json:"order_dir,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
}
