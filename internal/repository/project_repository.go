package repository

import (
	"context"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// ProjectRepository определяет интерфейс для работы с хранилищем проектов
type ProjectRepository interface {
	// Create создает новый проект
	Create(ctx context.Context, project *domain.Project) error

	// GetByID возвращает проект по ID
	GetByID(ctx context.Context, id string) (*domain.Project, error)

	// Update обновляет данные проекта
	Update(ctx context.Context, project *domain.Project) error

	// Delete удаляет проект по ID
	Delete(ctx context.Context, id string) error

	// List возвращает все проекты
	List(ctx context.Context) ([]*domain.Project, error)

	// CountVillas возвращает количество вилл проекта
	CountVillas(ctx context.Context, projectID string) (int, error)
}
