package repository

import (
	"context"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// TemplateRepository определяет интерфейс для работы с хранилищем шаблонов
type TemplateRepository interface {
	// Create создает новый шаблон
	Create(ctx context.Context, template *domain.Template) error

	// GetByID возвращает шаблон по ID
	GetByID(ctx context.Context, id string) (*domain.Template, error)

	// Delete удаляет шаблон по ID
	Delete(ctx context.Context, id string) error

	// List возвращает все шаблоны
	List(ctx context.Context) ([]*domain.Template, error)
}
