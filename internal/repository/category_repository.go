package repository

import (
	"context"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// CategoryRepository определяет интерфейс для работы с хранилищем категорий
type CategoryRepository interface {
	// Create создает новую категорию
	Create(ctx context.Context, category *domain.Category) error

	// GetByID возвращает категорию по ID
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// Update обновляет данные категории
	Update(ctx context.Context, category *domain.Category) error

	// Delete удаляет категорию по ID вместе с ее задачами
	Delete(ctx context.Context, id string) error

	// GetByVilla возвращает категории виллы в порядке создания
	GetByVilla(ctx context.Context, villaID string) ([]*domain.Category, error)
}
