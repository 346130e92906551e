package repository

import (
	"context"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// VillaRepository определяет интерфейс для работы с хранилищем вилл
type VillaRepository interface {
	// Create создает новую виллу
	Create(ctx context.Context, villa *domain.Villa) error

	// GetByID возвращает виллу по ID
	GetByID(ctx context.Context, id string) (*domain.Villa, error)

	// Update обновляет данные виллы
	Update(ctx context.Context, villa *domain.Villa) error

	// Delete удаляет виллу по ID вместе с категориями и задачами
	Delete(ctx context.Context, id string) error

	// List возвращает список вилл с фильтрацией
	List(ctx context.Context, filter VillaFilter) ([]*domain.Villa, error)

	// Count возвращает количество вилл с фильтрацией
	Count(ctx context.Context, filter VillaFilter) (int, error)
}

// VillaFilter содержит параметры для фильтрации вилл
type VillaFilter struct {
	ProjectID *string             `json:"project_id,omitempty"`
	Status    *domain.VillaStatus `json:"status,omitempty"`
	Limit     int                 `json:"limit"`
	Offset    int                 `json:"offset"`
}
