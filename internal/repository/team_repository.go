package repository

import (
	"context"

	"github.com/chantierpro/chantierpro/internal/domain"
)

// TeamRepository определяет интерфейс для работы с хранилищем бригад
type TeamRepository interface {
	// Create создает новую бригаду
	Create(ctx context.Context, team *domain.Team) error

	// GetByID возвращает бригаду по ID
	GetByID(ctx context.Context, id string) (*domain.Team, error)

	// GetByIDs возвращает бригады по списку ID
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Team, error)

	// Update обновляет данные бригады
	Update(ctx context.Context, team *domain.Team) error

	// Delete удаляет бригаду по ID
	Delete(ctx context.Context, id string) error

	// List возвращает список бригад с фильтрацией
	List(ctx context.Context, filter TeamFilter) ([]*domain.Team, error)

	// Count возвращает количество бригад с фильтрацией
	Count(ctx context.Context, filter TeamFilter) (int, error)
}

// TeamFilter содержит параметры для фильтрации бригад
type TeamFilter struct {
	SearchText *string `json:"search_text,omitempty"`
	Specialty  *string `json:"specialty,omitempty"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}
