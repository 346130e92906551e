package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Template представляет шаблон планирования работ.
// Вложенная структура блокпринтов неизменяема после создания
type Template struct {
	ID          string              `json:"id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Description string              `json:"description" db:"description"`
	Categories  []CategoryBlueprint `json:"categories" db:"-"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
}

// CategoryBlueprint представляет категорию работ внутри шаблона
type CategoryBlueprint struct {
	Name  string          `json:"name"`
	Teams []TeamBlueprint `json:"teams"`
}

// TeamBlueprint представляет бригаду внутри категории шаблона
type TeamBlueprint struct {
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name"`
	Specialty string          `json:"specialty,omitempty"`
	Tasks     []TaskBlueprint `json:"tasks"`
}

// TaskBlueprint представляет задачу внутри шаблона.
// Duration - свободный текст вида "7 jours", из которого извлекается
// число дней; Amount - десятичная строка с суммой по задаче
type TaskBlueprint struct {
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Duration         string `json:"duration,omitempty"`
	Amount           string `json:"amount,omitempty"`
	PlannedStartDate *Date  `json:"planned_start_date,omitempty"`
}

// TemplateCreateRequest представляет данные для создания шаблона
type TemplateCreateRequest struct {
	Name        string              `json:"name" validate:"required,min=1,max=200"`
	Description string              `json:"description"`
	Categories  []CategoryBlueprint `json:"categories" validate:"required,min=1,dive"`
}

// TemplateApplyRequest представляет запрос на применение шаблона.
// TeamFilter - идентификатор или название бригады; пустое значение
// означает все бригады шаблона
type TemplateApplyRequest struct {
	VillaID    string `json:"villa_id" validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
	TeamFilter string `json:"team_filter,omitempty"`
}

// ApplyFailure описывает задачу шаблона, которую не удалось создать
type ApplyFailure struct {
	TaskName string `json:"task_name"`
	TeamName string `json:"team_name"`
	Reason   string `json:"reason"`
}

// ApplyReport представляет итог применения шаблона
type ApplyReport struct {
	TemplateID string         `json:"template_id"`
	VillaID    string         `json:"villa_id"`
	CategoryID string         `json:"category_id"`
	Created    int            `json:"created"`
	Skipped    int            `json:"skipped"`
	Failed     []ApplyFailure `json:"failed,omitempty"`
}

// TemplateResponse представляет данные шаблона для API-ответов
type TemplateResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Categories  []CategoryBlueprint `json:"categories"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToResponse преобразует Template в TemplateResponse
func (t *Template) ToResponse() TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Categories:  t.Categories,
		CreatedAt:   t.CreatedAt,
	}
}

// Matches проверяет, проходит ли бригада шаблона фильтр по
// идентификатору или названию. Пустой фильтр пропускает всех
func (b *TeamBlueprint) Matches(filter string) bool {
	if filter == "" || filter == "all" {
		return true
	}
	return b.ID == filter || strings.EqualFold(b.Name, filter)
}

// DurationDays извлекает число дней из текстовой длительности задачи.
// Нечисловые и неположительные значения заменяются запасным значением
func (b *TaskBlueprint) DurationDays(fallback int) int {
	fields := strings.Fields(strings.TrimSpace(b.Duration))
	if len(fields) == 0 {
		return fallback
	}

	days, err := strconv.Atoi(fields[0])
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}

// AmountValue разбирает сумму по задаче из десятичной строки.
// Запятая принимается как десятичный разделитель, пустая строка
// означает отсутствие суммы
func (b *TaskBlueprint) AmountValue() (*float64, error) {
	raw := strings.TrimSpace(b.Amount)
	if raw == "" {
		return nil, nil
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("invalid task amount %q", b.Amount)
	}
	return &amount, nil
}
