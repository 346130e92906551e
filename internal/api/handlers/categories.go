package handlers

import (
	"net/http"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/service"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
)

// CategoryHandler обрабатывает запросы, связанные с категориями работ
type CategoryHandler struct {
	BaseHandler
	categoryService *service.CategoryService
	teamService     *service.TeamService
}

// NewCategoryHandler создает новый экземпляр CategoryHandler
func NewCategoryHandler(base BaseHandler, categoryService *service.CategoryService, teamService *service.TeamService) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler:     base,
		categoryService: categoryService,
		teamService:     teamService,
	}
}

// CreateCategory обрабатывает запрос на создание новой категории
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req domain.CategoryCreateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	category, err := h.categoryService.Create(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, category)
}

// GetCategory возвращает категорию по ID вместе с ее задачами
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := h.GetURLParam(r, "id")
	if categoryID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Category ID is required"))
		return
	}

	category, err := h.categoryService.GetByID(r.Context(), categoryID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, category)
}

// ListCategories возвращает категории виллы
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	villaID := h.GetQueryParam(r, "villa_id")
	if villaID == nil {
		h.RespondWithError(w, r, apperrors.BadRequest("villa_id query parameter is required"))
		return
	}

	categories, err := h.categoryService.GetByVilla(r.Context(), *villaID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, categories)
}

// UpdateCategory выполняет частичное обновление категории
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := h.GetURLParam(r, "id")
	if categoryID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Category ID is required"))
		return
	}

	var req domain.CategoryUpdateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	category, err := h.categoryService.Update(r.Context(), categoryID, req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, category)
}

// DeleteCategory удаляет категорию вместе с ее задачами
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := h.GetURLParam(r, "id")
	if categoryID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Category ID is required"))
		return
	}

	if err := h.categoryService.Delete(r.Context(), categoryID); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}

// GetCategoryTeams возвращает бригады, упомянутые задачами категории
func (h *CategoryHandler) GetCategoryTeams(w http.ResponseWriter, r *http.Request) {
	categoryID := h.GetURLParam(r, "id")
	if categoryID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Category ID is required"))
		return
	}

	teams, err := h.teamService.TeamsForCategory(r.Context(), categoryID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, teams)
}

// GetCategoryTasks возвращает задачи категории с фильтром по бригаде
func (h *CategoryHandler) GetCategoryTasks(w http.ResponseWriter, r *http.Request) {
	categoryID := h.GetURLParam(r, "id")
	if categoryID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Category ID is required"))
		return
	}

	teamFilter := r.URL.Query().Get("team")

	tasks, err := h.teamService.TasksForCategory(r.Context(), categoryID, teamFilter)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, tasks)
}

// AssignTeam назначает бригаду на категорию
func (h *CategoryHandler) AssignTeam(w http.ResponseWriter, r *http.Request) {
	categoryID := h.GetURLParam(r, "id")
	if categoryID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Category ID is required"))
		return
	}

	var req domain.TeamAssignRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	task, err := h.teamService.AssignToCategory(r.Context(), categoryID, req.TeamID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, task)
}
