package handlers

import (
	"net/http"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/service"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
)

// ProjectHandler обрабатывает запросы, связанные с проектами
type ProjectHandler struct {
	BaseHandler
	projectService *service.ProjectService
}

// NewProjectHandler создает новый экземпляр ProjectHandler
func NewProjectHandler(base BaseHandler, projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

// CreateProject обрабатывает запрос на создание нового проекта
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req domain.ProjectCreateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, project)
}

// GetProject возвращает информацию о проекте по ID
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Project ID is required"))
		return
	}

	project, err := h.projectService.GetByID(r.Context(), projectID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, project)
}

// ListProjects возвращает список всех проектов
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, projects)
}

// UpdateProject выполняет частичное обновление проекта
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Project ID is required"))
		return
	}

	var req domain.ProjectUpdateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	project, err := h.projectService.Update(r.Context(), projectID, req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, project)
}

// DeleteProject удаляет проект
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Project ID is required"))
		return
	}

	if err := h.projectService.Delete(r.Context(), projectID); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}

// GetProjectAmounts возвращает финансовые итоги по задачам проекта
func (h *ProjectHandler) GetProjectAmounts(w http.ResponseWriter, r *http.Request) {
	projectID := h.GetURLParam(r, "id")
	if projectID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Project ID is required"))
		return
	}

	amounts, err := h.projectService.GetAmounts(r.Context(), projectID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, amounts)
}
