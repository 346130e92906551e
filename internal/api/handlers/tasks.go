package handlers

import (
	"net/http"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/internal/service"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
)

// TaskHandler обрабатывает запросы, связанные с задачами
type TaskHandler struct {
	BaseHandler
	taskService *service.TaskService
}

// NewTaskHandler создает новый экземпляр TaskHandler
func NewTaskHandler(base BaseHandler, taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		BaseHandler: base,
		taskService: taskService,
	}
}

// CreateTask обрабатывает запрос на создание новой задачи
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req domain.TaskCreateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	task, err := h.taskService.Create(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, task)
}

// GetTask возвращает информацию о задаче по ID
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID := h.GetURLParam(r, "id")
	if taskID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Task ID is required"))
		return
	}

	task, err := h.taskService.GetByID(r.Context(), taskID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, task)
}

// ListTasks возвращает список задач с фильтрацией и пагинацией
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.GetPaginationParams(r)

	filter := repository.TaskFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	filter.CategoryID = h.GetQueryParam(r, "category_id")
	filter.VillaID = h.GetQueryParam(r, "villa_id")
	filter.ProjectID = h.GetQueryParam(r, "project_id")
	filter.TeamID = h.GetQueryParam(r, "team_id")
	filter.SearchText = h.GetQueryParam(r, "search")
	filter.IsPaid = h.GetQueryParamBool(r, "is_paid")
	filter.IsReceived = h.GetQueryParamBool(r, "is_received")
	if status := h.GetQueryParam(r, "status"); status != nil {
		s := domain.TaskStatus(*status)
		filter.Status = &s
	}
	if progressStatus := h.GetQueryParam(r, "progress_status"); progressStatus != nil {
		ps := domain.ProgressStatus(*progressStatus)
		filter.ProgressStatus = &ps
	}
	filter.OrderBy = h.GetQueryParam(r, "order_by")
	filter.OrderDir = h.GetQueryParam(r, "order_dir")

	tasks, total, err := h.taskService.List(r.Context(), filter)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithPagination(w, r, tasks, total, page, pageSize)
}

// UpdateTask выполняет частичное обновление задачи
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := h.GetURLParam(r, "id")
	if taskID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Task ID is required"))
		return
	}

	var req domain.TaskUpdateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), taskID, req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, task)
}

// UpdateProgress обновляет прогресс задачи
func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	taskID := h.GetURLParam(r, "id")
	if taskID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Task ID is required"))
		return
	}

	var req domain.TaskProgressRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateProgress(r.Context(), taskID, req.Progress)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, task)
}

// MarkReceived отмечает работу как принятую
func (h *TaskHandler) MarkReceived(w http.ResponseWriter, r *http.Request) {
	taskID := h.GetURLParam(r, "id")
	if taskID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Task ID is required"))
		return
	}

	task, err := h.taskService.MarkReceived(r.Context(), taskID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, task)
}

// MarkPaid отмечает работу как оплаченную
func (h *TaskHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	taskID := h.GetURLParam(r, "id")
	if taskID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Task ID is required"))
		return
	}

	task, err := h.taskService.MarkPaid(r.Context(), taskID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, task)
}

// DeleteTask удаляет задачу
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := h.GetURLParam(r, "id")
	if taskID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Task ID is required"))
		return
	}

	if err := h.taskService.Delete(r.Context(), taskID); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}

// GetUnreceived возвращает завершенные, но не принятые работы
func (h *TaskHandler) GetUnreceived(w http.ResponseWriter, r *http.Request) {
	filter := repository.TaskFilter{
		VillaID:   h.GetQueryParam(r, "villa_id"),
		ProjectID: h.GetQueryParam(r, "project_id"),
	}

	tasks, err := h.taskService.GetUnreceivedCompleted(r.Context(), filter)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, tasks)
}

// GetUnpaid возвращает неоплаченные работы
func (h *TaskHandler) GetUnpaid(w http.ResponseWriter, r *http.Request) {
	filter := repository.TaskFilter{
		VillaID:   h.GetQueryParam(r, "villa_id"),
		ProjectID: h.GetQueryParam(r, "project_id"),
	}

	tasks, err := h.taskService.GetUnpaid(r.Context(), filter)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, tasks)
}
