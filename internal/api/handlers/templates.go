package handlers

import (
	"net/http"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/service"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
)

// TemplateHandler обрабатывает запросы, связанные с шаблонами планирования
type TemplateHandler struct {
	BaseHandler
	templateService *service.TemplateService
}

// NewTemplateHandler создает новый экземпляр TemplateHandler
func NewTemplateHandler(base BaseHandler, templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		BaseHandler:     base,
		templateService: templateService,
	}
}

// CreateTemplate обрабатывает запрос на создание нового шаблона
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req domain.TemplateCreateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	template, err := h.templateService.Create(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, template)
}

// GetTemplate возвращает шаблон по ID
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := h.GetURLParam(r, "id")
	if templateID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Template ID is required"))
		return
	}

	template, err := h.templateService.GetByID(r.Context(), templateID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, template)
}

// ListTemplates возвращает все шаблоны
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.List(r.Context())
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, templates)
}

// DeleteTemplate удаляет шаблон
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := h.GetURLParam(r, "id")
	if templateID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Template ID is required"))
		return
	}

	if err := h.templateService.Delete(r.Context(), templateID); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}

// ApplyTemplate разворачивает шаблон в задачи целевой категории.
// Отчет возвращается и при частичных сбоях отдельных задач
func (h *TemplateHandler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	templateID := h.GetURLParam(r, "id")
	if templateID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Template ID is required"))
		return
	}

	var req domain.TemplateApplyRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	report, err := h.templateService.Apply(r.Context(), templateID, req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, report)
}
