package handlers

import (
	"net/http"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/internal/service"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
)

// VillaHandler обрабатывает запросы, связанные с виллами
type VillaHandler struct {
	BaseHandler
	villaService *service.VillaService
}

// NewVillaHandler создает новый экземпляр VillaHandler
func NewVillaHandler(base BaseHandler, villaService *service.VillaService) *VillaHandler {
	return &VillaHandler{
		BaseHandler:  base,
		villaService: villaService,
	}
}

// CreateVilla обрабатывает запрос на создание новой виллы
func (h *VillaHandler) CreateVilla(w http.ResponseWriter, r *http.Request) {
	var req domain.VillaCreateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	villa, err := h.villaService.Create(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, villa)
}

// GetVilla возвращает информацию о вилле по ID
func (h *VillaHandler) GetVilla(w http.ResponseWriter, r *http.Request) {
	villaID := h.GetURLParam(r, "id")
	if villaID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Villa ID is required"))
		return
	}

	villa, err := h.villaService.GetByID(r.Context(), villaID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, villa)
}

// GetVillaTree возвращает полное дерево виллы: категории и их задачи
func (h *VillaHandler) GetVillaTree(w http.ResponseWriter, r *http.Request) {
	villaID := h.GetURLParam(r, "id")
	if villaID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Villa ID is required"))
		return
	}

	tree, err := h.villaService.GetTree(r.Context(), villaID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, tree)
}

// ListVillas возвращает список вилл с фильтрацией и пагинацией
func (h *VillaHandler) ListVillas(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.GetPaginationParams(r)

	filter := repository.VillaFilter{
		ProjectID: h.GetQueryParam(r, "project_id"),
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}
	if status := h.GetQueryParam(r, "status"); status != nil {
		s := domain.VillaStatus(*status)
		filter.Status = &s
	}

	villas, total, err := h.villaService.List(r.Context(), filter)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithPagination(w, r, villas, total, page, pageSize)
}

// UpdateVilla выполняет частичное обновление виллы
func (h *VillaHandler) UpdateVilla(w http.ResponseWriter, r *http.Request) {
	villaID := h.GetURLParam(r, "id")
	if villaID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Villa ID is required"))
		return
	}

	var req domain.VillaUpdateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	villa, err := h.villaService.Update(r.Context(), villaID, req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, villa)
}

// DeleteVilla удаляет виллу вместе с категориями и задачами
func (h *VillaHandler) DeleteVilla(w http.ResponseWriter, r *http.Request) {
	villaID := h.GetURLParam(r, "id")
	if villaID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Villa ID is required"))
		return
	}

	if err := h.villaService.Delete(r.Context(), villaID); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}
