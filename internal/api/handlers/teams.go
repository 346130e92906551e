package handlers

import (
	"net/http"

	"github.com/chantierpro/chantierpro/internal/domain"
	"github.com/chantierpro/chantierpro/internal/repository"
	"github.com/chantierpro/chantierpro/internal/service"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
)

// TeamHandler обрабатывает запросы, связанные с бригадами
type TeamHandler struct {
	BaseHandler
	teamService *service.TeamService
}

// NewTeamHandler создает новый экземпляр TeamHandler
func NewTeamHandler(base BaseHandler, teamService *service.TeamService) *TeamHandler {
	return &TeamHandler{
		BaseHandler: base,
		teamService: teamService,
	}
}

// CreateTeam обрабатывает запрос на создание новой бригады
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.TeamCreateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	team, err := h.teamService.Create(r.Context(), req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithCreated(w, r, team)
}

// GetTeam возвращает информацию о бригаде по ID
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID := h.GetURLParam(r, "id")
	if teamID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Team ID is required"))
		return
	}

	team, err := h.teamService.GetByID(r.Context(), teamID)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, team)
}

// ListTeams возвращает список бригад с фильтрацией и пагинацией
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	page, pageSize := h.GetPaginationParams(r)

	filter := repository.TeamFilter{
		SearchText: h.GetQueryParam(r, "search"),
		Specialty:  h.GetQueryParam(r, "specialty"),
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}

	teams, total, err := h.teamService.List(r.Context(), filter)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithPagination(w, r, teams, total, page, pageSize)
}

// UpdateTeam выполняет частичное обновление бригады
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID := h.GetURLParam(r, "id")
	if teamID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Team ID is required"))
		return
	}

	var req domain.TeamUpdateRequest
	if err := h.ParseAndValidate(r, &req); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	team, err := h.teamService.Update(r.Context(), teamID, req)
	if err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, team)
}

// DeleteTeam удаляет бригаду. Задачи бригады остаются без исполнителя
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID := h.GetURLParam(r, "id")
	if teamID == "" {
		h.RespondWithError(w, r, apperrors.BadRequest("Team ID is required"))
		return
	}

	if err := h.teamService.Delete(r.Context(), teamID); err != nil {
		h.RespondWithError(w, r, err)
		return
	}

	h.RespondWithSuccess(w, r, map[string]bool{"deleted": true})
}
