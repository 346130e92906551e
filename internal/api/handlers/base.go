package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chantierpro/chantierpro/internal/domain"
	apperrors "github.com/chantierpro/chantierpro/pkg/errors"
	"github.com/chantierpro/chantierpro/pkg/logger"
	"github.com/chantierpro/chantierpro/pkg/validator"
)

// StandardResponseData представляет стандартную структуру ответа API
type StandardResponseData struct {
	Success      bool        `json:"success"`
	Data         interface{} `json:"data,omitempty"`
	ErrorMessage string      `json:"error,omitempty"`
	ErrorCode    string      `json:"error_code,omitempty"`
	Meta         interface{} `json:"meta,omitempty"`
}

// ErrorResponse представляет структуру ответа с ошибкой
type ErrorResponse struct {
	Success      bool        `json:"success"`
	ErrorMessage string      `json:"error"`
	ErrorCode    string      `json:"error_code,omitempty"`
	Details      interface{} `json:"details,omitempty"`
}

// PaginationMeta представляет метаданные для постраничной навигации
type PaginationMeta struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// BaseHandler содержит общие методы для всех обработчиков
type BaseHandler struct {
	Logger    logger.Logger
	Validator *validator.CustomValidator
}

// NewBaseHandler создает новый экземпляр BaseHandler
func NewBaseHandler(logger logger.Logger, v *validator.CustomValidator) BaseHandler {
	return BaseHandler{
		Logger:    logger,
		Validator: v,
	}
}

// Respond отправляет ответ с указанным кодом статуса
func (h *BaseHandler) Respond(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.Logger.Error("Failed to encode response", err)
		}
	}
}

// RespondWithSuccess отправляет успешный ответ
func (h *BaseHandler) RespondWithSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := StandardResponseData{
		Success: true,
		Data:    data,
	}
	h.Respond(w, r, http.StatusOK, response)
}

// RespondWithCreated отправляет ответ о созданном ресурсе
func (h *BaseHandler) RespondWithCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	response := StandardResponseData{
		Success: true,
		Data:    data,
	}
	h.Respond(w, r, http.StatusCreated, response)
}

// RespondWithError переводит ошибку приложения в HTTP-ответ
func (h *BaseHandler) RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.Respond(w, r, http.StatusUnprocessableEntity, ErrorResponse{
			Success:      false,
			ErrorMessage: "Validation failed",
			ErrorCode:    "validation_error",
			Details:      validationErrors.Errors,
		})
		return
	}

	appErr := apperrors.FromError(err)
	if appErr.StatusCode >= 500 {
		h.Logger.Error("Request failed", err, map[string]interface{}{
			"path": r.URL.Path,
		})
	}

	h.Respond(w, r, appErr.StatusCode, ErrorResponse{
		Success:      false,
		ErrorMessage: appErr.Message,
		ErrorCode:    appErr.Code,
		Details:      appErr.Data,
	})
}

// RespondWithPagination отправляет ответ с пагинацией
func (h *BaseHandler) RespondWithPagination(w http.ResponseWriter, r *http.Request, data interface{}, total, page, pageSize int) {
	paged := domain.NewPagedResponse(data, total, page, pageSize)
	meta := PaginationMeta{
		TotalItems:  paged.Total,
		TotalPages:  paged.TotalPages,
		CurrentPage: paged.Page,
		PageSize:    paged.PageSize,
	}

	response := StandardResponseData{
		Success: true,
		Data:    data,
		Meta:    meta,
	}

	h.Respond(w, r, http.StatusOK, response)
}

// ParseAndValidate разбирает JSON из тела запроса и проверяет его.
// Валидация выполняется до любых обращений к хранилищу
func (h *BaseHandler) ParseAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.BadRequest(fmt.Sprintf("failed to parse JSON: %v", err))
	}
	return h.Validator.Validate(dst)
}

// GetPaginationParams извлекает параметры пагинации из запроса
func (h *BaseHandler) GetPaginationParams(r *http.Request) (int, int) {
	page := 1
	pageSize := 20

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if parsed, err := strconv.Atoi(pageParam); err == nil && parsed > 0 {
			page = parsed
		}
	}

	if pageSizeParam := r.URL.Query().Get("page_size"); pageSizeParam != "" {
		if parsed, err := strconv.Atoi(pageSizeParam); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	return page, pageSize
}

// GetURLParam извлекает параметр из URL
func (h *BaseHandler) GetURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// GetQueryParam извлекает непустой параметр строки запроса
func (h *BaseHandler) GetQueryParam(r *http.Request, key string) *string {
	if value := r.URL.Query().Get(key); value != "" {
		return &value
	}
	return nil
}

// GetQueryParamBool извлекает булев параметр строки запроса
func (h *BaseHandler) GetQueryParamBool(r *http.Request, key string) *bool {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return &parsed
		}
	}
	return nil
}
