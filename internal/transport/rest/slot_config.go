package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Создать правила записи специалиста
// @Description Незаданные поля получают значения по умолчанию
// @Tags Правила записи
// @Accept json
// @Produce json
// @Param input body domain.CreateSlotConfigDTO true "Правила записи"
// @Success 201 {object} domain.SlotGenerationConfig
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 409 {object} errorResponseBody "Конфигурация уже существует"
// @Security ApiKeyAuth
// @Router /slot-configs [post]
func (h *Handler) createSlotConfig(c *gin.Context) {
	var req domain.CreateSlotConfigDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	cfg, err := h.services.SlotConfig.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка создания конфигурации специалиста")
		return
	}

	createdResponse(c, cfg)
}

// @Summary Все конфигурации
// @Tags Правила записи
// @Produce json
// @Success 200 {array} domain.SlotGenerationConfig
// @Security ApiKeyAuth
// @Router /slot-configs [get]
func (h *Handler) getSlotConfigs(c *gin.Context) {
	configs, err := h.services.SlotConfig.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения конфигураций")
		return
	}

	successResponse(c, http.StatusOK, configs)
}

// @Summary Конфигурации с автогенерацией слотов
// @Tags Правила записи
// @Produce json
// @Success 200 {array} domain.SlotGenerationConfig
// @Security ApiKeyAuth
// @Router /slot-configs/auto-generate [get]
func (h *Handler) getAutoGenerateSlotConfigs(c *gin.Context) {
	configs, err := h.services.SlotConfig.ListAutoGenerateEnabled(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения конфигураций")
		return
	}

	successResponse(c, http.StatusOK, configs)
}

// @Summary Получить конфигурацию
// @Tags Правила записи
// @Produce json
// @Param id path int true "ID конфигурации"
// @Success 200 {object} domain.SlotGenerationConfig
// @Failure 404 {object} errorResponseBody "Конфигурация не найдена"
// @Security ApiKeyAuth
// @Router /slot-configs/{id} [get]
func (h *Handler) getSlotConfigByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cfg, err := h.services.SlotConfig.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения конфигурации")
		return
	}

	successResponse(c, http.StatusOK, cfg)
}

// @Summary Правила записи специалиста
// @Tags Правила записи
// @Produce json
// @Param id path int true "ID специалиста"
// @Success 200 {object} domain.SlotGenerationConfig
// @Failure 404 {object} errorResponseBody "Конфигурация не найдена"
// @Security ApiKeyAuth
// @Router /slot-configs/professional/{id} [get]
func (h *Handler) getSlotConfigByProfessional(c *gin.Context) {
	professionalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	cfg, err := h.services.SlotConfig.GetByProfessionalID(c.Request.Context(), professionalID)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения конфигурации специалиста")
		return
	}

	successResponse(c, http.StatusOK, cfg)
}

// @Summary Обновить конфигурацию
// @Tags Правила записи
// @Accept json
// @Produce json
// @Param id path int true "ID конфигурации"
// @Param input body domain.UpdateSlotConfigDTO true "Изменяемые поля"
// @Success 200 {object} domain.SlotGenerationConfig
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 404 {object} errorResponseBody "Конфигурация не найдена"
// @Security ApiKeyAuth
// @Router /slot-configs/{id} [put]
func (h *Handler) updateSlotConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateSlotConfigDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	cfg, err := h.services.SlotConfig.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка обновления конфигурации")
		return
	}

	successResponse(c, http.StatusOK, cfg)
}

// @Summary Обновить правила записи специалиста
// @Tags Правила записи
// @Accept json
// @Produce json
// @Param id path int true "ID специалиста"
// @Param input body domain.UpdateSlotConfigDTO true "Изменяемые поля"
// @Success 200 {object} domain.SlotGenerationConfig
// @Failure 404 {object} errorResponseBody "Конфигурация не найдена"
// @Security ApiKeyAuth
// @Router /slot-configs/professional/{id} [put]
func (h *Handler) updateSlotConfigByProfessional(c *gin.Context) {
	professionalID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateSlotConfigDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	cfg, err := h.services.SlotConfig.UpdateByProfessionalID(c.Request.Context(), professionalID, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка обновления конфигурации специалиста")
		return
	}

	successResponse(c, http.StatusOK, cfg)
}

// @Summary Удалить конфигурацию
// @Tags Правила записи
// @Param id path int true "ID конфигурации"
// @Success 204
// @Failure 404 {object} errorResponseBody "Конфигурация не найдена"
// @Security ApiKeyAuth
// @Router /slot-configs/{id} [delete]
func (h *Handler) deleteSlotConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.SlotConfig.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка удаления конфигурации")
		return
	}

	noContentResponse(c)
}
