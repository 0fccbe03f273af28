package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Создать правило расписания
// @Description Добавляет недельное окно приема специалиста
// @Tags Расписание
// @Accept json
// @Produce json
// @Param input body domain.CreateScheduleRuleDTO true "Данные правила"
// @Success 201 {object} domain.WeeklyScheduleRule
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /schedule-rules [post]
func (h *Handler) createScheduleRule(c *gin.Context) {
	var req domain.CreateScheduleRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	rule, err := h.services.ScheduleRule.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка создания правила расписания")
		return
	}

	createdResponse(c, rule)
}

// @Summary Получить правило расписания
// @Tags Расписание
// @Produce json
// @Param id path int true "ID правила"
// @Success 200 {object} domain.WeeklyScheduleRule
// @Failure 404 {object} errorResponseBody "Правило не найдено"
// @Security ApiKeyAuth
// @Router /schedule-rules/{id} [get]
func (h *Handler) getScheduleRuleByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rule, err := h.services.ScheduleRule.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения правила расписания")
		return
	}

	successResponse(c, http.StatusOK, rule)
}

// @Summary Правила расписания специалиста
// @Tags Расписание
// @Produce json
// @Param professional_id query int true "ID специалиста"
// @Param active_only query bool false "Только активные"
// @Success 200 {array} domain.WeeklyScheduleRule
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Security ApiKeyAuth
// @Router /schedule-rules [get]
func (h *Handler) getScheduleRules(c *gin.Context) {
	professionalID, err := requireQueryInt64(c, "professional_id")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))

	rules, err := h.services.ScheduleRule.ListByProfessional(c.Request.Context(), professionalID, activeOnly)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения правил расписания")
		return
	}

	successResponse(c, http.StatusOK, rules)
}

// @Summary Обновить правило расписания
// @Tags Расписание
// @Accept json
// @Produce json
// @Param id path int true "ID правила"
// @Param input body domain.UpdateScheduleRuleDTO true "Изменяемые поля"
// @Success 200 {object} domain.WeeklyScheduleRule
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 404 {object} errorResponseBody "Правило не найдено"
// @Security ApiKeyAuth
// @Router /schedule-rules/{id} [put]
func (h *Handler) updateScheduleRule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateScheduleRuleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	rule, err := h.services.ScheduleRule.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка обновления правила расписания")
		return
	}

	successResponse(c, http.StatusOK, rule)
}

// @Summary Удалить правило расписания
// @Tags Расписание
// @Param id path int true "ID правила"
// @Success 204
// @Failure 404 {object} errorResponseBody "Правило не найдено"
// @Security ApiKeyAuth
// @Router /schedule-rules/{id} [delete]
func (h *Handler) deleteScheduleRule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.ScheduleRule.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка удаления правила расписания")
		return
	}

	noContentResponse(c)
}
