package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Объявить нерабочий период
// @Description Весь день или интервал [start_time, end_time) одного специалиста
// @Tags Нерабочее время
// @Accept json
// @Produce json
// @Param input body domain.CreateNonWorkingPeriodDTO true "Данные периода"
// @Success 201 {object} domain.NonWorkingPeriod
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 409 {object} errorResponseBody "Период на эту дату уже объявлен"
// @Security ApiKeyAuth
// @Router /non-working-periods [post]
func (h *Handler) createNonWorkingPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.CreateNonWorkingPeriodDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	period, err := h.services.NonWorkingPeriod.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка создания нерабочего периода")
		return
	}

	createdResponse(c, period)
}

// @Summary Получить нерабочий период
// @Tags Нерабочее время
// @Produce json
// @Param id path int true "ID периода"
// @Success 200 {object} domain.NonWorkingPeriod
// @Failure 404 {object} errorResponseBody "Период не найден"
// @Security ApiKeyAuth
// @Router /non-working-periods/{id} [get]
func (h *Handler) getNonWorkingPeriodByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	period, err := h.services.NonWorkingPeriod.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения нерабочего периода")
		return
	}

	successResponse(c, http.StatusOK, period)
}

// @Summary Нерабочие периоды специалиста
// @Tags Нерабочее время
// @Produce json
// @Param professional_id query int true "ID специалиста"
// @Param date_from query string false "Начальная дата (YYYY-MM-DD)"
// @Param date_to query string false "Конечная дата (YYYY-MM-DD)"
// @Success 200 {array} domain.NonWorkingPeriod
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Security ApiKeyAuth
// @Router /non-working-periods [get]
func (h *Handler) getNonWorkingPeriods(c *gin.Context) {
	professionalID, err := requireQueryInt64(c, "professional_id")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	from, err := queryDate(c, "date_from")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	to, err := queryDate(c, "date_to")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}

	periods, err := h.services.NonWorkingPeriod.ListByProfessional(c.Request.Context(), professionalID, from, to)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения нерабочих периодов")
		return
	}

	successResponse(c, http.StatusOK, periods)
}

// @Summary Попадает ли время в нерабочий период
// @Description Без time учитываются только периоды на весь день
// @Tags Нерабочее время
// @Produce json
// @Param professional_id query int true "ID специалиста"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Param time query string false "Время (HH:MM)"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /non-working-periods/check [get]
func (h *Handler) checkNonWorkingTime(c *gin.Context) {
	professionalID, date, at, ok := h.professionalDateTime(c, false)
	if !ok {
		return
	}

	nonWorking, err := h.services.Exclusion.IsNonWorkingTime(c.Request.Context(), professionalID, date, at)
	if err != nil {
		h.handleServiceError(c, err, "ошибка проверки нерабочего времени")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"professional_id": professionalID, "date": date, "is_non_working": nonWorking})
}

// @Summary Исключено ли время из расписания
// @Description Праздник или нерабочий период специалиста
// @Tags Нерабочее время
// @Produce json
// @Param professional_id query int true "ID специалиста"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Param time query string false "Время (HH:MM)"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /non-working-periods/excluded [get]
func (h *Handler) checkExcluded(c *gin.Context) {
	professionalID, date, at, ok := h.professionalDateTime(c, false)
	if !ok {
		return
	}

	excluded, err := h.services.Exclusion.IsExcluded(c.Request.Context(), professionalID, date, at)
	if err != nil {
		h.handleServiceError(c, err, "ошибка проверки исключенного времени")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"professional_id": professionalID, "date": date, "is_excluded": excluded})
}

// @Summary Обновить нерабочий период
// @Tags Нерабочее время
// @Accept json
// @Produce json
// @Param id path int true "ID периода"
// @Param input body domain.UpdateNonWorkingPeriodDTO true "Изменяемые поля"
// @Success 200 {object} domain.NonWorkingPeriod
// @Failure 404 {object} errorResponseBody "Период не найден"
// @Security ApiKeyAuth
// @Router /non-working-periods/{id} [put]
func (h *Handler) updateNonWorkingPeriod(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateNonWorkingPeriodDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	period, err := h.services.NonWorkingPeriod.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка обновления нерабочего периода")
		return
	}

	successResponse(c, http.StatusOK, period)
}

// @Summary Удалить нерабочий период
// @Tags Нерабочее время
// @Param id path int true "ID периода"
// @Success 204
// @Failure 404 {object} errorResponseBody "Период не найден"
// @Security ApiKeyAuth
// @Router /non-working-periods/{id} [delete]
func (h *Handler) deleteNonWorkingPeriod(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.NonWorkingPeriod.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка удаления нерабочего периода")
		return
	}

	noContentResponse(c)
}
