package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Добавить праздник
// @Tags Праздники
// @Accept json
// @Produce json
// @Param input body domain.CreateHolidayDTO true "Данные праздника"
// @Success 201 {object} domain.Holiday
// @Failure 400 {object} errorResponseBody "Ошибка валидации данных"
// @Failure 409 {object} errorResponseBody "На эту дату уже есть активный праздник"
// @Security ApiKeyAuth
// @Router /holidays [post]
func (h *Handler) createHoliday(c *gin.Context) {
	var req domain.CreateHolidayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	holiday, err := h.services.Holiday.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка создания праздника")
		return
	}

	createdResponse(c, holiday)
}

// @Summary Получить праздник
// @Tags Праздники
// @Produce json
// @Param id path int true "ID праздника"
// @Success 200 {object} domain.Holiday
// @Failure 404 {object} errorResponseBody "Праздник не найден"
// @Security ApiKeyAuth
// @Router /holidays/{id} [get]
func (h *Handler) getHolidayByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	holiday, err := h.services.Holiday.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения праздника")
		return
	}

	successResponse(c, http.StatusOK, holiday)
}

// @Summary Список праздников
// @Tags Праздники
// @Produce json
// @Param year query int false "Год"
// @Param active query bool false "Активность"
// @Param is_recurring query bool false "Ежегодный"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /holidays [get]
func (h *Handler) getHolidays(c *gin.Context) {
	var filter domain.HolidayFilter

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			badRequestResponse(c, "неверный формат года")
			return
		}
		filter.Year = &year
	}

	active, err := queryBool(c, "active")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	filter.Active = active

	recurring, err := queryBool(c, "is_recurring")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	filter.IsRecurring = recurring
	filter.Limit, filter.Offset = pagination(c)

	holidays, total, err := h.services.Holiday.Find(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения праздников")
		return
	}

	paginatedSuccessResponse(c, holidays, total, filter.Offset/filter.Limit+1, filter.Limit)
}

// @Summary Праздники года
// @Tags Праздники
// @Produce json
// @Param year path int true "Год"
// @Success 200 {array} domain.Holiday
// @Security ApiKeyAuth
// @Router /holidays/year/{year} [get]
func (h *Handler) getHolidaysByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequestResponse(c, "неверный формат года")
		return
	}

	holidays, err := h.services.Holiday.GetByYear(c.Request.Context(), year)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения праздников")
		return
	}

	successResponse(c, http.StatusOK, holidays)
}

// @Summary Активные праздники
// @Tags Праздники
// @Produce json
// @Success 200 {array} domain.Holiday
// @Security ApiKeyAuth
// @Router /holidays/active [get]
func (h *Handler) getActiveHolidays(c *gin.Context) {
	holidays, err := h.services.Holiday.ListActive(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения праздников")
		return
	}

	successResponse(c, http.StatusOK, holidays)
}

// @Summary Является ли дата праздником
// @Tags Праздники
// @Produce json
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /holidays/check [get]
func (h *Handler) checkHoliday(c *gin.Context) {
	date, err := requireQueryDate(c, "date")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}

	isHoliday, err := h.services.Holiday.IsHoliday(c.Request.Context(), date)
	if err != nil {
		h.handleServiceError(c, err, "ошибка проверки праздничного дня")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"date": date, "is_holiday": isHoliday})
}

// @Summary Обновить праздник
// @Tags Праздники
// @Accept json
// @Produce json
// @Param id path int true "ID праздника"
// @Param input body domain.UpdateHolidayDTO true "Изменяемые поля"
// @Success 200 {object} domain.Holiday
// @Failure 404 {object} errorResponseBody "Праздник не найден"
// @Failure 409 {object} errorResponseBody "На эту дату уже есть активный праздник"
// @Security ApiKeyAuth
// @Router /holidays/{id} [put]
func (h *Handler) updateHoliday(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.UpdateHolidayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	holiday, err := h.services.Holiday.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка обновления праздника")
		return
	}

	successResponse(c, http.StatusOK, holiday)
}

// @Summary Удалить праздник
// @Tags Праздники
// @Param id path int true "ID праздника"
// @Success 204
// @Failure 404 {object} errorResponseBody "Праздник не найден"
// @Security ApiKeyAuth
// @Router /holidays/{id} [delete]
func (h *Handler) deleteHoliday(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Holiday.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка удаления праздника")
		return
	}

	noContentResponse(c)
}

// @Summary Перенести повторяющиеся праздники на другой год
// @Tags Праздники
// @Accept json
// @Produce json
// @Param input body domain.CopyRecurringHolidaysDTO true "Годы источника и назначения"
// @Success 200 {object} map[string]int "Количество скопированных праздников"
// @Failure 400 {object} errorResponseBody "Годы совпадают"
// @Security ApiKeyAuth
// @Router /holidays/copy-recurring [post]
func (h *Handler) copyRecurringHolidays(c *gin.Context) {
	var req domain.CopyRecurringHolidaysDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	copied, err := h.services.Holiday.CopyRecurring(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка копирования праздников")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"copied": copied})
}
