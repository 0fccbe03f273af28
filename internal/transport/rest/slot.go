package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// @Summary Создать слот вручную
// @Tags Слоты
// @Accept json
// @Produce json
// @Param input body domain.CreateSlotDTO true "Интервал слота"
// @Success 201 {object} domain.Slot
// @Failure 400 {object} errorResponseBody "Некорректный интервал"
// @Failure 409 {object} errorResponseBody "Слот на это время уже существует"
// @Security ApiKeyAuth
// @Router /slots [post]
func (h *Handler) createSlot(c *gin.Context) {
	var req domain.CreateSlotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	slot, err := h.services.Slot.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка создания слота")
		return
	}

	createdResponse(c, slot)
}

// @Summary Поиск слотов
// @Tags Слоты
// @Produce json
// @Param professional_id query int false "ID специалиста"
// @Param date_from query string false "Начальная дата (YYYY-MM-DD)"
// @Param date_to query string false "Конечная дата (YYYY-MM-DD)"
// @Param time_from query string false "Не раньше (HH:MM)"
// @Param time_to query string false "Не позже (HH:MM)"
// @Param is_available query bool false "Только свободные или только занятые"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /slots [get]
func (h *Handler) getSlots(c *gin.Context) {
	var (
		filter domain.SlotFilter
		err    error
	)
	if filter.ProfessionalID, err = queryInt64(c, "professional_id"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.DateFrom, err = queryDate(c, "date_from"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.DateTo, err = queryDate(c, "date_to"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.TimeFrom, err = queryTime(c, "time_from"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.TimeTo, err = queryTime(c, "time_to"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.IsAvailable, err = queryBool(c, "is_available"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	filter.Limit, filter.Offset = pagination(c)

	slots, total, err := h.services.Slot.Find(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err, "ошибка поиска слотов")
		return
	}

	paginatedSuccessResponse(c, slots, total, filter.Offset/filter.Limit+1, filter.Limit)
}

// @Summary Свободные слоты специалиста на дату
// @Tags Слоты
// @Produce json
// @Param professional_id query int true "ID специалиста"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Security ApiKeyAuth
// @Router /slots/available [get]
func (h *Handler) getAvailableSlots(c *gin.Context) {
	professionalID, err := requireQueryInt64(c, "professional_id")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	date, err := requireQueryDate(c, "date")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}

	slots, err := h.services.Slot.ListAvailable(c.Request.Context(), professionalID, date)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения свободных слотов")
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Получить слот
// @Tags Слоты
// @Produce json
// @Param id path int true "ID слота"
// @Success 200 {object} domain.Slot
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Security ApiKeyAuth
// @Router /slots/{id} [get]
func (h *Handler) getSlotByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.services.Slot.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения слота")
		return
	}

	successResponse(c, http.StatusOK, slot)
}

// @Summary Удалить свободный слот
// @Tags Слоты
// @Param id path int true "ID слота"
// @Success 204
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Failure 409 {object} errorResponseBody "Слот связан с записью"
// @Security ApiKeyAuth
// @Router /slots/{id} [delete]
func (h *Handler) deleteSlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Slot.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка удаления слота")
		return
	}

	noContentResponse(c)
}

// @Summary Привязать слот к записи
// @Tags Слоты
// @Accept json
// @Produce json
// @Param id path int true "ID слота"
// @Param input body domain.BookSlotDTO true "ID записи"
// @Success 200 {object} messageResponseType
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Failure 409 {object} errorResponseBody "Слот уже забронирован"
// @Security ApiKeyAuth
// @Router /slots/{id}/book [post]
func (h *Handler) bookSlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req domain.BookSlotDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Slot.Book(c.Request.Context(), id, req.AppointmentID); err != nil {
		h.handleServiceError(c, err, "ошибка бронирования слота")
		return
	}

	messageResponse(c, http.StatusOK, "слот забронирован")
}

// @Summary Освободить слот
// @Tags Слоты
// @Produce json
// @Param id path int true "ID слота"
// @Success 200 {object} messageResponseType
// @Failure 404 {object} errorResponseBody "Слот не найден"
// @Security ApiKeyAuth
// @Router /slots/{id}/release [post]
func (h *Handler) releaseSlot(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Slot.Release(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка освобождения слота")
		return
	}

	messageResponse(c, http.StatusOK, "слот освобожден")
}

// @Summary Сгенерировать слоты по расписанию
// @Tags Слоты
// @Accept json
// @Produce json
// @Param input body domain.GenerateSlotsDTO true "Специалист и диапазон дат"
// @Success 200 {object} map[string]int "Количество созданных слотов"
// @Failure 400 {object} errorResponseBody "Некорректный диапазон"
// @Failure 422 {object} errorResponseBody "У специалиста нет расписания"
// @Security ApiKeyAuth
// @Router /slots/generate [post]
func (h *Handler) generateSlots(c *gin.Context) {
	var req domain.GenerateSlotsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	created, err := h.services.Slot.Generate(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка генерации слотов")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"created": created})
}

// @Summary Сгенерировать слоты для всех специалистов с автогенерацией
// @Tags Слоты
// @Produce json
// @Success 200 {array} domain.GenerationResult
// @Security ApiKeyAuth
// @Router /slots/generate/auto [post]
func (h *Handler) generateSlotsAuto(c *gin.Context) {
	results, err := h.services.Slot.GenerateForAutoEnabled(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка автоматической генерации слотов")
		return
	}

	successResponse(c, http.StatusOK, results)
}

// @Summary Удалить прошедшие свободные слоты
// @Tags Слоты
// @Accept json
// @Produce json
// @Param input body domain.PurgeSlotsDTO true "Граница по дате"
// @Success 200 {object} map[string]int "Количество удаленных слотов"
// @Security ApiKeyAuth
// @Router /slots/purge [post]
func (h *Handler) purgeSlots(c *gin.Context) {
	var req domain.PurgeSlotsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	before, err := domain.ParseDate(req.BeforeDate)
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}

	deleted, err := h.services.Slot.PurgeExpired(c.Request.Context(), before)
	if err != nil {
		h.handleServiceError(c, err, "ошибка удаления прошедших слотов")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"deleted": deleted})
}

// @Summary Выгрузить расписание в CSV
// @Description Загружает слоты специалиста за период в файловое хранилище и возвращает временную ссылку
// @Tags Слоты
// @Accept json
// @Produce json
// @Param input body domain.ExportSlotsDTO true "Специалист и диапазон дат"
// @Success 200 {object} domain.SlotExport
// @Failure 503 {object} errorResponseBody "Файловое хранилище не настроено"
// @Security ApiKeyAuth
// @Router /slots/export [post]
func (h *Handler) exportSlots(c *gin.Context) {
	var req domain.ExportSlotsDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	export, err := h.services.Export.ExportSlots(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка выгрузки расписания")
		return
	}

	successResponse(c, http.StatusOK, export)
}
