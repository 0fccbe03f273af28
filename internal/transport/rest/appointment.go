package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

// canAccessAppointment: managers see everything, a professional sees own agenda, a patient own records.
func canAccessAppointment(role domain.UserRole, userID int64, a *domain.Appointment) bool {
	switch {
	case role.CanManageSchedules():
		return true
	case role == domain.UserRoleProfessional:
		return a.ProfessionalID == userID
	default:
		return a.PatientID == userID || a.UserID == userID
	}
}

// loadAccessibleAppointment writes the response itself when the caller cannot proceed.
func (h *Handler) loadAccessibleAppointment(c *gin.Context) (*domain.Appointment, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}
	role, _ := getUserRole(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения записи")
		return nil, false
	}

	if !canAccessAppointment(role, userID, appointment) {
		h.logger.Warn("попытка несанкционированного доступа", zap.Int64("userID", userID), zap.Int64("appointmentID", id))
		forbiddenResponse(c)
		return nil, false
	}

	return appointment, true
}

// @Summary Записаться на прием
// @Description Проверяет правила специалиста и нерабочее время, затем создает запись и бронирует слот, если он указан
// @Tags Записи
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} domain.Appointment
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Запись за другого пациента"
// @Failure 409 {object} errorResponseBody "Время занято"
// @Failure 422 {object} errorResponseBody "Запись на это время недоступна"
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}
	role, _ := getUserRole(c)

	var req domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if role == domain.UserRolePatient && req.PatientID != userID {
		forbiddenResponse(c, "пациент может записываться только сам")
		return
	}

	appointment, err := h.services.Booking.Book(c.Request.Context(), userID, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка создания записи")
		return
	}

	createdResponse(c, appointment)
}

// @Summary Получить запись
// @Tags Записи
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} domain.Appointment
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Поиск записей
// @Description Пациент видит только свои записи, специалист только записи к себе
// @Tags Записи
// @Produce json
// @Param professional_id query int false "ID специалиста"
// @Param patient_id query int false "ID пациента"
// @Param status_id query int false "ID статуса"
// @Param is_booked query bool false "Занимает ли запись время"
// @Param date_from query string false "Начальная дата (YYYY-MM-DD)"
// @Param date_to query string false "Конечная дата (YYYY-MM-DD)"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}
	role, _ := getUserRole(c)

	var filter domain.AppointmentFilter
	if filter.ProfessionalID, err = queryInt64(c, "professional_id"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.PatientID, err = queryInt64(c, "patient_id"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.StatusID, err = queryInt64(c, "status_id"); err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return
	}
	if filter.IsBooked, err = queryBool(c, "is_booked"); err != nil {
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
	filter.Limit, filter.Offset = pagination(c)

	switch {
	case role.CanManageSchedules():
	case role == domain.UserRoleProfessional:
		filter.ProfessionalID = &userID
	default:
		filter.PatientID = &userID
	}

	appointments, total, err := h.services.Appointment.Find(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err, "ошибка поиска записей")
		return
	}

	paginatedSuccessResponse(c, appointments, total, filter.Offset/filter.Limit+1, filter.Limit)
}

// @Summary Изменить запись
// @Description Перенос на другое время повторно проверяет пересечения и освобождает привязанный слот
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.UpdateAppointmentDTO true "Изменяемые поля"
// @Success 200 {object} domain.Appointment
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 409 {object} errorResponseBody "Время занято"
// @Security ApiKeyAuth
// @Router /appointments/{id} [put]
func (h *Handler) updateAppointment(c *gin.Context) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	var req domain.UpdateAppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	updated, err := h.services.Appointment.Update(c.Request.Context(), appointment.ID, req)
	if err != nil {
		h.handleServiceError(c, err, "ошибка обновления записи")
		return
	}

	successResponse(c, http.StatusOK, updated)
}

// @Summary Изменить статус записи
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.UpdateAppointmentStatusDTO true "Новый статус"
// @Success 200 {object} messageResponseType
// @Failure 400 {object} errorResponseBody "Статус не найден"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 409 {object} errorResponseBody "Запись отменена"
// @Security ApiKeyAuth
// @Router /appointments/{id}/status [patch]
func (h *Handler) updateAppointmentStatus(c *gin.Context) {
	role, _ := getUserRole(c)
	if role == domain.UserRolePatient {
		forbiddenResponse(c, "пациент не может менять статус записи")
		return
	}

	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	var req domain.UpdateAppointmentStatusDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.UpdateStatus(c.Request.Context(), appointment.ID, req.StatusID); err != nil {
		h.handleServiceError(c, err, "ошибка изменения статуса записи")
		return
	}

	messageResponse(c, http.StatusOK, "статус записи изменен")
}

// @Summary Отменить запись
// @Description Освобождает время и привязанный слот
// @Tags Записи
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /appointments/{id}/cancel [post]
func (h *Handler) cancelAppointment(c *gin.Context) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), appointment.ID); err != nil {
		h.handleServiceError(c, err, "ошибка отмены записи")
		return
	}

	messageResponse(c, http.StatusOK, "запись отменена")
}

// @Summary Удалить запись
// @Tags Записи
// @Param id path int true "ID записи"
// @Success 204
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 409 {object} errorResponseBody "Запись связана со слотом"
// @Security ApiKeyAuth
// @Router /appointments/{id} [delete]
func (h *Handler) deleteAppointment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Appointment.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "ошибка удаления записи")
		return
	}

	noContentResponse(c)
}

// @Summary Пометить прошедшие записи
// @Tags Записи
// @Produce json
// @Success 200 {object} map[string]int "Количество помеченных записей"
// @Security ApiKeyAuth
// @Router /appointments/expire [post]
func (h *Handler) expireAppointments(c *gin.Context) {
	marked, err := h.services.Appointment.ExpireOutdated(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка пометки прошедших записей")
		return
	}

	successResponse(c, http.StatusOK, gin.H{"expired": marked})
}

// @Summary Проверить возможность записи
// @Description Применяет правила специалиста: горизонт записи, минимальный запас времени и запись в тот же день
// @Tags Записи
// @Produce json
// @Param professional_id query int true "ID специалиста"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Param time query string true "Время (HH:MM)"
// @Success 200 {object} domain.Eligibility
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Security ApiKeyAuth
// @Router /appointments/eligibility [get]
func (h *Handler) checkEligibility(c *gin.Context) {
	professionalID, date, at, ok := h.professionalDateTime(c, true)
	if !ok {
		return
	}

	canBook, err := h.services.SlotConfig.CanBook(c.Request.Context(), professionalID, date, *at)
	if err != nil {
		h.handleServiceError(c, err, "ошибка проверки возможности записи")
		return
	}

	successResponse(c, http.StatusOK, domain.Eligibility{
		ProfessionalID: professionalID,
		Date:           date,
		Time:           *at,
		CanBook:        canBook,
	})
}

// professionalDateTime reads professional_id, date and time from the query; time is optional unless required.
func (h *Handler) professionalDateTime(c *gin.Context, timeRequired bool) (int64, domain.Date, *domain.TimeOfDay, bool) {
	professionalID, err := requireQueryInt64(c, "professional_id")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return 0, domain.Date{}, nil, false
	}
	date, err := requireQueryDate(c, "date")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return 0, domain.Date{}, nil, false
	}
	at, err := queryTime(c, "time")
	if err != nil {
		h.handleServiceError(c, err, "неверные параметры запроса")
		return 0, domain.Date{}, nil, false
	}
	if timeRequired && at == nil {
		badRequestResponse(c, "параметр time обязателен")
		return 0, domain.Date{}, nil, false
	}
	return professionalID, date, at, true
}
