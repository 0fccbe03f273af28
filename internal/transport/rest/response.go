package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/internal/domain"
)

type errorResponseBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type messageResponseType struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type paginatedResponse struct {
	Data       interface{} `json:"data"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

func messageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, messageResponseType{
		Status:  "success",
		Message: message,
	})
}

func paginatedSuccessResponse(c *gin.Context, data interface{}, totalCount, page, pageSize int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = totalCount / pageSize
		if totalCount%pageSize > 0 {
			totalPages++
		}
	}

	c.JSON(http.StatusOK, paginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "требуется авторизация")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "доступ запрещен"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	errorResponse(c, http.StatusForbidden, msg)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// statusOf maps a service error to an HTTP status. Unknown errors are internal.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrReasonNotFound),
		errors.Is(err, domain.ErrStatusNotFound),
		errors.Is(err, domain.ErrSlotMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateSlot),
		errors.Is(err, domain.ErrDuplicateHoliday),
		errors.Is(err, domain.ErrDuplicateNonWorkingPeriod),
		errors.Is(err, domain.ErrDuplicateConfig),
		errors.Is(err, domain.ErrAlreadyBooked),
		errors.Is(err, domain.ErrSlotInUse),
		errors.Is(err, domain.ErrAppointmentCancelled),
		errors.Is(err, domain.ErrOverlap):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoScheduleConfigured),
		errors.Is(err, domain.ErrNotEligible),
		errors.Is(err, domain.ErrNonWorkingTime):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the error of a service call. Domain errors keep their message,
// storage failures are logged and hidden behind a generic one.
func (h *Handler) handleServiceError(c *gin.Context, err error, action string) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(action, zap.String("path", c.FullPath()), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	h.logger.Debug(action, zap.Int("status", status), zap.Error(err))
	errorResponse(c, status, err.Error())
}
