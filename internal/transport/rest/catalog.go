package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Причины обращения
// @Tags Справочники
// @Produce json
// @Success 200 {array} domain.AppointmentReason
// @Security ApiKeyAuth
// @Router /catalog/reasons [get]
func (h *Handler) getReasons(c *gin.Context) {
	reasons, err := h.services.Catalog.ListReasons(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения причин обращения")
		return
	}

	successResponse(c, http.StatusOK, reasons)
}

// @Summary Статусы записи
// @Tags Справочники
// @Produce json
// @Success 200 {array} domain.AppointmentStatus
// @Security ApiKeyAuth
// @Router /catalog/statuses [get]
func (h *Handler) getStatuses(c *gin.Context) {
	statuses, err := h.services.Catalog.ListStatuses(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "ошибка получения статусов записи")
		return
	}

	successResponse(c, http.StatusOK, statuses)
}
