package rest

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/service"
	"agenda/pkg/observability"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	metrics  *observability.Metrics
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config, metrics *observability.Metrics) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
		metrics:  metrics,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.requestIDMiddleware())
	router.Use(h.loggerMiddleware())
	router.Use(h.metricsMiddleware())
	router.Use(h.errorMiddleware())
	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1", h.authMiddleware())
	{
		h.initScheduleRuleRoutes(api)
		h.initSlotRoutes(api)
		h.initAppointmentRoutes(api)
		h.initHolidayRoutes(api)
		h.initNonWorkingPeriodRoutes(api)
		h.initSlotConfigRoutes(api)

		catalog := api.Group("/catalog")
		{
			catalog.GET("/reasons", h.getReasons)
			catalog.GET("/statuses", h.getStatuses)
		}
	}
}

func (h *Handler) initScheduleRuleRoutes(api *gin.RouterGroup) {
	rules := api.Group("/schedule-rules")
	{
		rules.GET("", h.getScheduleRules)
		rules.GET("/:id", h.getScheduleRuleByID)

		manager := rules.Group("", h.managerMiddleware())
		{
			manager.POST("", h.createScheduleRule)
			manager.PUT("/:id", h.updateScheduleRule)
			manager.DELETE("/:id", h.deleteScheduleRule)
		}
	}
}

func (h *Handler) initSlotRoutes(api *gin.RouterGroup) {
	slots := api.Group("/slots")
	{
		slots.GET("", h.getSlots)
		slots.GET("/available", h.getAvailableSlots)
		slots.GET("/:id", h.getSlotByID)

		manager := slots.Group("", h.managerMiddleware())
		{
			manager.POST("", h.createSlot)
			manager.DELETE("/:id", h.deleteSlot)
			manager.POST("/:id/book", h.bookSlot)
			manager.POST("/:id/release", h.releaseSlot)
			manager.POST("/generate", h.generateSlots)
			manager.POST("/generate/auto", h.generateSlotsAuto)
			manager.POST("/purge", h.purgeSlots)
			manager.POST("/export", h.exportSlots)
		}
	}
}

func (h *Handler) initAppointmentRoutes(api *gin.RouterGroup) {
	appointments := api.Group("/appointments")
	{
		appointments.POST("", h.createAppointment)
		appointments.GET("", h.getAppointments)
		appointments.GET("/eligibility", h.checkEligibility)
		appointments.GET("/:id", h.getAppointmentByID)
		appointments.PUT("/:id", h.updateAppointment)
		appointments.PATCH("/:id/status", h.updateAppointmentStatus)
		appointments.POST("/:id/cancel", h.cancelAppointment)

		manager := appointments.Group("", h.managerMiddleware())
		{
			manager.DELETE("/:id", h.deleteAppointment)
			manager.POST("/expire", h.expireAppointments)
		}
	}
}

func (h *Handler) initHolidayRoutes(api *gin.RouterGroup) {
	holidays := api.Group("/holidays")
	{
		holidays.GET("", h.getHolidays)
		holidays.GET("/year/:year", h.getHolidaysByYear)
		holidays.GET("/active", h.getActiveHolidays)
		holidays.GET("/check", h.checkHoliday)
		holidays.GET("/:id", h.getHolidayByID)

		manager := holidays.Group("", h.managerMiddleware())
		{
			manager.POST("", h.createHoliday)
			manager.PUT("/:id", h.updateHoliday)
			manager.DELETE("/:id", h.deleteHoliday)
			manager.POST("/copy-recurring", h.copyRecurringHolidays)
		}
	}
}

func (h *Handler) initNonWorkingPeriodRoutes(api *gin.RouterGroup) {
	periods := api.Group("/non-working-periods")
	{
		periods.GET("", h.getNonWorkingPeriods)
		periods.GET("/check", h.checkNonWorkingTime)
		periods.GET("/excluded", h.checkExcluded)
		periods.GET("/:id", h.getNonWorkingPeriodByID)

		manager := periods.Group("", h.managerMiddleware())
		{
			manager.POST("", h.createNonWorkingPeriod)
			manager.PUT("/:id", h.updateNonWorkingPeriod)
			manager.DELETE("/:id", h.deleteNonWorkingPeriod)
		}
	}
}

func (h *Handler) initSlotConfigRoutes(api *gin.RouterGroup) {
	configs := api.Group("/slot-configs")
	{
		configs.GET("/professional/:id", h.getSlotConfigByProfessional)

		manager := configs.Group("", h.managerMiddleware())
		{
			manager.GET("", h.getSlotConfigs)
			manager.GET("/auto-generate", h.getAutoGenerateSlotConfigs)
			manager.GET("/:id", h.getSlotConfigByID)
			manager.POST("", h.createSlotConfig)
			manager.PUT("/:id", h.updateSlotConfig)
			manager.PUT("/professional/:id", h.updateSlotConfigByProfessional)
			manager.DELETE("/:id", h.deleteSlotConfig)
		}
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "неверный формат ID")
		return 0, false
	}
	return id, true
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: параметр %s должен быть числом", domain.ErrValidation, name)
	}
	return &v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: параметр %s должен быть true или false", domain.ErrValidation, name)
	}
	return &v, nil
}

func queryDate(c *gin.Context, name string) (*domain.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func queryTime(c *gin.Context, name string) (*domain.TimeOfDay, error) {
	return domain.ParseOptionalTimeOfDay(c.Query(name))
}

func requireQueryInt64(c *gin.Context, name string) (int64, error) {
	v, err := queryInt64(c, name)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%w: параметр %s обязателен", domain.ErrValidation, name)
	}
	return *v, nil
}

func requireQueryDate(c *gin.Context, name string) (domain.Date, error) {
	d, err := queryDate(c, name)
	if err != nil {
		return domain.Date{}, err
	}
	if d == nil {
		return domain.Date{}, fmt.Errorf("%w: параметр %s обязателен", domain.ErrValidation, name)
	}
	return *d, nil
}

// pagination reads limit/offset with the same defaults everywhere.
func pagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
