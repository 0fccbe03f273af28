package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/events"
	"agenda/internal/repository"
	"agenda/internal/storage"
	"agenda/pkg/clock"
	"agenda/pkg/observability"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Publisher   events.Publisher
	Clock       clock.Clock
	Metrics     *observability.Metrics
}

type Services struct {
	Exclusion        ExclusionService
	Slot             SlotService
	Appointment      AppointmentService
	Booking          BookingService
	SlotConfig       SlotConfigService
	Holiday          HolidayService
	NonWorkingPeriod NonWorkingPeriodService
	ScheduleRule     ScheduleRuleService
	Catalog          CatalogService
	Export           ExportService
	Auth             AuthService
}

func NewServices(deps Deps) (*Services, error) {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Noop{}
	}
	if deps.Metrics == nil {
		metrics, err := observability.InitMetrics()
		if err != nil {
			return nil, err
		}
		deps.Metrics = metrics
	}

	repos := deps.Repos
	exclusion := NewExclusionService(repos.Holiday, repos.NonWorkingPeriod, deps.Logger)
	slots := NewSlotService(repos.Slot, repos.ScheduleRule, repos.SlotConfig, exclusion, deps.Publisher, deps.Clock, deps.Metrics, deps.Logger)
	appointments := NewAppointmentService(repos.Appointment, repos.Slot, repos.Catalog, repos.Locker, deps.Publisher, deps.Clock, deps.Logger)
	slotConfigs := NewSlotConfigService(repos.SlotConfig, repos.Appointment, deps.Clock, deps.Config.Scheduling, deps.Logger)

	return &Services{
		Exclusion:        exclusion,
		Slot:             slots,
		Appointment:      appointments,
		Booking:          NewBookingService(slotConfigs, exclusion, appointments, slots, repos.Appointment, deps.Metrics, deps.Logger),
		SlotConfig:       slotConfigs,
		Holiday:          NewHolidayService(repos.Holiday, deps.Clock, deps.Logger),
		NonWorkingPeriod: NewNonWorkingPeriodService(repos.NonWorkingPeriod, deps.Clock, deps.Logger),
		ScheduleRule:     NewScheduleRuleService(repos.ScheduleRule, deps.Clock, deps.Logger),
		Catalog:          NewCatalogService(repos.Catalog, deps.Logger),
		Export:           NewExportService(slots, deps.FileStorage, deps.Config.S3.ExportURLTTL, deps.Clock, deps.Logger),
		Auth:             NewAuthService(deps.Config.JWT, deps.Logger),
	}, nil
}

type ExclusionService interface {
	IsHoliday(ctx context.Context, date domain.Date) (bool, error)
	IsNonWorkingTime(ctx context.Context, professionalID int64, date domain.Date, at *domain.TimeOfDay) (bool, error)
	IsExcluded(ctx context.Context, professionalID int64, date domain.Date, at *domain.TimeOfDay) (bool, error)
	IsIntervalExcluded(ctx context.Context, professionalID int64, date domain.Date, start, end domain.TimeOfDay) (bool, error)
}

type SlotService interface {
	Generate(ctx context.Context, dto domain.GenerateSlotsDTO) (int, error)
	GenerateSlots(ctx context.Context, professionalID int64, from, to domain.Date) (int, error)
	GenerateForAutoEnabled(ctx context.Context) ([]domain.GenerationResult, error)
	Create(ctx context.Context, dto domain.CreateSlotDTO) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	Book(ctx context.Context, slotID, appointmentID int64) error
	Release(ctx context.Context, slotID int64) error
	Delete(ctx context.Context, slotID int64) error
	PurgeExpired(ctx context.Context, before domain.Date) (int, error)
	ListAvailable(ctx context.Context, professionalID int64, date domain.Date) ([]domain.Slot, error)
	Find(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, int, error)
}

type AppointmentService interface {
	CreateAppointment(ctx context.Context, in domain.NewAppointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Find(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	ListByProfessionalAndDate(ctx context.Context, professionalID int64, date domain.Date) ([]domain.Appointment, error)
	Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id, statusID int64) error
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ExpireOutdated(ctx context.Context) (int, error)
}

type BookingService interface {
	Book(ctx context.Context, userID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
}

type SlotConfigService interface {
	Create(ctx context.Context, dto domain.CreateSlotConfigDTO) (*domain.SlotGenerationConfig, error)
	GetByID(ctx context.Context, id int64) (*domain.SlotGenerationConfig, error)
	GetByProfessionalID(ctx context.Context, professionalID int64) (*domain.SlotGenerationConfig, error)
	List(ctx context.Context) ([]domain.SlotGenerationConfig, error)
	ListAutoGenerateEnabled(ctx context.Context) ([]domain.SlotGenerationConfig, error)
	Update(ctx context.Context, id int64, dto domain.UpdateSlotConfigDTO) (*domain.SlotGenerationConfig, error)
	UpdateByProfessionalID(ctx context.Context, professionalID int64, dto domain.UpdateSlotConfigDTO) (*domain.SlotGenerationConfig, error)
	Delete(ctx context.Context, id int64) error
	CanBook(ctx context.Context, professionalID int64, date domain.Date, at domain.TimeOfDay) (bool, error)
}

type HolidayService interface {
	Create(ctx context.Context, dto domain.CreateHolidayDTO) (*domain.Holiday, error)
	GetByID(ctx context.Context, id int64) (*domain.Holiday, error)
	Update(ctx context.Context, id int64, dto domain.UpdateHolidayDTO) (*domain.Holiday, error)
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, int, error)
	GetByYear(ctx context.Context, year int) ([]domain.Holiday, error)
	ListActive(ctx context.Context) ([]domain.Holiday, error)
	IsHoliday(ctx context.Context, date domain.Date) (bool, error)
	CopyRecurring(ctx context.Context, dto domain.CopyRecurringHolidaysDTO) (int, error)
}

type NonWorkingPeriodService interface {
	Create(ctx context.Context, createdBy int64, dto domain.CreateNonWorkingPeriodDTO) (*domain.NonWorkingPeriod, error)
	GetByID(ctx context.Context, id int64) (*domain.NonWorkingPeriod, error)
	Update(ctx context.Context, id int64, dto domain.UpdateNonWorkingPeriodDTO) (*domain.NonWorkingPeriod, error)
	Delete(ctx context.Context, id int64) error
	ListByProfessional(ctx context.Context, professionalID int64, from, to *domain.Date) ([]domain.NonWorkingPeriod, error)
}

type ScheduleRuleService interface {
	Create(ctx context.Context, dto domain.CreateScheduleRuleDTO) (*domain.WeeklyScheduleRule, error)
	GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error)
	Update(ctx context.Context, id int64, dto domain.UpdateScheduleRuleDTO) (*domain.WeeklyScheduleRule, error)
	Delete(ctx context.Context, id int64) error
	ListByProfessional(ctx context.Context, professionalID int64, activeOnly bool) ([]domain.WeeklyScheduleRule, error)
}

type CatalogService interface {
	ListReasons(ctx context.Context) ([]domain.AppointmentReason, error)
	ListStatuses(ctx context.Context) ([]domain.AppointmentStatus, error)
}

type ExportService interface {
	ExportSlots(ctx context.Context, dto domain.ExportSlotsDTO) (*domain.SlotExport, error)
}

type AuthService interface {
	GenerateToken(userID int64, role domain.UserRole, ttl time.Duration) (string, error)
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

// publish delivers an event without failing the caller.
func publish(ctx context.Context, publisher events.Publisher, logger *zap.Logger, event domain.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("не удалось опубликовать событие",
			zap.String("type", string(event.Type)),
			zap.Int64("entityID", event.EntityID),
			zap.Error(err),
		)
	}
}
