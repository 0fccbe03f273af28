package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"agenda/internal/domain"
)

type Repositories struct {
	ScheduleRule     ScheduleRuleRepository
	Slot             SlotRepository
	Appointment      AppointmentRepository
	NonWorkingPeriod NonWorkingPeriodRepository
	Holiday          HolidayRepository
	SlotConfig       SlotConfigRepository
	Catalog          CatalogRepository
	Locker           Locker
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ScheduleRule:     NewScheduleRuleRepository(db),
		Slot:             NewSlotRepository(db),
		Appointment:      NewAppointmentRepository(db),
		NonWorkingPeriod: NewNonWorkingPeriodRepository(db),
		Holiday:          NewHolidayRepository(db),
		SlotConfig:       NewSlotConfigRepository(db),
		Catalog:          NewCatalogRepository(db),
		Locker:           NewAdvisoryLocker(db),
	}
}

type ScheduleRuleRepository interface {
	Create(ctx context.Context, rule domain.WeeklyScheduleRule) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error)
	Update(ctx context.Context, rule domain.WeeklyScheduleRule) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter domain.ScheduleRuleFilter) ([]domain.WeeklyScheduleRule, error)
}

// SlotRepository mutations are conditional; the bool result reports whether a row matched.
type SlotRepository interface {
	// CreateIfAbsent inserts unless a slot already exists on (professional, date, start).
	CreateIfAbsent(ctx context.Context, slot domain.Slot) (int64, bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.Slot, error)
	// Book links the slot only while it is still available.
	Book(ctx context.Context, id, appointmentID int64, bookedAt time.Time) (bool, error)
	Release(ctx context.Context, id int64) (bool, error)
	DeleteAvailable(ctx context.Context, id int64) (bool, error)
	DeleteAvailableBefore(ctx context.Context, before domain.Date) (int, error)
	Find(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, int, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment domain.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	// Update writes the editable columns only: date, interval, reason and notes.
	Update(ctx context.Context, appointment domain.Appointment) error
	// UpdateStatus changes the status of a booked appointment; false when it is missing or cancelled.
	UpdateStatus(ctx context.Context, id, statusID int64, at time.Time) (bool, error)
	Cancel(ctx context.Context, id int64, at time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListBooked(ctx context.Context, professionalID int64, date domain.Date) ([]domain.Appointment, error)
	CountBooked(ctx context.Context, professionalID int64, date domain.Date) (int, error)
	MarkExpiredBefore(ctx context.Context, before domain.Date, at time.Time) (int, error)
	Find(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
}

type NonWorkingPeriodRepository interface {
	Create(ctx context.Context, period domain.NonWorkingPeriod) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.NonWorkingPeriod, error)
	GetByProfessionalAndDate(ctx context.Context, professionalID int64, date domain.Date) (*domain.NonWorkingPeriod, error)
	Update(ctx context.Context, period domain.NonWorkingPeriod) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListByProfessional(ctx context.Context, professionalID int64, from, to *domain.Date) ([]domain.NonWorkingPeriod, error)
}

type HolidayRepository interface {
	Create(ctx context.Context, holiday domain.Holiday) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Holiday, error)
	GetActiveByDate(ctx context.Context, date domain.Date) (*domain.Holiday, error)
	Update(ctx context.Context, holiday domain.Holiday) error
	Delete(ctx context.Context, id int64) (bool, error)
	Find(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, int, error)
}

type SlotConfigRepository interface {
	Create(ctx context.Context, cfg domain.SlotGenerationConfig) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.SlotGenerationConfig, error)
	GetByProfessionalID(ctx context.Context, professionalID int64) (*domain.SlotGenerationConfig, error)
	Update(ctx context.Context, cfg domain.SlotGenerationConfig) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, autoGenerateOnly bool) ([]domain.SlotGenerationConfig, error)
}

type CatalogRepository interface {
	GetReason(ctx context.Context, id int64) (*domain.AppointmentReason, error)
	ListReasons(ctx context.Context) ([]domain.AppointmentReason, error)
	GetStatus(ctx context.Context, id int64) (*domain.AppointmentStatus, error)
	ListStatuses(ctx context.Context) ([]domain.AppointmentStatus, error)
}

// Locker serializes read-check-write sequences of one professional.
type Locker interface {
	WithProfessionalLock(ctx context.Context, professionalID int64, fn func(ctx context.Context) error) error
}
