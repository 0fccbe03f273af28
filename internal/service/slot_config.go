package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agenda/config"
	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/clock"
)

type SlotConfigServiceImpl struct {
	repo            repository.SlotConfigRepository
	appointmentRepo repository.AppointmentRepository
	clock           clock.Clock
	scheduling      config.SchedulingConfig
	logger          *zap.Logger
}

func NewSlotConfigService(
	repo repository.SlotConfigRepository,
	appointmentRepo repository.AppointmentRepository,
	clk clock.Clock,
	scheduling config.SchedulingConfig,
	logger *zap.Logger,
) *SlotConfigServiceImpl {
	return &SlotConfigServiceImpl{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		clock:           clk,
		scheduling:      scheduling,
		logger:          logger,
	}
}

func validateSlotConfig(cfg domain.SlotGenerationConfig) error {
	switch {
	case cfg.AdvanceBookingDays < 0:
		return fmt.Errorf("%w: advance_booking_days не может быть отрицательным", domain.ErrValidation)
	case cfg.MinAdvanceHours < 0:
		return fmt.Errorf("%w: min_advance_hours не может быть отрицательным", domain.ErrValidation)
	case cfg.BufferTimeMinutes < 0:
		return fmt.Errorf("%w: buffer_time_minutes не может быть отрицательным", domain.ErrValidation)
	case cfg.MaxAppointmentsPerDay != nil && *cfg.MaxAppointmentsPerDay <= 0:
		return fmt.Errorf("%w: max_appointments_per_day должен быть положительным", domain.ErrValidation)
	}
	return nil
}

func (s *SlotConfigServiceImpl) Create(ctx context.Context, dto domain.CreateSlotConfigDTO) (*domain.SlotGenerationConfig, error) {
	now := s.clock.Now()
	cfg := domain.SlotGenerationConfig{
		ProfessionalID:        dto.ProfessionalID,
		AdvanceBookingDays:    domain.DefaultAdvanceBookingDays,
		MinAdvanceHours:       domain.DefaultMinAdvanceHours,
		AllowSameDayBooking:   domain.DefaultAllowSameDayBooking,
		AutoGenerateSlots:     domain.DefaultAutoGenerateSlots,
		MaxAppointmentsPerDay: dto.MaxAppointmentsPerDay,
		BufferTimeMinutes:     domain.DefaultBufferTimeMinutes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	applySlotConfigUpdate(&cfg, domain.UpdateSlotConfigDTO{
		AdvanceBookingDays:  dto.AdvanceBookingDays,
		MinAdvanceHours:     dto.MinAdvanceHours,
		AllowSameDayBooking: dto.AllowSameDayBooking,
		AutoGenerateSlots:   dto.AutoGenerateSlots,
		BufferTimeMinutes:   dto.BufferTimeMinutes,
	})

	if err := validateSlotConfig(cfg); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, cfg)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateConfig) {
			return nil, err
		}
		s.logger.Error("ошибка создания конфигурации слотов", zap.Int64("professionalID", dto.ProfessionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка создания конфигурации слотов: %w", err)
	}

	cfg.ID = id
	return &cfg, nil
}

func applySlotConfigUpdate(cfg *domain.SlotGenerationConfig, dto domain.UpdateSlotConfigDTO) {
	if dto.AdvanceBookingDays != nil {
		cfg.AdvanceBookingDays = *dto.AdvanceBookingDays
	}
	if dto.MinAdvanceHours != nil {
		cfg.MinAdvanceHours = *dto.MinAdvanceHours
	}
	if dto.AllowSameDayBooking != nil {
		cfg.AllowSameDayBooking = *dto.AllowSameDayBooking
	}
	if dto.AutoGenerateSlots != nil {
		cfg.AutoGenerateSlots = *dto.AutoGenerateSlots
	}
	if dto.MaxAppointmentsPerDay != nil {
		cfg.MaxAppointmentsPerDay = dto.MaxAppointmentsPerDay
	}
	if dto.BufferTimeMinutes != nil {
		cfg.BufferTimeMinutes = *dto.BufferTimeMinutes
	}
}

func (s *SlotConfigServiceImpl) GetByID(ctx context.Context, id int64) (*domain.SlotGenerationConfig, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения конфигурации слотов", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения конфигурации слотов: %w", err)
	}
	if cfg == nil {
		return nil, domain.NewNotFoundError("конфигурация слотов", id)
	}
	return cfg, nil
}

func (s *SlotConfigServiceImpl) GetByProfessionalID(ctx context.Context, professionalID int64) (*domain.SlotGenerationConfig, error) {
	cfg, err := s.repo.GetByProfessionalID(ctx, professionalID)
	if err != nil {
		s.logger.Error("ошибка получения конфигурации специалиста", zap.Int64("professionalID", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения конфигурации специалиста: %w", err)
	}
	if cfg == nil {
		return nil, domain.NewNotFoundError("конфигурация специалиста", professionalID)
	}
	return cfg, nil
}

func (s *SlotConfigServiceImpl) List(ctx context.Context) ([]domain.SlotGenerationConfig, error) {
	return s.list(ctx, false)
}

func (s *SlotConfigServiceImpl) ListAutoGenerateEnabled(ctx context.Context) ([]domain.SlotGenerationConfig, error) {
	return s.list(ctx, true)
}

func (s *SlotConfigServiceImpl) list(ctx context.Context, autoGenerateOnly bool) ([]domain.SlotGenerationConfig, error) {
	configs, err := s.repo.List(ctx, autoGenerateOnly)
	if err != nil {
		s.logger.Error("ошибка получения списка конфигураций", zap.Bool("autoGenerateOnly", autoGenerateOnly), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка конфигураций: %w", err)
	}
	return configs, nil
}

func (s *SlotConfigServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateSlotConfigDTO) (*domain.SlotGenerationConfig, error) {
	cfg, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, cfg, dto)
}

func (s *SlotConfigServiceImpl) UpdateByProfessionalID(ctx context.Context, professionalID int64, dto domain.UpdateSlotConfigDTO) (*domain.SlotGenerationConfig, error) {
	cfg, err := s.GetByProfessionalID(ctx, professionalID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, cfg, dto)
}

func (s *SlotConfigServiceImpl) update(ctx context.Context, cfg *domain.SlotGenerationConfig, dto domain.UpdateSlotConfigDTO) (*domain.SlotGenerationConfig, error) {
	applySlotConfigUpdate(cfg, dto)
	if err := validateSlotConfig(*cfg); err != nil {
		return nil, err
	}

	cfg.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *cfg); err != nil {
		s.logger.Error("ошибка обновления конфигурации слотов", zap.Int64("id", cfg.ID), zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления конфигурации слотов: %w", err)
	}
	return cfg, nil
}

func (s *SlotConfigServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления конфигурации слотов", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления конфигурации слотов: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("конфигурация слотов", id)
	}
	return nil
}

// CanBook evaluates the booking policy of a professional for a start at date/at.
// Without a stored policy every time is bookable.
func (s *SlotConfigServiceImpl) CanBook(ctx context.Context, professionalID int64, date domain.Date, at domain.TimeOfDay) (bool, error) {
	cfg, err := s.repo.GetByProfessionalID(ctx, professionalID)
	if err != nil {
		s.logger.Error("ошибка получения конфигурации специалиста", zap.Int64("professionalID", professionalID), zap.Error(err))
		return false, fmt.Errorf("ошибка получения конфигурации специалиста: %w", err)
	}
	if cfg == nil {
		return true, nil
	}

	now := s.clock.Now()
	today := domain.DateOf(now)

	if !cfg.AllowSameDayBooking && date.Equal(today) {
		return false, nil
	}

	hoursUntil := date.At(at, now.Location()).Sub(now).Hours()
	if hoursUntil < float64(cfg.MinAdvanceHours) {
		return false, nil
	}

	if today.DaysUntil(date) > cfg.AdvanceBookingDays {
		return false, nil
	}

	if s.scheduling.EnforceDailyLimit && cfg.MaxAppointmentsPerDay != nil {
		booked, err := s.appointmentRepo.CountBooked(ctx, professionalID, date)
		if err != nil {
			s.logger.Error("ошибка подсчета записей", zap.Int64("professionalID", professionalID), zap.Error(err))
			return false, fmt.Errorf("ошибка подсчета записей: %w", err)
		}
		if booked >= *cfg.MaxAppointmentsPerDay {
			return false, nil
		}
	}

	return true, nil
}
