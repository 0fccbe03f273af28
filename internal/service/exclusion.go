package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
)

// ExclusionServiceImpl answers whether a date, or a time on a date, is blocked for a professional.
type ExclusionServiceImpl struct {
	holidayRepo    repository.HolidayRepository
	nonWorkingRepo repository.NonWorkingPeriodRepository
	logger         *zap.Logger
}

func NewExclusionService(
	holidayRepo repository.HolidayRepository,
	nonWorkingRepo repository.NonWorkingPeriodRepository,
	logger *zap.Logger,
) *ExclusionServiceImpl {
	return &ExclusionServiceImpl{
		holidayRepo:    holidayRepo,
		nonWorkingRepo: nonWorkingRepo,
		logger:         logger,
	}
}

func (s *ExclusionServiceImpl) IsHoliday(ctx context.Context, date domain.Date) (bool, error) {
	holiday, err := s.holidayRepo.GetActiveByDate(ctx, date)
	if err != nil {
		s.logger.Error("ошибка проверки праздничного дня", zap.String("date", date.String()), zap.Error(err))
		return false, fmt.Errorf("ошибка проверки праздничного дня: %w", err)
	}
	return holiday != nil, nil
}

// IsNonWorkingTime checks the declared absence only. Without at, partial-day periods never match.
func (s *ExclusionServiceImpl) IsNonWorkingTime(ctx context.Context, professionalID int64, date domain.Date, at *domain.TimeOfDay) (bool, error) {
	period, err := s.period(ctx, professionalID, date)
	if err != nil || period == nil {
		return false, err
	}
	return period.Covers(at), nil
}

func (s *ExclusionServiceImpl) period(ctx context.Context, professionalID int64, date domain.Date) (*domain.NonWorkingPeriod, error) {
	period, err := s.nonWorkingRepo.GetByProfessionalAndDate(ctx, professionalID, date)
	if err != nil {
		s.logger.Error("ошибка получения нерабочего периода",
			zap.Int64("professionalID", professionalID),
			zap.String("date", date.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("ошибка получения нерабочего периода: %w", err)
	}
	return period, nil
}

func (s *ExclusionServiceImpl) IsExcluded(ctx context.Context, professionalID int64, date domain.Date, at *domain.TimeOfDay) (bool, error) {
	holiday, err := s.IsHoliday(ctx, date)
	if err != nil || holiday {
		return holiday, err
	}
	return s.IsNonWorkingTime(ctx, professionalID, date, at)
}

// IsIntervalExcluded is IsExcluded for a whole [start, end) interval.
func (s *ExclusionServiceImpl) IsIntervalExcluded(ctx context.Context, professionalID int64, date domain.Date, start, end domain.TimeOfDay) (bool, error) {
	holiday, err := s.IsHoliday(ctx, date)
	if err != nil || holiday {
		return holiday, err
	}

	period, err := s.period(ctx, professionalID, date)
	if err != nil || period == nil {
		return false, err
	}
	return period.Intersects(start, end), nil
}
