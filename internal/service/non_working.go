package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/clock"
)

type NonWorkingPeriodServiceImpl struct {
	repo   repository.NonWorkingPeriodRepository
	clock  clock.Clock
	logger *zap.Logger
}

func NewNonWorkingPeriodService(repo repository.NonWorkingPeriodRepository, clk clock.Clock, logger *zap.Logger) *NonWorkingPeriodServiceImpl {
	return &NonWorkingPeriodServiceImpl{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// validatePeriod drops the times of an all-day period and requires a proper interval otherwise.
func validatePeriod(period *domain.NonWorkingPeriod) error {
	if period.AllDay {
		period.StartTime, period.EndTime = nil, nil
		return nil
	}
	if period.StartTime == nil || period.EndTime == nil {
		return fmt.Errorf("%w: для неполного дня требуются start_time и end_time", domain.ErrValidation)
	}
	if *period.EndTime <= *period.StartTime {
		return domain.ErrInvalidRange
	}
	return nil
}

func (s *NonWorkingPeriodServiceImpl) Create(ctx context.Context, createdBy int64, dto domain.CreateNonWorkingPeriodDTO) (*domain.NonWorkingPeriod, error) {
	date, err := domain.ParseDate(dto.Date)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseOptionalTimeOfDay(dto.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseOptionalTimeOfDay(dto.EndTime)
	if err != nil {
		return nil, err
	}

	period := domain.NonWorkingPeriod{
		ProfessionalID: dto.ProfessionalID,
		Date:           date,
		Reason:         dto.Reason,
		AllDay:         dto.AllDay,
		StartTime:      start,
		EndTime:        end,
		CreatedAt:      s.clock.Now(),
		CreatedBy:      createdBy,
	}
	if err := validatePeriod(&period); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, period)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateNonWorkingPeriod) {
			return nil, err
		}
		s.logger.Error("ошибка создания нерабочего периода", zap.Int64("professionalID", dto.ProfessionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка создания нерабочего периода: %w", err)
	}

	period.ID = id
	return &period, nil
}

func (s *NonWorkingPeriodServiceImpl) GetByID(ctx context.Context, id int64) (*domain.NonWorkingPeriod, error) {
	period, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения нерабочего периода", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения нерабочего периода: %w", err)
	}
	if period == nil {
		return nil, domain.NewNotFoundError("нерабочий период", id)
	}
	return period, nil
}

func (s *NonWorkingPeriodServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateNonWorkingPeriodDTO) (*domain.NonWorkingPeriod, error) {
	period, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Date != nil {
		if period.Date, err = domain.ParseDate(*dto.Date); err != nil {
			return nil, err
		}
	}
	if dto.Reason != nil {
		period.Reason = *dto.Reason
	}
	if dto.AllDay != nil {
		period.AllDay = *dto.AllDay
	}
	if dto.StartTime != nil {
		if period.StartTime, err = domain.ParseOptionalTimeOfDay(*dto.StartTime); err != nil {
			return nil, err
		}
	}
	if dto.EndTime != nil {
		if period.EndTime, err = domain.ParseOptionalTimeOfDay(*dto.EndTime); err != nil {
			return nil, err
		}
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, *period); err != nil {
		if errors.Is(err, domain.ErrDuplicateNonWorkingPeriod) {
			return nil, err
		}
		s.logger.Error("ошибка обновления нерабочего периода", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления нерабочего периода: %w", err)
	}
	return period, nil
}

func (s *NonWorkingPeriodServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления нерабочего периода", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления нерабочего периода: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("нерабочий период", id)
	}
	return nil
}

func (s *NonWorkingPeriodServiceImpl) ListByProfessional(ctx context.Context, professionalID int64, from, to *domain.Date) ([]domain.NonWorkingPeriod, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidRange
	}

	periods, err := s.repo.ListByProfessional(ctx, professionalID, from, to)
	if err != nil {
		s.logger.Error("ошибка получения нерабочих периодов", zap.Int64("professionalID", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения нерабочих периодов: %w", err)
	}
	return periods, nil
}
