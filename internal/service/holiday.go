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

type HolidayServiceImpl struct {
	repo   repository.HolidayRepository
	clock  clock.Clock
	logger *zap.Logger
}

func NewHolidayService(repo repository.HolidayRepository, clk clock.Clock, logger *zap.Logger) *HolidayServiceImpl {
	return &HolidayServiceImpl{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

func (s *HolidayServiceImpl) Create(ctx context.Context, dto domain.CreateHolidayDTO) (*domain.Holiday, error) {
	date, err := domain.ParseDate(dto.Date)
	if err != nil {
		return nil, err
	}

	holiday := domain.Holiday{
		Date:        date,
		Name:        dto.Name,
		IsRecurring: dto.IsRecurring,
		Active:      true,
		CreatedAt:   s.clock.Now(),
	}
	if dto.Active != nil {
		holiday.Active = *dto.Active
	}

	id, err := s.repo.Create(ctx, holiday)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateHoliday) {
			return nil, err
		}
		s.logger.Error("ошибка создания праздника", zap.String("date", dto.Date), zap.Error(err))
		return nil, fmt.Errorf("ошибка создания праздника: %w", err)
	}

	holiday.ID = id
	return &holiday, nil
}

func (s *HolidayServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	holiday, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения праздника", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения праздника: %w", err)
	}
	if holiday == nil {
		return nil, domain.NewNotFoundError("праздник", id)
	}
	return holiday, nil
}

func (s *HolidayServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateHolidayDTO) (*domain.Holiday, error) {
	holiday, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.Date != nil {
		if holiday.Date, err = domain.ParseDate(*dto.Date); err != nil {
			return nil, err
		}
	}
	if dto.Name != nil {
		holiday.Name = *dto.Name
	}
	if dto.IsRecurring != nil {
		holiday.IsRecurring = *dto.IsRecurring
	}
	if dto.Active != nil {
		holiday.Active = *dto.Active
	}

	if err := s.repo.Update(ctx, *holiday); err != nil {
		if errors.Is(err, domain.ErrDuplicateHoliday) {
			return nil, err
		}
		s.logger.Error("ошибка обновления праздника", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления праздника: %w", err)
	}
	return holiday, nil
}

func (s *HolidayServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления праздника", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления праздника: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("праздник", id)
	}
	return nil
}

func (s *HolidayServiceImpl) Find(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, int, error) {
	holidays, total, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка поиска праздников", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка поиска праздников: %w", err)
	}
	return holidays, total, nil
}

func (s *HolidayServiceImpl) GetByYear(ctx context.Context, year int) ([]domain.Holiday, error) {
	holidays, _, err := s.Find(ctx, domain.HolidayFilter{Year: &year})
	return holidays, err
}

func (s *HolidayServiceImpl) ListActive(ctx context.Context) ([]domain.Holiday, error) {
	active := true
	holidays, _, err := s.Find(ctx, domain.HolidayFilter{Active: &active})
	return holidays, err
}

func (s *HolidayServiceImpl) IsHoliday(ctx context.Context, date domain.Date) (bool, error) {
	holiday, err := s.repo.GetActiveByDate(ctx, date)
	if err != nil {
		s.logger.Error("ошибка проверки праздничного дня", zap.String("date", date.String()), zap.Error(err))
		return false, fmt.Errorf("ошибка проверки праздничного дня: %w", err)
	}
	return holiday != nil, nil
}

// CopyRecurring repeats the recurring holidays of one year in another.
// Dates that already carry an active holiday in the target year are skipped.
func (s *HolidayServiceImpl) CopyRecurring(ctx context.Context, dto domain.CopyRecurringHolidaysDTO) (int, error) {
	if dto.FromYear == dto.ToYear {
		return 0, fmt.Errorf("%w: годы источника и назначения совпадают", domain.ErrValidation)
	}

	source, err := s.GetByYear(ctx, dto.FromYear)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	copied := 0
	for _, holiday := range source {
		if !holiday.IsRecurring {
			continue
		}

		target := holiday.Date.WithYear(dto.ToYear)
		existing, err := s.repo.GetActiveByDate(ctx, target)
		if err != nil {
			s.logger.Error("ошибка проверки праздничного дня", zap.String("date", target.String()), zap.Error(err))
			return copied, fmt.Errorf("ошибка проверки праздничного дня: %w", err)
		}
		if existing != nil {
			continue
		}

		_, err = s.repo.Create(ctx, domain.Holiday{
			Date:        target,
			Name:        holiday.Name,
			IsRecurring: true,
			Active:      holiday.Active,
			CreatedAt:   now,
		})
		if errors.Is(err, domain.ErrDuplicateHoliday) {
			continue
		}
		if err != nil {
			s.logger.Error("ошибка копирования праздника", zap.String("date", target.String()), zap.Error(err))
			return copied, fmt.Errorf("ошибка копирования праздника: %w", err)
		}
		copied++
	}

	s.logger.Info("повторяющиеся праздники скопированы",
		zap.Int("fromYear", dto.FromYear),
		zap.Int("toYear", dto.ToYear),
		zap.Int("copied", copied),
	)
	return copied, nil
}
