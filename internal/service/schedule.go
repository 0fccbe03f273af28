package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/clock"
)

type ScheduleRuleServiceImpl struct {
	repo   repository.ScheduleRuleRepository
	clock  clock.Clock
	logger *zap.Logger
}

func NewScheduleRuleService(repo repository.ScheduleRuleRepository, clk clock.Clock, logger *zap.Logger) *ScheduleRuleServiceImpl {
	return &ScheduleRuleServiceImpl{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

func validateRule(rule domain.WeeklyScheduleRule) error {
	if rule.DayOfWeek < time.Sunday || rule.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day_of_week должен быть от 0 до 6", domain.ErrValidation)
	}
	if rule.SlotDurationMinutes <= 0 {
		return fmt.Errorf("%w: slot_duration_minutes должен быть положительным", domain.ErrValidation)
	}
	if rule.EndTime <= rule.StartTime || !rule.EndTime.Valid() {
		return domain.ErrInvalidRange
	}
	return nil
}

func (s *ScheduleRuleServiceImpl) Create(ctx context.Context, dto domain.CreateScheduleRuleDTO) (*domain.WeeklyScheduleRule, error) {
	start, err := domain.ParseTimeOfDay(dto.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(dto.EndTime)
	if err != nil {
		return nil, err
	}
	if dto.DayOfWeek == nil {
		return nil, fmt.Errorf("%w: day_of_week обязателен", domain.ErrValidation)
	}

	now := s.clock.Now()
	rule := domain.WeeklyScheduleRule{
		ProfessionalID:      dto.ProfessionalID,
		DayOfWeek:           time.Weekday(*dto.DayOfWeek),
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: dto.SlotDurationMinutes,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if dto.Active != nil {
		rule.Active = *dto.Active
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, rule)
	if err != nil {
		s.logger.Error("ошибка создания правила расписания", zap.Int64("professionalID", dto.ProfessionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка создания правила расписания: %w", err)
	}

	rule.ID = id
	return &rule, nil
}

func (s *ScheduleRuleServiceImpl) GetByID(ctx context.Context, id int64) (*domain.WeeklyScheduleRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения правила расписания", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения правила расписания: %w", err)
	}
	if rule == nil {
		return nil, domain.NewNotFoundError("правило расписания", id)
	}
	return rule, nil
}

func (s *ScheduleRuleServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateScheduleRuleDTO) (*domain.WeeklyScheduleRule, error) {
	rule, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.DayOfWeek != nil {
		rule.DayOfWeek = time.Weekday(*dto.DayOfWeek)
	}
	if dto.StartTime != nil {
		if rule.StartTime, err = domain.ParseTimeOfDay(*dto.StartTime); err != nil {
			return nil, err
		}
	}
	if dto.EndTime != nil {
		if rule.EndTime, err = domain.ParseTimeOfDay(*dto.EndTime); err != nil {
			return nil, err
		}
	}
	if dto.SlotDurationMinutes != nil {
		rule.SlotDurationMinutes = *dto.SlotDurationMinutes
	}
	if dto.Active != nil {
		rule.Active = *dto.Active
	}
	if err := validateRule(*rule); err != nil {
		return nil, err
	}

	rule.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *rule); err != nil {
		s.logger.Error("ошибка обновления правила расписания", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления правила расписания: %w", err)
	}
	return rule, nil
}

func (s *ScheduleRuleServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления правила расписания", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления правила расписания: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("правило расписания", id)
	}
	return nil
}

func (s *ScheduleRuleServiceImpl) ListByProfessional(ctx context.Context, professionalID int64, activeOnly bool) ([]domain.WeeklyScheduleRule, error) {
	rules, err := s.repo.List(ctx, domain.ScheduleRuleFilter{ProfessionalID: professionalID, ActiveOnly: activeOnly})
	if err != nil {
		s.logger.Error("ошибка получения правил расписания", zap.Int64("professionalID", professionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения правил расписания: %w", err)
	}
	return rules, nil
}
