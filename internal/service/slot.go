package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/events"
	"agenda/internal/repository"
	"agenda/pkg/clock"
	"agenda/pkg/observability"
)

type SlotServiceImpl struct {
	repo       repository.SlotRepository
	ruleRepo   repository.ScheduleRuleRepository
	configRepo repository.SlotConfigRepository
	exclusion  ExclusionService
	publisher  events.Publisher
	clock      clock.Clock
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewSlotService(
	repo repository.SlotRepository,
	ruleRepo repository.ScheduleRuleRepository,
	configRepo repository.SlotConfigRepository,
	exclusion ExclusionService,
	publisher events.Publisher,
	clk clock.Clock,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SlotServiceImpl {
	return &SlotServiceImpl{
		repo:       repo,
		ruleRepo:   ruleRepo,
		configRepo: configRepo,
		exclusion:  exclusion,
		publisher:  publisher,
		clock:      clk,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *SlotServiceImpl) Generate(ctx context.Context, dto domain.GenerateSlotsDTO) (int, error) {
	from, err := domain.ParseDate(dto.DateFrom)
	if err != nil {
		return 0, err
	}
	to, err := domain.ParseDate(dto.DateTo)
	if err != nil {
		return 0, err
	}
	return s.GenerateSlots(ctx, dto.ProfessionalID, from, to)
}

// GenerateSlots materializes the weekly rules of a professional over [from, to].
// Existing slots are left untouched, so repeated runs over the same range create nothing new.
func (s *SlotServiceImpl) GenerateSlots(ctx context.Context, professionalID int64, from, to domain.Date) (int, error) {
	ctx, span := observability.StartSpan(ctx, "SlotService.GenerateSlots",
		attribute.Int64("professional.id", professionalID),
		attribute.String("date.from", from.String()),
		attribute.String("date.to", to.String()),
	)
	defer span.End()

	if to.Before(from) {
		return 0, domain.ErrInvalidRange
	}

	rules, err := s.ruleRepo.List(ctx, domain.ScheduleRuleFilter{ProfessionalID: professionalID, ActiveOnly: true})
	if err != nil {
		s.logger.Error("ошибка получения правил расписания", zap.Int64("professionalID", professionalID), zap.Error(err))
		observability.RecordError(span, err)
		return 0, fmt.Errorf("ошибка получения правил расписания: %w", err)
	}
	if len(rules) == 0 {
		return 0, domain.ErrNoScheduleConfigured
	}

	now := s.clock.Now()
	created := 0
	for date := from; !date.After(to); date = date.AddDays(1) {
		excluded, err := s.dayExcluded(ctx, professionalID, date)
		if err != nil {
			observability.RecordError(span, err)
			return created, err
		}
		if excluded {
			continue
		}

		for _, candidate := range candidateSlots(rules, professionalID, date, now) {
			_, ok, err := s.repo.CreateIfAbsent(ctx, candidate)
			if err != nil {
				s.logger.Error("ошибка создания слота",
					zap.Int64("professionalID", professionalID),
					zap.String("date", date.String()),
					zap.String("start", candidate.StartTime.String()),
					zap.Error(err),
				)
				observability.RecordError(span, err)
				return created, fmt.Errorf("ошибка создания слота: %w", err)
			}
			if ok {
				created++
			}
		}
	}

	span.SetAttributes(attribute.Int("slots.created", created))
	s.metrics.SlotsGenerated.Add(ctx, int64(created))
	s.logger.Info("слоты сгенерированы",
		zap.Int64("professionalID", professionalID),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
		zap.Int("created", created),
	)

	if created > 0 {
		publish(ctx, s.publisher, s.logger, domain.Event{
			Type:           domain.EventSlotsGenerated,
			ProfessionalID: professionalID,
			Payload:        map[string]any{"date_from": from.String(), "date_to": to.String(), "created": created},
			OccurredAt:     now,
		})
	}

	return created, nil
}

// dayExcluded skips holidays and all-day absences. Partial-day periods do not block generation.
func (s *SlotServiceImpl) dayExcluded(ctx context.Context, professionalID int64, date domain.Date) (bool, error) {
	holiday, err := s.exclusion.IsHoliday(ctx, date)
	if err != nil || holiday {
		return holiday, err
	}
	return s.exclusion.IsNonWorkingTime(ctx, professionalID, date, nil)
}

// candidateSlots walks every rule of the weekday and returns the slots ordered by start time.
func candidateSlots(rules []domain.WeeklyScheduleRule, professionalID int64, date domain.Date, now time.Time) []domain.Slot {
	var slots []domain.Slot
	for _, rule := range rules {
		if rule.DayOfWeek != date.Weekday() || rule.SlotDurationMinutes <= 0 {
			continue
		}
		for current := rule.StartTime; current.Add(rule.SlotDurationMinutes) <= rule.EndTime; current = current.Add(rule.SlotDurationMinutes) {
			slots = append(slots, domain.Slot{
				ProfessionalID:  professionalID,
				Date:            date,
				StartTime:       current,
				EndTime:         current.Add(rule.SlotDurationMinutes),
				DurationMinutes: rule.SlotDurationMinutes,
				IsAvailable:     true,
				GeneratedAt:     now,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].StartTime < slots[j].StartTime })
	return slots
}

// GenerateForAutoEnabled runs generation from today up to the advance-booking horizon of every
// professional with auto-generation on. A professional without rules is reported, not fatal.
func (s *SlotServiceImpl) GenerateForAutoEnabled(ctx context.Context) ([]domain.GenerationResult, error) {
	configs, err := s.configRepo.List(ctx, true)
	if err != nil {
		s.logger.Error("ошибка получения конфигураций автогенерации", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения конфигураций автогенерации: %w", err)
	}

	today := domain.DateOf(s.clock.Now())
	results := make([]domain.GenerationResult, 0, len(configs))
	for _, cfg := range configs {
		result := domain.GenerationResult{
			ProfessionalID: cfg.ProfessionalID,
			DateFrom:       today,
			DateTo:         today.AddDays(cfg.AdvanceBookingDays),
		}

		created, err := s.GenerateSlots(ctx, cfg.ProfessionalID, result.DateFrom, result.DateTo)
		switch {
		case errors.Is(err, domain.ErrNoScheduleConfigured):
			s.logger.Warn("у специалиста нет активного расписания", zap.Int64("professionalID", cfg.ProfessionalID))
			result.Error = err.Error()
		case err != nil:
			return results, err
		}

		result.Created = created
		results = append(results, result)
	}

	return results, nil
}

func (s *SlotServiceImpl) Create(ctx context.Context, dto domain.CreateSlotDTO) (*domain.Slot, error) {
	date, err := domain.ParseDate(dto.Date)
	if err != nil {
		return nil, err
	}
	start, err := domain.ParseTimeOfDay(dto.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseTimeOfDay(dto.EndTime)
	if err != nil {
		return nil, err
	}

	if end <= start || dto.DurationMinutes <= 0 || start.Add(dto.DurationMinutes) != end || !end.Valid() {
		return nil, domain.ErrInvalidRange
	}

	slot := domain.Slot{
		ProfessionalID:  dto.ProfessionalID,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: dto.DurationMinutes,
		IsAvailable:     true,
		GeneratedAt:     s.clock.Now(),
	}

	id, created, err := s.repo.CreateIfAbsent(ctx, slot)
	if err != nil {
		s.logger.Error("ошибка создания слота", zap.Int64("professionalID", dto.ProfessionalID), zap.Error(err))
		return nil, fmt.Errorf("ошибка создания слота: %w", err)
	}
	if !created {
		return nil, domain.ErrDuplicateSlot
	}

	slot.ID = id
	return &slot, nil
}

func (s *SlotServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения слота", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения слота: %w", err)
	}
	if slot == nil {
		return nil, domain.NewNotFoundError("слот", id)
	}
	return slot, nil
}

// Book links an available slot to an appointment. Of concurrent callers exactly one succeeds.
func (s *SlotServiceImpl) Book(ctx context.Context, slotID, appointmentID int64) error {
	ctx, span := observability.StartSpan(ctx, "SlotService.Book",
		attribute.Int64("slot.id", slotID),
		attribute.Int64("appointment.id", appointmentID),
	)
	defer span.End()

	now := s.clock.Now()
	booked, err := s.repo.Book(ctx, slotID, appointmentID, now)
	if err != nil {
		s.logger.Error("ошибка бронирования слота", zap.Int64("slotID", slotID), zap.Error(err))
		observability.RecordError(span, err)
		return fmt.Errorf("ошибка бронирования слота: %w", err)
	}

	if !booked {
		slot, err := s.GetByID(ctx, slotID)
		if err != nil {
			return err
		}
		s.logger.Info("слот уже забронирован",
			zap.Int64("slotID", slotID),
			zap.Int64p("linkedAppointmentID", slot.LinkedAppointmentID),
		)
		return domain.ErrAlreadyBooked
	}

	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:       domain.EventSlotBooked,
		EntityID:   slotID,
		Payload:    map[string]any{"appointment_id": appointmentID},
		OccurredAt: now,
	})
	return nil
}

// Release returns a slot to the available state. Releasing an available slot is a no-op.
func (s *SlotServiceImpl) Release(ctx context.Context, slotID int64) error {
	released, err := s.repo.Release(ctx, slotID)
	if err != nil {
		s.logger.Error("ошибка освобождения слота", zap.Int64("slotID", slotID), zap.Error(err))
		return fmt.Errorf("ошибка освобождения слота: %w", err)
	}
	if !released {
		return domain.NewNotFoundError("слот", slotID)
	}

	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:       domain.EventSlotReleased,
		EntityID:   slotID,
		OccurredAt: s.clock.Now(),
	})
	return nil
}

func (s *SlotServiceImpl) Delete(ctx context.Context, slotID int64) error {
	deleted, err := s.repo.DeleteAvailable(ctx, slotID)
	if err != nil {
		s.logger.Error("ошибка удаления слота", zap.Int64("slotID", slotID), zap.Error(err))
		return fmt.Errorf("ошибка удаления слота: %w", err)
	}
	if deleted {
		return nil
	}

	if _, err := s.GetByID(ctx, slotID); err != nil {
		return err
	}
	return domain.ErrSlotInUse
}

// PurgeExpired deletes available slots dated strictly before the given day. Booked slots stay.
func (s *SlotServiceImpl) PurgeExpired(ctx context.Context, before domain.Date) (int, error) {
	deleted, err := s.repo.DeleteAvailableBefore(ctx, before)
	if err != nil {
		s.logger.Error("ошибка удаления устаревших слотов", zap.String("before", before.String()), zap.Error(err))
		return 0, fmt.Errorf("ошибка удаления устаревших слотов: %w", err)
	}

	s.metrics.SlotsPurged.Add(ctx, int64(deleted))
	s.logger.Info("устаревшие слоты удалены", zap.String("before", before.String()), zap.Int("deleted", deleted))

	if deleted > 0 {
		publish(ctx, s.publisher, s.logger, domain.Event{
			Type:       domain.EventSlotsPurged,
			Payload:    map[string]any{"before_date": before.String(), "deleted": deleted},
			OccurredAt: s.clock.Now(),
		})
	}
	return deleted, nil
}

func (s *SlotServiceImpl) ListAvailable(ctx context.Context, professionalID int64, date domain.Date) ([]domain.Slot, error) {
	available := true
	slots, _, err := s.Find(ctx, domain.SlotFilter{
		ProfessionalID: &professionalID,
		DateFrom:       &date,
		DateTo:         &date,
		IsAvailable:    &available,
	})
	return slots, err
}

func (s *SlotServiceImpl) Find(ctx context.Context, filter domain.SlotFilter) ([]domain.Slot, int, error) {
	slots, total, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка поиска слотов", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка поиска слотов: %w", err)
	}
	return slots, total, nil
}
