package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/events"
	"agenda/internal/repository"
	"agenda/pkg/clock"
	"agenda/pkg/observability"
)

type AppointmentServiceImpl struct {
	repo        repository.AppointmentRepository
	slotRepo    repository.SlotRepository
	catalogRepo repository.CatalogRepository
	locker      repository.Locker
	overlap     *OverlapValidator
	publisher   events.Publisher
	clock       clock.Clock
	logger      *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	slotRepo repository.SlotRepository,
	catalogRepo repository.CatalogRepository,
	locker repository.Locker,
	publisher events.Publisher,
	clk clock.Clock,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:        repo,
		slotRepo:    slotRepo,
		catalogRepo: catalogRepo,
		locker:      locker,
		overlap:     NewOverlapValidator(repo, logger),
		publisher:   publisher,
		clock:       clk,
		logger:      logger,
	}
}

// CreateAppointment checks the interval, then the reason, then overlaps, and stores a pending booked appointment.
func (s *AppointmentServiceImpl) CreateAppointment(ctx context.Context, in domain.NewAppointment) (*domain.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "AppointmentService.CreateAppointment",
		attribute.Int64("professional.id", in.ProfessionalID),
		attribute.String("date", in.Date.String()),
		attribute.String("start", in.StartTime.String()),
		attribute.String("end", in.EndTime.String()),
	)
	defer span.End()

	if in.EndTime <= in.StartTime || !in.StartTime.Valid() || !in.EndTime.Valid() {
		return nil, domain.ErrInvalidRange
	}

	if err := s.checkReason(ctx, in.ReasonID); err != nil {
		return nil, err
	}

	var created *domain.Appointment
	err := s.locker.WithProfessionalLock(ctx, in.ProfessionalID, func(ctx context.Context) error {
		if err := s.overlap.Validate(ctx, in.ProfessionalID, in.Date, in.StartTime, in.EndTime, 0); err != nil {
			return err
		}

		now := s.clock.Now()
		appointment := domain.Appointment{
			ProfessionalID: in.ProfessionalID,
			PatientID:      in.PatientID,
			Date:           in.Date,
			StartTime:      in.StartTime,
			EndTime:        in.EndTime,
			ReasonID:       in.ReasonID,
			StatusID:       domain.StatusPending,
			UserID:         in.UserID,
			Notes:          in.Notes,
			IsBooked:       true,
			IsExpired:      false,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		id, err := s.repo.Create(ctx, appointment)
		if err != nil {
			s.logger.Error("ошибка создания записи", zap.Int64("professionalID", in.ProfessionalID), zap.Error(err))
			return fmt.Errorf("ошибка создания записи: %w", err)
		}

		appointment.ID = id
		created = &appointment
		return nil
	})
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("запись создана",
		zap.Int64("id", created.ID),
		zap.Int64("professionalID", created.ProfessionalID),
		zap.String("date", created.Date.String()),
		zap.String("start", created.StartTime.String()),
	)
	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:           domain.EventAppointmentCreated,
		ProfessionalID: created.ProfessionalID,
		EntityID:       created.ID,
		Payload:        map[string]any{"date": created.Date.String(), "start_time": created.StartTime.String(), "end_time": created.EndTime.String()},
		OccurredAt:     created.CreatedAt,
	})

	return created, nil
}

func (s *AppointmentServiceImpl) checkReason(ctx context.Context, reasonID int64) error {
	reason, err := s.catalogRepo.GetReason(ctx, reasonID)
	if err != nil {
		s.logger.Error("ошибка получения причины обращения", zap.Int64("reasonID", reasonID), zap.Error(err))
		return fmt.Errorf("ошибка получения причины обращения: %w", err)
	}
	if reason == nil {
		return domain.ErrReasonNotFound
	}
	return nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения записи", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	if appointment == nil {
		return nil, domain.NewNotFoundError("запись", id)
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) Find(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, total, err := s.repo.Find(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка поиска записей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка поиска записей: %w", err)
	}
	return appointments, total, nil
}

func (s *AppointmentServiceImpl) ListByProfessionalAndDate(ctx context.Context, professionalID int64, date domain.Date) ([]domain.Appointment, error) {
	appointments, _, err := s.Find(ctx, domain.AppointmentFilter{
		ProfessionalID: &professionalID,
		DateFrom:       &date,
		DateTo:         &date,
	})
	return appointments, err
}

// Update reschedules or edits an appointment. The row is re-read and written under the professional
// lock, and a new interval is checked against the other booked appointments. A slot linked to the old
// interval is released.
func (s *AppointmentServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateAppointmentDTO) (*domain.Appointment, error) {
	var (
		date       *domain.Date
		start, end *domain.TimeOfDay
	)
	if dto.Date != nil {
		parsed, err := domain.ParseDate(*dto.Date)
		if err != nil {
			return nil, err
		}
		date = &parsed
	}
	if dto.StartTime != nil {
		parsed, err := domain.ParseTimeOfDay(*dto.StartTime)
		if err != nil {
			return nil, err
		}
		start = &parsed
	}
	if dto.EndTime != nil {
		parsed, err := domain.ParseTimeOfDay(*dto.EndTime)
		if err != nil {
			return nil, err
		}
		end = &parsed
	}

	owner, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.ReasonID != nil && *dto.ReasonID != owner.ReasonID {
		if err := s.checkReason(ctx, *dto.ReasonID); err != nil {
			return nil, err
		}
	}

	var (
		updated     domain.Appointment
		rescheduled bool
	)
	err = s.locker.WithProfessionalLock(ctx, owner.ProfessionalID, func(ctx context.Context) error {
		current, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated = *current
		if date != nil {
			updated.Date = *date
		}
		if start != nil {
			updated.StartTime = *start
		}
		if end != nil {
			updated.EndTime = *end
		}
		if dto.Notes != nil {
			updated.Notes = *dto.Notes
		}
		if dto.ReasonID != nil {
			updated.ReasonID = *dto.ReasonID
		}

		if updated.EndTime <= updated.StartTime {
			return domain.ErrInvalidRange
		}

		rescheduled = !updated.Date.Equal(current.Date) ||
			updated.StartTime != current.StartTime ||
			updated.EndTime != current.EndTime

		if rescheduled && updated.IsBooked {
			if err := s.overlap.Validate(ctx, updated.ProfessionalID, updated.Date, updated.StartTime, updated.EndTime, updated.ID); err != nil {
				return err
			}
		}

		updated.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, updated); err != nil {
			s.logger.Error("ошибка обновления записи", zap.Int64("id", id), zap.Error(err))
			return fmt.Errorf("ошибка обновления записи: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rescheduled {
		if err := s.releaseLinkedSlot(ctx, id); err != nil {
			return nil, err
		}
	}

	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:           domain.EventAppointmentUpdated,
		ProfessionalID: updated.ProfessionalID,
		EntityID:       updated.ID,
		OccurredAt:     updated.UpdatedAt,
	})
	return &updated, nil
}

// UpdateStatus changes the status of a booked appointment. A cancelled appointment keeps its status.
func (s *AppointmentServiceImpl) UpdateStatus(ctx context.Context, id, statusID int64) error {
	status, err := s.catalogRepo.GetStatus(ctx, statusID)
	if err != nil {
		s.logger.Error("ошибка получения статуса записи", zap.Int64("statusID", statusID), zap.Error(err))
		return fmt.Errorf("ошибка получения статуса записи: %w", err)
	}
	if status == nil {
		return domain.ErrStatusNotFound
	}

	if statusID == domain.StatusCancelled {
		return s.Cancel(ctx, id)
	}

	owner, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	at := s.clock.Now()
	err = s.locker.WithProfessionalLock(ctx, owner.ProfessionalID, func(ctx context.Context) error {
		updated, err := s.repo.UpdateStatus(ctx, id, statusID, at)
		if err != nil {
			s.logger.Error("ошибка обновления статуса записи", zap.Int64("id", id), zap.Error(err))
			return fmt.Errorf("ошибка обновления статуса записи: %w", err)
		}
		if updated {
			return nil
		}

		current, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !current.IsBooked {
			return domain.ErrAppointmentCancelled
		}
		return domain.NewNotFoundError("запись", id)
	})
	if err != nil {
		return err
	}

	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:           domain.EventAppointmentUpdated,
		ProfessionalID: owner.ProfessionalID,
		EntityID:       id,
		Payload:        map[string]any{"status_id": statusID},
		OccurredAt:     at,
	})
	return nil
}

// Cancel frees the interval of the appointment and the slot linked to it.
func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64) error {
	owner, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	at := s.clock.Now()
	err = s.locker.WithProfessionalLock(ctx, owner.ProfessionalID, func(ctx context.Context) error {
		cancelled, err := s.repo.Cancel(ctx, id, at)
		if err != nil {
			s.logger.Error("ошибка отмены записи", zap.Int64("id", id), zap.Error(err))
			return fmt.Errorf("ошибка отмены записи: %w", err)
		}
		if !cancelled {
			return domain.NewNotFoundError("запись", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.releaseLinkedSlot(ctx, id); err != nil {
		return err
	}

	s.logger.Info("запись отменена", zap.Int64("id", id))
	publish(ctx, s.publisher, s.logger, domain.Event{
		Type:           domain.EventAppointmentCancelled,
		ProfessionalID: owner.ProfessionalID,
		EntityID:       id,
		OccurredAt:     at,
	})
	return nil
}

func (s *AppointmentServiceImpl) releaseLinkedSlot(ctx context.Context, appointmentID int64) error {
	slot, err := s.slotRepo.GetByAppointmentID(ctx, appointmentID)
	if err != nil {
		s.logger.Error("ошибка получения слота записи", zap.Int64("appointmentID", appointmentID), zap.Error(err))
		return fmt.Errorf("ошибка получения слота записи: %w", err)
	}
	if slot == nil {
		return nil
	}

	if _, err := s.slotRepo.Release(ctx, slot.ID); err != nil {
		s.logger.Error("ошибка освобождения слота", zap.Int64("slotID", slot.ID), zap.Error(err))
		return fmt.Errorf("ошибка освобождения слота: %w", err)
	}
	return nil
}

func (s *AppointmentServiceImpl) Delete(ctx context.Context, id int64) error {
	slot, err := s.slotRepo.GetByAppointmentID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения слота записи", zap.Int64("appointmentID", id), zap.Error(err))
		return fmt.Errorf("ошибка получения слота записи: %w", err)
	}
	if slot != nil {
		return domain.ErrSlotInUse
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("ошибка удаления записи", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления записи: %w", err)
	}
	if !deleted {
		return domain.NewNotFoundError("запись", id)
	}
	return nil
}

// ExpireOutdated flags every appointment dated before today.
func (s *AppointmentServiceImpl) ExpireOutdated(ctx context.Context) (int, error) {
	now := s.clock.Now()
	marked, err := s.repo.MarkExpiredBefore(ctx, domain.DateOf(now), now)
	if err != nil {
		s.logger.Error("ошибка пометки устаревших записей", zap.Error(err))
		return 0, fmt.Errorf("ошибка пометки устаревших записей: %w", err)
	}

	s.logger.Info("устаревшие записи помечены", zap.Int("marked", marked))
	return marked, nil
}
