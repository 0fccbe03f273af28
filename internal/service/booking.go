package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
	"agenda/pkg/observability"
)

// BookingServiceImpl runs a booking request through the booking policy, the exclusion
// calendar and the overlap check, then links the requested slot.
type BookingServiceImpl struct {
	eligibility     SlotConfigService
	exclusion       ExclusionService
	appointments    AppointmentService
	slots           SlotService
	appointmentRepo repository.AppointmentRepository
	metrics         *observability.Metrics
	logger          *zap.Logger
}

func NewBookingService(
	eligibility SlotConfigService,
	exclusion ExclusionService,
	appointments AppointmentService,
	slots SlotService,
	appointmentRepo repository.AppointmentRepository,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *BookingServiceImpl {
	return &BookingServiceImpl{
		eligibility:     eligibility,
		exclusion:       exclusion,
		appointments:    appointments,
		slots:           slots,
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
		logger:          logger,
	}
}

func (s *BookingServiceImpl) Book(ctx context.Context, userID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	ctx, span := observability.StartSpan(ctx, "BookingService.Book",
		attribute.Int64("professional.id", dto.ProfessionalID),
		attribute.Int64("user.id", userID),
	)
	defer span.End()

	appointment, err := s.book(ctx, userID, dto)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordBookingRejected(ctx, s.metrics, rejectionReason(err))
		return nil, err
	}

	s.metrics.BookingsAccepted.Add(ctx, 1)
	return appointment, nil
}

func (s *BookingServiceImpl) book(ctx context.Context, userID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	in := domain.NewAppointment{
		ProfessionalID: dto.ProfessionalID,
		PatientID:      dto.PatientID,
		ReasonID:       dto.ReasonID,
		UserID:         userID,
		Notes:          dto.Notes,
	}

	var slot *domain.Slot
	if dto.SlotID != nil {
		var err error
		slot, err = s.slots.GetByID(ctx, *dto.SlotID)
		if err != nil {
			return nil, err
		}
		if slot.ProfessionalID != dto.ProfessionalID {
			return nil, domain.ErrSlotMismatch
		}
		if !slot.IsAvailable {
			return nil, domain.ErrAlreadyBooked
		}
		in.Date, in.StartTime, in.EndTime = slot.Date, slot.StartTime, slot.EndTime
	} else {
		if err := parseInterval(dto, &in); err != nil {
			return nil, err
		}
	}

	eligible, err := s.eligibility.CanBook(ctx, in.ProfessionalID, in.Date, in.StartTime)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, domain.ErrNotEligible
	}

	excluded, err := s.exclusion.IsIntervalExcluded(ctx, in.ProfessionalID, in.Date, in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if excluded {
		return nil, domain.ErrNonWorkingTime
	}

	appointment, err := s.appointments.CreateAppointment(ctx, in)
	if err != nil {
		return nil, err
	}

	if slot == nil {
		return appointment, nil
	}

	if err := s.slots.Book(ctx, slot.ID, appointment.ID); err != nil {
		s.compensate(ctx, appointment.ID, err)
		return nil, err
	}
	return appointment, nil
}

// compensate removes an appointment whose slot was taken by a concurrent request.
func (s *BookingServiceImpl) compensate(ctx context.Context, appointmentID int64, cause error) {
	s.logger.Warn("слот занят параллельным запросом, запись удаляется",
		zap.Int64("appointmentID", appointmentID),
		zap.Error(cause),
	)
	if _, err := s.appointmentRepo.Delete(ctx, appointmentID); err != nil {
		s.logger.Error("не удалось удалить запись после неудачного бронирования",
			zap.Int64("appointmentID", appointmentID),
			zap.Error(err),
		)
	}
}

func parseInterval(dto domain.CreateAppointmentDTO, in *domain.NewAppointment) error {
	if dto.Date == "" || dto.StartTime == "" || dto.EndTime == "" {
		return fmt.Errorf("%w: укажите slot_id или date, start_time и end_time", domain.ErrValidation)
	}

	var err error
	if in.Date, err = domain.ParseDate(dto.Date); err != nil {
		return err
	}
	if in.StartTime, err = domain.ParseTimeOfDay(dto.StartTime); err != nil {
		return err
	}
	if in.EndTime, err = domain.ParseTimeOfDay(dto.EndTime); err != nil {
		return err
	}
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotEligible):
		return "not_eligible"
	case errors.Is(err, domain.ErrNonWorkingTime):
		return "non_working_time"
	case errors.Is(err, domain.ErrOverlap):
		return "overlap"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return "already_booked"
	case errors.Is(err, domain.ErrInvalidRange), errors.Is(err, domain.ErrValidation):
		return "invalid_request"
	case errors.Is(err, domain.ErrReasonNotFound):
		return "reason_not_found"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSlotMismatch):
		return "slot_not_found"
	default:
		return "internal"
	}
}
