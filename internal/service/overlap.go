package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/internal/repository"
)

// OverlapValidator rejects a candidate interval that intersects a booked appointment
// of the same professional on the same day. Callers hold the professional lock.
type OverlapValidator struct {
	repo   repository.AppointmentRepository
	logger *zap.Logger
}

func NewOverlapValidator(repo repository.AppointmentRepository, logger *zap.Logger) *OverlapValidator {
	return &OverlapValidator{repo: repo, logger: logger}
}

// Validate ignores the appointment with id excludeID, which lets a reschedule keep its own interval.
func (v *OverlapValidator) Validate(ctx context.Context, professionalID int64, date domain.Date, start, end domain.TimeOfDay, excludeID int64) error {
	if end <= start || !start.Valid() || !end.Valid() {
		return domain.ErrInvalidRange
	}

	booked, err := v.repo.ListBooked(ctx, professionalID, date)
	if err != nil {
		v.logger.Error("ошибка получения записей специалиста",
			zap.Int64("professionalID", professionalID),
			zap.String("date", date.String()),
			zap.Error(err),
		)
		return fmt.Errorf("ошибка получения записей специалиста: %w", err)
	}

	if conflict := findOverlap(booked, start, end, excludeID); conflict != nil {
		return &domain.OverlapError{
			AppointmentID: conflict.ID,
			Start:         conflict.StartTime,
			End:           conflict.EndTime,
		}
	}
	return nil
}

func findOverlap(booked []domain.Appointment, start, end domain.TimeOfDay, excludeID int64) *domain.Appointment {
	for i := range booked {
		if booked[i].ID == excludeID || !booked[i].IsBooked {
			continue
		}
		if booked[i].Overlaps(start, end) {
			return &booked[i]
		}
	}
	return nil
}
