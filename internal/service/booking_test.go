package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/internal/domain"
	"agenda/pkg/observability"
)

func TestBookWithSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "09:00", "10:00", 30)
	monday := mustDate(t, "2025-12-22")
	_, err := f.services.Slot.GenerateSlots(ctx, professionalID, monday, monday)
	require.NoError(t, err)

	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, monday)
	require.NoError(t, err)
	slotID := slots[0].ID

	appointment, err := f.services.Booking.Book(ctx, patientID, domain.CreateAppointmentDTO{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		SlotID:         &slotID,
		ReasonID:       reasonID,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", appointment.StartTime.String())
	assert.Equal(t, "09:30", appointment.EndTime.String())
	assert.Equal(t, patientID, appointment.UserID)

	slot, err := f.services.Slot.GetByID(ctx, slotID)
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)
	require.NotNil(t, slot.LinkedAppointmentID)
	assert.Equal(t, appointment.ID, *slot.LinkedAppointmentID)

	_, err = f.services.Booking.Book(ctx, patientID, domain.CreateAppointmentDTO{
		ProfessionalID: professionalID,
		PatientID:      patientID + 1,
		SlotID:         &slotID,
		ReasonID:       reasonID,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

	require.NoError(t, f.services.Appointment.Cancel(ctx, appointment.ID))
	slot, err = f.services.Slot.GetByID(ctx, slotID)
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable, "отмена освобождает слот")
}

func TestBookRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.SlotConfig.Create(ctx, domain.CreateSlotConfigDTO{ProfessionalID: professionalID})
	require.NoError(t, err)
	_, err = f.services.NonWorkingPeriod.Create(ctx, 1, domain.CreateNonWorkingPeriodDTO{
		ProfessionalID: professionalID,
		Date:           "2025-12-22",
		StartTime:      "12:00",
		EndTime:        "13:00",
	})
	require.NoError(t, err)

	request := func(date, start, end string) domain.CreateAppointmentDTO {
		return domain.CreateAppointmentDTO{
			ProfessionalID: professionalID,
			PatientID:      patientID,
			Date:           date,
			StartTime:      start,
			EndTime:        end,
			ReasonID:       reasonID,
		}
	}

	_, err = f.services.Booking.Book(ctx, patientID, request("2025-12-01", "15:00", "15:30"))
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	_, err = f.services.Booking.Book(ctx, patientID, request("2025-12-22", "12:15", "12:45"))
	assert.ErrorIs(t, err, domain.ErrNonWorkingTime)

	_, err = f.services.Booking.Book(ctx, patientID, request("2025-12-22", "11:30", "12:45"))
	assert.ErrorIs(t, err, domain.ErrNonWorkingTime, "запись заходит в нерабочий период")

	_, err = f.services.Booking.Book(ctx, patientID, request("2025-12-22", "11:00", "14:00"))
	assert.ErrorIs(t, err, domain.ErrNonWorkingTime, "запись накрывает нерабочий период")

	adjacent, err := f.services.Booking.Book(ctx, patientID, request("2025-12-22", "11:30", "12:00"))
	require.NoError(t, err, "граница периода не пересекается")
	require.NoError(t, f.services.Appointment.Cancel(ctx, adjacent.ID))

	_, err = f.services.Booking.Book(ctx, patientID, domain.CreateAppointmentDTO{ProfessionalID: professionalID, PatientID: patientID, ReasonID: reasonID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	ok, err := f.services.Booking.Book(ctx, patientID, request("2025-12-22", "14:00", "14:30"))
	require.NoError(t, err)
	assert.True(t, ok.IsBooked)

	_, err = f.services.Booking.Book(ctx, patientID, request("2025-12-22", "14:15", "14:45"))
	assert.ErrorIs(t, err, domain.ErrOverlap)
}

func TestBookSlotOfAnotherProfessional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID + 1, Date: "2025-12-22", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30})
	require.NoError(t, err)

	_, err = f.services.Booking.Book(ctx, patientID, domain.CreateAppointmentDTO{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		SlotID:         &slot.ID,
		ReasonID:       reasonID,
	})
	assert.ErrorIs(t, err, domain.ErrSlotMismatch)

	missing := int64(999)
	_, err = f.services.Booking.Book(ctx, patientID, domain.CreateAppointmentDTO{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		SlotID:         &missing,
		ReasonID:       reasonID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// racingSlots reports the slot as free, then loses the compare-and-set.
type racingSlots struct {
	SlotService
	slot domain.Slot
}

func (r racingSlots) GetByID(context.Context, int64) (*domain.Slot, error) {
	s := r.slot
	return &s, nil
}

func (r racingSlots) Book(context.Context, int64, int64) error {
	return domain.ErrAlreadyBooked
}

func TestBookCompensatesLostSlotRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	slots := racingSlots{slot: domain.Slot{
		ID:              5,
		ProfessionalID:  professionalID,
		Date:            mustDate(t, "2025-12-22"),
		StartTime:       mustTime(t, "09:00"),
		EndTime:         mustTime(t, "09:30"),
		DurationMinutes: 30,
		IsAvailable:     true,
	}}
	booking := NewBookingService(f.services.SlotConfig, f.services.Exclusion, f.services.Appointment, slots, f.repos.Appointment, metrics, zap.NewNop())

	slotID := int64(5)
	_, err = booking.Book(ctx, patientID, domain.CreateAppointmentDTO{
		ProfessionalID: professionalID,
		PatientID:      patientID,
		SlotID:         &slotID,
		ReasonID:       reasonID,
	})
	require.ErrorIs(t, err, domain.ErrAlreadyBooked)

	booked, err := f.repos.Appointment.ListBooked(ctx, professionalID, mustDate(t, "2025-12-22"))
	require.NoError(t, err)
	assert.Empty(t, booked, "запись удаляется, если слот ушел другому")
}
