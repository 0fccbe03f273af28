package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/domain"
)

func TestGenerateSlotsMondayRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "09:00", "10:00", 30)

	monday := mustDate(t, "2025-12-22")
	created, err := f.services.Slot.GenerateSlots(ctx, professionalID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, monday)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	assert.Equal(t, "09:30", slots[0].EndTime.String())
	assert.Equal(t, "09:30", slots[1].StartTime.String())
	assert.Equal(t, "10:00", slots[1].EndTime.String())
	for _, slot := range slots {
		assert.True(t, slot.IsAvailable)
		assert.Nil(t, slot.LinkedAppointmentID)
		assert.Equal(t, slot.StartTime.Add(slot.DurationMinutes), slot.EndTime)
		assert.Equal(t, f.clock.Now(), slot.GeneratedAt)
	}
}

func TestGenerateSlotsUntilMidnight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "23:00", "24:00", 30)

	monday := mustDate(t, "2025-12-22")
	created, err := f.services.Slot.GenerateSlots(ctx, professionalID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, monday)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "23:30", slots[1].StartTime.String())
	assert.Equal(t, domain.EndOfDay, slots[1].EndTime)
}

func TestGenerateSlotsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "09:00", "12:00", 20)

	from, to := mustDate(t, "2025-12-01"), mustDate(t, "2025-12-31")
	first, err := f.services.Slot.GenerateSlots(ctx, professionalID, from, to)
	require.NoError(t, err)
	assert.Equal(t, 5*9, first)

	second, err := f.services.Slot.GenerateSlots(ctx, professionalID, from, to)
	require.NoError(t, err)
	assert.Zero(t, second)

	_, total, err := f.services.Slot.Find(ctx, domain.SlotFilter{ProfessionalID: ptr(professionalID)})
	require.NoError(t, err)
	assert.Equal(t, first, total)
}

func TestGenerateSlotsSkipsHoliday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, day := range []time.Weekday{time.Wednesday, time.Thursday, time.Friday} {
		f.addRule(t, day, "09:00", "10:00", 30)
	}

	_, err := f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Рождество"})
	require.NoError(t, err)

	created, err := f.services.Slot.GenerateSlots(ctx, professionalID, mustDate(t, "2025-12-24"), mustDate(t, "2025-12-26"))
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, mustDate(t, "2025-12-25"))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsSkipsAllDayPeriodButNotPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "09:00", "13:00", 60)

	_, err := f.services.NonWorkingPeriod.Create(ctx, 1, domain.CreateNonWorkingPeriodDTO{
		ProfessionalID: professionalID,
		Date:           "2025-12-22",
		Reason:         "отпуск",
		AllDay:         true,
	})
	require.NoError(t, err)

	_, err = f.services.NonWorkingPeriod.Create(ctx, 1, domain.CreateNonWorkingPeriodDTO{
		ProfessionalID: professionalID,
		Date:           "2025-12-29",
		Reason:         "совещание",
		StartTime:      "10:00",
		EndTime:        "11:00",
	})
	require.NoError(t, err)

	created, err := f.services.Slot.GenerateSlots(ctx, professionalID, mustDate(t, "2025-12-22"), mustDate(t, "2025-12-29"))
	require.NoError(t, err)
	assert.Equal(t, 4, created, "частичный нерабочий период не блокирует генерацию")

	partial := mustDate(t, "2025-12-29")
	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, partial)
	require.NoError(t, err)
	assert.Len(t, slots, 4)

	at := mustTime(t, "10:00")
	blocked, err := f.services.Exclusion.IsNonWorkingTime(ctx, professionalID, partial, &at)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestGenerateSlotsErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Slot.GenerateSlots(ctx, professionalID, mustDate(t, "2025-12-22"), mustDate(t, "2025-12-22"))
	assert.ErrorIs(t, err, domain.ErrNoScheduleConfigured)

	f.addRule(t, time.Monday, "09:00", "10:00", 30)
	_, err = f.services.Slot.GenerateSlots(ctx, professionalID, mustDate(t, "2025-12-23"), mustDate(t, "2025-12-22"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = f.services.Slot.Generate(ctx, domain.GenerateSlotsDTO{ProfessionalID: professionalID, DateFrom: "22.12.2025", DateTo: "2025-12-22"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateSlotsIgnoresInactiveRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inactive := false
	day := int(time.Monday)
	_, err := f.services.ScheduleRule.Create(ctx, domain.CreateScheduleRuleDTO{
		ProfessionalID:      professionalID,
		DayOfWeek:           &day,
		StartTime:           "09:00",
		EndTime:             "10:00",
		SlotDurationMinutes: 30,
		Active:              &inactive,
	})
	require.NoError(t, err)

	monday := mustDate(t, "2025-12-22")
	_, err = f.services.Slot.GenerateSlots(ctx, professionalID, monday, monday)
	assert.ErrorIs(t, err, domain.ErrNoScheduleConfigured)
}

func TestGenerateSlotsSplitShiftOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "14:00", "15:00", 60)
	f.addRule(t, time.Monday, "09:00", "10:45", 30)

	monday := mustDate(t, "2025-12-22")
	created, err := f.services.Slot.GenerateSlots(ctx, professionalID, monday, monday)
	require.NoError(t, err)
	assert.Equal(t, 4, created)

	slots, err := f.services.Slot.ListAvailable(ctx, professionalID, monday)
	require.NoError(t, err)
	var starts []string
	for _, slot := range slots {
		starts = append(starts, slot.StartTime.String())
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "14:00"}, starts)
}

func TestGenerateForAutoEnabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addRule(t, time.Monday, "09:00", "10:00", 30)

	days := 14
	_, err := f.services.SlotConfig.Create(ctx, domain.CreateSlotConfigDTO{ProfessionalID: professionalID, AdvanceBookingDays: &days})
	require.NoError(t, err)
	_, err = f.services.SlotConfig.Create(ctx, domain.CreateSlotConfigDTO{ProfessionalID: professionalID + 1})
	require.NoError(t, err)
	off := false
	_, err = f.services.SlotConfig.Create(ctx, domain.CreateSlotConfigDTO{ProfessionalID: professionalID + 2, AutoGenerateSlots: &off})
	require.NoError(t, err)

	results, err := f.services.Slot.GenerateForAutoEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byProfessional := map[int64]domain.GenerationResult{}
	for _, r := range results {
		byProfessional[r.ProfessionalID] = r
	}

	// 2025-12-01 .. 2025-12-15 contains three Mondays.
	assert.Equal(t, 6, byProfessional[professionalID].Created)
	assert.Empty(t, byProfessional[professionalID].Error)
	assert.Equal(t, "2025-12-15", byProfessional[professionalID].DateTo.String())
	assert.NotEmpty(t, byProfessional[professionalID+1].Error)
}

func TestCreateSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dto := domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30}
	slot, err := f.services.Slot.Create(ctx, dto)
	require.NoError(t, err)
	assert.NotZero(t, slot.ID)
	assert.True(t, slot.IsAvailable)

	_, err = f.services.Slot.Create(ctx, dto)
	assert.ErrorIs(t, err, domain.ErrDuplicateSlot)

	for _, bad := range []domain.CreateSlotDTO{
		{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "10:00", EndTime: "09:30", DurationMinutes: 30},
		{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "10:00", EndTime: "10:30", DurationMinutes: 0},
		{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "10:00", EndTime: "10:30", DurationMinutes: 45},
	} {
		_, err := f.services.Slot.Create(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidRange)
	}
}

func TestBookReleaseRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30})
	require.NoError(t, err)

	require.NoError(t, f.services.Slot.Book(ctx, slot.ID, 100))

	booked, err := f.services.Slot.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, booked.IsAvailable)
	require.NotNil(t, booked.LinkedAppointmentID)
	assert.Equal(t, int64(100), *booked.LinkedAppointmentID)
	require.NotNil(t, booked.BookedAt)

	err = f.services.Slot.Book(ctx, slot.ID, 101)
	assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

	require.NoError(t, f.services.Slot.Release(ctx, slot.ID))
	require.NoError(t, f.services.Slot.Release(ctx, slot.ID))

	released, err := f.services.Slot.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, released.IsAvailable)
	assert.Nil(t, released.LinkedAppointmentID)
	assert.Nil(t, released.BookedAt)
}

func TestBookMissingSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.services.Slot.Book(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(999), notFound.ID)

	assert.ErrorIs(t, f.services.Slot.Release(ctx, 999), domain.ErrNotFound)
}

func TestConcurrentBookHasSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slot, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30})
	require.NoError(t, err)

	const callers = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		rejected int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(appointmentID int64) {
			defer wg.Done()
			err := f.services.Slot.Book(ctx, slot.ID, appointmentID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrAlreadyBooked):
				rejected++
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, callers-1, rejected)
}

func TestDeleteSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	free, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30})
	require.NoError(t, err)
	taken, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "09:30", EndTime: "10:00", DurationMinutes: 30})
	require.NoError(t, err)
	require.NoError(t, f.services.Slot.Book(ctx, taken.ID, 5))

	assert.ErrorIs(t, f.services.Slot.Delete(ctx, taken.ID), domain.ErrSlotInUse)
	assert.ErrorIs(t, f.services.Slot.Delete(ctx, 999), domain.ErrNotFound)
	require.NoError(t, f.services.Slot.Delete(ctx, free.ID))

	_, err = f.services.Slot.GetByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurgeExpiredKeepsBookedSlots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-11-03", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30})
	require.NoError(t, err)
	oldBooked, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-11-03", StartTime: "09:30", EndTime: "10:00", DurationMinutes: 30})
	require.NoError(t, err)
	require.NoError(t, f.services.Slot.Book(ctx, oldBooked.ID, 11))
	boundary, err := f.services.Slot.Create(ctx, domain.CreateSlotDTO{ProfessionalID: professionalID, Date: "2025-12-01", StartTime: "09:00", EndTime: "09:30", DurationMinutes: 30})
	require.NoError(t, err)

	purged, err := f.services.Slot.PurgeExpired(ctx, mustDate(t, "2025-12-01"))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = f.services.Slot.GetByID(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.services.Slot.GetByID(ctx, oldBooked.ID)
	assert.NoError(t, err)
	_, err = f.services.Slot.GetByID(ctx, boundary.ID)
	assert.NoError(t, err)
}

func ptr[T any](v T) *T {
	return &v
}
