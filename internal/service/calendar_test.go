package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/domain"
)

func TestHolidayAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	christmas, err := f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Рождество", IsRecurring: true})
	require.NoError(t, err)
	assert.True(t, christmas.Active)

	_, err = f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Дубль"})
	assert.ErrorIs(t, err, domain.ErrDuplicateHoliday)

	inactive := false
	_, err = f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-12-25", Name: "Черновик", Active: &inactive})
	assert.NoError(t, err, "неактивный праздник не занимает дату")

	newYear, err := f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2026-01-01", Name: "Новый год", IsRecurring: true})
	require.NoError(t, err)

	_, err = f.services.Holiday.Update(ctx, newYear.ID, domain.UpdateHolidayDTO{Date: ptr("2025-12-25")})
	assert.ErrorIs(t, err, domain.ErrDuplicateHoliday)

	renamed, err := f.services.Holiday.Update(ctx, newYear.ID, domain.UpdateHolidayDTO{Name: ptr("Новый год!")})
	require.NoError(t, err)
	assert.Equal(t, "Новый год!", renamed.Name)

	is, err := f.services.Holiday.IsHoliday(ctx, mustDate(t, "2025-12-25"))
	require.NoError(t, err)
	assert.True(t, is)

	byYear, err := f.services.Holiday.GetByYear(ctx, 2025)
	require.NoError(t, err)
	assert.Len(t, byYear, 2)

	active, err := f.services.Holiday.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	recurring, total, err := f.services.Holiday.Find(ctx, domain.HolidayFilter{IsRecurring: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, recurring, 2)

	oneOff, total, err := f.services.Holiday.Find(ctx, domain.HolidayFilter{IsRecurring: ptr(false), Year: ptr(2025)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, oneOff, 1)
	assert.Equal(t, "Черновик", oneOff[0].Name)

	require.NoError(t, f.services.Holiday.Delete(ctx, christmas.ID))
	assert.ErrorIs(t, f.services.Holiday.Delete(ctx, christmas.ID), domain.ErrNotFound)
	_, err = f.services.Holiday.GetByID(ctx, christmas.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCopyRecurringHolidays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-01-07", Name: "Рождество", IsRecurring: true})
	require.NoError(t, err)
	_, err = f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-03-08", Name: "8 марта", IsRecurring: true})
	require.NoError(t, err)
	_, err = f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2025-05-02", Name: "Перенос", IsRecurring: false})
	require.NoError(t, err)
	_, err = f.services.Holiday.Create(ctx, domain.CreateHolidayDTO{Date: "2026-03-08", Name: "Уже есть"})
	require.NoError(t, err)

	copied, err := f.services.Holiday.CopyRecurring(ctx, domain.CopyRecurringHolidaysDTO{FromYear: 2025, ToYear: 2026})
	require.NoError(t, err)
	assert.Equal(t, 1, copied)

	target, err := f.services.Holiday.GetByYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, target, 2)
	assert.Equal(t, "2026-01-07", target[0].Date.String())
	assert.True(t, target[0].IsRecurring)

	again, err := f.services.Holiday.CopyRecurring(ctx, domain.CopyRecurringHolidaysDTO{FromYear: 2025, ToYear: 2026})
	require.NoError(t, err)
	assert.Zero(t, again)

	_, err = f.services.Holiday.CopyRecurring(ctx, domain.CopyRecurringHolidaysDTO{FromYear: 2025, ToYear: 2025})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNonWorkingPeriodAdministration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.NonWorkingPeriod.Create(ctx, 3, domain.CreateNonWorkingPeriodDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "12:00"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.services.NonWorkingPeriod.Create(ctx, 3, domain.CreateNonWorkingPeriodDTO{ProfessionalID: professionalID, Date: "2025-12-22", StartTime: "12:00", EndTime: "11:00"})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	period, err := f.services.NonWorkingPeriod.Create(ctx, 3, domain.CreateNonWorkingPeriodDTO{
		ProfessionalID: professionalID,
		Date:           "2025-12-22",
		AllDay:         true,
		StartTime:      "12:00",
		EndTime:        "13:00",
	})
	require.NoError(t, err)
	assert.Nil(t, period.StartTime, "у полного дня нет времени")
	assert.Equal(t, int64(3), period.CreatedBy)

	_, err = f.services.NonWorkingPeriod.Create(ctx, 3, domain.CreateNonWorkingPeriodDTO{ProfessionalID: professionalID, Date: "2025-12-22", AllDay: true})
	assert.ErrorIs(t, err, domain.ErrDuplicateNonWorkingPeriod)

	second, err := f.services.NonWorkingPeriod.Create(ctx, 3, domain.CreateNonWorkingPeriodDTO{ProfessionalID: professionalID, Date: "2025-12-29", AllDay: true})
	require.NoError(t, err)

	_, err = f.services.NonWorkingPeriod.Update(ctx, second.ID, domain.UpdateNonWorkingPeriodDTO{Date: ptr("2025-12-22")})
	assert.ErrorIs(t, err, domain.ErrDuplicateNonWorkingPeriod)

	partial, err := f.services.NonWorkingPeriod.Update(ctx, second.ID, domain.UpdateNonWorkingPeriodDTO{AllDay: ptr(false), StartTime: ptr("09:00"), EndTime: ptr("10:00")})
	require.NoError(t, err)
	require.NotNil(t, partial.StartTime)
	assert.Equal(t, "09:00", partial.StartTime.String())

	from, to := mustDate(t, "2025-12-23"), mustDate(t, "2025-12-31")
	inRange, err := f.services.NonWorkingPeriod.ListByProfessional(ctx, professionalID, &from, &to)
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, second.ID, inRange[0].ID)

	_, err = f.services.NonWorkingPeriod.ListByProfessional(ctx, professionalID, &to, &from)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	require.NoError(t, f.services.NonWorkingPeriod.Delete(ctx, period.ID))
	assert.ErrorIs(t, f.services.NonWorkingPeriod.Delete(ctx, period.ID), domain.ErrNotFound)

	evening, err := f.services.NonWorkingPeriod.Create(ctx, 3, domain.CreateNonWorkingPeriodDTO{ProfessionalID: professionalID, Date: "2025-12-30", StartTime: "18:00", EndTime: "24:00"})
	require.NoError(t, err)
	require.NotNil(t, evening.EndTime)
	assert.Equal(t, domain.EndOfDay, *evening.EndTime)
}

func TestScheduleRuleValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	badDay := 7
	_, err := f.services.ScheduleRule.Create(ctx, domain.CreateScheduleRuleDTO{ProfessionalID: professionalID, DayOfWeek: &badDay, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30})
	assert.ErrorIs(t, err, domain.ErrValidation)

	monday := int(time.Monday)
	_, err = f.services.ScheduleRule.Create(ctx, domain.CreateScheduleRuleDTO{ProfessionalID: professionalID, DayOfWeek: &monday, StartTime: "10:00", EndTime: "09:00", SlotDurationMinutes: 30})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = f.services.ScheduleRule.Create(ctx, domain.CreateScheduleRuleDTO{ProfessionalID: professionalID, DayOfWeek: &monday, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	rule, err := f.services.ScheduleRule.Create(ctx, domain.CreateScheduleRuleDTO{ProfessionalID: professionalID, DayOfWeek: &monday, StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30})
	require.NoError(t, err)
	assert.True(t, rule.Active)

	updated, err := f.services.ScheduleRule.Update(ctx, rule.ID, domain.UpdateScheduleRuleDTO{Active: ptr(false), SlotDurationMinutes: ptr(15)})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.Equal(t, 15, updated.SlotDurationMinutes)

	active, err := f.services.ScheduleRule.ListByProfessional(ctx, professionalID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.services.ScheduleRule.ListByProfessional(ctx, professionalID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.services.ScheduleRule.Delete(ctx, rule.ID))
	assert.ErrorIs(t, f.services.ScheduleRule.Delete(ctx, rule.ID), domain.ErrNotFound)
}
