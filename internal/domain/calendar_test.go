package domain

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-22")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, "2025-12-22", d.String())
	assert.True(t, d.Equal(NewDate(2025, time.December, 22)))

	for _, bad := range []string{"", "22.12.2025", "2025-13-01", "2025-02-30"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.December, 30)
	assert.Equal(t, "2026-01-02", d.AddDays(3).String())
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, -1, d.DaysUntil(d.AddDays(-1)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
}

func TestDateOfUsesWallClock(t *testing.T) {
	tz := time.FixedZone("UTC+5", 5*60*60)
	late := time.Date(2025, time.December, 22, 23, 30, 0, 0, tz)
	assert.Equal(t, "2025-12-22", DateOf(late).String())
	assert.Equal(t, "2025-12-22", DateOf(late.UTC()).String())
	early := time.Date(2025, time.December, 22, 2, 0, 0, 0, tz)
	assert.Equal(t, "2025-12-21", DateOf(early.UTC()).String())
}

func TestDateWithYear(t *testing.T) {
	assert.Equal(t, "2026-03-08", NewDate(2025, time.March, 8).WithYear(2026).String())
	assert.Equal(t, "2025-03-01", NewDate(2024, time.February, 29).WithYear(2025).String())
	assert.Equal(t, "2028-02-29", NewDate(2024, time.February, 29).WithYear(2028).String())
}

func TestDateAt(t *testing.T) {
	at := NewDate(2025, time.December, 22).At(NewTimeOfDay(14, 30), time.UTC)
	assert.Equal(t, time.Date(2025, time.December, 22, 14, 30, 0, 0, time.UTC), at)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Date Date      `json:"date"`
		At   TimeOfDay `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-12-22","at":"09:05:59"}`), &payload))
	assert.Equal(t, "2025-12-22", payload.Date.String())
	assert.Equal(t, NewTimeOfDay(9, 5), payload.At)

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-12-22","at":"09:05"}`, string(data))

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"date":"22/12/2025"}`), &payload), ErrValidation)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:45")
	require.NoError(t, err)
	assert.Equal(t, 8, tod.Hour())
	assert.Equal(t, 45, tod.Minute())
	assert.Equal(t, "09:15", tod.Add(30).String())
	assert.True(t, NewTimeOfDay(24, 0).Valid())
	assert.False(t, NewTimeOfDay(24, 1).Valid())

	_, err = ParseTimeOfDay("25:00")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseTimeOfDay("24:01")
	assert.ErrorIs(t, err, ErrValidation)

	midnight, err := ParseTimeOfDay("24:00")
	require.NoError(t, err)
	assert.Equal(t, EndOfDay, midnight)
	assert.True(t, midnight.Valid())
	assert.Equal(t, "24:00", midnight.String())

	empty, err := ParseOptionalTimeOfDay("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestAppointmentOverlaps(t *testing.T) {
	booked := Appointment{StartTime: NewTimeOfDay(14, 0), EndTime: NewTimeOfDay(14, 30)}

	tests := []struct {
		start, end string
		want       bool
	}{
		{"14:15", "14:45", true},
		{"13:45", "14:15", true},
		{"14:00", "14:30", true},
		{"14:10", "14:20", true},
		{"13:00", "16:00", true},
		{"14:30", "15:00", false},
		{"13:30", "14:00", false},
		{"09:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			start, err := ParseTimeOfDay(tt.start)
			require.NoError(t, err)
			end, err := ParseTimeOfDay(tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, booked.Overlaps(start, end))
		})
	}
}

func TestNonWorkingPeriodCovers(t *testing.T) {
	start, end := NewTimeOfDay(12, 0), NewTimeOfDay(13, 0)
	partial := NonWorkingPeriod{StartTime: &start, EndTime: &end}
	allDay := NonWorkingPeriod{AllDay: true}

	noon, oneOClock, before := NewTimeOfDay(12, 0), NewTimeOfDay(13, 0), NewTimeOfDay(11, 59)
	assert.True(t, partial.Covers(&noon))
	assert.False(t, partial.Covers(&oneOClock))
	assert.False(t, partial.Covers(&before))
	assert.False(t, partial.Covers(nil))
	assert.True(t, allDay.Covers(nil))
	assert.True(t, allDay.Covers(&before))
}

func TestNonWorkingPeriodIntersects(t *testing.T) {
	start, end := NewTimeOfDay(12, 0), NewTimeOfDay(13, 0)
	partial := NonWorkingPeriod{StartTime: &start, EndTime: &end}
	allDay := NonWorkingPeriod{AllDay: true}

	tests := []struct {
		from, to TimeOfDay
		want     bool
	}{
		{NewTimeOfDay(11, 30), NewTimeOfDay(12, 45), true},
		{NewTimeOfDay(12, 30), NewTimeOfDay(13, 30), true},
		{NewTimeOfDay(11, 0), NewTimeOfDay(14, 0), true},
		{NewTimeOfDay(12, 15), NewTimeOfDay(12, 45), true},
		{NewTimeOfDay(11, 30), NewTimeOfDay(12, 0), false},
		{NewTimeOfDay(13, 0), NewTimeOfDay(13, 30), false},
		{NewTimeOfDay(12, 30), NewTimeOfDay(12, 30), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, partial.Intersects(tt.from, tt.to), "%s-%s", tt.from, tt.to)
	}
	assert.True(t, allDay.Intersects(NewTimeOfDay(8, 0), NewTimeOfDay(9, 0)))
	assert.False(t, NonWorkingPeriod{}.Intersects(NewTimeOfDay(8, 0), NewTimeOfDay(9, 0)))
}

func TestDomainErrorsMatchSentinels(t *testing.T) {
	notFound := fmt.Errorf("ошибка: %w", NewNotFoundError("слот", 5))
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.Contains(t, notFound.Error(), "слот с ID 5")

	overlap := &OverlapError{AppointmentID: 1, Start: NewTimeOfDay(14, 0), End: NewTimeOfDay(14, 30)}
	assert.ErrorIs(t, overlap, ErrOverlap)
	assert.NotErrorIs(t, overlap, ErrNotFound)
	assert.Contains(t, overlap.Error(), "14:00 - 14:30")
}
