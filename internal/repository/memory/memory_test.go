package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda/internal/domain"
)

func testSlot(date domain.Date, hour int) domain.Slot {
	return domain.Slot{
		ProfessionalID:  7,
		Date:            date,
		StartTime:       domain.NewTimeOfDay(hour, 0),
		EndTime:         domain.NewTimeOfDay(hour, 30),
		DurationMinutes: 30,
	}
}

func TestSlotRepoCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()
	date := domain.NewDate(2025, time.December, 22)

	id, created, err := repo.CreateIfAbsent(ctx, testSlot(date, 9))
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = repo.CreateIfAbsent(ctx, testSlot(date, 9))
	require.NoError(t, err)
	assert.False(t, created)

	slot, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSlotRepoBookIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()
	id, _, err := repo.CreateIfAbsent(ctx, testSlot(domain.NewDate(2025, time.December, 22), 9))
	require.NoError(t, err)

	now := time.Date(2025, time.December, 1, 9, 0, 0, 0, time.UTC)
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := int64(1); i <= 8; i++ {
		wg.Add(1)
		go func(appointmentID int64) {
			defer wg.Done()
			if ok, _ := repo.Book(ctx, id, appointmentID, now); ok {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	slot, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, slot.LinkedAppointmentID)
	linked, err := repo.GetByAppointmentID(ctx, *slot.LinkedAppointmentID)
	require.NoError(t, err)
	assert.Equal(t, id, linked.ID)

	deleted, err := repo.DeleteAvailable(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted, "занятый слот не удаляется")

	released, err := repo.Release(ctx, id)
	require.NoError(t, err)
	assert.True(t, released)

	deleted, err = repo.DeleteAvailable(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestSlotRepoDeleteAvailableBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()
	past := domain.NewDate(2025, time.November, 30)
	today := domain.NewDate(2025, time.December, 1)

	_, _, err := repo.CreateIfAbsent(ctx, testSlot(past, 9))
	require.NoError(t, err)
	bookedID, _, err := repo.CreateIfAbsent(ctx, testSlot(past, 10))
	require.NoError(t, err)
	_, err = repo.Book(ctx, bookedID, 1, time.Now())
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, testSlot(today, 9))
	require.NoError(t, err)

	purged, err := repo.DeleteAvailableBefore(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, total, err := repo.Find(ctx, domain.SlotFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, created, err := repo.CreateIfAbsent(ctx, testSlot(past, 9))
	require.NoError(t, err)
	assert.True(t, created, "ключ освобождается вместе со слотом")
}

func TestSlotRepoFindPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewSlotRepository()
	date := domain.NewDate(2025, time.December, 22)
	for hour := 12; hour >= 9; hour-- {
		_, _, err := repo.CreateIfAbsent(ctx, testSlot(date, hour))
		require.NoError(t, err)
	}

	slots, total, err := repo.Find(ctx, domain.SlotFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, slots, 2)
	assert.Equal(t, "10:00", slots[0].StartTime.String())
	assert.Equal(t, "11:00", slots[1].StartTime.String())
}

func TestLockerSerializesPerProfessional(t *testing.T) {
	locker := NewLocker()
	ctx := context.Background()

	var inside, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = locker.WithProfessionalLock(ctx, 7, func(context.Context) error {
				n := inside.Add(1)
				if n > peak.Load() {
					peak.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), peak.Load())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	called := false
	err := locker.WithProfessionalLock(cancelled, 7, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestAppointmentRepoListBookedSkipsCancelled(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository()
	date := domain.NewDate(2025, time.December, 22)

	later, err := repo.Create(ctx, domain.Appointment{ProfessionalID: 7, Date: date, StartTime: domain.NewTimeOfDay(11, 0), EndTime: domain.NewTimeOfDay(11, 30), IsBooked: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Appointment{ProfessionalID: 7, Date: date, StartTime: domain.NewTimeOfDay(9, 0), EndTime: domain.NewTimeOfDay(9, 30), IsBooked: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.Appointment{ProfessionalID: 7, Date: date, StartTime: domain.NewTimeOfDay(10, 0), EndTime: domain.NewTimeOfDay(10, 30)})
	require.NoError(t, err)

	booked, err := repo.ListBooked(ctx, 7, date)
	require.NoError(t, err)
	require.Len(t, booked, 2)
	assert.Equal(t, "09:00", booked[0].StartTime.String())
	assert.Equal(t, later, booked[1].ID)

	count, err := repo.CountBooked(ctx, 7, date)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCatalogRepoSeed(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository()

	statuses, err := repo.ListStatuses(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, statuses)

	cancelled, err := repo.GetStatus(ctx, domain.StatusCancelled)
	require.NoError(t, err)
	require.NotNil(t, cancelled)

	missing, err := repo.GetReason(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
