package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agenda/internal/domain"
)

type slotKey struct {
	professionalID int64
	date           string
	start          domain.TimeOfDay
}

type SlotRepo struct {
	mu     sync.Mutex
	nextID int64
	slots  map[int64]domain.Slot
	keys   map[slotKey]int64
}

func NewSlotRepository() *SlotRepo {
	return &SlotRepo{
		slots: make(map[int64]domain.Slot),
		keys:  make(map[slotKey]int64),
	}
}

func keyOf(s domain.Slot) slotKey {
	return slotKey{professionalID: s.ProfessionalID, date: s.Date.String(), start: s.StartTime}
}

func (r *SlotRepo) CreateIfAbsent(_ context.Context, slot domain.Slot) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[keyOf(slot)]; exists {
		return 0, false, nil
	}

	r.nextID++
	slot.ID = r.nextID
	slot.IsAvailable = true
	slot.LinkedAppointmentID = nil
	slot.BookedAt = nil
	r.slots[slot.ID] = slot
	r.keys[keyOf(slot)] = slot.ID

	return slot.ID, true, nil
}

func (r *SlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r *SlotRepo) GetByAppointmentID(_ context.Context, appointmentID int64) (*domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, slot := range r.slots {
		if slot.LinkedAppointmentID != nil && *slot.LinkedAppointmentID == appointmentID {
			return &slot, nil
		}
	}
	return nil, nil
}

func (r *SlotRepo) Book(_ context.Context, id, appointmentID int64, bookedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok || !slot.IsAvailable {
		return false, nil
	}

	slot.IsAvailable = false
	slot.LinkedAppointmentID = &appointmentID
	slot.BookedAt = &bookedAt
	r.slots[id] = slot
	return true, nil
}

func (r *SlotRepo) Release(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return false, nil
	}

	slot.IsAvailable = true
	slot.LinkedAppointmentID = nil
	slot.BookedAt = nil
	r.slots[id] = slot
	return true, nil
}

func (r *SlotRepo) DeleteAvailable(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok || !slot.IsAvailable {
		return false, nil
	}

	delete(r.slots, id)
	delete(r.keys, keyOf(slot))
	return true, nil
}

func (r *SlotRepo) DeleteAvailableBefore(_ context.Context, before domain.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, slot := range r.slots {
		if slot.IsAvailable && slot.Date.Before(before) {
			delete(r.slots, id)
			delete(r.keys, keyOf(slot))
			deleted++
		}
	}
	return deleted, nil
}

func (r *SlotRepo) Find(_ context.Context, filter domain.SlotFilter) ([]domain.Slot, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Slot
	for _, id := range sortedIDs(r.slots) {
		slot := r.slots[id]
		if filter.ProfessionalID != nil && slot.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if filter.DateFrom != nil && slot.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && slot.Date.After(*filter.DateTo) {
			continue
		}
		if filter.TimeFrom != nil && slot.StartTime < *filter.TimeFrom {
			continue
		}
		if filter.TimeTo != nil && slot.EndTime > *filter.TimeTo {
			continue
		}
		if filter.IsAvailable != nil && slot.IsAvailable != *filter.IsAvailable {
			continue
		}
		matched = append(matched, slot)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.Before(matched[j].Date)
		}
		return matched[i].StartTime < matched[j].StartTime
	})

	return page(matched, filter.Limit, filter.Offset), len(matched), nil
}
