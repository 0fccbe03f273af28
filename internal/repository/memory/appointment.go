package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"agenda/internal/domain"
)

type AppointmentRepo struct {
	mu           sync.Mutex
	nextID       int64
	appointments map[int64]domain.Appointment
}

func NewAppointmentRepository() *AppointmentRepo {
	return &AppointmentRepo{appointments: make(map[int64]domain.Appointment)}
}

func (r *AppointmentRepo) Create(_ context.Context, a domain.Appointment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	a.ID = r.nextID
	r.appointments[a.ID] = a
	return a.ID, nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AppointmentRepo) Update(_ context.Context, a domain.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[a.ID]
	if !ok {
		return nil
	}
	stored.Date = a.Date
	stored.StartTime = a.StartTime
	stored.EndTime = a.EndTime
	stored.ReasonID = a.ReasonID
	stored.Notes = a.Notes
	stored.UpdatedAt = a.UpdatedAt
	r.appointments[a.ID] = stored
	return nil
}

func (r *AppointmentRepo) UpdateStatus(_ context.Context, id, statusID int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || !a.IsBooked {
		return false, nil
	}
	a.StatusID = statusID
	a.UpdatedAt = at
	r.appointments[id] = a
	return true, nil
}

func (r *AppointmentRepo) Cancel(_ context.Context, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return false, nil
	}
	a.IsBooked = false
	a.StatusID = domain.StatusCancelled
	a.UpdatedAt = at
	r.appointments[id] = a
	return true, nil
}

func (r *AppointmentRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return false, nil
	}
	delete(r.appointments, id)
	return true, nil
}

func (r *AppointmentRepo) ListBooked(_ context.Context, professionalID int64, date domain.Date) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var booked []domain.Appointment
	for _, id := range sortedIDs(r.appointments) {
		a := r.appointments[id]
		if a.ProfessionalID == professionalID && a.Date.Equal(date) && a.IsBooked {
			booked = append(booked, a)
		}
	}

	sort.SliceStable(booked, func(i, j int) bool { return booked[i].StartTime < booked[j].StartTime })
	return booked, nil
}

func (r *AppointmentRepo) CountBooked(ctx context.Context, professionalID int64, date domain.Date) (int, error) {
	booked, err := r.ListBooked(ctx, professionalID, date)
	return len(booked), err
}

func (r *AppointmentRepo) MarkExpiredBefore(_ context.Context, before domain.Date, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	marked := 0
	for id, a := range r.appointments {
		if !a.IsExpired && a.Date.Before(before) {
			a.IsExpired = true
			a.UpdatedAt = at
			r.appointments[id] = a
			marked++
		}
	}
	return marked, nil
}

func (r *AppointmentRepo) Find(_ context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Appointment
	for _, id := range sortedIDs(r.appointments) {
		a := r.appointments[id]
		if filter.ProfessionalID != nil && a.ProfessionalID != *filter.ProfessionalID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.StatusID != nil && a.StatusID != *filter.StatusID {
			continue
		}
		if filter.IsBooked != nil && a.IsBooked != *filter.IsBooked {
			continue
		}
		if filter.DateFrom != nil && a.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && a.Date.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, a)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].StartTime < matched[j].StartTime
	})

	return page(matched, filter.Limit, filter.Offset), len(matched), nil
}
