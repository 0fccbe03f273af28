// Package memory keeps every repository in process memory. It mirrors the uniqueness
// and conditional-update semantics of the Postgres schema.
package memory

import (
	"context"
	"sort"
	"sync"

	"agenda/internal/domain"
	"agenda/internal/repository"
)

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		ScheduleRule:     NewScheduleRuleRepository(),
		Slot:             NewSlotRepository(),
		Appointment:      NewAppointmentRepository(),
		NonWorkingPeriod: NewNonWorkingPeriodRepository(),
		Holiday:          NewHolidayRepository(),
		SlotConfig:       NewSlotConfigRepository(),
		Catalog:          NewCatalogRepository(),
		Locker:           NewLocker(),
	}
}

// page applies limit/offset the way LIMIT/OFFSET do; limit <= 0 means no limit.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Locker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[int64]*sync.Mutex)}
}

func (l *Locker) WithProfessionalLock(ctx context.Context, professionalID int64, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[professionalID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[professionalID] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

type CatalogRepo struct {
	reasons  []domain.AppointmentReason
	statuses []domain.AppointmentStatus
}

// NewCatalogRepository is seeded with the same rows as the catalog migration.
func NewCatalogRepository() *CatalogRepo {
	return &CatalogRepo{
		reasons: []domain.AppointmentReason{
			{ID: 1, Name: "Первичная консультация", Description: "Первый прием у специалиста", Active: true},
			{ID: 2, Name: "Повторный прием", Description: "Контрольный прием по текущему лечению", Active: true},
			{ID: 3, Name: "Профилактический осмотр", Description: "Плановый осмотр", Active: true},
			{ID: 4, Name: "Результаты анализов", Description: "Разбор результатов обследования", Active: true},
		},
		statuses: []domain.AppointmentStatus{
			{ID: domain.StatusPending, Name: "Ожидает", Description: "Запись создана и ожидает подтверждения"},
			{ID: domain.StatusConfirmed, Name: "Подтверждена", Description: "Запись подтверждена специалистом"},
			{ID: domain.StatusCancelled, Name: "Отменена", Description: "Запись отменена"},
			{ID: domain.StatusCompleted, Name: "Завершена", Description: "Прием состоялся"},
			{ID: domain.StatusNoShow, Name: "Неявка", Description: "Пациент не явился на прием"},
		},
	}
}

func (r *CatalogRepo) GetReason(_ context.Context, id int64) (*domain.AppointmentReason, error) {
	for _, reason := range r.reasons {
		if reason.ID == id {
			reason := reason
			return &reason, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepo) ListReasons(context.Context) ([]domain.AppointmentReason, error) {
	return append([]domain.AppointmentReason(nil), r.reasons...), nil
}

func (r *CatalogRepo) GetStatus(_ context.Context, id int64) (*domain.AppointmentStatus, error) {
	for _, status := range r.statuses {
		if status.ID == id {
			status := status
			return &status, nil
		}
	}
	return nil, nil
}

func (r *CatalogRepo) ListStatuses(context.Context) ([]domain.AppointmentStatus, error) {
	return append([]domain.AppointmentStatus(nil), r.statuses...), nil
}
