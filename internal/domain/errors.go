package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                  = errors.New("запись не найдена")
	ErrValidation                = errors.New("ошибка валидации")
	ErrInvalidRange              = errors.New("некорректный временной интервал")
	ErrDuplicateSlot             = errors.New("слот на это время уже существует")
	ErrDuplicateHoliday          = errors.New("праздник на эту дату уже существует")
	ErrDuplicateNonWorkingPeriod = errors.New("нерабочий период на эту дату уже объявлен")
	ErrDuplicateConfig           = errors.New("конфигурация для специалиста уже существует")
	ErrAlreadyBooked             = errors.New("слот уже забронирован")
	ErrSlotInUse                 = errors.New("слот связан с записью и не может быть удален")
	ErrOverlap                   = errors.New("время записи пересекается с существующей записью")
	ErrNoScheduleConfigured      = errors.New("у специалиста нет активного расписания")
	ErrReasonNotFound            = errors.New("причина обращения не найдена")
	ErrStatusNotFound            = errors.New("статус записи не найден")
	ErrNotEligible               = errors.New("запись на это время недоступна по правилам специалиста")
	ErrNonWorkingTime            = errors.New("выбранное время нерабочее")
	ErrSlotMismatch              = errors.New("слот не принадлежит указанному специалисту")
	ErrAppointmentCancelled      = errors.New("запись отменена, статус изменить нельзя")
	ErrStorageUnavailable        = errors.New("файловое хранилище не настроено")
)

// NotFoundError names the missing entity; errors.Is(err, ErrNotFound) holds.
type NotFoundError struct {
	Entity string
	ID     int64
}

func NewNotFoundError(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s с ID %d не найден", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// OverlapError carries the booked interval that blocked the candidate.
type OverlapError struct {
	AppointmentID int64
	Start         TimeOfDay
	End           TimeOfDay
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: %s - %s", ErrOverlap.Error(), e.Start, e.End)
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlap
}
