package domain

import (
	"time"
)

const (
	StatusPending   int64 = 1
	StatusConfirmed int64 = 2
	StatusCancelled int64 = 3
	StatusCompleted int64 = 4
	StatusNoShow    int64 = 5
)

type Appointment struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professional_id"`
	PatientID      int64     `json:"patient_id"`
	Date           Date      `json:"date"`
	StartTime      TimeOfDay `json:"start_time"`
	EndTime        TimeOfDay `json:"end_time"`
	ReasonID       int64     `json:"reason_id"`
	StatusID       int64     `json:"status_id"`
	UserID         int64     `json:"user_id"`
	Notes          string    `json:"notes,omitempty"`
	IsBooked       bool      `json:"is_booked"`
	IsExpired      bool      `json:"is_expired"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Overlaps applies half-open [start, end) semantics against a.
func (a Appointment) Overlaps(start, end TimeOfDay) bool {
	return (start >= a.StartTime && start < a.EndTime) ||
		(end > a.StartTime && end <= a.EndTime) ||
		(start <= a.StartTime && end >= a.EndTime)
}

// CreateAppointmentDTO is a booking request. With SlotID set the interval is taken from the slot.
type CreateAppointmentDTO struct {
	ProfessionalID int64  `json:"professional_id" binding:"required"`
	PatientID      int64  `json:"patient_id" binding:"required"`
	SlotID         *int64 `json:"slot_id,omitempty"`
	Date           string `json:"date,omitempty"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	ReasonID       int64  `json:"reason_id" binding:"required"`
	Notes          string `json:"notes,omitempty"`
}

type UpdateAppointmentDTO struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
	ReasonID  *int64  `json:"reason_id,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateAppointmentStatusDTO struct {
	StatusID int64 `json:"status_id" binding:"required"`
}

// NewAppointment is the validated input of appointment creation.
type NewAppointment struct {
	ProfessionalID int64
	PatientID      int64
	Date           Date
	StartTime      TimeOfDay
	EndTime        TimeOfDay
	ReasonID       int64
	UserID         int64
	Notes          string
}

type AppointmentFilter struct {
	ProfessionalID *int64
	PatientID      *int64
	StatusID       *int64
	IsBooked       *bool
	DateFrom       *Date
	DateTo         *Date
	Limit          int
	Offset         int
}

type Eligibility struct {
	ProfessionalID int64     `json:"professional_id"`
	Date           Date      `json:"date"`
	Time           TimeOfDay `json:"time"`
	CanBook        bool      `json:"can_book"`
}
