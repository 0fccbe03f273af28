package domain

import (
	"time"
)

// Slot is a bookable interval. IsAvailable is false exactly when LinkedAppointmentID is set.
type Slot struct {
	ID                  int64      `json:"id"`
	ProfessionalID      int64      `json:"professional_id"`
	Date                Date       `json:"date"`
	StartTime           TimeOfDay  `json:"start_time"`
	EndTime             TimeOfDay  `json:"end_time"`
	DurationMinutes     int        `json:"duration_minutes"`
	IsAvailable         bool       `json:"is_available"`
	LinkedAppointmentID *int64     `json:"linked_appointment_id"`
	GeneratedAt         time.Time  `json:"generated_at"`
	BookedAt            *time.Time `json:"booked_at"`
}

type CreateSlotDTO struct {
	ProfessionalID  int64  `json:"professional_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required"`
}

type GenerateSlotsDTO struct {
	ProfessionalID int64  `json:"professional_id" binding:"required"`
	DateFrom       string `json:"date_from" binding:"required"`
	DateTo         string `json:"date_to" binding:"required"`
}

type BookSlotDTO struct {
	AppointmentID int64 `json:"appointment_id" binding:"required"`
}

type PurgeSlotsDTO struct {
	BeforeDate string `json:"before_date" binding:"required"`
}

type ExportSlotsDTO struct {
	ProfessionalID int64  `json:"professional_id" binding:"required"`
	DateFrom       string `json:"date_from" binding:"required"`
	DateTo         string `json:"date_to" binding:"required"`
}

// GenerationResult reports one professional of an auto-generation run.
type GenerationResult struct {
	ProfessionalID int64  `json:"professional_id"`
	DateFrom       Date   `json:"date_from"`
	DateTo         Date   `json:"date_to"`
	Created        int    `json:"created"`
	Error          string `json:"error,omitempty"`
}

// SlotExport describes an uploaded agenda file.
type SlotExport struct {
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SlotFilter struct {
	ProfessionalID *int64
	DateFrom       *Date
	DateTo         *Date
	TimeFrom       *TimeOfDay
	TimeTo         *TimeOfDay
	IsAvailable    *bool
	Limit          int
	Offset         int
}
