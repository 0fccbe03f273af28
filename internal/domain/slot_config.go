package domain

import (
	"time"
)

const (
	DefaultAdvanceBookingDays  = 60
	DefaultMinAdvanceHours     = 24
	DefaultAllowSameDayBooking = false
	DefaultAutoGenerateSlots   = true
	DefaultBufferTimeMinutes   = 0
)

// SlotGenerationConfig is the booking policy of one professional.
type SlotGenerationConfig struct {
	ID                    int64     `json:"id"`
	ProfessionalID        int64     `json:"professional_id"`
	AdvanceBookingDays    int       `json:"advance_booking_days"`
	MinAdvanceHours       int       `json:"min_advance_hours"`
	AllowSameDayBooking   bool      `json:"allow_same_day_booking"`
	AutoGenerateSlots     bool      `json:"auto_generate_slots"`
	MaxAppointmentsPerDay *int      `json:"max_appointments_per_day"`
	BufferTimeMinutes     int       `json:"buffer_time_minutes"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type CreateSlotConfigDTO struct {
	ProfessionalID        int64 `json:"professional_id" binding:"required"`
	AdvanceBookingDays    *int  `json:"advance_booking_days,omitempty"`
	MinAdvanceHours       *int  `json:"min_advance_hours,omitempty"`
	AllowSameDayBooking   *bool `json:"allow_same_day_booking,omitempty"`
	AutoGenerateSlots     *bool `json:"auto_generate_slots,omitempty"`
	MaxAppointmentsPerDay *int  `json:"max_appointments_per_day,omitempty"`
	BufferTimeMinutes     *int  `json:"buffer_time_minutes,omitempty"`
}

type UpdateSlotConfigDTO struct {
	AdvanceBookingDays    *int  `json:"advance_booking_days,omitempty"`
	MinAdvanceHours       *int  `json:"min_advance_hours,omitempty"`
	AllowSameDayBooking   *bool `json:"allow_same_day_booking,omitempty"`
	AutoGenerateSlots     *bool `json:"auto_generate_slots,omitempty"`
	MaxAppointmentsPerDay *int  `json:"max_appointments_per_day,omitempty"`
	BufferTimeMinutes     *int  `json:"buffer_time_minutes,omitempty"`
}
