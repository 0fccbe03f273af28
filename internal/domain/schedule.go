package domain

import (
	"time"
)

// WeeklyScheduleRule is a recurring weekly availability window of a professional.
// DayOfWeek follows time.Weekday: 0 is Sunday.
type WeeklyScheduleRule struct {
	ID                  int64        `json:"id"`
	ProfessionalID      int64        `json:"professional_id"`
	DayOfWeek           time.Weekday `json:"day_of_week"`
	StartTime           TimeOfDay    `json:"start_time"`
	EndTime             TimeOfDay    `json:"end_time"`
	SlotDurationMinutes int          `json:"slot_duration_minutes"`
	Active              bool         `json:"active"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

type CreateScheduleRuleDTO struct {
	ProfessionalID      int64  `json:"professional_id" binding:"required"`
	DayOfWeek           *int   `json:"day_of_week" binding:"required"`
	StartTime           string `json:"start_time" binding:"required"`
	EndTime             string `json:"end_time" binding:"required"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" binding:"required"`
	Active              *bool  `json:"active,omitempty"`
}

type UpdateScheduleRuleDTO struct {
	DayOfWeek           *int    `json:"day_of_week,omitempty"`
	StartTime           *string `json:"start_time,omitempty"`
	EndTime             *string `json:"end_time,omitempty"`
	SlotDurationMinutes *int    `json:"slot_duration_minutes,omitempty"`
	Active              *bool   `json:"active,omitempty"`
}

type ScheduleRuleFilter struct {
	ProfessionalID int64 `json:"professional_id"`
	ActiveOnly     bool  `json:"active_only"`
}
