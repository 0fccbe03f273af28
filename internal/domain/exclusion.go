package domain

import (
	"time"
)

// Holiday is a system-wide day off. At most one active holiday exists per date.
type Holiday struct {
	ID          int64     `json:"id"`
	Date        Date      `json:"date"`
	Name        string    `json:"name"`
	IsRecurring bool      `json:"is_recurring"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateHolidayDTO struct {
	Date        string `json:"date" binding:"required"`
	Name        string `json:"name" binding:"required"`
	IsRecurring bool   `json:"is_recurring"`
	Active      *bool  `json:"active,omitempty"`
}

type UpdateHolidayDTO struct {
	Date        *string `json:"date,omitempty"`
	Name        *string `json:"name,omitempty"`
	IsRecurring *bool   `json:"is_recurring,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type CopyRecurringHolidaysDTO struct {
	FromYear int `json:"from_year" binding:"required"`
	ToYear   int `json:"to_year" binding:"required"`
}

type HolidayFilter struct {
	Year        *int
	Active      *bool
	IsRecurring *bool
	Limit       int
	Offset      int
}

// NonWorkingPeriod is a declared absence of a professional, either the whole day or [StartTime, EndTime).
type NonWorkingPeriod struct {
	ID             int64      `json:"id"`
	ProfessionalID int64      `json:"professional_id"`
	Date           Date       `json:"date"`
	Reason         string     `json:"reason"`
	AllDay         bool       `json:"all_day"`
	StartTime      *TimeOfDay `json:"start_time"`
	EndTime        *TimeOfDay `json:"end_time"`
	CreatedAt      time.Time  `json:"created_at"`
	CreatedBy      int64      `json:"created_by"`
}

// Covers reports whether the period excludes tod. A nil tod only matches all-day periods.
func (p NonWorkingPeriod) Covers(tod *TimeOfDay) bool {
	if p.AllDay {
		return true
	}
	if tod == nil || p.StartTime == nil || p.EndTime == nil {
		return false
	}
	return *p.StartTime <= *tod && *tod < *p.EndTime
}

// Intersects reports whether [start, end) shares at least one minute with the period.
func (p NonWorkingPeriod) Intersects(start, end TimeOfDay) bool {
	if p.AllDay {
		return true
	}
	if p.StartTime == nil || p.EndTime == nil || end <= start {
		return false
	}
	return start < *p.EndTime && *p.StartTime < end
}

type CreateNonWorkingPeriodDTO struct {
	ProfessionalID int64  `json:"professional_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Reason         string `json:"reason"`
	AllDay         bool   `json:"all_day"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
}

type UpdateNonWorkingPeriodDTO struct {
	Date      *string `json:"date,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	AllDay    *bool   `json:"all_day,omitempty"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}
