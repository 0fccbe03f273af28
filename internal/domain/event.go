package domain

import (
	"time"
)

type EventType string

const (
	EventSlotsGenerated       EventType = "slots.generated"
	EventSlotsPurged          EventType = "slots.purged"
	EventSlotBooked           EventType = "slot.booked"
	EventSlotReleased         EventType = "slot.released"
	EventAppointmentCreated   EventType = "appointment.created"
	EventAppointmentUpdated   EventType = "appointment.updated"
	EventAppointmentCancelled EventType = "appointment.cancelled"
)

// Event is a change notification for downstream consumers.
type Event struct {
	Type           EventType      `json:"type"`
	ProfessionalID int64          `json:"professional_id,omitempty"`
	EntityID       int64          `json:"entity_id,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
