package events

import "time"

const StaffCreatedTopic = "hotel.staff.created.v1"

type StaffCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	StaffID    string    `json:"staff_id"`
	PropertyID string    `json:"property_id"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
