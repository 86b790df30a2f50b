package events

import "time"

const ApprovalRequestSubmittedTopic = "hotel.approval.request.submitted.v1"

type ApprovalRequestSubmittedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id"`
	ApprovalRequestID string    `json:"approval_request_id"`
	RequestNumber     string    `json:"request_number"`
	PropertyID        string    `json:"property_id"`
	EntityType        string    `json:"entity_type"`
	EntityID          string    `json:"entity_id"`
	RequesterID       string    `json:"requester_id"`
	AssigneeID        string    `json:"assignee_id,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
