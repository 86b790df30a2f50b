package events

import "time"

const ApprovalRequestActionedTopic = "hotel.approval.request.actioned.v1"

type ApprovalRequestActionedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id"`
	ApprovalRequestID string    `json:"approval_request_id"`
	RequestNumber     string    `json:"request_number"`
	PropertyID        string    `json:"property_id"`
	Action            string    `json:"action"`
	ActorID           string    `json:"actor_id"`
	RequesterID       string    `json:"requester_id"`
	NewStatus         string    `json:"new_status"`
	NextAssigneeID    string    `json:"next_assignee_id,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
