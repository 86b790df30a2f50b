package approval

import (
	"time"

	"github.com/google/uuid"
)

// Request statuses. A request is in-flight until it reaches one of the
// terminal statuses; current_assignee_id is non-null only while in-flight.
const (
	StatusDraft             = "draft"
	StatusPendingSupervisor = "pending_supervisor_approval"
	StatusPendingHR         = "pending_hr_review"
	StatusApproved          = "approved"
	StatusRejected          = "rejected"
	StatusReturned          = "returned_for_correction"
	StatusClosed            = "closed"
)

// Step statuses. At most one step per request is pending at any time.
const (
	StepPending  = "pending"
	StepWaiting  = "waiting"
	StepApproved = "approved"
	StepRejected = "rejected"
	StepReturned = "returned"
)

// IsTerminalStatus reports whether a request accepts no further actions.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusClosed:
		return true
	default:
		return false
	}
}

type Request struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PropertyID    uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_requests_entity"`
	RequestNumber string    `gorm:"type:varchar(20);not null"`

	EntityType string    `gorm:"type:varchar(40);not null;index:idx_approval_requests_entity"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_requests_entity"`

	RequesterID       uuid.UUID  `gorm:"type:uuid;not null"`
	SupervisorID      *uuid.UUID `gorm:"type:uuid"`
	CurrentAssigneeID *uuid.UUID `gorm:"type:uuid;index:idx_approval_requests_assignee"`

	Status   string `gorm:"type:varchar(40);not null;default:'draft';index:idx_approval_requests_status"`
	Metadata []byte `gorm:"type:jsonb"`

	SubmittedAt time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Request) TableName() string {
	return "approval_requests"
}

type Step struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index:idx_approval_steps_request,unique,composite:step_order"`
	StepOrder int       `gorm:"not null;index:idx_approval_steps_request,unique,composite:step_order"`

	AssigneeID   *uuid.UUID `gorm:"type:uuid"`
	AssigneeRole string     `gorm:"type:varchar(40);not null"`

	Status  string  `gorm:"type:varchar(20);not null;default:'waiting'"`
	Comment *string `gorm:"type:text"`
	ActedAt *time.Time

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Step) TableName() string {
	return "approval_steps"
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Comment) TableName() string {
	return "approval_comments"
}
