package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the approval pipeline.
const (
	TypeApprovalAssigned = "approval_assigned"
	TypeApprovalOutcome  = "approval_outcome"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PropertyID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_recipient"`
	Type        string     `gorm:"type:varchar(40);not null"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Body        string     `gorm:"type:text"`
	RequestID   *uuid.UUID `gorm:"type:uuid;index"`
	ReadAt      *time.Time
	CreatedAt   time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
