package staff

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Staff struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID   uuid.UUID  `gorm:"type:uuid;index"`
	SupervisorID *uuid.UUID `gorm:"type:uuid"`
	StaffNumber  string
	FullName     string
	Email        string `gorm:"uniqueIndex"`
	Role         string `gorm:"type:varchar(40);index"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Staff) TableName() string {
	return "staff"
}
