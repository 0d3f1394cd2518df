package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionScheduled = "SCHEDULED"
	SessionCompleted = "COMPLETED"
	SessionCancelled = "CANCELLED"
	SessionNoShow    = "NO_SHOW"
)

type ScheduledSession struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"client_id"`
	Client          *ClientProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	TrainerID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"trainer_id"`
	Trainer         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	SessionName     string         `gorm:"not null;column:session_name" json:"session_name"`
	SessionType     string         `gorm:"not null;column:session_type" json:"session_type"`
	StartAt         time.Time      `gorm:"index;not null;column:start_at" json:"start_at"`
	EndAt           *time.Time     `gorm:"column:end_at" json:"end_at,omitempty"`
	Status          string         `gorm:"not null;default:'SCHEDULED';index;column:status" json:"status"`
	AutoRecommended bool           `gorm:"not null;default:false;column:auto_recommended" json:"auto_recommended"`
	CompletedAt     *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Notes           *string        `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ScheduledSession) TableName() string { return "scheduled_session" }
