package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkoutProgram struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TrainerID       *uuid.UUID        `gorm:"type:uuid;index" json:"trainer_id,omitempty"`
	Trainer         *User             `gorm:"constraint:OnDelete:SET NULL;foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	Name            string            `gorm:"not null;column:name" json:"name"`
	Description     string            `gorm:"column:description" json:"description"`
	SessionsPerWeek int               `gorm:"not null;column:sessions_per_week" json:"sessions_per_week"`
	DurationWeeks   *int              `gorm:"column:duration_weeks" json:"duration_weeks,omitempty"`
	IsDefault       bool              `gorm:"not null;default:false;column:is_default" json:"is_default"`
	Sessions        []*ProgramSession `gorm:"foreignKey:ProgramID;references:ID" json:"sessions,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkoutProgram) TableName() string { return "workout_program" }

type ProgramSession struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProgramID uuid.UUID       `gorm:"type:uuid;index;not null" json:"program_id"`
	Program   *WorkoutProgram `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	DayNumber int             `gorm:"not null;column:day_number" json:"day_number"`
	Name      string          `gorm:"not null;column:name" json:"name"`
	Focus     string          `gorm:"not null;column:focus" json:"focus"`
	Notes     string          `gorm:"column:notes" json:"notes"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProgramSession) TableName() string { return "program_session" }
