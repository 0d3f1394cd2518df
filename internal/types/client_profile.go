package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ClientStatusActive   = "ACTIVE"
	ClientStatusPaused   = "PAUSED"
	ClientStatusArchived = "ARCHIVED"
)

type ClientProfile struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User                *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TrainerID           uuid.UUID      `gorm:"type:uuid;index;not null" json:"trainer_id"`
	Trainer             *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrainerID;references:ID" json:"trainer,omitempty"`
	FirstName           string         `gorm:"not null;column:first_name" json:"first_name"`
	LastName            string         `gorm:"not null;column:last_name" json:"last_name"`
	Timezone            string         `gorm:"not null;default:'UTC';column:timezone" json:"timezone"`
	Age                 *int           `gorm:"column:age" json:"age,omitempty"`
	Height              *float64       `gorm:"column:height" json:"height,omitempty"`
	Weight              *float64       `gorm:"column:weight" json:"weight,omitempty"`
	GoalDescription     string         `gorm:"column:goal_description" json:"goal_description"`
	Status              string         `gorm:"not null;default:'ACTIVE';column:status" json:"status"`
	OnboardingCompleted bool           `gorm:"not null;default:false;column:onboarding_completed" json:"onboarding_completed"`
	CreatedAt           time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ClientProfile) TableName() string { return "client_profile" }
