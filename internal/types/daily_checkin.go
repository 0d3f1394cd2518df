package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyCheckin is a client-submitted record of nutrition adherence (0-10)
// and whether training caused pain that day.
type DailyCheckin struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID       uuid.UUID      `gorm:"type:uuid;index:idx_client_checkin_date,unique;not null" json:"client_id"`
	Client         *ClientProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	Date           time.Time      `gorm:"index:idx_client_checkin_date,unique;not null;column:date" json:"date"`
	NutritionScore int            `gorm:"not null;column:nutrition_score" json:"nutrition_score"`
	PainAtTraining bool           `gorm:"not null;default:false;column:pain_at_training" json:"pain_at_training"`
	Note           *string        `gorm:"column:note" json:"note,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyCheckin) TableName() string { return "daily_checkin" }
