package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Weekday tags accepted in training day lists.
const (
	Monday    = "MONDAY"
	Tuesday   = "TUESDAY"
	Wednesday = "WEDNESDAY"
	Thursday  = "THURSDAY"
	Friday    = "FRIDAY"
	Saturday  = "SATURDAY"
	Sunday    = "SUNDAY"
)

// ClientProgram binds exactly one program to one client. client_id is unique:
// a client has at most one active assignment.
type ClientProgram struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID     uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"client_id"`
	Client       *ClientProfile  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	ProgramID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"program_id"`
	Program      *WorkoutProgram `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	StartDate    time.Time       `gorm:"not null;column:start_date" json:"start_date"`
	TrainingDays datatypes.JSON  `gorm:"type:jsonb;column:training_days" json:"training_days"`
	IsCustomized bool            `gorm:"not null;default:false;column:is_customized" json:"is_customized"`
	CreatedAt    time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (ClientProgram) TableName() string { return "client_program" }

func (cp *ClientProgram) TrainingDaysList() []string {
	var days []string
	if len(cp.TrainingDays) == 0 {
		return days
	}
	if err := json.Unmarshal(cp.TrainingDays, &days); err != nil {
		return nil
	}
	return days
}

func (cp *ClientProgram) SetTrainingDays(days []string) error {
	raw, err := json.Marshal(days)
	if err != nil {
		return err
	}
	cp.TrainingDays = datatypes.JSON(raw)
	return nil
}
