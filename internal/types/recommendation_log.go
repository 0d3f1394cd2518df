package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecommendationLog is the audit record written for the top-ranked candidate
// of each recommendation run. trainer_accepted stays NULL until the trainer
// assigns any program to the client, then is set exactly once.
type RecommendationLog struct {
	ID                       uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID                 uuid.UUID       `gorm:"type:uuid;index;not null" json:"client_id"`
	Client                   *ClientProfile  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	RecommendedProgramID     uuid.UUID       `gorm:"type:uuid;not null" json:"recommended_program_id"`
	RecommendedProgram       *WorkoutProgram `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecommendedProgramID;references:ID" json:"recommended_program,omitempty"`
	Score                    float64         `gorm:"not null;column:score" json:"score"`
	Confidence               string          `gorm:"not null;column:confidence" json:"confidence"`
	Reasons                  datatypes.JSON  `gorm:"type:jsonb;column:reasons" json:"reasons"`
	Warnings                 datatypes.JSON  `gorm:"type:jsonb;column:warnings" json:"warnings"`
	ClientStats              datatypes.JSON  `gorm:"type:jsonb;column:client_stats" json:"client_stats"`
	TrainerAccepted          *bool           `gorm:"column:trainer_accepted" json:"trainer_accepted,omitempty"`
	TrainerSelectedProgramID *uuid.UUID      `gorm:"type:uuid;column:trainer_selected_program_id" json:"trainer_selected_program_id,omitempty"`
	TrainerFeedback          *string         `gorm:"column:trainer_feedback" json:"trainer_feedback,omitempty"`
	ActionTakenAt            *time.Time      `gorm:"column:action_taken_at" json:"action_taken_at,omitempty"`
	CreatedAt                time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt                time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (RecommendationLog) TableName() string { return "recommendation_log" }
