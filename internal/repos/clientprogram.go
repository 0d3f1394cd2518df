package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type ClientProgramRepo interface {
	GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.ClientProgram, error)
	// Upsert replaces the client's active assignment by the unique client_id.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ClientProgram) error
	UpdateTrainingDays(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, trainingDays []byte, isCustomized bool) error
	FullDeleteByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error
}

type clientProgramRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientProgramRepo(db *gorm.DB, baseLog *logger.Logger) ClientProgramRepo {
	repoLog := baseLog.With("repo", "ClientProgramRepo")
	return &clientProgramRepo{db: db, log: repoLog}
}

func (r *clientProgramRepo) GetByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.ClientProgram, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if clientID == uuid.Nil {
		return nil, nil
	}

	var results []*types.ClientProgram
	if err := transaction.WithContext(ctx).
		Preload("Program.Sessions", sessionsInDayOrder).
		Where("client_id = ?", clientID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *clientProgramRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ClientProgram) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ?", row.ClientID).
		Assign(map[string]interface{}{
			"program_id":    row.ProgramID,
			"start_date":    row.StartDate,
			"training_days": row.TrainingDays,
			"is_customized": row.IsCustomized,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *clientProgramRepo) UpdateTrainingDays(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, trainingDays []byte, isCustomized bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ClientProgram{}).
		Where("client_id = ?", clientID).
		Updates(map[string]interface{}{
			"training_days": trainingDays,
			"is_customized": isCustomized,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *clientProgramRepo) FullDeleteByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if clientID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("client_id = ?", clientID).
		Delete(&types.ClientProgram{}).Error; err != nil {
		return err
	}
	return nil
}
