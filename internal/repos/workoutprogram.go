package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type WorkoutProgramRepo interface {
	Create(ctx context.Context, tx *gorm.DB, programs []*types.WorkoutProgram) ([]*types.WorkoutProgram, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WorkoutProgram, error)
	// ListVisibleToTrainer returns global defaults plus the trainer's own
	// programs, sessions preloaded in day order.
	ListVisibleToTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.WorkoutProgram, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	ReplaceSessions(ctx context.Context, tx *gorm.DB, programID uuid.UUID, sessions []*types.ProgramSession) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type workoutProgramRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkoutProgramRepo(db *gorm.DB, baseLog *logger.Logger) WorkoutProgramRepo {
	repoLog := baseLog.With("repo", "WorkoutProgramRepo")
	return &workoutProgramRepo{db: db, log: repoLog}
}

func sessionsInDayOrder(db *gorm.DB) *gorm.DB {
	return db.Order("program_session.day_number ASC")
}

func (r *workoutProgramRepo) Create(ctx context.Context, tx *gorm.DB, programs []*types.WorkoutProgram) ([]*types.WorkoutProgram, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(programs) == 0 {
		return []*types.WorkoutProgram{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *workoutProgramRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.WorkoutProgram, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkoutProgram
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Sessions", sessionsInDayOrder).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workoutProgramRepo) ListVisibleToTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID) ([]*types.WorkoutProgram, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkoutProgram
	if err := transaction.WithContext(ctx).
		Preload("Sessions", sessionsInDayOrder).
		Where("is_default = TRUE OR trainer_id = ?", trainerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *workoutProgramRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.WorkoutProgram{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}

func (r *workoutProgramRepo) ReplaceSessions(ctx context.Context, tx *gorm.DB, programID uuid.UUID, sessions []*types.ProgramSession) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("program_id = ?", programID).
		Delete(&types.ProgramSession{}).Error; err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}
	for _, session := range sessions {
		session.ProgramID = programID
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return err
	}
	return nil
}

func (r *workoutProgramRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.WorkoutProgram{}).Error; err != nil {
		return err
	}
	return nil
}
