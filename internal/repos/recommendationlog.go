package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type RecommendationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.RecommendationLog) ([]*types.RecommendationLog, error)
	// GetLatestPending returns the client's most recent entry still awaiting
	// trainer feedback (trainer_accepted IS NULL), or nil.
	GetLatestPending(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.RecommendationLog, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	ListByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, limit int) ([]*types.RecommendationLog, error)
}

type recommendationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationLogRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationLogRepo {
	repoLog := baseLog.With("repo", "RecommendationLogRepo")
	return &recommendationLogRepo{db: db, log: repoLog}
}

func (r *recommendationLogRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.RecommendationLog) ([]*types.RecommendationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.RecommendationLog{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recommendationLogRepo) GetLatestPending(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.RecommendationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if clientID == uuid.Nil {
		return nil, nil
	}

	var results []*types.RecommendationLog
	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND trainer_accepted IS NULL", clientID).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *recommendationLogRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.RecommendationLog{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}

func (r *recommendationLogRepo) ListByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, limit int) ([]*types.RecommendationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.RecommendationLog
	if clientID == uuid.Nil {
		return results, nil
	}

	if limit <= 0 {
		limit = 20
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
