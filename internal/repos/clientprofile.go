package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type ClientProfileFilter struct {
	Search string
	Status string
	Offset int
	Limit  int
}

type ClientProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClientProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ClientProfile, error)
	ListByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID, filter ClientProfileFilter) ([]*types.ClientProfile, int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type clientProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientProfileRepo(db *gorm.DB, baseLog *logger.Logger) ClientProfileRepo {
	repoLog := baseLog.With("repo", "ClientProfileRepo")
	return &clientProfileRepo{db: db, log: repoLog}
}

func (r *clientProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.ClientProfile) ([]*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(profiles) == 0 {
		return []*types.ClientProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *clientProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClientProfile
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *clientProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ClientProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ClientProfile
	if userID == uuid.Nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *clientProfileRepo) ListByTrainer(ctx context.Context, tx *gorm.DB, trainerID uuid.UUID, filter ClientProfileFilter) ([]*types.ClientProfile, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.ClientProfile{}).
		Where("trainer_id = ?", trainerID)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var results []*types.ClientProfile
	if err := query.
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *clientProfileRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ClientProfile{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}

func (r *clientProfileRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.ClientProfile{}).Error; err != nil {
		return err
	}
	return nil
}
