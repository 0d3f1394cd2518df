package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type ScheduledSessionFilter struct {
	ClientID  uuid.UUID
	TrainerID uuid.UUID
	Status    string
	StartFrom *time.Time
	StartTo   *time.Time
	OrderBy   string
	Offset    int
	Limit     int
}

type ScheduledSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledSession) ([]*types.ScheduledSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScheduledSession, error)
	List(ctx context.Context, tx *gorm.DB, filter ScheduledSessionFilter) ([]*types.ScheduledSession, int64, error)
	// ListScheduledForDay returns the client's SCHEDULED sessions inside
	// [dayStart, dayEnd], ordered by start time.
	ListScheduledForDay(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.ScheduledSession, error)
	ListForClientBetween(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*types.ScheduledSession, error)
	CountScheduled(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	// FullDeleteFutureScheduled removes SCHEDULED (never completed/cancelled)
	// rows starting at or after from, for calendar regeneration.
	FullDeleteFutureScheduled(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from time.Time) error
}

type scheduledSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduledSessionRepo(db *gorm.DB, baseLog *logger.Logger) ScheduledSessionRepo {
	repoLog := baseLog.With("repo", "ScheduledSessionRepo")
	return &scheduledSessionRepo{db: db, log: repoLog}
}

func (r *scheduledSessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledSession) ([]*types.ScheduledSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ScheduledSession{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduledSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScheduledSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduledSession
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Client").
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduledSessionRepo) List(ctx context.Context, tx *gorm.DB, filter ScheduledSessionFilter) ([]*types.ScheduledSession, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	query := transaction.WithContext(ctx).Model(&types.ScheduledSession{})
	if filter.ClientID != uuid.Nil {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.TrainerID != uuid.Nil {
		query = query.Where("trainer_id = ?", filter.TrainerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartFrom != nil {
		query = query.Where("start_at >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("start_at <= ?", *filter.StartTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "start_at ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var results []*types.ScheduledSession
	if err := query.
		Preload("Client").
		Order(orderBy).
		Offset(filter.Offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *scheduledSessionRepo) ListScheduledForDay(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, dayStart, dayEnd time.Time) ([]*types.ScheduledSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduledSession
	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND status = ? AND start_at >= ? AND start_at <= ?",
			clientID, types.SessionScheduled, dayStart, dayEnd).
		Order("start_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduledSessionRepo) ListForClientBetween(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*types.ScheduledSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduledSession
	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND start_at >= ? AND start_at <= ?", clientID, from, to).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduledSessionRepo) CountScheduled(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ScheduledSession{}).
		Where("client_id = ? AND status = ?", clientID, types.SessionScheduled).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *scheduledSessionRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(fields) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ScheduledSession{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return err
	}
	return nil
}

func (r *scheduledSessionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.ScheduledSession{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *scheduledSessionRepo) FullDeleteFutureScheduled(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("client_id = ? AND status = ? AND start_at >= ?", clientID, types.SessionScheduled, from).
		Delete(&types.ScheduledSession{}).Error; err != nil {
		return err
	}
	return nil
}
