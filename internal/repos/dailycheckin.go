package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type DailyCheckinRepo interface {
	// Upsert keys on the unique (client_id, date) pair so a client can revise
	// the same day's check-in.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyCheckin) error
	ListForClientBetween(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*types.DailyCheckin, error)
	ListByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, limit int) ([]*types.DailyCheckin, error)
}

type dailyCheckinRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyCheckinRepo(db *gorm.DB, baseLog *logger.Logger) DailyCheckinRepo {
	repoLog := baseLog.With("repo", "DailyCheckinRepo")
	return &dailyCheckinRepo{db: db, log: repoLog}
}

func (r *dailyCheckinRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.DailyCheckin) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND date = ?", row.ClientID, row.Date).
		Assign(map[string]interface{}{
			"nutrition_score":  row.NutritionScore,
			"pain_at_training": row.PainAtTraining,
			"note":             row.Note,
		}).
		FirstOrCreate(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *dailyCheckinRepo) ListForClientBetween(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, from, to time.Time) ([]*types.DailyCheckin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyCheckin
	if clientID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ? AND date >= ? AND date <= ?", clientID, from, to).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *dailyCheckinRepo) ListByClientID(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, limit int) ([]*types.DailyCheckin, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyCheckin
	if clientID == uuid.Nil {
		return results, nil
	}

	if limit <= 0 {
		limit = 30
	}

	if err := transaction.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
